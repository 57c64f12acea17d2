package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/leave-dashboard-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/pkg/googleapi"
	sheetsapi "google.golang.org/api/sheets/v4"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

var ErrSpreadsheetNotFound = errors.New("spreadsheet not found")

// Columns names the header cells the store reads and writes.
type Columns struct {
	EmployeeID   string
	EmployeeName string
	Position     string
	LeaveDate    string
	LeaveType    string
}

func DefaultColumns() Columns {
	return Columns{
		EmployeeID:   "employee_id",
		EmployeeName: "employee_name",
		Position:     "position",
		LeaveDate:    "leave_date",
		LeaveType:    "leave_type",
	}
}

type WorkbookConfig struct {
	// SpreadsheetID wins over SpreadsheetName when both are set.
	SpreadsheetID   string
	SpreadsheetName string
	UsageWorksheet  string
	LogWorksheet    string
	Columns         Columns
}

// Workbook is an opened spreadsheet holding the usage and log worksheets.
type Workbook struct {
	values        *sheetsapi.SpreadsheetsValuesService
	spreadsheetID string
	usageSheet    string
	logSheet      string
	columns       Columns
}

// OpenWorkbook resolves the spreadsheet and checks both worksheets exist.
func OpenWorkbook(ctx context.Context, client *googleapi.Client, cfg WorkbookConfig) (*Workbook, error) {
	spreadsheetID := cfg.SpreadsheetID
	if spreadsheetID == "" {
		id, err := findSpreadsheetByName(ctx, client, cfg.SpreadsheetName)
		if err != nil {
			return nil, err
		}
		spreadsheetID = id
	}

	spreadsheet, err := client.Sheets.Spreadsheets.Get(spreadsheetID).
		Fields("spreadsheetId", "properties.title", "sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w", spreadsheetID, err)
	}

	titles := make(map[string]bool, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			titles[sheet.Properties.Title] = true
		}
	}
	for _, name := range []string{cfg.UsageWorksheet, cfg.LogWorksheet} {
		if !titles[name] {
			return nil, fmt.Errorf("%w: %q", leave.ErrWorksheetNotFound, name)
		}
	}

	slog.Info("Opened leave spreadsheet", "spreadsheet_id", spreadsheetID, "usage_worksheet", cfg.UsageWorksheet, "log_worksheet", cfg.LogWorksheet)

	return &Workbook{
		values:        client.Sheets.Spreadsheets.Values,
		spreadsheetID: spreadsheetID,
		usageSheet:    cfg.UsageWorksheet,
		logSheet:      cfg.LogWorksheet,
		columns:       cfg.Columns,
	}, nil
}

func findSpreadsheetByName(ctx context.Context, client *googleapi.Client, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: no spreadsheet id or name configured", ErrSpreadsheetNotFound)
	}

	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeQuery(name), spreadsheetMimeType)
	list, err := client.Drive.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(10).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to search spreadsheet %q: %w", name, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("%w: %q", ErrSpreadsheetNotFound, name)
	}
	if len(list.Files) > 1 {
		slog.Warn("Several spreadsheets share the configured name, using the first", "name", name, "count", len(list.Files))
	}
	return list.Files[0].Id, nil
}

// readRange returns every row of a worksheet as formatted cell values.
func (w *Workbook) readRange(ctx context.Context, worksheet string) ([][]interface{}, error) {
	return w.getValues(ctx, worksheet, w.values.Get(w.spreadsheetID, quoteSheet(worksheet)))
}

// readRawRange returns every row of a worksheet unformatted: numbers as
// float64 and date cells as serial day numbers, whatever the sheet locale.
func (w *Workbook) readRawRange(ctx context.Context, worksheet string) ([][]interface{}, error) {
	call := w.values.Get(w.spreadsheetID, quoteSheet(worksheet)).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER")
	return w.getValues(ctx, worksheet, call)
}

func (w *Workbook) getValues(ctx context.Context, worksheet string, call *sheetsapi.SpreadsheetsValuesGetCall) ([][]interface{}, error) {
	resp, err := call.
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", worksheet, err)
	}
	return resp.Values, nil
}

func (w *Workbook) appendRow(ctx context.Context, worksheet string, cells []string) error {
	row := make([]interface{}, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}
	_, err := w.values.Append(w.spreadsheetID, quoteSheet(worksheet), &sheetsapi.ValueRange{
		MajorDimension: "ROWS",
		Values:         [][]interface{}{row},
	}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append to worksheet %q: %w", worksheet, err)
	}
	return nil
}

// quoteSheet turns a worksheet title into an A1 range covering the sheet.
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func escapeQuery(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, "'", `\'`)
}
