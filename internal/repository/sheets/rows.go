package sheets

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/leave-dashboard-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/pkg/validator"
)

// header maps column names to their position in the first row.
type header struct {
	names []string
	index map[string]int
}

func newHeader(row []interface{}) header {
	h := header{index: make(map[string]int, len(row))}
	for i, cell := range row {
		name := strings.TrimSpace(cellString(cell))
		h.names = append(h.names, name)
		if _, ok := h.index[name]; !ok && name != "" {
			h.index[name] = i
		}
	}
	return h
}

func (h header) require(worksheet string, columns ...string) error {
	for _, column := range columns {
		if _, ok := h.index[column]; !ok {
			return fmt.Errorf("%w: %q in worksheet %q", leave.ErrMissingColumn, column, worksheet)
		}
	}
	return nil
}

func (h header) get(row []interface{}, column string) string {
	i, ok := h.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(cellString(row[i]))
}

// getDate reads a date cell. Serial day numbers from an unformatted read
// become YYYY-MM-DD; text is returned as typed.
func (h header) getDate(row []interface{}, column string) string {
	i, ok := h.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	if serial, ok := row[i].(float64); ok {
		return validator.FormatDate(validator.SerialDate(serial))
	}
	return strings.TrimSpace(cellString(row[i]))
}

// cellString renders a cell the way it reads in the sheet; whole numbers
// lose their fractional part so numeric ids stay "1001", not "1001.0".
func cellString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func isBlank(row []interface{}) bool {
	for _, cell := range row {
		if strings.TrimSpace(cellString(cell)) != "" {
			return false
		}
	}
	return true
}

// mapUsageRows converts worksheet values into the usage table. Rows without
// a name or position are skipped and logged.
func mapUsageRows(worksheet string, values [][]interface{}, columns Columns) (leave.UsageTable, error) {
	table := leave.UsageTable{Columns: []string{}, Records: []leave.UsageRecord{}}
	if len(values) == 0 {
		return table, fmt.Errorf("%w: worksheet %q has no header row", leave.ErrMissingColumn, worksheet)
	}

	h := newHeader(values[0])
	if err := h.require(worksheet, columns.EmployeeID, columns.EmployeeName, columns.Position); err != nil {
		return table, err
	}

	known := map[string]bool{
		columns.EmployeeID:   true,
		columns.EmployeeName: true,
		columns.Position:     true,
	}
	var rateIndexes []int
	for i, name := range h.names {
		if name == "" || known[name] || h.index[name] != i {
			continue
		}
		table.Columns = append(table.Columns, name)
		rateIndexes = append(rateIndexes, i)
	}

	for i, row := range values[1:] {
		if isBlank(row) {
			continue
		}
		record := leave.UsageRecord{
			EmployeeID:   h.get(row, columns.EmployeeID),
			EmployeeName: h.get(row, columns.EmployeeName),
			Position:     h.get(row, columns.Position),
			Rates:        make([]leave.Cell, 0, len(rateIndexes)),
		}
		if record.EmployeeName == "" || record.Position == "" {
			slog.Warn("Skipping usage row with missing fields", "worksheet", worksheet, "row", i+2)
			continue
		}
		for _, idx := range rateIndexes {
			value := ""
			if idx < len(row) {
				value = cellString(row[idx])
			}
			record.Rates = append(record.Rates, leave.Cell{Column: h.names[idx], Value: value})
		}
		table.Records = append(table.Records, record)
	}

	return table, nil
}

// mapLogRows converts worksheet values into the log table. Rows without a
// name, position or leave type are skipped and logged; an unparseable date
// is kept as a nil LeaveDate.
func mapLogRows(worksheet string, values [][]interface{}, columns Columns) (leave.LogTable, error) {
	table := leave.LogTable{Records: []leave.LogRecord{}}
	if len(values) == 0 {
		return table, fmt.Errorf("%w: worksheet %q has no header row", leave.ErrMissingColumn, worksheet)
	}

	h := newHeader(values[0])
	if err := h.require(worksheet, columns.EmployeeID, columns.EmployeeName, columns.Position, columns.LeaveDate, columns.LeaveType); err != nil {
		return table, err
	}

	for i, row := range values[1:] {
		if isBlank(row) {
			continue
		}
		record := leave.NewLogRecord(
			h.get(row, columns.EmployeeID),
			h.get(row, columns.EmployeeName),
			h.get(row, columns.Position),
			h.getDate(row, columns.LeaveDate),
			h.get(row, columns.LeaveType),
		)
		if record.EmployeeName == "" || record.Position == "" || record.LeaveType == "" {
			slog.Warn("Skipping leave log row with missing fields", "worksheet", worksheet, "row", i+2)
			continue
		}
		if record.LeaveDate == nil {
			slog.Debug("Leave log row has an unparseable date", "worksheet", worksheet, "row", i+2, "value", record.RawDate)
		}
		table.Records = append(table.Records, record)
	}

	return table, nil
}
