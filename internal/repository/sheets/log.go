package sheets

import (
	"context"

	"github.com/cmlabs-hris/leave-dashboard-go/internal/domain/leave"
)

type logRepositoryImpl struct {
	workbook *Workbook
}

// LoadLogs implements leave.LogRepository.
func (r *logRepositoryImpl) LoadLogs(ctx context.Context) (leave.LogTable, error) {
	values, err := r.workbook.readRawRange(ctx, r.workbook.logSheet)
	if err != nil {
		return leave.LogTable{}, err
	}
	return mapLogRows(r.workbook.logSheet, values, r.workbook.columns)
}

// Append implements leave.LogRepository. The row is written as raw values
// after the last row of the log worksheet.
func (r *logRepositoryImpl) Append(ctx context.Context, row leave.AppendRow) error {
	return r.workbook.appendRow(ctx, r.workbook.logSheet, row.Values())
}

func NewLogRepository(workbook *Workbook) leave.LogRepository {
	return &logRepositoryImpl{workbook: workbook}
}
