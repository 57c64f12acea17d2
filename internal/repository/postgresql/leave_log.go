package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-dashboard-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/pkg/database"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type leaveLogRepositoryImpl struct {
	db database.Querier
}

// LoadLogs implements leave.LogRepository. Rows come back in insertion order.
func (r *leaveLogRepositoryImpl) LoadLogs(ctx context.Context) (leave.LogTable, error) {
	query := `
		SELECT employee_id, employee_name, position, leave_date, leave_type
		FROM leave_logs
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return leave.LogTable{}, fmt.Errorf("failed to query leave logs: %w", err)
	}
	defer rows.Close()

	table := leave.LogTable{Records: []leave.LogRecord{}}
	for rows.Next() {
		var (
			record    leave.LogRecord
			leaveDate time.Time
		)
		if err := rows.Scan(
			&record.EmployeeID,
			&record.EmployeeName,
			&record.Position,
			&leaveDate,
			&record.LeaveType,
		); err != nil {
			return leave.LogTable{}, fmt.Errorf("failed to scan leave log: %w", err)
		}
		record.LeaveDate = &leaveDate
		record.RawDate = validator.FormatDate(leaveDate)
		table.Records = append(table.Records, record)
	}
	if err := rows.Err(); err != nil {
		return leave.LogTable{}, fmt.Errorf("failed to read leave logs: %w", err)
	}

	return table, nil
}

// Append implements leave.LogRepository.
func (r *leaveLogRepositoryImpl) Append(ctx context.Context, row leave.AppendRow) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate leave log id: %w", err)
	}

	query := `
		INSERT INTO leave_logs (id, employee_id, employee_name, position, leave_date, leave_type)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.db.Exec(ctx, query,
		id,
		row.EmployeeID,
		row.EmployeeName,
		row.Position,
		row.LeaveDate,
		row.LeaveType,
	)
	if err != nil {
		return fmt.Errorf("failed to insert leave log: %w", err)
	}
	return nil
}

func NewLeaveLogRepository(db database.Querier) leave.LogRepository {
	return &leaveLogRepositoryImpl{db: db}
}
