package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/leave-dashboard-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/pkg/database"
)

type leaveUsageRepositoryImpl struct {
	db database.Querier
}

// LoadUsage implements leave.UsageRepository.
func (r *leaveUsageRepositoryImpl) LoadUsage(ctx context.Context) (leave.UsageTable, error) {
	query := `
		SELECT employee_id, employee_name, position, rates
		FROM leave_usage
		ORDER BY row_number ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return leave.UsageTable{}, fmt.Errorf("failed to query leave usage: %w", err)
	}
	defer rows.Close()

	table := leave.UsageTable{Columns: []string{}, Records: []leave.UsageRecord{}}
	seen := make(map[string]bool)
	for rows.Next() {
		var record leave.UsageRecord
		if err := rows.Scan(
			&record.EmployeeID,
			&record.EmployeeName,
			&record.Position,
			&record.Rates,
		); err != nil {
			return leave.UsageTable{}, fmt.Errorf("failed to scan leave usage: %w", err)
		}
		for _, cell := range record.Rates {
			if !seen[cell.Column] {
				seen[cell.Column] = true
				table.Columns = append(table.Columns, cell.Column)
			}
		}
		table.Records = append(table.Records, record)
	}
	if err := rows.Err(); err != nil {
		return leave.UsageTable{}, fmt.Errorf("failed to read leave usage: %w", err)
	}

	return table, nil
}

func NewLeaveUsageRepository(db database.Querier) leave.UsageRepository {
	return &leaveUsageRepositoryImpl{db: db}
}
