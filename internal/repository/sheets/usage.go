package sheets

import (
	"context"

	"github.com/cmlabs-hris/leave-dashboard-go/internal/domain/leave"
)

type usageRepositoryImpl struct {
	workbook *Workbook
}

// LoadUsage implements leave.UsageRepository.
func (r *usageRepositoryImpl) LoadUsage(ctx context.Context) (leave.UsageTable, error) {
	values, err := r.workbook.readRange(ctx, r.workbook.usageSheet)
	if err != nil {
		return leave.UsageTable{}, err
	}
	return mapUsageRows(r.workbook.usageSheet, values, r.workbook.columns)
}

func NewUsageRepository(workbook *Workbook) leave.UsageRepository {
	return &usageRepositoryImpl{workbook: workbook}
}
