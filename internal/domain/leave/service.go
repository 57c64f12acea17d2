package leave

import (
	"context"
)

type LeaveService interface {
	// Usage
	ListUsage(ctx context.Context, filter UsageFilter) (UsageView, error)
	// Log
	ListLogs(ctx context.Context, filter LogFilter) (LogView, error)
	Register(ctx context.Context, req RegisterRequest) (RegisterResult, error)
	LeaveTypes() []string
	// Snapshot
	Dashboard(ctx context.Context, query DashboardQuery) (DashboardView, error)
}
