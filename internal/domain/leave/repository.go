package leave

import (
	"context"
)

// UsageRepository reads the usage-rate table.
type UsageRepository interface {
	LoadUsage(ctx context.Context) (UsageTable, error)
}

// LogRepository reads the leave log and appends single rows to it.
type LogRepository interface {
	LoadLogs(ctx context.Context) (LogTable, error)
	Append(ctx context.Context, row AppendRow) error
}
