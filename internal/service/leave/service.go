package leave

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/cmlabs-hris/leave-dashboard-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/pkg/validator"
)

type LeaveServiceImpl struct {
	leave.UsageRepository
	leave.LogRepository
	leaveTypes []string
	policy     leave.ResolutionPolicy
	location   *time.Location
	now        func() time.Time
	metrics    *metrics.LeaveMetrics
}

// Options configures the parts of the service that come from config.
type Options struct {
	LeaveTypes []string
	Policy     leave.ResolutionPolicy
	Location   *time.Location
	// Now overrides the clock used for the default leave date.
	Now     func() time.Time
	Metrics *metrics.LeaveMetrics
}

func NewLeaveService(usageRepository leave.UsageRepository, logRepository leave.LogRepository, opts Options) leave.LeaveService {
	leaveTypes := opts.LeaveTypes
	if len(leaveTypes) == 0 {
		leaveTypes = leave.DefaultLeaveTypes
	}
	policy := opts.Policy
	if !policy.IsValid() {
		policy = leave.ResolveFirstMatch
	}
	location := opts.Location
	if location == nil {
		location = time.Local
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &LeaveServiceImpl{
		UsageRepository: usageRepository,
		LogRepository:   logRepository,
		leaveTypes:      slices.Clone(leaveTypes),
		policy:          policy,
		location:        location,
		now:             now,
		metrics:         opts.Metrics,
	}
}

// ListUsage implements leave.LeaveService.
func (l *LeaveServiceImpl) ListUsage(ctx context.Context, filter leave.UsageFilter) (leave.UsageView, error) {
	usage, err := l.loadUsage(ctx)
	if err != nil {
		return leave.UsageView{}, err
	}
	return FilterUsage(usage, filter), nil
}

// ListLogs implements leave.LeaveService.
func (l *LeaveServiceImpl) ListLogs(ctx context.Context, filter leave.LogFilter) (leave.LogView, error) {
	if err := filter.Validate(); err != nil {
		return leave.LogView{}, err
	}
	logs, err := l.loadLogs(ctx)
	if err != nil {
		return leave.LogView{}, err
	}
	return FilterLogs(logs, filter)
}

// LeaveTypes implements leave.LeaveService.
func (l *LeaveServiceImpl) LeaveTypes() []string {
	return slices.Clone(l.leaveTypes)
}

// Dashboard implements leave.LeaveService. Both tables are loaded once and
// serve every view of the cycle.
func (l *LeaveServiceImpl) Dashboard(ctx context.Context, query leave.DashboardQuery) (leave.DashboardView, error) {
	if err := query.Logs.Validate(); err != nil {
		return leave.DashboardView{}, err
	}

	usage, err := l.loadUsage(ctx)
	if err != nil {
		return leave.DashboardView{}, err
	}
	logs, err := l.loadLogs(ctx)
	if err != nil {
		return leave.DashboardView{}, err
	}

	logView, err := FilterLogs(logs, query.Logs)
	if err != nil {
		return leave.DashboardView{}, err
	}

	usageOptions := UsageOptions(usage)
	return leave.DashboardView{
		Usage: FilterUsage(usage, query.Usage),
		Form: leave.FormOptions{
			Names:       usageOptions.Names,
			Positions:   usageOptions.Positions,
			LeaveTypes:  l.LeaveTypes(),
			DefaultDate: validator.FormatDate(l.today()),
		},
		Logs: logView,
	}, nil
}

// today is the current calendar day in the configured time zone.
func (l *LeaveServiceImpl) today() time.Time {
	return validator.TruncateDate(l.now().In(l.location))
}

func (l *LeaveServiceImpl) loadUsage(ctx context.Context) (leave.UsageTable, error) {
	started := time.Now()
	usage, err := l.UsageRepository.LoadUsage(ctx)
	l.metrics.ObserveLoad(metrics.TableUsage, started, err)
	if err != nil {
		return leave.UsageTable{}, fmt.Errorf("%w: failed to load usage table: %w", leave.ErrStoreUnavailable, err)
	}
	return usage, nil
}

func (l *LeaveServiceImpl) loadLogs(ctx context.Context) (leave.LogTable, error) {
	started := time.Now()
	logs, err := l.LogRepository.LoadLogs(ctx)
	l.metrics.ObserveLoad(metrics.TableLogs, started, err)
	if err != nil {
		return leave.LogTable{}, fmt.Errorf("%w: failed to load leave logs: %w", leave.ErrStoreUnavailable, err)
	}
	return logs, nil
}
