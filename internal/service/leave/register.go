package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/leave-dashboard-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/pkg/validator"
)

// ResolveEmployeeID looks up the identifier for name in the usage table.
// An unknown name resolves to "" and is not an error.
func ResolveEmployeeID(table leave.UsageTable, name string, policy leave.ResolutionPolicy) (string, error) {
	var (
		id    string
		found int
	)
	for _, record := range table.Records {
		if record.EmployeeName != name {
			continue
		}
		found++
		if found == 1 {
			id = record.EmployeeID
			if policy != leave.ResolveUniqueMatch {
				return id, nil
			}
		}
	}
	if found > 1 {
		return "", leave.ErrAmbiguousEmployee
	}
	return id, nil
}

// Register implements leave.LeaveService.
func (l *LeaveServiceImpl) Register(ctx context.Context, req leave.RegisterRequest) (result leave.RegisterResult, err error) {
	defer func() {
		l.metrics.ObserveRegistration(registrationOutcome(err))
	}()

	if err := req.Validate(l.leaveTypes); err != nil {
		return leave.RegisterResult{}, err
	}

	leaveDate := l.today()
	if !validator.IsEmpty(req.LeaveDate) {
		leaveDate, _ = validator.IsValidDate(req.LeaveDate)
	}

	usage, err := l.loadUsage(ctx)
	if err != nil {
		return leave.RegisterResult{}, err
	}

	employeeID, err := ResolveEmployeeID(usage, req.EmployeeName, l.policy)
	if err != nil {
		slog.Warn("Employee name is ambiguous", "employee_name", req.EmployeeName, "policy", string(l.policy))
		return leave.RegisterResult{}, err
	}
	if employeeID == "" {
		slog.Warn("Employee not found in usage table, registering without id", "employee_name", req.EmployeeName)
	}

	row := leave.AppendRow{
		EmployeeID:   employeeID,
		EmployeeName: req.EmployeeName,
		Position:     req.Position,
		LeaveDate:    leaveDate,
		LeaveType:    req.LeaveType,
	}

	if err := l.LogRepository.Append(ctx, row); err != nil {
		slog.Error("Failed to append leave log row", "employee_name", req.EmployeeName, "error", err)
		return leave.RegisterResult{}, fmt.Errorf("%w: %w", leave.ErrAppendFailed, err)
	}

	slog.Info("Registered leave", "employee_id", employeeID, "employee_name", req.EmployeeName, "leave_date", validator.FormatDate(leaveDate), "leave_type", req.LeaveType)

	return leave.RegisterResult{
		Row: leave.RegisteredRow{
			EmployeeID:   row.EmployeeID,
			EmployeeName: row.EmployeeName,
			Position:     row.Position,
			LeaveDate:    validator.FormatDate(row.LeaveDate),
			LeaveType:    row.LeaveType,
		},
		Message: fmt.Sprintf("%s's leave has been registered.", req.EmployeeName),
	}, nil
}

func registrationOutcome(err error) string {
	var validationErrs validator.ValidationErrors
	switch {
	case err == nil:
		return metrics.OutcomeRegistered
	case errors.As(err, &validationErrs):
		return metrics.OutcomeInvalid
	case errors.Is(err, leave.ErrAmbiguousEmployee):
		return metrics.OutcomeAmbiguous
	case errors.Is(err, leave.ErrAppendFailed):
		return metrics.OutcomeAppendFail
	default:
		return metrics.OutcomeStoreError
	}
}
