package leave

import (
	"time"

	"github.com/cmlabs-hris/leave-dashboard-go/internal/pkg/validator"
)

// IsAll reports whether a categorical filter value leaves the field unrestricted.
func IsAll(value string) bool {
	return value == "" || value == AllSentinel
}

// ===== Usage =====

type UsageFilter struct {
	EmployeeName string `json:"employee_name"`
	Position     string `json:"position"`
}

// UsageRow is a usage record as displayed; the employee id is not shown.
type UsageRow struct {
	EmployeeName string `json:"employee_name"`
	Position     string `json:"position"`
	Rates        []Cell `json:"rates"`
}

type UsageOptions struct {
	Names     []string `json:"names"`
	Positions []string `json:"positions"`
}

type UsageView struct {
	Columns []string     `json:"columns"`
	Rows    []UsageRow   `json:"rows"`
	Options UsageOptions `json:"options"`
}

// ===== Log =====

// LogFilterRequest carries the log filter as received from a query string.
type LogFilterRequest struct {
	EmployeeName string
	Position     string
	LeaveType    string
	StartDate    string
	EndDate      string
}

// ToFilter parses the date bounds and validates the range.
func (r LogFilterRequest) ToFilter() (LogFilter, error) {
	var errs validator.ValidationErrors
	filter := LogFilter{
		EmployeeName: r.EmployeeName,
		Position:     r.Position,
		LeaveType:    r.LeaveType,
	}

	if !validator.IsEmpty(r.StartDate) {
		start, ok := validator.IsValidDate(r.StartDate)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		} else {
			filter.DateStart = &start
		}
	}

	if !validator.IsEmpty(r.EndDate) {
		end, ok := validator.IsValidDate(r.EndDate)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		} else {
			filter.DateEnd = &end
		}
	}

	if len(errs) > 0 {
		return LogFilter{}, errs
	}

	if err := filter.Validate(); err != nil {
		return LogFilter{}, err
	}

	return filter, nil
}

// LogFilter selects log rows. Nil bounds default to the table's date range.
type LogFilter struct {
	EmployeeName string
	Position     string
	LeaveType    string
	DateStart    *time.Time
	DateEnd      *time.Time
}

func (f LogFilter) Validate() error {
	if f.DateStart != nil && f.DateEnd != nil && f.DateStart.After(*f.DateEnd) {
		return validator.ValidationErrors{{
			Field:   "date_range",
			Message: "start_date must not be after end_date",
		}}
	}
	return nil
}

// LogRow is a log record as displayed, date formatted as YYYY-MM-DD.
type LogRow struct {
	EmployeeName string `json:"employee_name"`
	Position     string `json:"position"`
	LeaveDate    string `json:"leave_date"`
	LeaveType    string `json:"leave_type"`
}

type LogOptions struct {
	Names      []string `json:"names"`
	Positions  []string `json:"positions"`
	LeaveTypes []string `json:"leave_types"`
}

type LogView struct {
	Rows      []LogRow   `json:"rows"`
	Options   LogOptions `json:"options"`
	DateStart string     `json:"start_date,omitempty"`
	DateEnd   string     `json:"end_date,omitempty"`
}

// ===== Registration =====

type RegisterRequest struct {
	EmployeeName string `json:"employee_name"`
	Position     string `json:"position"`
	LeaveDate    string `json:"leave_date"`
	LeaveType    string `json:"leave_type"`
}

// Validate checks the request against the closed set of leave types.
// An empty leave date is allowed and means today.
func (r *RegisterRequest) Validate(leaveTypes []string) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeName) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_name",
			Message: "employee_name is required",
		})
	}

	if validator.IsEmpty(r.Position) {
		errs = append(errs, validator.ValidationError{
			Field:   "position",
			Message: "position is required",
		})
	}

	if !validator.IsEmpty(r.LeaveDate) {
		if _, ok := validator.IsValidDate(r.LeaveDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "leave_date",
				Message: "leave_date must be in YYYY-MM-DD format",
			})
		}
	}

	if !validator.IsInSlice(r.LeaveType, leaveTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of the configured leave types",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RegisteredRow struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Position     string `json:"position"`
	LeaveDate    string `json:"leave_date"`
	LeaveType    string `json:"leave_type"`
}

type RegisterResult struct {
	Row     RegisteredRow `json:"row"`
	Message string        `json:"message"`
}

// ===== Dashboard =====

type DashboardQuery struct {
	Usage UsageFilter
	Logs  LogFilter
}

// FormOptions feeds the registration form selectors.
type FormOptions struct {
	Names       []string `json:"names"`
	Positions   []string `json:"positions"`
	LeaveTypes  []string `json:"leave_types"`
	DefaultDate string   `json:"default_date"`
}

type DashboardView struct {
	Usage UsageView   `json:"usage"`
	Form  FormOptions `json:"form"`
	Logs  LogView     `json:"logs"`
}
