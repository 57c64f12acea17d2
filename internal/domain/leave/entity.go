package leave

import (
	"time"

	"github.com/cmlabs-hris/leave-dashboard-go/internal/pkg/validator"
)

// AllSentinel disables a categorical filter.
const AllSentinel = "all"

// Default closed set of leave types offered by the registration form.
var DefaultLeaveTypes = []string{"full-day", "half-day"}

// Cell is one extra usage-rate column carried through unchanged.
type Cell struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// UsageRecord is one row of the usage-rate worksheet.
type UsageRecord struct {
	EmployeeID   string
	EmployeeName string
	Position     string
	Rates        []Cell
}

// UsageTable is a read-only snapshot of the usage worksheet.
type UsageTable struct {
	// Columns lists the extra rate columns in sheet order.
	Columns []string
	Records []UsageRecord
}

// LogRecord is one leave event. LeaveDate is nil when RawDate could not be
// parsed as a calendar date.
type LogRecord struct {
	EmployeeID   string
	EmployeeName string
	Position     string
	LeaveDate    *time.Time
	RawDate      string
	LeaveType    string
}

// LogTable is a read-only snapshot of the log worksheet.
type LogTable struct {
	Records []LogRecord
}

// NewLogRecord builds a record from raw cell values, parsing the date.
func NewLogRecord(employeeID, employeeName, position, rawDate, leaveType string) LogRecord {
	record := LogRecord{
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		Position:     position,
		RawDate:      rawDate,
		LeaveType:    leaveType,
	}
	if date, ok := validator.ParseCalendarDate(rawDate); ok {
		record.LeaveDate = &date
	}
	return record
}

// AppendRow is the row written to the log store, in column order:
// employee id, employee name, position, leave date, leave type.
type AppendRow struct {
	EmployeeID   string
	EmployeeName string
	Position     string
	LeaveDate    time.Time
	LeaveType    string
}

// Values returns the row as the five string cells appended to the store.
func (r AppendRow) Values() []string {
	return []string{
		r.EmployeeID,
		r.EmployeeName,
		r.Position,
		validator.FormatDate(r.LeaveDate),
		r.LeaveType,
	}
}

// ResolutionPolicy decides how an employee name maps to an identifier.
type ResolutionPolicy string

const (
	// ResolveFirstMatch takes the identifier of the first row with the name.
	ResolveFirstMatch ResolutionPolicy = "first"
	// ResolveUniqueMatch rejects names shared by more than one row.
	ResolveUniqueMatch ResolutionPolicy = "unique"
)

func (p ResolutionPolicy) IsValid() bool {
	return p == ResolveFirstMatch || p == ResolveUniqueMatch
}
