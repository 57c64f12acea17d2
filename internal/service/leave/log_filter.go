package leave

import (
	"slices"
	"time"

	"github.com/cmlabs-hris/leave-dashboard-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/pkg/validator"
)

// FilterLogs applies the categorical filters, then the inclusive date range,
// then sorts by leave date, most recent first. Rows without a parseable date
// never satisfy a range and are always dropped.
//
// Missing bounds default to the earliest and latest valid dates of the
// table. A table with no valid date yields an empty view with no bounds.
func FilterLogs(table leave.LogTable, filter leave.LogFilter) (leave.LogView, error) {
	if err := filter.Validate(); err != nil {
		return leave.LogView{}, err
	}

	view := leave.LogView{
		Rows:    []leave.LogRow{},
		Options: LogOptions(table),
	}

	start, end := filter.DateStart, filter.DateEnd
	if start == nil || end == nil {
		minDate, maxDate, ok := DateBounds(table)
		if !ok {
			return view, nil
		}
		if start == nil {
			start = &minDate
		}
		if end == nil {
			end = &maxDate
		}
	}
	view.DateStart = validator.FormatDate(*start)
	view.DateEnd = validator.FormatDate(*end)

	lo := validator.TruncateDate(*start)
	hi := validator.TruncateDate(*end)

	var selected []leave.LogRecord
	for _, record := range table.Records {
		if !matches(record.EmployeeName, filter.EmployeeName) ||
			!matches(record.Position, filter.Position) ||
			!matches(record.LeaveType, filter.LeaveType) {
			continue
		}
		if record.LeaveDate == nil {
			continue
		}
		if record.LeaveDate.Before(lo) || record.LeaveDate.After(hi) {
			continue
		}
		selected = append(selected, record)
	}

	slices.SortStableFunc(selected, func(a, b leave.LogRecord) int {
		return b.LeaveDate.Compare(*a.LeaveDate)
	})

	for _, record := range selected {
		view.Rows = append(view.Rows, leave.LogRow{
			EmployeeName: record.EmployeeName,
			Position:     record.Position,
			LeaveDate:    validator.FormatDate(*record.LeaveDate),
			LeaveType:    record.LeaveType,
		})
	}

	return view, nil
}

// DateBounds returns the earliest and latest parseable leave dates.
func DateBounds(table leave.LogTable) (minDate, maxDate time.Time, ok bool) {
	for _, record := range table.Records {
		if record.LeaveDate == nil {
			continue
		}
		if !ok || record.LeaveDate.Before(minDate) {
			minDate = *record.LeaveDate
		}
		if !ok || record.LeaveDate.After(maxDate) {
			maxDate = *record.LeaveDate
		}
		ok = true
	}
	return minDate, maxDate, ok
}

// LogOptions lists distinct names, positions and leave types, sorted ascending.
func LogOptions(table leave.LogTable) leave.LogOptions {
	names := newDistinct()
	positions := newDistinct()
	types := newDistinct()
	for _, record := range table.Records {
		names.add(record.EmployeeName)
		positions.add(record.Position)
		types.add(record.LeaveType)
	}
	slices.Sort(names.values)
	slices.Sort(positions.values)
	slices.Sort(types.values)
	return leave.LogOptions{
		Names:      names.values,
		Positions:  positions.values,
		LeaveTypes: types.values,
	}
}
