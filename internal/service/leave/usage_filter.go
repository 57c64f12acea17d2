package leave

import (
	"github.com/cmlabs-hris/leave-dashboard-go/internal/domain/leave"
)

// FilterUsage returns the usage rows whose name and position equal every
// active filter value. The employee id is dropped from the view.
func FilterUsage(table leave.UsageTable, filter leave.UsageFilter) leave.UsageView {
	rows := make([]leave.UsageRow, 0, len(table.Records))
	for _, record := range table.Records {
		if !matches(record.EmployeeName, filter.EmployeeName) || !matches(record.Position, filter.Position) {
			continue
		}
		rows = append(rows, leave.UsageRow{
			EmployeeName: record.EmployeeName,
			Position:     record.Position,
			Rates:        record.Rates,
		})
	}

	return leave.UsageView{
		Columns: table.Columns,
		Rows:    rows,
		Options: UsageOptions(table),
	}
}

// UsageOptions lists the distinct names and positions in first-seen order.
func UsageOptions(table leave.UsageTable) leave.UsageOptions {
	names := newDistinct()
	positions := newDistinct()
	for _, record := range table.Records {
		names.add(record.EmployeeName)
		positions.add(record.Position)
	}
	return leave.UsageOptions{
		Names:     names.values,
		Positions: positions.values,
	}
}

func matches(value, filter string) bool {
	return leave.IsAll(filter) || value == filter
}

type distinct struct {
	seen   map[string]struct{}
	values []string
}

func newDistinct() *distinct {
	return &distinct{seen: make(map[string]struct{}), values: []string{}}
}

func (d *distinct) add(value string) {
	if _, ok := d.seen[value]; ok {
		return
	}
	d.seen[value] = struct{}{}
	d.values = append(d.values, value)
}
