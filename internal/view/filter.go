package view

import "strings"

// ReportFilter is a conjunctive filter over report rows: every provided
// constraint must match, empty constraints match everything. Text matching
// is case-insensitive substring; dates compare the YYYY-MM-DD prefix of
// the row timestamp, inclusive on both ends.
type ReportFilter struct {
	Turret string
	Line   string
	Party  string
	State  string
	Device string
	From   string
	To     string
}

// RowFields is the projection of one report row the filter looks at.
// Fields a row type does not have stay empty and only match empty
// constraints.
type RowFields struct {
	CreatedOn string
	Turret    string
	Line      string
	Party     string
	State     string
	Device    string
}

func (f ReportFilter) Empty() bool {
	return f == ReportFilter{}
}

// FilterRows applies the filter. An empty filter returns the input
// unchanged.
func FilterRows[T any](rows []T, f ReportFilter, fields func(T) RowFields) []T {
	if f.Empty() {
		return rows
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if f.matches(fields(row)) {
			out = append(out, row)
		}
	}
	return out
}

func (f ReportFilter) matches(r RowFields) bool {
	if !containsFold(r.Turret, f.Turret) {
		return false
	}
	if !containsFold(r.Line, f.Line) {
		return false
	}
	if !containsFold(r.Party, f.Party) {
		return false
	}
	if !containsFold(r.State, f.State) {
		return false
	}
	if !containsFold(r.Device, f.Device) {
		return false
	}

	date := dateOf(r.CreatedOn)
	if f.From != "" && date < f.From {
		return false
	}
	if f.To != "" && date > f.To {
		return false
	}
	return true
}

// containsFold reports whether value contains needle, case-insensitively.
// An empty needle imposes no constraint.
func containsFold(value, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}

// dateOf extracts the date part of an upstream "YYYY-MM-DD HH:MM:SS"
// timestamp. Comparison is lexicographic, which is correct for this
// layout.
func dateOf(createdOn string) string {
	if i := strings.IndexByte(createdOn, ' '); i >= 0 {
		return createdOn[:i]
	}
	return createdOn
}
