package filter

import (
	"slices"

	"jobmate/jobcollect/internal/model"
)

// Deduplicate keeps the first record for each (title, company, location) key.
func Deduplicate(table model.JobTable) model.JobTable {
	seen := make(map[model.RecordKey]struct{}, len(table))
	out := make(model.JobTable, 0, len(table))
	for _, r := range table {
		k := r.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// SortByDatePosted returns a copy of table ordered newest first. Ties keep
// their relative order; records without a date sort last.
func SortByDatePosted(table model.JobTable) model.JobTable {
	out := slices.Clone(table)
	slices.SortStableFunc(out, func(a, b model.JobRecord) int {
		return b.DatePosted.Compare(a.DatePosted)
	})
	return out
}
