// Package scraper implements job fetching and the per-group search pipeline.
package scraper

import (
	"context"

	"jobmate/jobcollect/internal/model"
)

// JobType restricts results by employment type.
type JobType string

const JobTypeFullTime JobType = "fulltime"

// Query is one board search for a single location. SearchTerm is the
// composed boolean expression; Include and Exclude carry the terms it was
// built from, for boards that take keyword fields instead of an expression.
type Query struct {
	SearchTerm          string
	Include             []string
	Exclude             []string
	Location            string
	JobType             JobType
	ResultsWanted       int
	HoursOld            int
	Proxy               string
	FetchDescription    bool
	EnforceAnnualSalary bool
}

// JobSource returns the postings matching a query. An empty table with a nil
// error means the board had nothing for it.
type JobSource interface {
	Search(ctx context.Context, q Query) (model.JobTable, error)
}
