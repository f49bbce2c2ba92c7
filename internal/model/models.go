// Package model defines shared data structures for the job collector.
package model

import "time"

// SearchGroup is one named topical search: the board query terms plus the
// include/exclude rules applied to titles and descriptions afterwards.
// Groups are built once from configuration and passed by value. Name is
// used as the report file name, so it may not contain path separators.
type SearchGroup struct {
	Name               string   `yaml:"name" validate:"required,excludesall=/\\"`
	SearchInclude      []string `yaml:"search_include" validate:"min=1,dive,required"`
	SearchExclude      []string `yaml:"search_exclude"`
	TitleInclude       []string `yaml:"title_include"`
	TitleExclude       []string `yaml:"title_exclude"`
	DescriptionInclude []string `yaml:"description_include"`
	DescriptionExclude []string `yaml:"description_exclude"`
}

// JobRecord is a normalised posting returned by a job source.
//
// Title and Description are nullable: a nil value never matches any term
// pattern. Description is only used for filtering and is never written out.
type JobRecord struct {
	DatePosted       time.Time // zero when the source did not report it
	Location         string
	Company          string
	Title            *string
	JobURL           string
	JobURLDirect     string
	CompanyURLDirect string
	MinAmount        *float64
	MaxAmount        *float64
	Currency         string
	Interval         string
	Description      *string
}

// JobTable is an ordered sequence of records. Once filtered it is unique by
// Key.
type JobTable []JobRecord

// RecordKey identifies a posting for deduplication. A nil title is its own
// value, equal to every other nil title.
type RecordKey struct {
	Title    string
	HasTitle bool
	Company  string
	Location string
}

// Key returns the (title, company, location) deduplication key.
func (r JobRecord) Key() RecordKey {
	k := RecordKey{Company: r.Company, Location: r.Location}
	if r.Title != nil {
		k.Title = *r.Title
		k.HasTitle = true
	}
	return k
}

// Text returns a pointer to s, for building records with a present title or
// description.
func Text(s string) *string { return &s }

// Amount returns a pointer to v.
func Amount(v float64) *float64 { return &v }

// ReportEvent announces a report file written by a group run.
type ReportEvent struct {
	Type  string `json:"type"`
	RunID string `json:"runId"`
	Group string `json:"group"`
	Path  string `json:"path"`
	Jobs  int    `json:"jobs"`
}
