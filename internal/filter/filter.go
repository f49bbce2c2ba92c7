package filter

import (
	"log"

	"jobmate/jobcollect/internal/model"
	"jobmate/jobcollect/internal/terms"
)

// Stage names, in the order Apply runs them.
const (
	StageDuplicates         = "duplicates"
	StageTitleExclude       = "title_exclude"
	StageTitleInclude       = "title_include"
	StageDescriptionExclude = "description_exclude"
	StageDescriptionInclude = "description_include"
)

// Rules holds the post-scrape term lists. An empty list disables its stage.
type Rules struct {
	TitleInclude       []string
	TitleExclude       []string
	DescriptionInclude []string
	DescriptionExclude []string
}

// RulesFor extracts the filter rules from a search group.
func RulesFor(g model.SearchGroup) Rules {
	return Rules{
		TitleInclude:       g.TitleInclude,
		TitleExclude:       g.TitleExclude,
		DescriptionInclude: g.DescriptionInclude,
		DescriptionExclude: g.DescriptionExclude,
	}
}

// StageResult is the number of records one stage removed.
type StageResult struct {
	Name    string
	Removed int
}

// Report summarises a filter run. It is informational only.
type Report struct {
	Before int
	After  int
	Stages []StageResult
}

// Removed returns the count for the named stage, or 0.
func (r Report) Removed(stage string) int {
	for _, s := range r.Stages {
		if s.Name == stage {
			return s.Removed
		}
	}
	return 0
}

type stage struct {
	name    string
	label   string
	terms   []string
	include bool
	field   func(model.JobRecord) *string
}

func title(r model.JobRecord) *string       { return r.Title }
func description(r model.JobRecord) *string { return r.Description }

// Apply runs the filter pipeline over table:
//
//	duplicates → title exclude → title include → description exclude → description include
//
// Exclusion narrows the table first; inclusion then requires what is left to
// match. The input table is not modified.
func Apply(table model.JobTable, rules Rules) (model.JobTable, Report) {
	rep := Report{Before: len(table)}

	out := Deduplicate(table)
	rep.Stages = append(rep.Stages, StageResult{Name: StageDuplicates, Removed: len(table) - len(out)})
	log.Printf("[filter] Removing duplicates... %d removed.", len(table)-len(out))

	stages := []stage{
		{StageTitleExclude, "Excluding titles", rules.TitleExclude, false, title},
		{StageTitleInclude, "Filtering titles", rules.TitleInclude, true, title},
		{StageDescriptionExclude, "Excluding descriptions", rules.DescriptionExclude, false, description},
		{StageDescriptionInclude, "Filtering descriptions", rules.DescriptionInclude, true, description},
	}
	for _, s := range stages {
		n := len(out)
		if len(s.terms) > 0 {
			out = keep(out, s)
		}
		rep.Stages = append(rep.Stages, StageResult{Name: s.name, Removed: n - len(out)})
		log.Printf("[filter] %s... %d removed.", s.label, n-len(out))
	}

	rep.After = len(out)
	return out, rep
}

func keep(table model.JobTable, s stage) model.JobTable {
	re := terms.Compile(s.terms)
	out := make(model.JobTable, 0, len(table))
	for _, r := range table {
		if matches(re, s.field(r)) == s.include {
			out = append(out, r)
		}
	}
	return out
}
