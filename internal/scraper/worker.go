package scraper

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobmate/jobcollect/internal/filter"
	"jobmate/jobcollect/internal/model"
	"jobmate/jobcollect/internal/report"
	"jobmate/jobcollect/internal/terms"
)

// EventReportWritten is the event type sent after a report file is saved.
const EventReportWritten = "EVENT_REPORT_WRITTEN"

// Notifier is told about every report a run writes.
type Notifier interface {
	Notify(ctx context.Context, ev model.ReportEvent) error
}

// Settings are the search parameters shared by every group in a run.
type Settings struct {
	ResultsWanted int
	HoursOld      int
	Locations     []string
	Proxy         string
	OutputDir     string
}

// Result describes one group run.
type Result struct {
	Group   string
	Found   int // records returned by the source, all locations
	Jobs    int // records written
	Path    string
	Written bool
	Filter  filter.Report
}

// Worker runs the search pipeline for one SearchGroup at a time:
// query every location, filter, sort, write the report.
type Worker struct {
	source   JobSource
	sink     report.Sink
	notifier Notifier
	settings Settings
	now      func() time.Time
}

// NewWorker constructs a Worker. notifier may be nil.
func NewWorker(source JobSource, sink report.Sink, notifier Notifier, settings Settings) *Worker {
	return &Worker{
		source:   source,
		sink:     sink,
		notifier: notifier,
		settings: settings,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for the report window. Used by tests.
func (w *Worker) WithClock(now func() time.Time) *Worker {
	w.now = now
	return w
}

// RunAll runs every group in order under one run id and start time. A group
// failure is logged and the remaining groups still run.
func (w *Worker) RunAll(ctx context.Context, groups []model.SearchGroup) []Result {
	runID := uuid.NewString()
	start := w.now()
	log.Printf("[worker] Run %s started: %d group(s), locations=%v", runID, len(groups), w.settings.Locations)

	results := make([]Result, 0, len(groups))
	for _, g := range groups {
		res, err := w.run(ctx, runID, start, g)
		if err != nil {
			log.Printf("[worker] Group %q failed: %v — continuing", g.Name, err)
			continue
		}
		results = append(results, res)
	}

	log.Printf("[worker] Run %s done", runID)
	return results
}

// Run executes one pipeline pass for the given group.
func (w *Worker) Run(ctx context.Context, group model.SearchGroup) (Result, error) {
	return w.run(ctx, uuid.NewString(), w.now(), group)
}

func (w *Worker) run(ctx context.Context, runID string, start time.Time, group model.SearchGroup) (Result, error) {
	log.Println("[worker] " + strings.Repeat("-", 40))
	log.Printf("[worker] >>> %s", group.Name)

	res := Result{Group: group.Name}
	search := terms.SearchExpression(group.SearchInclude, group.SearchExclude)

	var combined model.JobTable
	for _, location := range w.settings.Locations {
		jobs, err := w.source.Search(ctx, Query{
			SearchTerm:          search,
			Include:             group.SearchInclude,
			Exclude:             group.SearchExclude,
			Location:            location,
			JobType:             JobTypeFullTime,
			ResultsWanted:       w.settings.ResultsWanted,
			HoursOld:            w.settings.HoursOld,
			Proxy:               w.settings.Proxy,
			FetchDescription:    true,
			EnforceAnnualSalary: true,
		})
		if err != nil {
			log.Printf("[worker] Searching %s... error: %v — continuing", location, err)
			continue
		}
		if len(jobs) == 0 {
			log.Printf("[worker] Searching %s... No jobs found.", location)
			continue
		}
		log.Printf("[worker] Searching %s... %d jobs found.", location, len(jobs))
		combined = append(combined, jobs...)
	}

	res.Found = len(combined)
	if len(combined) == 0 {
		log.Printf("[worker] %s: No jobs found :(", group.Name)
		return res, nil
	}
	log.Printf("[worker] %s: %d jobs found before filtering", group.Name, len(combined))

	filtered, rep := filter.Apply(combined, filter.RulesFor(group))
	final := filter.SortByDatePosted(filtered)
	res.Filter = rep
	res.Jobs = len(final)
	log.Printf("[worker] >>> %s: %d jobs found!", group.Name, len(final))

	res.Path = report.Path(w.settings.OutputDir, group.Name, start, w.settings.HoursOld)
	if err := w.sink.Write(res.Path, final); err != nil {
		return res, fmt.Errorf("write report: %w", err)
	}
	res.Written = true
	log.Printf("[worker] Saved to %s", res.Path)

	if w.notifier != nil {
		ev := model.ReportEvent{
			Type:  EventReportWritten,
			RunID: runID,
			Group: group.Name,
			Path:  res.Path,
			Jobs:  res.Jobs,
		}
		if err := w.notifier.Notify(ctx, ev); err != nil {
			log.Printf("[worker] notify %s failed: %v", EventReportWritten, err)
		}
	}

	return res, nil
}
