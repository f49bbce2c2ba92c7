// Package scheduler wires up the cron job that periodically runs every search
// group.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/robfig/cron/v3"

	"jobmate/jobcollect/internal/model"
	"jobmate/jobcollect/internal/scraper"
)

// Runner runs a full pass over the given groups.
type Runner interface {
	RunAll(ctx context.Context, groups []model.SearchGroup) []scraper.Result
}

// GroupLoader returns the groups for the next pass, e.g. the active rows of
// the search_groups table.
type GroupLoader func(ctx context.Context) ([]model.SearchGroup, error)

// Scheduler wraps robfig/cron and manages the collection loop. A run that is
// still in progress when the next tick fires causes that tick to be skipped,
// so passes never overlap.
type Scheduler struct {
	cron   *cron.Cron
	logger cron.Logger
	runner Runner
	groups []model.SearchGroup
	load   GroupLoader
	spec   string // cron spec, e.g. "@every 24h" or "0 7 * * *"
	job    cron.Job
	wg     sync.WaitGroup // startup run, which cron does not track
}

// New creates a Scheduler that runs groups on spec.
func New(runner Runner, groups []model.SearchGroup, spec string) *Scheduler {
	logger := cron.VerbosePrintfLogger(log.New(os.Stderr, "[scheduler] ", log.LstdFlags))
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger))),
		logger: logger,
		runner: runner,
		groups: groups,
		spec:   spec,
	}
}

// WithGroupLoader makes every pass reload its groups through load. When the
// loader fails or returns nothing, the previous groups are used.
func (s *Scheduler) WithGroupLoader(load GroupLoader) *Scheduler {
	s.load = load
	return s
}

// Start registers the job and starts the scheduler. Also runs one pass
// immediately so the first reports do not wait for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	s.job = cron.NewChain(cron.SkipIfStillRunning(s.logger)).Then(cron.FuncJob(func() {
		s.runCollect(ctx)
	}))

	if _, err := s.cron.AddJob(s.spec, s.job); err != nil {
		return fmt.Errorf("cron.AddJob(%q): %w", s.spec, err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — spec: %s", s.spec)

	// Run immediately on startup (non-blocking)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.job.Run()
	}()

	return nil
}

// Stop shuts down the scheduler and waits for a running pass to finish,
// including the startup pass.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	log.Println("[scheduler] Cron stopped")
}

// runCollect runs the worker over every configured group. Calls are
// serialised by SkipIfStillRunning.
func (s *Scheduler) runCollect(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	s.reloadGroups(ctx)
	log.Printf("[scheduler] Collection started for %d group(s)", len(s.groups))

	results := s.runner.RunAll(ctx, s.groups)

	written := 0
	for _, r := range results {
		if r.Written {
			written++
		}
	}
	log.Printf("[scheduler] Collection complete — %d report(s) written", written)
}

func (s *Scheduler) reloadGroups(ctx context.Context) {
	if s.load == nil {
		return
	}
	groups, err := s.load(ctx)
	if err != nil {
		log.Printf("[scheduler] Reloading groups failed, keeping %d: %v", len(s.groups), err)
		return
	}
	if len(groups) == 0 {
		return
	}
	s.groups = groups
}
