package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/jobcollect/internal/model"
	"jobmate/jobcollect/internal/scheduler"
	"jobmate/jobcollect/internal/scraper"
)

type fakeRunner struct {
	calls chan []model.SearchGroup
}

func (f *fakeRunner) RunAll(_ context.Context, groups []model.SearchGroup) []scraper.Result {
	f.calls <- groups
	return []scraper.Result{{Group: groups[0].Name, Written: true}}
}

func TestScheduler_RunsImmediately(t *testing.T) {
	runner := &fakeRunner{calls: make(chan []model.SearchGroup, 1)}
	groups := []model.SearchGroup{{Name: "Embedded Systems", SearchInclude: []string{"Firmware"}}}

	s := scheduler.New(runner, groups, "@every 24h")
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	select {
	case got := <-runner.calls:
		assert.Equal(t, "Embedded Systems", got[0].Name)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not run on start")
	}
}

func TestScheduler_InvalidSpec(t *testing.T) {
	runner := &fakeRunner{calls: make(chan []model.SearchGroup, 1)}
	s := scheduler.New(runner, nil, "every now and then")
	assert.Error(t, s.Start(context.Background()))
}

func TestScheduler_CancelledContextSkipsRun(t *testing.T) {
	runner := &fakeRunner{calls: make(chan []model.SearchGroup, 1)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := scheduler.New(runner, []model.SearchGroup{{Name: "G"}}, "@every 24h")
	require.NoError(t, s.Start(ctx))
	defer s.Stop()

	select {
	case <-runner.calls:
		t.Fatal("run started with a cancelled context")
	case <-time.After(200 * time.Millisecond):
	}
}

type slowRunner struct {
	started  chan struct{}
	finished atomic.Bool
}

func (r *slowRunner) RunAll(_ context.Context, _ []model.SearchGroup) []scraper.Result {
	close(r.started)
	time.Sleep(300 * time.Millisecond)
	r.finished.Store(true)
	return nil
}

func TestScheduler_StopWaitsForStartupRun(t *testing.T) {
	runner := &slowRunner{started: make(chan struct{})}
	s := scheduler.New(runner, []model.SearchGroup{{Name: "G"}}, "@every 24h")
	require.NoError(t, s.Start(context.Background()))

	select {
	case <-runner.started:
	case <-time.After(5 * time.Second):
		t.Fatal("startup run did not begin")
	}
	s.Stop()
	assert.True(t, runner.finished.Load(), "Stop returned before the startup run finished")
}

func TestScheduler_ReloadsGroupsEachPass(t *testing.T) {
	runner := &fakeRunner{calls: make(chan []model.SearchGroup, 1)}
	initial := []model.SearchGroup{{Name: "Initial", SearchInclude: []string{"A"}}}

	s := scheduler.New(runner, initial, "@every 24h").WithGroupLoader(func(context.Context) ([]model.SearchGroup, error) {
		return []model.SearchGroup{{Name: "From table", SearchInclude: []string{"B"}}}, nil
	})
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	select {
	case got := <-runner.calls:
		assert.Equal(t, "From table", got[0].Name)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not run on start")
	}
}

func TestScheduler_LoaderErrorKeepsGroups(t *testing.T) {
	runner := &fakeRunner{calls: make(chan []model.SearchGroup, 1)}
	initial := []model.SearchGroup{{Name: "Initial", SearchInclude: []string{"A"}}}

	s := scheduler.New(runner, initial, "@every 24h").WithGroupLoader(func(context.Context) ([]model.SearchGroup, error) {
		return nil, errors.New("connection refused")
	})
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	select {
	case got := <-runner.calls:
		assert.Equal(t, "Initial", got[0].Name)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not run on start")
	}
}
