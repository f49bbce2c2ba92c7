// jobcollect — job posting collector
//
// Searches the job board for every configured search group, filters the
// postings by title/description terms, and writes one CSV report per group
// under output/<yyMMdd>_<yyMMdd>/.
//
// Without JOBCOLLECT_SCHEDULE it runs once and exits. With it, passes are
// repeated on the cron spec and a /health endpoint is served.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"jobmate/jobcollect/internal/config"
	"jobmate/jobcollect/internal/db"
	"jobmate/jobcollect/internal/model"
	"jobmate/jobcollect/internal/report"
	"jobmate/jobcollect/internal/scheduler"
	"jobmate/jobcollect/internal/scraper"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[jobcollect] Config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── PostgreSQL (optional group store) ────────────────────────────────────
	var loadGroups scheduler.GroupLoader
	if cfg.DatabaseURL != "" {
		log.Println("[jobcollect] Connecting to PostgreSQL…")
		pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[jobcollect] PostgreSQL: %v", err)
		}
		defer pool.Close()

		loadGroups = tableGroups(pool, *cfg)
		groups, err := loadGroups(ctx)
		if err != nil {
			log.Fatalf("[jobcollect] search_groups: %v", err)
		}
		if len(groups) > 0 {
			cfg.Groups = groups
		}
		log.Printf("[jobcollect] Loaded %d search group(s) from PostgreSQL ✓", len(groups))
	}

	// ── Redis (optional notifications) ───────────────────────────────────────
	var notifier scraper.Notifier
	if cfg.RedisURL != "" {
		log.Println("[jobcollect] Connecting to Redis…")
		rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("[jobcollect] Redis: %v", err)
		}
		defer rdb.Close()
		notifier = db.NewRedisNotifier(rdb)
		log.Println("[jobcollect] Redis connected ✓")
	}

	fetcher := scraper.NewAdzunaFetcher(cfg.AdzunaAppID, cfg.AdzunaAppKey, cfg.AdzunaCountry)
	worker := scraper.NewWorker(fetcher, report.CSVWriter{}, notifier, scraper.Settings{
		ResultsWanted: cfg.Search.ResultsWanted,
		HoursOld:      cfg.Search.HoursOld,
		Locations:     cfg.Search.Locations,
		Proxy:         cfg.Proxy,
		OutputDir:     cfg.OutputDir,
	})

	// ── Single pass ──────────────────────────────────────────────────────────
	if cfg.Schedule == "" {
		results := worker.RunAll(ctx, cfg.Groups)
		for _, r := range results {
			if r.Written {
				log.Printf("[jobcollect] %s: %d jobs → %s", r.Group, r.Jobs, r.Path)
			}
		}
		return
	}

	// ── Scheduled ────────────────────────────────────────────────────────────
	sched := scheduler.New(worker, cfg.Groups, cfg.Schedule)
	if loadGroups != nil {
		sched.WithGroupLoader(loadGroups)
	}
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[jobcollect] Scheduler: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[jobcollect] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[jobcollect] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	<-ctx.Done()

	log.Println("[jobcollect] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[jobcollect] Shutdown error: %v", err)
	}
	sched.Stop()
	log.Println("[jobcollect] Stopped.")
}

// tableGroups returns a loader reading the active search_groups rows. The
// rows are validated with the rest of cfg before they are used.
func tableGroups(pool *pgxpool.Pool, cfg config.Config) scheduler.GroupLoader {
	return func(ctx context.Context) ([]model.SearchGroup, error) {
		groups, err := db.LoadSearchGroups(ctx, pool)
		if err != nil {
			return nil, err
		}
		if len(groups) == 0 {
			return nil, nil
		}
		cfg.Groups = groups
		if err := config.Validate(&cfg); err != nil {
			return nil, err
		}
		return groups, nil
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "jobcollect",
		"version": version,
	})
}
