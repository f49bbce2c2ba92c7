// Package config loads and validates configuration at startup.
// Fail-fast: if anything is invalid, Load returns an error and the process exits.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"jobmate/jobcollect/internal/model"
)

const defaultGroupsFile = "configs/groups.yaml"

// Config holds all runtime configuration for the collector.
type Config struct {
	Port          string
	DatabaseURL   string // optional: load search groups from Postgres
	RedisURL      string // optional: publish report events
	AdzunaAppID   string
	AdzunaAppKey  string
	AdzunaCountry string // e.g. "us", "gb", "fr"
	Proxy         string
	OutputDir     string `validate:"required"`
	Schedule      string // cron spec; empty means run once and exit
	GroupsFile    string

	Search Search
	Groups []model.SearchGroup `validate:"min=1,unique=Name,dive"`
}

// Search holds the board parameters shared by every group.
type Search struct {
	ResultsWanted int      `yaml:"results_wanted" validate:"min=1"`
	HoursOld      int      `yaml:"hours_old" validate:"min=1"`
	Locations     []string `yaml:"locations" validate:"min=1,dive,required"`
}

// Load reads .env (if present), environment variables and the optional
// groups file, then returns a validated Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	country := os.Getenv("ADZUNA_COUNTRY")
	if country == "" {
		country = "us"
	}

	outputDir := os.Getenv("JOBCOLLECT_OUTPUT_DIR")
	if outputDir == "" {
		outputDir = "output"
	}

	port := os.Getenv("JOBCOLLECT_PORT")
	if port == "" {
		port = "8081"
	}

	cfg := &Config{
		Port:          port,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		AdzunaAppID:   os.Getenv("ADZUNA_APP_ID"),
		AdzunaAppKey:  os.Getenv("ADZUNA_APP_KEY"),
		AdzunaCountry: country,
		Proxy:         os.Getenv("JOBCOLLECT_PROXY"),
		OutputDir:     outputDir,
		Schedule:      os.Getenv("JOBCOLLECT_SCHEDULE"),
		Search:        DefaultSearch(),
		Groups:        DefaultGroups(),
	}

	groupsFile := os.Getenv("JOBCOLLECT_GROUPS_FILE")
	if groupsFile == "" {
		if _, err := os.Stat(defaultGroupsFile); err == nil {
			groupsFile = defaultGroupsFile
		}
	}
	if groupsFile != "" {
		data, err := os.ReadFile(groupsFile)
		if err != nil {
			return nil, fmt.Errorf("read groups file: %w", err)
		}
		if err := applyGroupsFile(cfg, data); err != nil {
			return nil, fmt.Errorf("%s: %w", groupsFile, err)
		}
		cfg.GroupsFile = groupsFile
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cfg against its struct rules.
func Validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("invalid config: %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
	}
	return fmt.Errorf("invalid config: %w", err)
}
