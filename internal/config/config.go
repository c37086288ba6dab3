// Package config holds the settings of a pipeline run: the fixed source
// definitions and the environment-provided target, logging and reporting
// options.
package config

import (
	"fmt"

	"github.com/BartekS5/uncoupledetl/pkg/database"
	"github.com/BartekS5/uncoupledetl/pkg/logger"
)

// DefaultTarget is the local database used when ETL_DATABASE_URL is unset.
const DefaultTarget = "sqlite://pokemon.db"

// Config holds all configuration for the application, loaded from
// environment variables (populated from .env in main.go).
type Config struct {
	Sources     Sources
	DatabaseURL string
	DryRun      bool
	LogLevel    string
	LogFile     string
	Environment string
	SentryDSN   string
}

// LoadConfig builds the configuration from the compiled-in sources and the
// environment.
func LoadConfig() (*Config, error) {
	var (
		sources Sources
		err     error
	)
	if path := getEnv(EnvSourcesFile, ""); path != "" {
		sources, err = LoadSources(path)
	} else {
		sources, err = DefaultSources()
	}
	if err != nil {
		return nil, err
	}

	if key := getEnv(EnvRaiderIOKey, ""); key != "" {
		if sources.Characters.Params == nil {
			sources.Characters.Params = map[string]string{}
		}
		sources.Characters.Params["access_key"] = key
	}

	dryRun, err := getBool(EnvDryRun)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Sources:     sources,
		DatabaseURL: getEnv(EnvDatabaseURL, DefaultTarget),
		DryRun:      dryRun,
		LogLevel:    getEnv(EnvLogLevel, "info"),
		LogFile:     getEnv(EnvLogFile, ""),
		Environment: getEnv(EnvEnvironment, "production"),
		SentryDSN:   getEnv(EnvSentryDSN, ""),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that can be wrong without a network call.
func (c *Config) Validate() error {
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("%s must be one of: debug, info, warn, error", EnvLogLevel)
	}
	if _, err := database.ParseTarget(c.DatabaseURL); err != nil {
		return fmt.Errorf("%s: %w", EnvDatabaseURL, err)
	}
	return nil
}
