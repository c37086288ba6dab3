package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables read by LoadConfig.
const (
	EnvDatabaseURL = "ETL_DATABASE_URL"
	EnvDryRun      = "ETL_DRY_RUN"
	EnvLogLevel    = "ETL_LOG_LEVEL"
	EnvLogFile     = "ETL_LOG_FILE"
	EnvSourcesFile = "ETL_SOURCES_FILE"
	EnvEnvironment = "ETL_ENVIRONMENT"
	EnvSentryDSN   = "SENTRY_DSN"
	EnvRaiderIOKey = "RAIDERIO_ACCESS_KEY"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
