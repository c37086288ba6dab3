package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvDatabaseURL, EnvDryRun, EnvLogLevel, EnvLogFile,
		EnvSourcesFile, EnvEnvironment, EnvSentryDSN, EnvRaiderIOKey,
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultSources(t *testing.T) {
	s, err := DefaultSources()
	require.NoError(t, err)

	assert.Equal(t, "https://pokeapi.co/api/v2/pokemon/", s.Pokemon.URL)
	assert.Len(t, s.Pokemon.Endpoints, 151)
	assert.Equal(t, "1", s.Pokemon.Endpoints[0])
	assert.Equal(t, "151", s.Pokemon.Endpoints[150])

	assert.Equal(t, []string{"profile"}, s.Characters.Endpoints)
	assert.Equal(t, "eu", s.Characters.QueryParams().Get("region"))
	assert.Nil(t, s.Pokemon.QueryParams())
	assert.Nil(t, s.Pokemon.HeaderValues())
}

func TestParseSources_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "characters: ["},
		{"missing url", "characters: {endpoints: [a]}\npokemon: {url: http://x/, endpoints: [1]}"},
		{"no endpoints", "characters: {url: http://x/, endpoints: [a]}\npokemon: {url: http://x/}"},
		{"two character endpoints", "characters: {url: http://x/, endpoints: [a, b]}\npokemon: {url: http://x/, endpoints: [1]}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSources([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestSource_HeaderValues(t *testing.T) {
	s := Source{Headers: map[string]string{"authorization": "Bearer x"}}
	assert.Equal(t, "Bearer x", s.HeaderValues().Get("Authorization"))
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultTarget, cfg.DatabaseURL)
	assert.False(t, cfg.DryRun)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.SentryDSN)
	assert.NotContains(t, cfg.Sources.Characters.Params, "access_key")
}

func TestLoadConfig_FromDotEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	content := "ETL_DATABASE_URL=postgres://etl:secret@db:5432/pokemon\n" +
		"ETL_DRY_RUN=true\n" +
		"ETL_LOG_LEVEL=debug\n" +
		"RAIDERIO_ACCESS_KEY=key123\n" +
		"SENTRY_DSN=https://public@sentry.example.com/1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	vars, err := godotenv.Read(path)
	require.NoError(t, err)
	for k, v := range vars {
		t.Setenv(k, v)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://etl:secret@db:5432/pokemon", cfg.DatabaseURL)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "key123", cfg.Sources.Characters.Params["access_key"])
	assert.Equal(t, "https://public@sentry.example.com/1", cfg.SentryDSN)
}

func TestLoadConfig_SourcesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "sources.yaml")
	doc := "characters: {url: http://chars/, endpoints: [profile]}\npokemon: {url: http://poke/, endpoints: [\"1\", \"2\"]}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	t.Setenv(EnvSourcesFile, path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, cfg.Sources.Pokemon.Endpoints)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad dry run", EnvDryRun, "maybe"},
		{"bad log level", EnvLogLevel, "verbose"},
		{"bad target", EnvDatabaseURL, "oracle://db"},
		{"missing sources file", EnvSourcesFile, "/nonexistent/sources.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
