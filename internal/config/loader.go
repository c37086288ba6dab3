package config

import (
	_ "embed"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed sources.yaml
var defaultSources []byte

// Source is one REST API the pipeline extracts from.
type Source struct {
	Name      string            `yaml:"name"`
	URL       string            `yaml:"url"`
	Endpoints []string          `yaml:"endpoints"`
	Params    map[string]string `yaml:"params"`
	Headers   map[string]string `yaml:"headers"`
}

// Sources holds the two data sources of a run.
type Sources struct {
	Characters Source `yaml:"characters"`
	Pokemon    Source `yaml:"pokemon"`
}

// QueryParams returns Params as url.Values, or nil when there are none.
func (s Source) QueryParams() url.Values {
	if len(s.Params) == 0 {
		return nil
	}
	v := make(url.Values, len(s.Params))
	for key, val := range s.Params {
		v.Set(key, val)
	}
	return v
}

// HeaderValues returns Headers as an http.Header, or nil when there are none.
func (s Source) HeaderValues() http.Header {
	if len(s.Headers) == 0 {
		return nil
	}
	h := make(http.Header, len(s.Headers))
	for key, val := range s.Headers {
		h.Set(key, val)
	}
	return h
}

func (s Source) validate(key string) error {
	if s.URL == "" {
		return fmt.Errorf("sources.%s.url is required", key)
	}
	if _, err := url.Parse(s.URL); err != nil {
		return fmt.Errorf("sources.%s.url: %w", key, err)
	}
	if len(s.Endpoints) == 0 {
		return fmt.Errorf("sources.%s.endpoints must not be empty", key)
	}
	return nil
}

// DefaultSources returns the source definitions compiled into the binary.
func DefaultSources() (Sources, error) {
	return ParseSources(defaultSources)
}

// ParseSources decodes and checks a sources YAML document.
func ParseSources(data []byte) (Sources, error) {
	var s Sources
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Sources{}, fmt.Errorf("failed to parse sources: %w", err)
	}
	if err := s.Characters.validate("characters"); err != nil {
		return Sources{}, err
	}
	if err := s.Pokemon.validate("pokemon"); err != nil {
		return Sources{}, err
	}
	if n := len(s.Characters.Endpoints); n != 1 {
		return Sources{}, fmt.Errorf("sources.characters must have exactly one endpoint, got %d", n)
	}
	return s, nil
}

// LoadSources reads source definitions from a YAML file.
func LoadSources(filePath string) (Sources, error) {
	bytes, err := os.ReadFile(filePath)
	if err != nil {
		return Sources{}, fmt.Errorf("failed to read sources file '%s': %w", filePath, err)
	}
	return ParseSources(bytes)
}
