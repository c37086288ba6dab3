package etl

import (
	"context"
	"net/http"
	"net/url"
)

// RawRecord is one parsed JSON object body, before validation.
type RawRecord = map[string]any

// Request is what an extraction strategy needs to fetch a source.
type Request struct {
	URL       string
	Endpoints []string
	Params    url.Values
	Headers   http.Header

	// Client overrides the HTTP client the strategy would create.
	Client *http.Client
}

// FetchStrategy defines how raw data is fetched for a Request.
type FetchStrategy func(ctx context.Context, req Request) ([]RawRecord, error)

// Transformer turns raw payloads into validated records.
type Transformer[T any] interface {
	Transform() (T, error)
}

// LoadStrategy persists a batch of records into target.
type LoadStrategy[T any] func(ctx context.Context, records []T, target string) error
