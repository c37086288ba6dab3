package etl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/BartekS5/uncoupledetl/pkg/etlerrors"
)

const (
	// MaxConnections bounds the requests in flight during FetchMultiple.
	MaxConnections = 10

	// BatchTimeout bounds a whole FetchMultiple call, and a FetchSingle call.
	BatchTimeout = 60 * time.Second

	userAgent = "uncoupledetl/1.0"
)

// Extractor fetches raw payloads from a base URL and its endpoints.
type Extractor struct {
	url       string
	endpoints []string
	params    url.Values
	headers   http.Header
	client    *http.Client
}

type ExtractorOption func(*Extractor)

func WithParams(params url.Values) ExtractorOption {
	return func(e *Extractor) { e.params = params }
}

func WithHeaders(headers http.Header) ExtractorOption {
	return func(e *Extractor) { e.headers = headers }
}

// WithHTTPClient makes every strategy use client instead of a fresh one.
func WithHTTPClient(client *http.Client) ExtractorOption {
	return func(e *Extractor) { e.client = client }
}

func NewExtractor(url string, endpoints []string, opts ...ExtractorOption) *Extractor {
	e := &Extractor{url: url, endpoints: endpoints}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GetData runs the chosen extraction strategy.
func (e *Extractor) GetData(ctx context.Context, strategy FetchStrategy) ([]RawRecord, error) {
	return strategy(ctx, Request{
		URL:       e.url,
		Endpoints: e.endpoints,
		Params:    e.params,
		Headers:   e.headers,
		Client:    e.client,
	})
}

// FetchMultiple issues one GET per endpoint concurrently and returns the
// bodies in endpoint order. The first failure cancels the remaining
// requests and fails the whole batch.
func FetchMultiple(ctx context.Context, req Request) ([]RawRecord, error) {
	client, release := req.httpClient()
	defer release()

	ctx, cancel := context.WithTimeout(ctx, BatchTimeout)
	defer cancel()

	results := make([]RawRecord, len(req.Endpoints))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConnections)
	for i, endpoint := range req.Endpoints {
		g.Go(func() error {
			rec, err := fetchJSON(gctx, client, req.URL+endpoint, req.Params, req.Headers)
			if err != nil {
				return err
			}
			results[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// FetchSingle issues one GET to URL + the only endpoint and returns a
// one-element slice holding its body.
func FetchSingle(ctx context.Context, req Request) ([]RawRecord, error) {
	if len(req.Endpoints) != 1 {
		return nil, etlerrors.NewFetchError(req.URL, 0,
			fmt.Errorf("single-endpoint strategy needs exactly one endpoint, got %d", len(req.Endpoints)))
	}
	client, release := req.httpClient()
	defer release()

	ctx, cancel := context.WithTimeout(ctx, BatchTimeout)
	defer cancel()

	rec, err := fetchJSON(ctx, client, req.URL+req.Endpoints[0], req.Params, req.Headers)
	if err != nil {
		return nil, err
	}
	return []RawRecord{rec}, nil
}

// First returns the single payload of a FetchSingle result.
func First(records []RawRecord) (RawRecord, error) {
	if len(records) == 0 {
		return nil, etlerrors.NewFetchError("", 0, errors.New("no payload extracted"))
	}
	return records[0], nil
}

// httpClient returns the request's client, or a new one scoped to the call.
func (r Request) httpClient() (*http.Client, func()) {
	if r.Client != nil {
		return r.Client, func() {}
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxConnsPerHost = MaxConnections
	transport.MaxIdleConnsPerHost = MaxConnections

	client := &http.Client{Timeout: BatchTimeout, Transport: transport}
	return client, client.CloseIdleConnections
}

func fetchJSON(ctx context.Context, client *http.Client, rawURL string, params url.Values, headers http.Header) (RawRecord, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, etlerrors.NewFetchError(rawURL, 0, err)
	}
	if len(params) > 0 {
		q := u.Query()
		for key, vals := range params {
			for _, v := range vals {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, etlerrors.NewFetchError(rawURL, 0, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	for key, vals := range headers {
		req.Header.Del(key)
		for _, v := range vals {
			req.Header.Add(key, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, etlerrors.NewFetchError(rawURL, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, etlerrors.NewFetchError(rawURL, resp.StatusCode, errors.New(strings.TrimSpace(string(body))))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var rec RawRecord
	if err := dec.Decode(&rec); err != nil {
		return nil, etlerrors.NewFetchError(rawURL, 0, fmt.Errorf("decode body: %w", err))
	}
	if rec == nil {
		return nil, etlerrors.NewFetchError(rawURL, 0, errors.New("body is not a JSON object"))
	}
	return rec, nil
}
