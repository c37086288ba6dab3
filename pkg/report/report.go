// Package report forwards run failures to an external error tracker.
// Reporting is a side effect only: callers log and ignore its errors.
package report

import (
	"context"
	"errors"
	"time"

	"github.com/getsentry/sentry-go"
)

// Reporter receives the error that aborted a run.
type Reporter interface {
	Report(ctx context.Context, err error) error
	Flush(timeout time.Duration) bool
}

// Nop discards every report. It is used when no DSN is configured.
type Nop struct{}

func (Nop) Report(context.Context, error) error { return nil }

func (Nop) Flush(time.Duration) bool { return true }

// Sentry sends reports through its own hub, leaving the global sentry
// client untouched.
type Sentry struct {
	hub *sentry.Hub
}

// NewSentry creates a Sentry reporter for dsn.
func NewSentry(dsn, environment string) (*Sentry, error) {
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	})
	if err != nil {
		return nil, err
	}
	return &Sentry{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

func (s *Sentry) Report(ctx context.Context, err error) error {
	hub := s.hub.Clone()
	hub.Scope().SetContext("run", sentry.Context{"cause": err.Error()})
	if id := hub.CaptureException(err); id == nil {
		return errors.New("sentry: event was not captured")
	}
	return nil
}

func (s *Sentry) Flush(timeout time.Duration) bool {
	return s.hub.Flush(timeout)
}

// FromDSN returns a Sentry reporter, or Nop when dsn is empty.
func FromDSN(dsn, environment string) (Reporter, error) {
	if dsn == "" {
		return Nop{}, nil
	}
	return NewSentry(dsn, environment)
}
