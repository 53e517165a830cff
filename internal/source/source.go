// Package source fetches raw records from the systems leads live in. Each
// adapter owns its query contract, pagination and pacing; transports are in
// pkg/gmail, pkg/gcal and pkg/billy.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rendetalje/lead-cli/internal/model"
	"github.com/rendetalje/lead-cli/internal/resilience"
	"github.com/rendetalje/lead-cli/pkg/billy"
	"github.com/rendetalje/lead-cli/pkg/gcal"
	"github.com/rendetalje/lead-cli/pkg/gmail"
)

// FetchRequest bounds a fetch.
type FetchRequest struct {
	Period model.Period
	// PageCap overrides the adapter's page ceiling when > 0.
	PageCap int
}

// Result is what an adapter collected. Returned alongside a non-nil error it
// is a partial result.
type Result struct {
	Records []model.RawRecord
	Pages   int
	Skipped []model.SkippedRecord
}

// Adapter fetches raw records from one origin.
type Adapter interface {
	Origin() model.OriginSource
	Fetch(ctx context.Context, req FetchRequest) (*Result, error)
}

// AdapterFetchError means an adapter could not complete its fetch. Records
// collected before the failure are still returned in the Result.
type AdapterFetchError struct {
	Source model.OriginSource
	Op     string
	Err    error
}

func (e *AdapterFetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Op, e.Err)
}

func (e *AdapterFetchError) Unwrap() error { return e.Err }

// ParseError is a single raw record that could not be interpreted.
type ParseError struct {
	Source   model.OriginSource
	RecordID string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: record %s: %s", e.Source, e.RecordID, e.Reason)
}

// classifyHTTP turns a transport APIError into the resilience taxonomy so
// the retry loop can tell throttling and outages from permanent failures.
func classifyHTTP(service string, err error) error {
	if err == nil {
		return nil
	}
	var (
		code int
		h    http.Header
	)
	var ge *gmail.APIError
	var ce *gcal.APIError
	var be *billy.APIError
	switch {
	case errors.As(err, &ge):
		code, h = ge.StatusCode, ge.Header
	case errors.As(err, &ce):
		code, h = ce.StatusCode, ce.Header
	case errors.As(err, &be):
		code, h = be.StatusCode, be.Header
	default:
		return err
	}
	return resilience.FromHTTPStatus(service, code, h, err)
}

func retryFor(base resilience.RetryConfig, service, op string) resilience.RetryConfig {
	cfg := base
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.RetryLogger(service, op)
	}
	return cfg
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
