package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/rendetalje/lead-cli/internal/model"
	"github.com/rendetalje/lead-cli/internal/resilience"
)

// FixtureAdapter replays raw records from <dir>/<origin>.json, an array of
// records shaped like the model types. It backs offline runs and tests.
type FixtureAdapter struct {
	dir    string
	origin model.OriginSource
}

// NewFixtureAdapter creates a fixture adapter for one origin.
func NewFixtureAdapter(dir string, origin model.OriginSource) *FixtureAdapter {
	return &FixtureAdapter{dir: dir, origin: origin}
}

// FixtureAdapters returns one fixture adapter per origin in pipeline order.
func FixtureAdapters(dir string) []Adapter {
	var out []Adapter
	for _, o := range model.Origins() {
		out = append(out, NewFixtureAdapter(dir, o))
	}
	return out
}

func (a *FixtureAdapter) Origin() model.OriginSource { return a.origin }

// Path is the fixture file read by Fetch.
func (a *FixtureAdapter) Path() string {
	return filepath.Join(a.dir, string(a.origin)+".json")
}

// Fetch decodes the fixture file. A missing file yields zero records.
func (a *FixtureAdapter) Fetch(ctx context.Context, _ FetchRequest) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return &Result{}, &AdapterFetchError{Source: a.origin, Op: "read fixture", Err: err}
	}

	data, err := os.ReadFile(a.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return &Result{}, nil
	}
	if err != nil {
		return &Result{}, &AdapterFetchError{Source: a.origin, Op: "read fixture", Err: eris.Wrap(err, "source: read fixture")}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return &Result{}, &AdapterFetchError{Source: a.origin, Op: "decode fixture", Err: eris.Wrapf(err, "source: decode %s", a.Path())}
	}

	res := &Result{Pages: 1}
	for i, raw := range elems {
		rec, err := a.decode(raw)
		if err != nil {
			id := fmt.Sprintf("#%d", i)
			res.Skipped = append(res.Skipped, resilience.Skip(a.origin, id, &ParseError{Source: a.origin, RecordID: id, Reason: err.Error()}))
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

func (a *FixtureAdapter) decode(raw json.RawMessage) (model.RawRecord, error) {
	switch a.origin {
	case model.OriginGmail:
		var t model.RawThread
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, err
		}
		if first := t.First(); first != nil {
			if t.Subject == "" {
				t.Subject = first.Subject
			}
			if t.From == "" {
				t.From = first.From
			}
			if t.Date.IsZero() {
				t.Date = first.Date
			}
		}
		return t, nil
	case model.OriginCalendar:
		var e model.RawEvent
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		return e, nil
	case model.OriginBilling:
		var c model.RawContact
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, eris.Errorf("source: unknown origin %q", a.origin)
	}
}
