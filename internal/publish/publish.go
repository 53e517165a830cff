// Package publish pushes canonical leads to downstream CRMs.
package publish

import (
	"context"
	"sort"

	"github.com/rendetalje/lead-cli/internal/model"
)

// Publisher upserts canonical leads into one target, keyed by identity key.
type Publisher interface {
	Target() string
	Publish(ctx context.Context, leads []model.CanonicalLead) (*Report, error)
}

// Failure is a lead the target rejected.
type Failure struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

// Report tallies one publish call.
type Report struct {
	Target  string    `json:"target"`
	Created int       `json:"created"`
	Updated int       `json:"updated"`
	Failed  []Failure `json:"failed,omitempty"`
}

func (r *Report) sortFailures() {
	sort.Slice(r.Failed, func(i, j int) bool { return r.Failed[i].Key < r.Failed[j].Key })
}
