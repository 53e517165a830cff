package pipeline

import (
	"math"
	"time"

	"github.com/rendetalje/lead-cli/internal/model"
)

type accumulator struct {
	spam     int
	outcomes []model.AdapterOutcome
}

func newAccumulator() *accumulator { return &accumulator{} }

func buildSummary(runID string, collectedAt time.Time, period model.Period, candidates []model.CandidateLead, leads []model.CanonicalLead, acc *accumulator, skipped int) model.Summary {
	s := model.Summary{
		RunID:       runID,
		CollectedAt: collectedAt.UTC(),
		Period:      period,
		Counts: model.Counts{
			Candidates:   len(candidates),
			Canonical:    len(leads),
			PerSource:    make(map[model.OriginSource]int, len(model.Origins())),
			SpamFiltered: acc.spam,
			Skipped:      skipped,
		},
		LeadSources: make(map[model.LeadSource]int),
		Coverage:    Coverage(leads),
		Adapters:    acc.outcomes,
	}
	for _, o := range model.Origins() {
		s.Counts.PerSource[o] = 0
	}
	for _, c := range candidates {
		s.Counts.PerSource[c.Origin]++
	}
	for _, l := range leads {
		src := l.LeadSource
		if src == "" {
			src = model.LeadSourceUnknown
		}
		s.LeadSources[src]++
	}
	s.Warnings = skipped + len(s.Failed())
	return s
}

// Coverage counts, per field, the canonical leads holding a value and the
// share of all leads that represents, rounded to one decimal.
func Coverage(leads []model.CanonicalLead) map[string]model.FieldCoverage {
	cov := make(map[string]model.FieldCoverage, len(model.FieldKeys()))
	for _, k := range model.FieldKeys() {
		n := 0
		for _, l := range leads {
			if l.Fields.Has(k) {
				n++
			}
		}
		pct := 0.0
		if len(leads) > 0 {
			pct = math.Round(float64(n)/float64(len(leads))*1000) / 10
		}
		cov[k] = model.FieldCoverage{Count: n, Percent: pct}
	}
	return cov
}
