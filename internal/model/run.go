package model

import "time"

// RunStatus represents the current state of a collection run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusPartial  RunStatus = "partial"
	RunStatusFailed   RunStatus = "failed"
)

// Period is the closed time window a run collects.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// AdapterOutcome is the per-source line of the run report.
type AdapterOutcome struct {
	Source     OriginSource `json:"source"`
	OK         bool         `json:"ok"`
	Records    int          `json:"records"`
	Pages      int          `json:"pages,omitempty"`
	Skipped    int          `json:"skipped,omitempty"`
	Error      string       `json:"error,omitempty"`
	DurationMs int64        `json:"duration_ms"`
}

// FieldCoverage counts canonical leads holding a field.
type FieldCoverage struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Counts holds the per-step record counts of a run.
type Counts struct {
	Candidates   int                  `json:"candidates"`
	Canonical    int                  `json:"canonical"`
	PerSource    map[OriginSource]int `json:"per_source"`
	SpamFiltered int                  `json:"spam_filtered"`
	Skipped      int                  `json:"skipped"`
}

// Summary is the artifact metadata and the structured run report.
type Summary struct {
	RunID       string                   `json:"run_id"`
	CollectedAt time.Time                `json:"collected_at"`
	Period      Period                   `json:"period"`
	Counts      Counts                   `json:"counts"`
	LeadSources map[LeadSource]int       `json:"lead_sources"`
	Coverage    map[string]FieldCoverage `json:"coverage"`
	Adapters    []AdapterOutcome         `json:"adapters"`
	Warnings    int                      `json:"warnings"`
}

// Failed returns the adapters that reported FAIL.
func (s *Summary) Failed() []AdapterOutcome {
	var out []AdapterOutcome
	for _, a := range s.Adapters {
		if !a.OK {
			out = append(out, a)
		}
	}
	return out
}

// Artifact is the durable output of a run.
type Artifact struct {
	Metadata Summary         `json:"metadata"`
	Leads    []CanonicalLead `json:"leads"`
}

// Run is a ledger row describing one collection run.
type Run struct {
	ID           string    `json:"id"`
	Status       RunStatus `json:"status"`
	Period       Period    `json:"period"`
	Summary      *Summary  `json:"summary,omitempty"`
	ArtifactPath string    `json:"artifact_path,omitempty"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
