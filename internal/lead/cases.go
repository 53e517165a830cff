package lead

import (
	"slices"

	"github.com/rendetalje/lead-cli/internal/model"
)

// CasePattern names a recurring data-quality situation by the set of fields
// that conflict when it occurs.
type CasePattern struct {
	Name   string
	Fields []string
}

// DefaultCases returns the registered case patterns.
func DefaultCases() []CasePattern {
	return []CasePattern{
		{Name: "price-mismatch", Fields: []string{model.FieldPrice}},
		{Name: "team-size-ambiguity", Fields: []string{model.FieldTimeEstimate}},
		{Name: "contact-mismatch", Fields: []string{model.FieldPhone}},
	}
}

// match returns the names of every pattern whose fields all appear among
// the conflicts, in registration order.
func (r *Resolver) match(conflicts []model.Conflict) []string {
	if len(conflicts) == 0 {
		return nil
	}
	conflicted := make(map[string]bool, len(conflicts))
	for _, c := range conflicts {
		conflicted[c.Field] = true
	}

	var names []string
	for _, p := range r.cases {
		if len(p.Fields) > 0 && !slices.ContainsFunc(p.Fields, func(f string) bool { return !conflicted[f] }) {
			names = append(names, p.Name)
		}
	}
	return names
}
