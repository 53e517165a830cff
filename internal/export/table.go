package export

import (
	"strings"
	"time"

	"github.com/rendetalje/lead-cli/internal/lead"
	"github.com/rendetalje/lead-cli/internal/model"
)

// Columns is the header row of every tabular export.
var Columns = []string{
	"Navn", "Email", "Telefon", "Adresse", "Firma",
	"Kilde", "Status", "Type", "Ydelse", "Størrelse",
	"Pris", "Frekvens", "Deadline", "Tidsestimat",
	"Sidste kontakt", "Systemer", "Konflikter", "Cases", "Nøgle",
}

// Row renders one lead in Columns order.
func Row(l model.CanonicalLead) []string {
	f := l.Fields
	last := ""
	if l.LastContact != nil {
		last = l.LastContact.Format(time.DateOnly)
	}
	sources := make([]string, len(l.Sources))
	for i, s := range l.Sources {
		sources[i] = string(s)
	}
	conflicts := make([]string, len(l.Conflicts))
	for i, c := range l.Conflicts {
		conflicts[i] = c.Field + ": " + c.Kept + " / " + c.Rejected
	}
	source := ""
	if l.LeadSource != "" {
		source = l.LeadSource.Label()
	}

	return []string{
		f.Name,
		f.Email,
		f.Phone,
		f.Address,
		f.Company,
		source,
		string(l.Status),
		lead.FieldValue(f, model.FieldLeadType),
		f.ServiceType,
		f.PropertySize,
		lead.FieldValue(f, model.FieldPrice),
		f.Frequency,
		f.Deadline,
		lead.FieldValue(f, model.FieldTimeEstimate),
		last,
		strings.Join(sources, ", "),
		strings.Join(conflicts, "; "),
		strings.Join(l.Cases, ", "),
		l.IdentityKey,
	}
}
