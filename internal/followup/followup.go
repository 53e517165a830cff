// Package followup ranks canonical leads into follow-up priority tables.
package followup

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/rendetalje/lead-cli/internal/lead"
	"github.com/rendetalje/lead-cli/internal/model"
)

// DefaultInactiveDays is the age after which a lead lands in P3.
const DefaultInactiveDays = 14

// Recommendation is attached to every P3 row.
const Recommendation = "Send høflig opfølgning eller arkiver"

// Priority identifies a follow-up table.
type Priority int

const (
	P1 Priority = iota + 1 // they wrote last
	P2                     // we wrote last
	P3                     // inactive
)

// Title is the table heading.
func (p Priority) Title() string {
	switch p {
	case P1:
		return "PRIORITET 1: Klar til opfølgning (de har skrevet sidst)"
	case P2:
		return "PRIORITET 2: Afventer deres svar (vi har skrevet sidst)"
	case P3:
		return "PRIORITET 3: Inaktive/kolde leads"
	default:
		return ""
	}
}

// Row is one lead in a priority table.
type Row struct {
	Priority    Priority
	Key         string
	Name        string
	Email       string
	Type        model.LeadType
	LastContact time.Time
	DaysSince   int
	Info        string
}

// Plan holds the three priority tables, each sorted oldest contact first.
type Plan struct {
	P1 []Row
	P2 []Row
	P3 []Row
}

// Rows returns all tables concatenated in priority order.
func (p Plan) Rows() []Row {
	out := make([]Row, 0, len(p.P1)+len(p.P2)+len(p.P3))
	out = append(out, p.P1...)
	out = append(out, p.P2...)
	return append(out, p.P3...)
}

// Build sorts leads into the follow-up tables as of now. Leads without a
// last contact or conversation status (calendar and billing only) and
// declined leads are left out. A lead silent for more than inactiveDays, or
// already marked inactive, goes to P3 regardless of who wrote last.
func Build(leads []model.CanonicalLead, now time.Time, inactiveDays int) Plan {
	if inactiveDays <= 0 {
		inactiveDays = DefaultInactiveDays
	}

	var plan Plan
	for _, l := range leads {
		if l.LastContact == nil || l.Status == "" || l.Status == model.StatusDeclined {
			continue
		}
		row := newRow(l, now)

		switch {
		case row.DaysSince > inactiveDays || l.Status == model.StatusInactive:
			row.Priority = P3
			row.Info = Recommendation
			plan.P3 = append(plan.P3, row)
		case row.Email == "":
			// Nothing to follow up on without an address.
		case l.Status == model.StatusAwaitingUs:
			row.Priority = P1
			row.Info = keyInfo(l.Fields)
			plan.P1 = append(plan.P1, row)
		case l.Status == model.StatusAwaitingCustomer:
			row.Priority = P2
			row.Info = offerInfo(l.Fields)
			plan.P2 = append(plan.P2, row)
		}
	}

	for _, rows := range [][]Row{plan.P1, plan.P2, plan.P3} {
		slices.SortFunc(rows, func(a, b Row) int {
			if c := cmp.Compare(b.DaysSince, a.DaysSince); c != 0 {
				return c
			}
			return cmp.Compare(a.Key, b.Key)
		})
	}
	return plan
}

func newRow(l model.CanonicalLead, now time.Time) Row {
	days := int(now.Sub(*l.LastContact).Hours() / 24)
	if days < 0 {
		days = 0
	}
	t := l.Fields.LeadType
	if t == "" {
		t = model.LeadTypeUnknown
	}
	return Row{
		Key:         l.IdentityKey,
		Name:        l.Fields.Name,
		Email:       l.Fields.Email,
		Type:        t,
		LastContact: *l.LastContact,
		DaysSince:   days,
	}
}

func keyInfo(f model.ExtractedFields) string {
	return join(
		lead.FieldValue(f, model.FieldServiceType),
		lead.FieldValue(f, model.FieldPropertySize),
		lead.FieldValue(f, model.FieldAddress),
	)
}

func offerInfo(f model.ExtractedFields) string {
	price := lead.FieldValue(f, model.FieldPrice)
	if price != "" {
		price += " kr"
	}
	return join(price, lead.FieldValue(f, model.FieldFrequency), lead.FieldValue(f, model.FieldTimeEstimate))
}

func join(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " | ")
}
