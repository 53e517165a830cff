package followup

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendetalje/lead-cli/internal/model"
)

var now = time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) *time.Time {
	t := now.AddDate(0, 0, -d)
	return &t
}

func canonical(key, email string, status model.LeadStatus, last *time.Time) model.CanonicalLead {
	return model.CanonicalLead{
		IdentityKey: key,
		Fields:      model.ExtractedFields{Name: "Kunde " + key, Email: email},
		Status:      status,
		LastContact: last,
	}
}

func TestBuild(t *testing.T) {
	price := 1500.0
	withOffer := canonical("offer", "offer@example.dk", model.StatusAwaitingCustomer, daysAgo(3))
	withOffer.Fields.Price = &price
	withOffer.Fields.Frequency = "Ugentlig"

	withInfo := canonical("info", "info@example.dk", model.StatusAwaitingUs, daysAgo(2))
	withInfo.Fields.ServiceType = "REN-005"
	withInfo.Fields.PropertySize = "120 m²"

	leads := []model.CanonicalLead{
		withInfo,
		canonical("p1-old", "old@example.dk", model.StatusAwaitingUs, daysAgo(9)),
		withOffer,
		canonical("stale-us", "a@example.dk", model.StatusAwaitingUs, daysAgo(20)),
		canonical("stale-them", "b@example.dk", model.StatusAwaitingCustomer, daysAgo(30)),
		canonical("inactive", "c@example.dk", model.StatusInactive, daysAgo(5)),
		canonical("declined", "d@example.dk", model.StatusDeclined, daysAgo(1)),
		canonical("no-email", "", model.StatusAwaitingUs, daysAgo(1)),
		canonical("no-contact", "e@example.dk", model.StatusAwaitingUs, nil),
		canonical("billing-only", "f@example.dk", "", daysAgo(1)),
	}

	plan := Build(leads, now, 0)

	keys := func(rows []Row) []string {
		var out []string
		for _, r := range rows {
			out = append(out, r.Key)
		}
		return out
	}
	assert.Equal(t, []string{"p1-old", "info"}, keys(plan.P1))
	assert.Equal(t, []string{"offer"}, keys(plan.P2))
	assert.Equal(t, []string{"stale-them", "stale-us", "inactive"}, keys(plan.P3))

	assert.Equal(t, "REN-005 | 120 m²", plan.P1[1].Info)
	assert.Equal(t, "1500 kr | Ugentlig", plan.P2[0].Info)
	for _, r := range plan.P3 {
		assert.Equal(t, Recommendation, r.Info)
		assert.Equal(t, P3, r.Priority)
	}
	assert.Equal(t, model.LeadTypeUnknown, plan.P1[0].Type)
	assert.Equal(t, 9, plan.P1[0].DaysSince)
	assert.Len(t, plan.Rows(), 6)
}

func TestBuild_InactiveDays(t *testing.T) {
	leads := []model.CanonicalLead{
		canonical("a", "a@example.dk", model.StatusAwaitingUs, daysAgo(5)),
	}

	tests := []struct {
		name string
		days int
		p1   int
		p3   int
	}{
		{"default", 0, 1, 0},
		{"below threshold", 4, 0, 1},
		{"at threshold", 5, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Build(leads, now, tt.days)
			assert.Len(t, plan.P1, tt.p1)
			assert.Len(t, plan.P3, tt.p3)
		})
	}
}

func TestBuild_FutureContact(t *testing.T) {
	future := now.Add(48 * time.Hour)
	plan := Build([]model.CanonicalLead{
		canonical("a", "a@example.dk", model.StatusAwaitingUs, &future),
	}, now, 0)
	require.Len(t, plan.P1, 1)
	assert.Zero(t, plan.P1[0].DaysSince)
}

func TestWriteTables(t *testing.T) {
	plan := Build([]model.CanonicalLead{
		canonical("a", "a@example.dk", model.StatusAwaitingUs, daysAgo(2)),
		canonical("b", "b@example.dk", model.StatusAwaitingCustomer, daysAgo(20)),
	}, now, 0)

	var buf bytes.Buffer
	require.NoError(t, WriteTables(&buf, plan))
	out := buf.String()

	assert.Contains(t, out, P1.Title()+" (1)")
	assert.Contains(t, out, P2.Title()+" (0)")
	assert.Contains(t, out, "Ingen leads.")
	assert.Contains(t, out, "a@example.dk")
	assert.Contains(t, out, "2025-10-18")
	assert.Contains(t, out, Recommendation)
}

func TestWriteCSV(t *testing.T) {
	plan := Build([]model.CanonicalLead{
		canonical("a", "a@example.dk", model.StatusAwaitingUs, daysAgo(2)),
		canonical("b", "b@example.dk", model.StatusInactive, daysAgo(16)),
	}, now, 0)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, plan))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, CSVHeader, recs[0])
	assert.Equal(t, []string{"P1", "Kunde a", "a@example.dk", "Ukendt", "2025-10-18", "2", "", "a"}, recs[1])
	assert.Equal(t, "P3", recs[2][0])
	assert.Equal(t, Recommendation, recs[2][6])
}
