package publish

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/rendetalje/lead-cli/internal/lead"
	"github.com/rendetalje/lead-cli/internal/model"
	"github.com/rendetalje/lead-cli/pkg/salesforce"
)

// Salesforce requires LastName and Company on every Lead.
const (
	unknownLastName = "Ukendt"
	privateCompany  = "Privat"
)

// SalesforcePublisher upserts Lead records keyed by Lead_Key__c.
type SalesforcePublisher struct {
	client salesforce.Client
	log    *zap.Logger
}

// NewSalesforcePublisher creates a Salesforce publisher.
func NewSalesforcePublisher(c salesforce.Client, log *zap.Logger) *SalesforcePublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &SalesforcePublisher{client: c, log: log}
}

func (p *SalesforcePublisher) Target() string { return "salesforce" }

func (p *SalesforcePublisher) Publish(ctx context.Context, leads []model.CanonicalLead) (*Report, error) {
	records := make([]map[string]any, len(leads))
	for i, l := range leads {
		records[i] = LeadRecord(l)
	}

	res, err := salesforce.UpsertLeads(ctx, p.client, records)
	if err != nil {
		return nil, eris.Wrap(err, "publish: salesforce")
	}

	rep := &Report{Target: p.Target(), Created: res.Created, Updated: res.Updated}
	for _, f := range res.Failed {
		msg := strings.Join(f.Errors, "; ")
		p.log.Warn("publish: salesforce record rejected", zap.String("key", f.Key), zap.String("error", msg))
		rep.Failed = append(rep.Failed, Failure{Key: f.Key, Error: msg})
	}
	rep.sortFailures()
	return rep, nil
}

// LeadRecord maps a lead onto Salesforce Lead fields.
func LeadRecord(l model.CanonicalLead) map[string]any {
	f := l.Fields
	first, last := splitName(f.Name)
	if last == "" {
		last = unknownLastName
	}
	company := f.Company
	if company == "" {
		company = privateCompany
	}

	rec := map[string]any{
		salesforce.LeadKeyField: l.IdentityKey,
		"LastName":              last,
		"Company":               company,
	}
	set := func(field, v string) {
		if v != "" {
			rec[field] = v
		}
	}
	set("FirstName", first)
	set("Email", f.Email)
	set("Phone", f.Phone)
	set("Street", f.Address)
	if l.LeadSource != "" {
		rec["LeadSource"] = l.LeadSource.Label()
	}
	set("Description", description(l))
	return rec
}

// splitName puts the last word in LastName and the rest in FirstName.
func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
	}
}

// description summarizes the job details that have no Lead field.
func description(l model.CanonicalLead) string {
	var lines []string
	add := func(label, key string) {
		if v := lead.FieldValue(l.Fields, key); v != "" {
			lines = append(lines, label+": "+v)
		}
	}
	add("Ydelse", model.FieldServiceType)
	add("Type", model.FieldLeadType)
	add("Størrelse", model.FieldPropertySize)
	add("Pris", model.FieldPrice)
	add("Frekvens", model.FieldFrequency)
	add("Deadline", model.FieldDeadline)
	add("Tidsestimat", model.FieldTimeEstimate)
	if l.Status != "" {
		lines = append(lines, "Status: "+string(l.Status))
	}
	return strings.Join(lines, "\n")
}
