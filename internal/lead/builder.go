// Package lead turns raw records into candidate leads and folds candidates
// from every source into canonical leads.
package lead

import (
	"strings"
	"time"

	"github.com/rendetalje/lead-cli/internal/extract"
	"github.com/rendetalje/lead-cli/internal/model"
	"github.com/rendetalje/lead-cli/internal/rules"
	"github.com/rendetalje/lead-cli/internal/source"
)

// Candidate id prefixes per origin.
const (
	prefixGmail    = "GMAIL_"
	prefixCalendar = "CAL_"
	prefixBilling  = "BILLY_"
)

// Builder builds one CandidateLead per raw record.
type Builder struct {
	ownDomains     []string
	staleAfterDays int
	now            func() time.Time
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithOwnDomains sets the domains whose senders are us.
func WithOwnDomains(domains []string) BuilderOption {
	return func(b *Builder) { b.ownDomains = domains }
}

// WithStaleAfterDays sets the inactivity threshold for status.
func WithStaleAfterDays(days int) BuilderOption {
	return func(b *Builder) { b.staleAfterDays = days }
}

// WithNow fixes the clock used for status.
func WithNow(now func() time.Time) BuilderOption {
	return func(b *Builder) { b.now = now }
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{staleAfterDays: extract.DefaultStaleAfterDays, now: time.Now}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build converts rec into a candidate carrying cls as its lead source.
func (b *Builder) Build(rec model.RawRecord, cls rules.Classification) (model.CandidateLead, error) {
	var (
		c   model.CandidateLead
		err error
	)
	switch r := rec.(type) {
	case model.RawThread:
		c, err = b.fromThread(r)
	case model.RawEvent:
		c = fromEvent(r)
	case model.RawContact:
		c, err = fromContact(r)
	default:
		return model.CandidateLead{}, &source.ParseError{Source: rec.Origin(), RecordID: rec.RecordID(), Reason: "unsupported record kind"}
	}
	if err != nil {
		return model.CandidateLead{}, err
	}
	c.LeadSource = cls.Source
	c.LeadSourceHint = cls.Hint
	return c, nil
}

func (b *Builder) fromThread(t model.RawThread) (model.CandidateLead, error) {
	first, last := t.First(), t.Last()
	if first == nil {
		return model.CandidateLead{}, &source.ParseError{Source: model.OriginGmail, RecordID: t.ID, Reason: "thread has no messages"}
	}

	fields := extract.Merge(extract.Fields(first.Body), extract.Fields(last.Body))
	if fields.ServiceType == "" {
		fields.ServiceType = extract.ServiceType(t.Subject)
	}

	if header := b.leadHeader(t); header != "" {
		addr := extract.AddressFromHeader(header)
		if fields.Email == "" {
			fields.Email = addr
		}
		if fields.Name == "" {
			fields.Name = extract.NameFromHeader(header)
		}
		if fields.Company == "" {
			fields.Company = extract.CompanyFromEmail(fields.Email)
		}
	}

	var all strings.Builder
	for _, m := range t.Messages {
		all.WriteString(m.Subject)
		all.WriteByte('\n')
		all.WriteString(m.Body)
		all.WriteByte('\n')
	}
	if lt := extract.DetermineType(all.String()); lt != model.LeadTypeUnknown {
		fields.LeadType = lt
	}

	c := model.CandidateLead{
		ID:     prefixGmail + t.ID,
		Origin: model.OriginGmail,
		Fields: fields,
		Status: extract.DetermineStatus(extract.StatusInput{
			LastFromUs: extract.IsOwnAddress(last.From, b.ownDomains),
			LastBody:   last.Body,
			LastDate:   last.Date,
		}, b.now(), b.staleAfterDays),
		RawRef: model.RawRef{Origin: model.OriginGmail, ID: t.ID, Title: t.Subject, Date: timePtr(t.Date)},
	}
	c.LastContact = timePtr(last.Date)
	return c, nil
}

// leadHeader picks the customer side of a thread: the latest sender that is
// neither us nor a robot, else the first recipient that is not us.
func (b *Builder) leadHeader(t model.RawThread) string {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		from := t.Messages[i].From
		if from != "" && !extract.IsOwnAddress(from, b.ownDomains) && !extract.IsAutomated(from) {
			return from
		}
	}
	for _, m := range t.Messages {
		if m.To != "" && !extract.IsOwnAddress(m.To, b.ownDomains) && !extract.IsAutomated(m.To) {
			return m.To
		}
	}
	return ""
}

func fromEvent(e model.RawEvent) model.CandidateLead {
	text := e.Title + "\n" + e.Description
	fields := extract.Fields(text)
	if fields.Address == "" {
		fields.Address = strings.TrimSpace(e.Location)
	}
	if fields.TimeEstimate == nil && !e.End.IsZero() {
		fields.TimeEstimate = extract.FromDuration(int(e.End.Sub(e.Start).Minutes()))
	}
	return model.CandidateLead{
		ID:          prefixCalendar + e.ID,
		Origin:      model.OriginCalendar,
		Fields:      fields,
		LastContact: timePtr(e.Start),
		RawRef:      model.RawRef{Origin: model.OriginCalendar, ID: e.ID, Title: e.Title, Date: timePtr(e.Start)},
	}
}

func fromContact(c model.RawContact) (model.CandidateLead, error) {
	name := strings.TrimSpace(c.Name)
	phone := extract.Phone(c.Phone)
	if phone == "" {
		phone = strings.TrimSpace(c.Phone)
	}
	email := strings.ToLower(strings.TrimSpace(c.Email))
	if name == "" && phone == "" && email == "" {
		return model.CandidateLead{}, &source.ParseError{Source: model.OriginBilling, RecordID: c.ID, Reason: "contact has no name, phone or email"}
	}
	return model.CandidateLead{
		ID:     prefixBilling + c.ID,
		Origin: model.OriginBilling,
		Fields: model.ExtractedFields{
			Name:    name,
			Email:   email,
			Phone:   phone,
			Address: strings.TrimSpace(c.Address),
			Company: name,
		},
		RawRef: model.RawRef{Origin: model.OriginBilling, ID: c.ID, Title: name},
	}, nil
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
