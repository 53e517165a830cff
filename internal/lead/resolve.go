package lead

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/rendetalje/lead-cli/internal/model"
)

// Resolver folds candidates into canonical leads keyed by identity.
type Resolver struct {
	cases []CasePattern
}

// NewResolver creates a resolver. With no patterns the default case
// patterns are registered.
func NewResolver(cases ...CasePattern) *Resolver {
	if len(cases) == 0 {
		cases = DefaultCases()
	}
	return &Resolver{cases: cases}
}

// Resolve merges candidates sharing an identity key. Candidates are folded
// in origin order (gmail, calendar, billing), then by record date and id,
// so the result does not depend on the order they were collected in.
// Leads are returned in order of first appearance.
func (r *Resolver) Resolve(candidates []model.CandidateLead) []model.CanonicalLead {
	ordered := slices.Clone(candidates)
	slices.SortStableFunc(ordered, compareCandidates)

	index := make(map[string]int, len(ordered))
	var leads []model.CanonicalLead
	for _, c := range ordered {
		key, kind := IdentityKey(c)
		if i, ok := index[key]; ok {
			merge(&leads[i], c)
			continue
		}
		index[key] = len(leads)
		leads = append(leads, newCanonical(key, kind, c))
	}

	for i := range leads {
		leads[i].Cases = r.match(leads[i].Conflicts)
	}
	return leads
}

func originRank(o model.OriginSource) int {
	for i, v := range model.Origins() {
		if v == o {
			return i
		}
	}
	return len(model.Origins())
}

func compareCandidates(a, b model.CandidateLead) int {
	if c := cmp.Compare(originRank(a.Origin), originRank(b.Origin)); c != 0 {
		return c
	}
	switch {
	case a.RawRef.Date == nil && b.RawRef.Date != nil:
		return -1
	case a.RawRef.Date != nil && b.RawRef.Date == nil:
		return 1
	case a.RawRef.Date != nil && b.RawRef.Date != nil:
		if c := a.RawRef.Date.Compare(*b.RawRef.Date); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.ID, b.ID)
}

func newCanonical(key string, kind model.KeyKind, c model.CandidateLead) model.CanonicalLead {
	l := model.CanonicalLead{
		IdentityKey:    key,
		KeyKind:        kind,
		Fields:         c.Fields,
		LeadSource:     c.LeadSource,
		LeadSourceHint: c.LeadSourceHint,
		Status:         c.Status,
		LastContact:    c.LastContact,
		Sources:        []model.OriginSource{c.Origin},
		CandidateIDs:   []string{c.ID},
		Coverage:       make(map[string]model.OriginSource),
	}
	for _, k := range c.Fields.Present() {
		l.Coverage[k] = c.Origin
	}
	return l
}

// merge fills the lead's empty fields from c. A differing non-empty value
// is rejected and recorded as a conflict; the lead keeps its value.
func merge(l *model.CanonicalLead, c model.CandidateLead) {
	for _, k := range model.FieldKeys() {
		if !c.Fields.Has(k) {
			continue
		}
		if !l.Fields.Has(k) {
			copyField(&l.Fields, c.Fields, k)
			l.Coverage[k] = c.Origin
			continue
		}
		kept, rejected := FieldValue(l.Fields, k), FieldValue(c.Fields, k)
		if !sameValue(k, kept, rejected) {
			l.Conflicts = append(l.Conflicts, model.Conflict{
				Field:       k,
				Kept:        kept,
				Rejected:    rejected,
				CandidateID: c.ID,
				Origin:      c.Origin,
			})
		}
	}

	if (l.LeadSource == "" || l.LeadSource == model.LeadSourceUnknown) &&
		c.LeadSource != "" && c.LeadSource != model.LeadSourceUnknown {
		l.LeadSource = c.LeadSource
		l.LeadSourceHint = c.LeadSourceHint
	}
	// Status follows the most recent contact.
	if c.LastContact != nil && (l.LastContact == nil || c.LastContact.After(*l.LastContact)) {
		l.LastContact = c.LastContact
		if c.Status != "" {
			l.Status = c.Status
		}
	} else if l.Status == "" {
		l.Status = c.Status
	}
	if !l.HasSource(c.Origin) {
		l.Sources = append(l.Sources, c.Origin)
	}
	l.CandidateIDs = append(l.CandidateIDs, c.ID)
}

// sameValue compares identity fields in their normalized form so case or
// spacing differences are not reported as conflicts.
func sameValue(key, a, b string) bool {
	switch key {
	case model.FieldEmail:
		return NormalizeEmail(a) == NormalizeEmail(b)
	case model.FieldName:
		return NormalizeName(a) == NormalizeName(b)
	default:
		return a == b
	}
}

func copyField(dst *model.ExtractedFields, src model.ExtractedFields, key string) {
	switch key {
	case model.FieldName:
		dst.Name = src.Name
	case model.FieldEmail:
		dst.Email = src.Email
	case model.FieldPhone:
		dst.Phone = src.Phone
	case model.FieldAddress:
		dst.Address = src.Address
	case model.FieldCompany:
		dst.Company = src.Company
	case model.FieldServiceType:
		dst.ServiceType = src.ServiceType
	case model.FieldPropertySize:
		dst.PropertySize = src.PropertySize
	case model.FieldPrice:
		dst.Price = src.Price
	case model.FieldDeadline:
		dst.Deadline = src.Deadline
	case model.FieldFrequency:
		dst.Frequency = src.Frequency
	case model.FieldLeadType:
		dst.LeadType = src.LeadType
	case model.FieldTimeEstimate:
		dst.TimeEstimate = src.TimeEstimate
	}
}

// FieldValue renders a field as text for conflicts and exports. Absent
// fields render as "".
func FieldValue(f model.ExtractedFields, key string) string {
	switch key {
	case model.FieldName:
		return f.Name
	case model.FieldEmail:
		return f.Email
	case model.FieldPhone:
		return f.Phone
	case model.FieldAddress:
		return f.Address
	case model.FieldCompany:
		return f.Company
	case model.FieldServiceType:
		return f.ServiceType
	case model.FieldPropertySize:
		return f.PropertySize
	case model.FieldPrice:
		if f.Price == nil {
			return ""
		}
		return strconv.FormatFloat(*f.Price, 'f', -1, 64)
	case model.FieldDeadline:
		return f.Deadline
	case model.FieldFrequency:
		return f.Frequency
	case model.FieldLeadType:
		if !f.Has(model.FieldLeadType) {
			return ""
		}
		return string(f.LeadType)
	case model.FieldTimeEstimate:
		return timeEstimateValue(f.TimeEstimate)
	default:
		return ""
	}
}

func timeEstimateValue(te *model.TimeEstimate) string {
	if te == nil {
		return ""
	}
	var parts []string
	if te.EstimatedHours != nil {
		parts = append(parts, strconv.FormatFloat(*te.EstimatedHours, 'f', -1, 64)+"h")
	}
	if te.ActualHours != nil {
		parts = append(parts, strconv.FormatFloat(*te.ActualHours, 'f', -1, 64)+"h actual")
	}
	if len(parts) == 0 {
		return te.Text
	}
	return strings.Join(parts, ", ")
}
