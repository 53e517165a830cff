package model

import "time"

// LeadSource is the referral channel a communication is attributed to.
type LeadSource string

const (
	LeadSourceLeadpoint   LeadSource = "Leadpoint"
	LeadSourceRengoringNu LeadSource = "RengoringNu"
	LeadSourceAdHelp      LeadSource = "AdHelp"
	LeadSourceDirect      LeadSource = "Direct"
	LeadSourceExisting    LeadSource = "Existing"
	LeadSourceUnknown     LeadSource = "Unknown"
)

// LeadSources returns every lead source in classifier priority order.
func LeadSources() []LeadSource {
	return []LeadSource{
		LeadSourceLeadpoint,
		LeadSourceRengoringNu,
		LeadSourceAdHelp,
		LeadSourceExisting,
		LeadSourceDirect,
		LeadSourceUnknown,
	}
}

// Valid reports whether s is one of the known lead sources.
func (s LeadSource) Valid() bool {
	for _, ls := range LeadSources() {
		if s == ls {
			return true
		}
	}
	return false
}

// Label returns the display name used in reports.
func (s LeadSource) Label() string {
	switch s {
	case LeadSourceLeadpoint:
		return "Leadpoint.dk (Rengøring Aarhus)"
	case LeadSourceRengoringNu:
		return "Rengøring.nu (Leadmail.no)"
	case LeadSourceAdHelp:
		return "AdHelp"
	case LeadSourceDirect:
		return "Direct"
	case LeadSourceExisting:
		return "Existing"
	default:
		return "Unknown"
	}
}

// LeadType is the cleaning category a lead asked about.
type LeadType string

const (
	LeadTypeRecurring LeadType = "Fast rengøring"
	LeadTypeDeepClean LeadType = "Hovedrengøring"
	LeadTypeBoth      LeadType = "Begge"
	LeadTypeUnknown   LeadType = "Ukendt"
)

// LeadStatus is the conversation state derived from the latest message.
type LeadStatus string

const (
	StatusAwaitingCustomer LeadStatus = "Afventer svar fra kunde"
	StatusAwaitingUs       LeadStatus = "Afventer svar fra os"
	StatusInactive         LeadStatus = "Inaktiv"
	StatusDeclined         LeadStatus = "Afvist/Ikke interesseret"
)

// TimeEstimate holds job duration figures parsed from text.
type TimeEstimate struct {
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	ActualHours    *float64 `json:"actual_hours,omitempty"`
	TotalMinutes   *int     `json:"total_minutes,omitempty"`
	Text           string   `json:"text,omitempty"`
}

// Field keys used for coverage, conflicts and exports.
const (
	FieldName         = "name"
	FieldEmail        = "email"
	FieldPhone        = "phone"
	FieldAddress      = "address"
	FieldCompany      = "company"
	FieldServiceType  = "service_type"
	FieldPropertySize = "property_size"
	FieldPrice        = "price"
	FieldDeadline     = "deadline"
	FieldFrequency    = "frequency"
	FieldLeadType     = "lead_type"
	FieldTimeEstimate = "time_estimate"
)

// FieldKeys returns every extracted field key in report order.
func FieldKeys() []string {
	return []string{
		FieldName, FieldEmail, FieldPhone, FieldAddress, FieldCompany,
		FieldServiceType, FieldPropertySize, FieldPrice, FieldDeadline,
		FieldFrequency, FieldLeadType, FieldTimeEstimate,
	}
}

// ExtractedFields are the structured business fields pulled from free text.
// Every field is independently optional: "" and nil mean absent.
type ExtractedFields struct {
	Name         string        `json:"name,omitempty"`
	Email        string        `json:"email,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	Address      string        `json:"address,omitempty"`
	Company      string        `json:"company,omitempty"`
	ServiceType  string        `json:"service_type,omitempty"`
	PropertySize string        `json:"property_size,omitempty"`
	Price        *float64      `json:"price,omitempty"`
	Deadline     string        `json:"deadline,omitempty"`
	Frequency    string        `json:"frequency,omitempty"`
	LeadType     LeadType      `json:"lead_type,omitempty"`
	TimeEstimate *TimeEstimate `json:"time_estimate,omitempty"`
}

// Has reports whether the field with the given key holds a value.
func (f ExtractedFields) Has(key string) bool {
	switch key {
	case FieldName:
		return f.Name != ""
	case FieldEmail:
		return f.Email != ""
	case FieldPhone:
		return f.Phone != ""
	case FieldAddress:
		return f.Address != ""
	case FieldCompany:
		return f.Company != ""
	case FieldServiceType:
		return f.ServiceType != ""
	case FieldPropertySize:
		return f.PropertySize != ""
	case FieldPrice:
		return f.Price != nil
	case FieldDeadline:
		return f.Deadline != ""
	case FieldFrequency:
		return f.Frequency != ""
	case FieldLeadType:
		return f.LeadType != "" && f.LeadType != LeadTypeUnknown
	case FieldTimeEstimate:
		return f.TimeEstimate != nil
	default:
		return false
	}
}

// Present returns the keys of all populated fields in FieldKeys order.
func (f ExtractedFields) Present() []string {
	var keys []string
	for _, k := range FieldKeys() {
		if f.Has(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// RawRef points back at the raw record a candidate was built from.
type RawRef struct {
	Origin OriginSource `json:"origin"`
	ID     string       `json:"id"`
	Title  string       `json:"title,omitempty"`
	Date   *time.Time   `json:"date,omitempty"`
}

// CandidateLead is the per-source, pre-merge representation of a lead. It
// traces to exactly one raw record.
type CandidateLead struct {
	ID             string          `json:"id"`
	Origin         OriginSource    `json:"origin_source"`
	LeadSource     LeadSource      `json:"lead_source,omitempty"`
	LeadSourceHint string          `json:"lead_source_hint,omitempty"`
	Fields         ExtractedFields `json:"fields"`
	Status         LeadStatus      `json:"status,omitempty"`
	LastContact    *time.Time      `json:"last_contact,omitempty"`
	RawRef         RawRef          `json:"raw_ref"`
}

// KeyKind names which identity attribute produced a canonical key.
type KeyKind string

const (
	KeyKindEmail  KeyKind = "email"
	KeyKindPhone  KeyKind = "phone"
	KeyKindName   KeyKind = "name"
	KeyKindRecord KeyKind = "record"
)

// CanonicalLead is the deduplicated lead merged across all sources.
type CanonicalLead struct {
	IdentityKey    string                  `json:"identity_key"`
	KeyKind        KeyKind                 `json:"key_kind"`
	Fields         ExtractedFields         `json:"fields"`
	LeadSource     LeadSource              `json:"lead_source,omitempty"`
	LeadSourceHint string                  `json:"lead_source_hint,omitempty"`
	Status         LeadStatus              `json:"status,omitempty"`
	LastContact    *time.Time              `json:"last_contact,omitempty"`
	Sources        []OriginSource          `json:"sources"`
	CandidateIDs   []string                `json:"candidate_ids"`
	Coverage       map[string]OriginSource `json:"coverage"`
	Conflicts      []Conflict              `json:"conflicts,omitempty"`
	Cases          []string                `json:"cases,omitempty"`
}

// HasSource reports whether any contributing candidate came from origin.
func (l *CanonicalLead) HasSource(origin OriginSource) bool {
	for _, s := range l.Sources {
		if s == origin {
			return true
		}
	}
	return false
}
