// Package extract pulls structured lead fields out of free text with
// pattern rules. Every function is pure.
package extract

import (
	"strconv"
	"strings"

	"github.com/rendetalje/lead-cli/internal/model"
)

// Email returns the first email address in text.
func Email(text string) string {
	return emailRe.FindString(text)
}

// Phone returns the first Danish phone number with whitespace removed. A
// +45 prefix is kept.
func Phone(text string) string {
	m := phoneRe.FindString(text)
	return strings.Join(strings.Fields(m), "")
}

// Address returns the value of an "Adresse:"/"Adr."/"Lokation:" line, or the
// first line that looks like it holds a postal code and city.
func Address(text string) string {
	if m := addressLineRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := postalLineRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// PropertySize returns "<N> m²".
func PropertySize(text string) string {
	m := propertySizeRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1] + " m²"
}

// Price returns the first amount followed by "kr". Dots group thousands and
// a comma starts the decimals.
func Price(text string) *float64 {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	s := strings.ReplaceAll(m[1], ".", "")
	if m[2] != "" {
		s += "." + m[2]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Frequency maps cleaning-interval phrases to a canonical label.
func Frequency(text string) string {
	for _, r := range frequencyRules {
		if r.re.MatchString(text) {
			return r.label
		}
	}
	return ""
}

// Deadline returns the text following "deadline", "senest" or "hurtigst
// muligt" on the same line. A bare "hurtigst muligt" is its own deadline.
func Deadline(text string) string {
	m := deadlineRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	if v := strings.TrimSpace(m[2]); v != "" {
		return v
	}
	if strings.EqualFold(m[1], "hurtigst muligt") {
		return strings.ToLower(m[1])
	}
	return ""
}

// ServiceType returns the service catalogue code the text asks for.
func ServiceType(text string) string {
	lower := strings.ToLower(text)
	for _, r := range serviceRules {
		for _, p := range r.phrases {
			if strings.Contains(lower, p) {
				return r.code
			}
		}
	}
	return ""
}

// Name returns the first run of two or more capitalized words on a line,
// falling back to the local part of the first email in text.
func Name(text string) string {
	if m := nameRe.FindString(text); m != "" {
		return m
	}
	if e := Email(text); e != "" {
		return e[:strings.IndexByte(e, '@')]
	}
	return ""
}

// Fields runs every extractor over text.
func Fields(text string) model.ExtractedFields {
	f := model.ExtractedFields{
		Name:         Name(text),
		Email:        Email(text),
		Phone:        Phone(text),
		Address:      Address(text),
		ServiceType:  ServiceType(text),
		PropertySize: PropertySize(text),
		Price:        Price(text),
		Deadline:     Deadline(text),
		Frequency:    Frequency(text),
		TimeEstimate: ParseTimeEstimate(text),
	}
	if t := DetermineType(text); t != model.LeadTypeUnknown {
		f.LeadType = t
	}
	f.Company = CompanyFromEmail(f.Email)
	return f
}

// Merge combines two extractions of the same record field by field. Values
// in base win; fallback only fills what base lacks.
func Merge(base, fallback model.ExtractedFields) model.ExtractedFields {
	out := base
	fill(&out.Name, fallback.Name)
	fill(&out.Email, fallback.Email)
	fill(&out.Phone, fallback.Phone)
	fill(&out.Address, fallback.Address)
	fill(&out.Company, fallback.Company)
	fill(&out.ServiceType, fallback.ServiceType)
	fill(&out.PropertySize, fallback.PropertySize)
	fill(&out.Deadline, fallback.Deadline)
	fill(&out.Frequency, fallback.Frequency)
	if out.Price == nil {
		out.Price = fallback.Price
	}
	if out.TimeEstimate == nil {
		out.TimeEstimate = fallback.TimeEstimate
	}
	if !out.Has(model.FieldLeadType) {
		out.LeadType = fallback.LeadType
	}
	return out
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
