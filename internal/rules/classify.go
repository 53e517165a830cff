package rules

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/rendetalje/lead-cli/internal/model"
)

// Classification is the lead source assigned to a communication and the
// reason it was chosen.
type Classification struct {
	Source model.LeadSource
	Hint   string
}

// Classify evaluates the rule table in order and returns the first match.
// Order matters: a Rengøring.nu subject that also says "tilbud" is
// attributed to Rengøring.nu, not Direct.
func (s *Set) Classify(subject, sender string, labels []string) Classification {
	subj := fold(subject)
	from := fold(sender)
	lbls := make([]string, len(labels))
	for i, l := range labels {
		lbls[i] = fold(l)
	}

	for _, r := range s.Sources {
		for _, c := range r.Any {
			if text, ok := c.match(subj, from, lbls); ok {
				return Classification{
					Source: r.Source,
					Hint:   fmt.Sprintf("%s: %s %s %q", r.Name, c.Field, verb(c.Op), text),
				}
			}
		}
	}
	return Classification{Source: model.LeadSourceUnknown}
}

func (c Condition) match(subj, from string, labels []string) (string, bool) {
	want := fold(c.Value)
	switch c.Field {
	case FieldSubject:
		return want, compare(c.Op, subj, want)
	case FieldSender:
		return want, compare(c.Op, from, want)
	case FieldLabel:
		for _, l := range labels {
			if compare(c.Op, l, want) {
				return l, true
			}
		}
	}
	return "", false
}

func compare(op Op, have, want string) bool {
	switch op {
	case OpContains:
		return strings.Contains(have, want)
	case OpPrefix:
		return strings.HasPrefix(have, want)
	case OpEquals:
		return have == want
	}
	return false
}

func verb(op Op) string {
	switch op {
	case OpPrefix:
		return "starts with"
	case OpEquals:
		return "is"
	default:
		return "contains"
	}
}

// fold NFC-normalizes, trims and lowercases s so a decomposed "å" (a plus
// combining ring) compares equal to the precomposed letter.
func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}
