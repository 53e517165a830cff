package source

import (
	"fmt"
	"strings"

	"github.com/rendetalje/lead-cli/internal/model"
)

// Exclusions appended to every Gmail search.
const gmailExclusions = "-category:social -category:promotions -in:chats -in:drafts"

// GmailQuery builds the thread search for a period: date window, inbox/sent
// scope, label disjunction, partner-term disjunction and exclusions.
func GmailQuery(p model.Period, labels, partnerTerms []string) string {
	parts := []string{
		fmt.Sprintf("after:%d before:%d", p.Start.Unix(), p.End.Unix()),
		"(in:inbox OR in:sent)",
		"(from:me OR to:me)",
	}
	if len(labels) > 0 {
		terms := make([]string, len(labels))
		for i, l := range labels {
			terms[i] = "label:" + quoteIfSpaced(l)
		}
		parts = append(parts, disjunction(terms))
	}
	if len(partnerTerms) > 0 {
		parts = append(parts, disjunction(partnerTerms))
	}
	parts = append(parts, gmailExclusions)
	return strings.Join(parts, " ")
}

func disjunction(terms []string) string {
	return "(" + strings.Join(terms, " OR ") + ")"
}

func quoteIfSpaced(s string) string {
	if strings.ContainsAny(s, " .") && !strings.HasPrefix(s, `"`) {
		return `"` + s + `"`
	}
	return s
}
