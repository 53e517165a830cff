package rules

import "strings"

// IsSpam reports whether a message is noise: the sender matches a blocked
// domain or the subject contains a blocked keyword. Matching is
// case-insensitive substring.
func (s *Set) IsSpam(senderEmail, subject string) bool {
	e := strings.ToLower(senderEmail)
	for _, d := range s.SpamDomains {
		if d != "" && strings.Contains(e, strings.ToLower(d)) {
			return true
		}
	}
	subj := strings.ToLower(subject)
	for _, k := range s.SpamKeywords {
		if k != "" && strings.Contains(subj, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
