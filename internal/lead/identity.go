package lead

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/rendetalje/lead-cli/internal/model"
)

// IdentityKey returns the merge key of a candidate: normalized email, else
// digits-only phone, else normalized name, else a key unique to the record.
func IdentityKey(c model.CandidateLead) (string, model.KeyKind) {
	if e := NormalizeEmail(c.Fields.Email); e != "" {
		return e, model.KeyKindEmail
	}
	if p := NormalizePhone(c.Fields.Phone); p != "" {
		return p, model.KeyKindPhone
	}
	if n := NormalizeName(c.Fields.Name); n != "" {
		return n, model.KeyKindName
	}
	return "record:" + c.ID, model.KeyKindRecord
}

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizePhone keeps digits only. A +45 prefix is kept as digits, so
// "+45 12 34 56 78" and "12345678" are different keys.
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeName applies NFC, lowercases, trims and collapses inner
// whitespace.
func NormalizeName(s string) string {
	s = strings.ToLower(norm.NFC.String(s))
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
