package extract

import (
	"net/mail"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AddressFromHeader returns the bare, lowercased email address of a
// From/To header such as `"Anna Hansen" <anna@firma.dk>`. Headers with
// several recipients yield the first address.
func AddressFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if list, err := mail.ParseAddressList(header); err == nil && len(list) > 0 {
		return strings.ToLower(list[0].Address)
	}
	if m := headerAddrRe.FindStringSubmatch(header); m != nil {
		return strings.ToLower(strings.TrimSpace(m[1]))
	}
	return strings.ToLower(Email(header))
}

// NameFromHeader returns the display name of a header, or a title-cased
// name built from the address local part ("anna.hansen@x.dk" gives
// "Anna Hansen").
func NameFromHeader(header string) string {
	if m := headerNameRe.FindStringSubmatch(header); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" && !strings.Contains(name, "@") {
			return name
		}
	}
	addr := AddressFromHeader(header)
	if addr == "" {
		return ""
	}
	local := addr[:strings.IndexByte(addr, '@')]
	parts := localSplitRe.Split(local, -1)
	caser := cases.Title(language.Danish)
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			words = append(words, caser.String(p))
		}
	}
	return strings.Join(words, " ")
}

// IsOwnAddress reports whether header belongs to one of our own domains.
func IsOwnAddress(header string, ownDomains []string) bool {
	lower := strings.ToLower(header)
	for _, d := range ownDomains {
		d = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(d), "@"))
		if d != "" && strings.Contains(lower, "@"+d) {
			return true
		}
	}
	return false
}

// IsAutomated reports whether header is a no-reply or bounce address.
func IsAutomated(header string) bool {
	lower := strings.ToLower(header)
	for _, m := range automatedMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// CompanyFromEmail returns the domain of a business address. Free-mail
// domains carry no company and yield "".
func CompanyFromEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return ""
	}
	domain := strings.ToLower(email[at+1:])
	if domain == "" || freemailDomains[domain] {
		return ""
	}
	return domain
}
