package extract

import "regexp"

// Every pattern the extractors use is defined here.
var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// Danish 8-digit number, optionally +45 prefixed, in 2-digit groups. Runs
	// of more than eight digits are not phone numbers.
	phoneRe = regexp.MustCompile(`(?:\+45\s?|\b)(\d{2}\s?\d{2}\s?\d{2}\s?\d{2})\b`)

	addressLineRe = regexp.MustCompile(`(?im)^[ \t]*(?:adresse|lokation|adr\.?)(?:[ \t]*[:\-][ \t]*|[ \t]+)(\S[^\n]*?)[ \t]*$`)
	postalLineRe  = regexp.MustCompile(`(?m)^[ \t]*([^\n]*\b\d{4}[ \t]+[A-ZÆØÅ][a-zæøå]+[^\n]*?)[ \t]*$`)

	propertySizeRe = regexp.MustCompile(`(?i)(\d+)\s*(?:m²|m2|kvm)`)

	// 1500 kr, 1.500 kr, 1.500,50 kr, 349,5 kr
	priceRe = regexp.MustCompile(`(?i)(\d{1,3}(?:\.\d{3})+|\d+)(?:,(\d+))?\s*kr`)

	deadlineRe = regexp.MustCompile(`(?i)(deadline|senest|hurtigst muligt)[ \t]*[:\-]?[ \t]*([^\n]*)`)

	// Capitalized words on one line; Danish letters included.
	nameRe = regexp.MustCompile(`[A-ZÆØÅ][a-zæøå]+(?:[ \t]+[A-ZÆØÅ][a-zæøå]+)+`)

	hoursRe        = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)(?:\s*[–-]\s*(\d+(?:[.,]\d+)?))?\s*timer\b`)
	actualHoursRe  = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*arbejdstimer`)
	personsHoursRe = regexp.MustCompile(`(?i)(\d+)\s*(?:personer|pers)\s*[×x*]\s*(\d+(?:[.,]\d+)?)\s*timer`)
	clockRangeRe   = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*[–-]\s*(\d{1,2}):(\d{2})`)

	recurringRe = regexp.MustCompile(`(?i)fast\s*rengøring|løbende|\bugentlig`)
	deepCleanRe = regexp.MustCompile(`(?i)hovedrengøring|engangs\s*rengøring`)
	declineRe   = regexp.MustCompile(`(?i)ikke\s*interesseret|nej\s*tak|afviser`)

	headerAddrRe = regexp.MustCompile(`<([^>]+)>`)
	headerNameRe = regexp.MustCompile(`^\s*"?([^"<]+?)"?\s*<[^>]+>\s*$`)
	localSplitRe = regexp.MustCompile(`[._\-]+`)
)

type frequencyRule struct {
	re    *regexp.Regexp
	label string
}

// Checked in order; the first match wins.
var frequencyRules = []frequencyRule{
	{regexp.MustCompile(`(?i)hver\s*uge\b|\bugentlig`), "Ugentlig"},
	{regexp.MustCompile(`(?i)hver\s*14\s*dage|hver\s+anden\s+uge|biugentlig`), "Hver 14. dag"},
	{regexp.MustCompile(`(?i)månedlig|hver\s*måned`), "Månedlig"},
	{regexp.MustCompile(`(?i)engangs|one-off|hovedrengøring`), "Engangs/Hovedrengøring"},
}

type serviceRule struct {
	phrases []string
	code    string
}

// Checked in order against lowercased text.
var serviceRules = []serviceRule{
	{[]string{"fast rengøring"}, "REN-005"},
	{[]string{"flytte"}, "REN-003"},
	{[]string{"hoved"}, "REN-002"},
	{[]string{"erhverv", "restaurant"}, "REN-004"},
	{[]string{"rengøring"}, "REN-001"},
}

var automatedMarkers = []string{"no-reply", "noreply", "mailer-daemon", "bounce"}

var freemailDomains = map[string]bool{
	"gmail.com": true, "googlemail.com": true, "hotmail.com": true, "hotmail.dk": true,
	"outlook.com": true, "outlook.dk": true, "live.dk": true, "live.com": true,
	"yahoo.com": true, "yahoo.dk": true, "icloud.com": true, "me.com": true,
	"mail.dk": true, "jubii.dk": true, "email.dk": true,
}
