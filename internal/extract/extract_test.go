package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendetalje/lead-cli/internal/model"
)

const formText = "Adresse: Testvej 1, 2100 København\n100 m2\nhver 14 dage\nTelefon: +45 12 34 56 78"

func TestFields_FormLiteral(t *testing.T) {
	t.Parallel()

	assert.Contains(t, Address(formText), "Testvej 1")
	assert.Equal(t, "100 m²", PropertySize(formText))
	assert.Equal(t, "Hver 14. dag", Frequency(formText))
	assert.Regexp(t, `^(\+45)?\d{8}$`, Phone(formText))

	f := Fields(formText)
	assert.Equal(t, "Testvej 1, 2100 København", f.Address)
	assert.Equal(t, "+4512345678", f.Phone)
	assert.Empty(t, f.Name)
	assert.Empty(t, f.Email)
}

func TestEmail(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "anna.hansen@firma.dk", Email("Skriv til anna.hansen@firma.dk eller ring"))
	assert.Empty(t, Email("ingen mail her"))
}

func TestPhone(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
	}{
		{"Ring på 12345678", "12345678"},
		{"Tlf: 12 34 56 78.", "12345678"},
		{"+4512345678", "+4512345678"},
		{"nummer 123456789012", ""},
		{"ingen", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Phone(tt.in), tt.in)
	}
}

func TestAddress(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name, in, want string
	}{
		{"label colon", "Hej\nAdresse: Vestergade 12, 8000 Aarhus C\nTak", "Vestergade 12, 8000 Aarhus C"},
		{"short label", "adr. Nørregade 4", "Nørregade 4"},
		{"lokation dash", "Lokation - Havnen 3", "Havnen 3"},
		{"postal fallback", "Hej\nSøndergade 5, 8000 Aarhus\nMvh", "Søndergade 5, 8000 Aarhus"},
		{"word prefix only", "Adresseændring sendt", ""},
		{"none", "Vi ses i morgen", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Address(tt.in))
		})
	}
}

func TestPrice(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want *float64
	}{
		{"Pris 1500 kr inkl. moms", ptr(1500)},
		{"Pris: 1.500 kr", ptr(1500)},
		{"349,50 kr. pr. time", ptr(349.5)},
		{"12.345,75 kroner", ptr(12345.75)},
		{"gratis", nil},
	}
	for _, tt := range tests {
		got := Price(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, tt.in)
			continue
		}
		require.NotNil(t, got, tt.in)
		assert.InDelta(t, *tt.want, *got, 0.001, tt.in)
	}
}

func TestFrequency(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
	}{
		{"Vi vil gerne have hjælp hver uge", "Ugentlig"},
		{"ugentlig rengøring", "Ugentlig"},
		{"biugentlig rengøring", "Hver 14. dag"},
		{"hver anden uge", "Hver 14. dag"},
		{"hver 14 dage", "Hver 14. dag"},
		{"Månedlig aftale", "Månedlig"},
		{"en hovedrengøring", "Engangs/Hovedrengøring"},
		{"ingenting", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Frequency(tt.in), tt.in)
	}
}

func TestDeadline(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1. oktober", Deadline("Det skal være klar senest 1. oktober\nMvh"))
	assert.Equal(t, "fredag", Deadline("Deadline: fredag"))
	assert.Equal(t, "hurtigst muligt", Deadline("Hurtigst muligt\ntak"))
	assert.Empty(t, Deadline("ingen tidsfrist"))
}

func TestServiceType(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
	}{
		{"Tilbud på fast rengøring", "REN-005"},
		{"Flytterengøring af lejlighed", "REN-003"},
		{"Hovedrengøring", "REN-002"},
		{"Erhvervsrengøring af kontor", "REN-004"},
		{"Rengøring af restaurant", "REN-004"},
		{"Rengøring af villa", "REN-001"},
		{"Vinduespudsning", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ServiceType(tt.in), tt.in)
	}
}

func TestName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Søren Østergård", Name("Hej, jeg hedder Søren Østergård og bor i byen"))
	assert.Equal(t, "kunde", Name("send til kunde@firma.dk"), "falls back to local part")
	assert.Empty(t, Name("Hej\nTak"), "words on separate lines are not a name")
}

func TestParseTimeEstimate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        string
		estimated *float64
		actual    *float64
		minutes   *int
	}{
		{"persons times hours", "2 personer × 2,5 timer", ptr(5), nil, iptr(300)},
		{"persons x", "3 pers x 2 timer", ptr(6), nil, iptr(360)},
		{"single hours", "Det tager ca. 3 timer", ptr(3), nil, iptr(180)},
		{"range averages", "3-4 timer", ptr(3.5), nil, iptr(210)},
		{"range with en dash", "3–4 timer", ptr(3.5), nil, iptr(210)},
		{"actual hours", "Brugt 7,5 arbejdstimer", nil, ptr(7.5), nil},
		{"clock range", "Kl. 08:00–12:30", ptr(4.5), nil, iptr(270)},
		{"hours beat clock", "08:00-12:00 (3 timer)", ptr(3), nil, iptr(180)},
		{"negative clock", "14:00-10:00", nil, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTimeEstimate(tt.in)
			if tt.estimated == nil && tt.actual == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.estimated, got.EstimatedHours)
			assert.Equal(t, tt.actual, got.ActualHours)
			assert.Equal(t, tt.minutes, got.TotalMinutes)
		})
	}
}

func TestFromDuration(t *testing.T) {
	t.Parallel()
	te := FromDuration(150)
	require.NotNil(t, te)
	assert.Equal(t, ptr(2.5), te.EstimatedHours)
	assert.Equal(t, iptr(150), te.TotalMinutes)
	assert.Nil(t, FromDuration(0))
}

func TestDetermineType(t *testing.T) {
	t.Parallel()
	assert.Equal(t, model.LeadTypeRecurring, DetermineType("Vi ønsker fast rengøring ugentlig"))
	assert.Equal(t, model.LeadTypeDeepClean, DetermineType("Behov for hovedrengøring i lejlighed"))
	assert.Equal(t, model.LeadTypeBoth, DetermineType("Fast rengøring samt hovedrengøring"))
	assert.Equal(t, model.LeadTypeRecurring, DetermineType("løbende hjælp"))
	assert.Equal(t, model.LeadTypeUnknown, DetermineType("biugentlig vinduespudsning"))
}

func TestDetermineStatus(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)
	recent := now.AddDate(0, 0, -3)
	old := now.AddDate(0, 0, -30)

	tests := []struct {
		name string
		in   StatusInput
		want model.LeadStatus
	}{
		{"external recent", StatusInput{LastBody: "Hvornår kan I komme?", LastDate: recent}, model.StatusAwaitingUs},
		{"external old", StatusInput{LastBody: "Hej", LastDate: old}, model.StatusInactive},
		{"external declines", StatusInput{LastBody: "Nej tak, vi har fundet en anden", LastDate: recent}, model.StatusDeclined},
		{"us recent", StatusInput{LastFromUs: true, LastBody: "Her er vores tilbud", LastDate: recent}, model.StatusAwaitingCustomer},
		{"us old", StatusInput{LastFromUs: true, LastDate: old}, model.StatusInactive},
		{"us quoting a decline", StatusInput{LastFromUs: true, LastBody: "> ikke interesseret", LastDate: recent}, model.StatusAwaitingCustomer},
		{"exactly threshold", StatusInput{LastDate: now.AddDate(0, 0, -14)}, model.StatusAwaitingUs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineStatus(tt.in, now, 0))
		})
	}

	assert.Equal(t, model.StatusInactive, DetermineStatus(StatusInput{LastDate: recent}, now, 2), "custom threshold")
}

func TestMerge(t *testing.T) {
	t.Parallel()
	base := model.ExtractedFields{Name: "Anna Hansen", Price: ptr(1500), LeadType: model.LeadTypeUnknown}
	fallback := model.ExtractedFields{
		Name:         "Other",
		Email:        "anna@firma.dk",
		Price:        ptr(999),
		LeadType:     model.LeadTypeDeepClean,
		TimeEstimate: &model.TimeEstimate{Text: "3 timer"},
	}

	got := Merge(base, fallback)
	assert.Equal(t, "Anna Hansen", got.Name)
	assert.Equal(t, "anna@firma.dk", got.Email)
	assert.Equal(t, ptr(1500), got.Price)
	assert.Equal(t, model.LeadTypeDeepClean, got.LeadType)
	assert.Equal(t, "3 timer", got.TimeEstimate.Text)
}

func TestHeaders(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "anna@firma.dk", AddressFromHeader(`"Anna Hansen" <Anna@Firma.dk>`))
	assert.Equal(t, "b@x.dk", AddressFromHeader("b@x.dk, c@y.dk"))
	assert.Equal(t, "x@y.dk", AddressFromHeader("Broken <x@y.dk"))
	assert.Empty(t, AddressFromHeader(""))

	assert.Equal(t, "Anna Hansen", NameFromHeader(`"Anna Hansen" <anna@firma.dk>`))
	assert.Equal(t, "Søren Holm", NameFromHeader("søren_holm@firma.dk"))
	assert.Equal(t, "Lars P Jensen", NameFromHeader("lars.p-jensen@firma.dk"))

	own := []string{"rendetalje.dk"}
	assert.True(t, IsOwnAddress("Rendetalje <info@Rendetalje.dk>", own))
	assert.False(t, IsOwnAddress("kunde@gmail.com", own))

	assert.True(t, IsAutomated("no-reply@service.dk"))
	assert.True(t, IsAutomated("MAILER-DAEMON@google.com"))
	assert.False(t, IsAutomated("anna@firma.dk"))

	assert.Equal(t, "firma.dk", CompanyFromEmail("anna@Firma.dk"))
	assert.Empty(t, CompanyFromEmail("anna@gmail.com"))
	assert.Empty(t, CompanyFromEmail("no-at"))
}

func ptr(v float64) *float64 { return &v }
func iptr(v int) *int        { return &v }
