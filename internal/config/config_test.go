package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rendetalje/lead-cli/internal/model"
)

var now = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"gmail", "calendar", "billing"}, cfg.Sources)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "leads.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 100, cfg.Gmail.PageSize)
	assert.Equal(t, 20, cfg.Gmail.MaxPages)
	assert.Equal(t, 250, cfg.Gmail.PageDelayMs)
	assert.Equal(t, "me", cfg.Gmail.UserID)
	assert.Contains(t, cfg.Gmail.Labels, "Leads")
	assert.Contains(t, cfg.Gmail.PartnerTerms, "from:system@leadpoint.dk")
	assert.Equal(t, []string{"rendetalje.dk"}, cfg.Gmail.OwnDomains)
	assert.Equal(t, 500, cfg.Calendar.MaxResults)
	assert.Equal(t, "primary", cfg.Calendar.CalendarID)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.InDelta(t, 2.0, cfg.Retry.Multiplier, 0.001)
	assert.Equal(t, 30, cfg.Retry.AttemptTimeoutSecs)
	assert.Equal(t, 14, cfg.Pipeline.StaleAfterDays)
	assert.Equal(t, "leads.json", cfg.Pipeline.OutputPath)
	assert.InDelta(t, 3.0, cfg.Notion.RateLimit, 0.001)
	assert.Equal(t, "https://login.salesforce.com", cfg.Salesforce.LoginURL)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
period:
  start: "2025-07-01"
  end: "2025-12-31"
sources: [gmail]
store:
  driver: postgres
log:
  level: debug
  format: console
gmail:
  max_pages: 5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "2025-07-01", cfg.Period.Start)
	assert.Equal(t, []string{"gmail"}, cfg.Sources)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 5, cfg.Gmail.MaxPages)
	// Defaults still apply for unset values
	assert.Equal(t, 100, cfg.Gmail.PageSize)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("LEADS_STORE_DRIVER", "postgres")
	t.Setenv("LEADS_LOG_LEVEL", "warn")
	t.Setenv("LEADS_GMAIL_TOKEN", "tok")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "tok", cfg.Gmail.Token)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "invalid", Format: "json"}))
}

func validConfig() *Config {
	return &Config{
		Period:   PeriodConfig{Start: "2025-07-01", End: "2025-12-31"},
		Sources:  []string{"gmail", "calendar", "billing"},
		Gmail:    GmailConfig{Token: "g"},
		Calendar: CalendarConfig{Token: "c"},
		Billy:    BillyConfig{Token: "b"},
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validConfig().Validate(now))
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"no sources", func(c *Config) { c.Sources = nil }, "sources"},
		{"unknown source", func(c *Config) { c.Sources = []string{"slack"} }, "sources"},
		{"no period", func(c *Config) { c.Period = PeriodConfig{} }, "period"},
		{"half period", func(c *Config) { c.Period.End = "" }, "period"},
		{"bad start", func(c *Config) { c.Period.Start = "July" }, "period.start"},
		{"inverted", func(c *Config) { c.Period.Start = "2026-01-01" }, "period"},
		{"gmail creds", func(c *Config) { c.Gmail.Token = "" }, "gmail.token"},
		{"calendar creds", func(c *Config) { c.Calendar.Token = "" }, "calendar.token"},
		{"billy creds", func(c *Config) { c.Billy.Token = "" }, "billy.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate(now)
			require.Error(t, err)
			var ce *ConfigurationError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestValidate_DisabledSourceNeedsNoCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.Sources = []string{"gmail"}
	cfg.Billy.Token = ""
	cfg.Calendar.Token = ""
	assert.NoError(t, cfg.Validate(now))
}

func TestValidate_OfflineSkipsCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.Gmail.Token = ""
	cfg.Pipeline.FixturesDir = "testdata"
	assert.NoError(t, cfg.Validate(now))
}

func TestResolvePeriod(t *testing.T) {
	cfg := validConfig()
	p, err := cfg.ResolvePeriod(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC), p.End)

	cfg.Period = PeriodConfig{Start: "2025-07-01T08:00:00+02:00", End: "2025-07-02T00:00:00Z"}
	p, err = cfg.ResolvePeriod(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 1, 6, 0, 0, 0, time.UTC), p.Start)

	cfg.Period = PeriodConfig{Months: 6}
	p, err = cfg.ResolvePeriod(now)
	require.NoError(t, err)
	assert.Equal(t, now, p.End)
	assert.Equal(t, time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC), p.Start)
}

func TestSourceEnabled(t *testing.T) {
	cfg := &Config{Sources: []string{"Gmail", " billing "}}
	assert.True(t, cfg.SourceEnabled(model.OriginGmail))
	assert.True(t, cfg.SourceEnabled(model.OriginBilling))
	assert.False(t, cfg.SourceEnabled(model.OriginCalendar))
}

func TestValidatePublish(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidatePublish("notion"))
	cfg.Notion = NotionConfig{Token: "t", LeadDB: "db"}
	assert.NoError(t, cfg.ValidatePublish("notion"))

	assert.Error(t, cfg.ValidatePublish("salesforce"))
	cfg.Salesforce = SalesforceConfig{ClientID: "id", Username: "u", KeyPath: "k.pem"}
	assert.NoError(t, cfg.ValidatePublish("salesforce"))

	var ce *ConfigurationError
	require.True(t, errors.As(cfg.ValidatePublish("hubspot"), &ce))
	assert.Equal(t, "publish", ce.Field)
}
