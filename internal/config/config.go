package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rendetalje/lead-cli/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Period     PeriodConfig     `yaml:"period" mapstructure:"period"`
	Sources    []string         `yaml:"sources" mapstructure:"sources"`
	Gmail      GmailConfig      `yaml:"gmail" mapstructure:"gmail"`
	Calendar   CalendarConfig   `yaml:"calendar" mapstructure:"calendar"`
	Billy      BillyConfig      `yaml:"billy" mapstructure:"billy"`
	Retry      RetryConfig      `yaml:"retry" mapstructure:"retry"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// PeriodConfig is the collection window. Start/End take RFC 3339 timestamps
// or plain dates; when both are empty Months > 0 selects a window ending now.
type PeriodConfig struct {
	Start  string `yaml:"start" mapstructure:"start"`
	End    string `yaml:"end" mapstructure:"end"`
	Months int    `yaml:"months" mapstructure:"months"`
}

// GmailConfig holds Gmail API settings and the search/pagination policy.
type GmailConfig struct {
	Token            string   `yaml:"token" mapstructure:"token"`
	BaseURL          string   `yaml:"base_url" mapstructure:"base_url"`
	UserID           string   `yaml:"user_id" mapstructure:"user_id"`
	PageSize         int      `yaml:"page_size" mapstructure:"page_size"`
	MaxPages         int      `yaml:"max_pages" mapstructure:"max_pages"`
	PageDelayMs      int      `yaml:"page_delay_ms" mapstructure:"page_delay_ms"`
	DetailPauseEvery int      `yaml:"detail_pause_every" mapstructure:"detail_pause_every"`
	DetailPauseMs    int      `yaml:"detail_pause_ms" mapstructure:"detail_pause_ms"`
	Labels           []string `yaml:"labels" mapstructure:"labels"`
	PartnerTerms     []string `yaml:"partner_terms" mapstructure:"partner_terms"`
	OwnDomains       []string `yaml:"own_domains" mapstructure:"own_domains"`
}

// CalendarConfig holds Google Calendar API settings.
type CalendarConfig struct {
	Token      string `yaml:"token" mapstructure:"token"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	CalendarID string `yaml:"calendar_id" mapstructure:"calendar_id"`
	MaxResults int    `yaml:"max_results" mapstructure:"max_results"`
}

// BillyConfig holds Billy billing API settings.
type BillyConfig struct {
	Token          string `yaml:"token" mapstructure:"token"`
	OrganizationID string `yaml:"organization_id" mapstructure:"organization_id"`
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	PageSize       int    `yaml:"page_size" mapstructure:"page_size"`
}

// RetryConfig is the per-call retry/backoff/timeout policy for adapters.
type RetryConfig struct {
	MaxAttempts        int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs   int     `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs       int     `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
	Multiplier         float64 `yaml:"multiplier" mapstructure:"multiplier"`
	JitterFraction     float64 `yaml:"jitter_fraction" mapstructure:"jitter_fraction"`
	AttemptTimeoutSecs int     `yaml:"attempt_timeout_secs" mapstructure:"attempt_timeout_secs"`
	BreakerThreshold   int     `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
}

// PipelineConfig configures the collection run.
type PipelineConfig struct {
	OutputPath     string `yaml:"output_path" mapstructure:"output_path"`
	RulesPath      string `yaml:"rules_path" mapstructure:"rules_path"`
	FixturesDir    string `yaml:"fixtures_dir" mapstructure:"fixtures_dir"`
	StaleAfterDays int    `yaml:"stale_after_days" mapstructure:"stale_after_days"`
}

// StoreConfig configures the run ledger backend: sqlite, postgres or none.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// NotionConfig holds the Notion integration token and lead database.
type NotionConfig struct {
	Token       string  `yaml:"token" mapstructure:"token"`
	LeadDB      string  `yaml:"lead_db" mapstructure:"lead_db"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	Concurrency int     `yaml:"concurrency" mapstructure:"concurrency"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	KeyPath  string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string `yaml:"login_url" mapstructure:"login_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ConfigurationError is a fatal setup problem detected before any adapter
// runs.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("sources", []string{"gmail", "calendar", "billing"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leads.db")
	v.SetDefault("gmail.base_url", "https://gmail.googleapis.com/gmail/v1")
	v.SetDefault("gmail.user_id", "me")
	v.SetDefault("gmail.page_size", 100)
	v.SetDefault("gmail.max_pages", 20)
	v.SetDefault("gmail.page_delay_ms", 250)
	v.SetDefault("gmail.detail_pause_every", 50)
	v.SetDefault("gmail.detail_pause_ms", 200)
	v.SetDefault("gmail.labels", []string{"Leads", "Rengøring.nu", "Rengøring Århus", "Rengøring Aarhus"})
	v.SetDefault("gmail.partner_terms", []string{
		`"Formular via Rengøring Aarhus"`,
		`"Opkald via Rengøring Aarhus"`,
		"from:system@leadpoint.dk",
		"from:partner@leadpoint.dk",
		`subject:"Rengøring.nu - Nettbureau AS"`,
		"from:kontakt@leadmail.no",
		"from:*@adhelp.dk",
		`subject:"Rengøring Aarhus"`,
	})
	v.SetDefault("gmail.own_domains", []string{"rendetalje.dk"})
	v.SetDefault("calendar.base_url", "https://www.googleapis.com/calendar/v3")
	v.SetDefault("calendar.calendar_id", "primary")
	v.SetDefault("calendar.max_results", 500)
	v.SetDefault("billy.base_url", "https://api.billysbilling.com/v2")
	v.SetDefault("billy.page_size", 500)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_backoff_ms", 500)
	v.SetDefault("retry.max_backoff_ms", 5000)
	v.SetDefault("retry.multiplier", 2.0)
	v.SetDefault("retry.jitter_fraction", 0.25)
	v.SetDefault("retry.attempt_timeout_secs", 30)
	v.SetDefault("retry.breaker_threshold", 5)
	v.SetDefault("pipeline.output_path", "leads.json")
	v.SetDefault("pipeline.stale_after_days", 14)
	v.SetDefault("notion.rate_limit", 3.0)
	v.SetDefault("notion.concurrency", 3)
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")

	// Keys without defaults are invisible to Unmarshal unless bound.
	for _, key := range []string{
		"period.start", "period.end", "period.months",
		"gmail.token", "calendar.token", "billy.token", "billy.organization_id",
		"pipeline.rules_path", "pipeline.fixtures_dir",
		"notion.token", "notion.lead_db",
		"salesforce.client_id", "salesforce.username", "salesforce.key_path",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, eris.Wrapf(err, "config: bind env %s", key)
		}
	}

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// SourceEnabled reports whether origin is listed in Sources.
func (c *Config) SourceEnabled(origin model.OriginSource) bool {
	for _, s := range c.Sources {
		if strings.EqualFold(strings.TrimSpace(s), string(origin)) {
			return true
		}
	}
	return false
}

// Offline reports whether the run reads fixtures instead of live APIs.
func (c *Config) Offline() bool {
	return c.Pipeline.FixturesDir != ""
}

// Validate checks everything a collection run needs before touching any
// source. All failures are *ConfigurationError.
func (c *Config) Validate(now time.Time) error {
	if len(c.Sources) == 0 {
		return &ConfigurationError{Field: "sources", Reason: "no sources enabled"}
	}
	for _, s := range c.Sources {
		switch model.OriginSource(strings.ToLower(strings.TrimSpace(s))) {
		case model.OriginGmail, model.OriginCalendar, model.OriginBilling:
		default:
			return &ConfigurationError{Field: "sources", Reason: fmt.Sprintf("unknown source %q", s)}
		}
	}

	if _, err := c.ResolvePeriod(now); err != nil {
		return err
	}

	if c.Offline() {
		return nil
	}
	if c.SourceEnabled(model.OriginGmail) && c.Gmail.Token == "" {
		return &ConfigurationError{Field: "gmail.token", Reason: "missing credentials (LEADS_GMAIL_TOKEN)"}
	}
	if c.SourceEnabled(model.OriginCalendar) && c.Calendar.Token == "" {
		return &ConfigurationError{Field: "calendar.token", Reason: "missing credentials (LEADS_CALENDAR_TOKEN)"}
	}
	if c.SourceEnabled(model.OriginBilling) && c.Billy.Token == "" {
		return &ConfigurationError{Field: "billy.token", Reason: "missing credentials (LEADS_BILLY_TOKEN)"}
	}
	return nil
}

// ResolvePeriod turns the period section into concrete bounds.
func (c *Config) ResolvePeriod(now time.Time) (model.Period, error) {
	p := c.Period
	if p.Start == "" && p.End == "" {
		if p.Months <= 0 {
			return model.Period{}, &ConfigurationError{Field: "period", Reason: "missing date range (set period.start/period.end or period.months)"}
		}
		end := now.UTC()
		return model.Period{Start: end.AddDate(0, -p.Months, 0), End: end}, nil
	}
	if p.Start == "" || p.End == "" {
		return model.Period{}, &ConfigurationError{Field: "period", Reason: "both period.start and period.end are required"}
	}

	start, err := parseBound(p.Start, false)
	if err != nil {
		return model.Period{}, &ConfigurationError{Field: "period.start", Reason: err.Error()}
	}
	end, err := parseBound(p.End, true)
	if err != nil {
		return model.Period{}, &ConfigurationError{Field: "period.end", Reason: err.Error()}
	}
	if !end.After(start) {
		return model.Period{}, &ConfigurationError{Field: "period", Reason: "end must be after start"}
	}
	return model.Period{Start: start, End: end}, nil
}

// parseBound accepts RFC 3339 or YYYY-MM-DD. A plain end date covers the
// whole day.
func parseBound(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, eris.Errorf("invalid date %q", s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t.UTC(), nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

// ValidatePublish checks the credentials a publish target needs.
func (c *Config) ValidatePublish(target string) error {
	switch target {
	case "notion":
		if c.Notion.Token == "" {
			return &ConfigurationError{Field: "notion.token", Reason: "is required"}
		}
		if c.Notion.LeadDB == "" {
			return &ConfigurationError{Field: "notion.lead_db", Reason: "is required"}
		}
	case "salesforce":
		if c.Salesforce.ClientID == "" {
			return &ConfigurationError{Field: "salesforce.client_id", Reason: "is required"}
		}
		if c.Salesforce.Username == "" {
			return &ConfigurationError{Field: "salesforce.username", Reason: "is required"}
		}
		if c.Salesforce.KeyPath == "" {
			return &ConfigurationError{Field: "salesforce.key_path", Reason: "is required"}
		}
	default:
		return &ConfigurationError{Field: "publish", Reason: fmt.Sprintf("unknown target %q", target)}
	}
	return nil
}
