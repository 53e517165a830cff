// Package rules holds the data-driven heuristics applied to email metadata:
// the spam blocklists and the ordered lead-source rule table.
package rules

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/rendetalje/lead-cli/internal/config"
	"github.com/rendetalje/lead-cli/internal/model"
)

// Field is the message attribute a condition inspects.
type Field string

const (
	FieldSubject Field = "subject"
	FieldSender  Field = "sender"
	FieldLabel   Field = "label"
)

// Op is how a condition compares its value.
type Op string

const (
	OpContains Op = "contains"
	OpPrefix   Op = "prefix"
	OpEquals   Op = "equals"
)

// Condition is one test inside a rule. Values are compared after NFC
// normalization and lowercasing. For labels, OpContains and OpEquals are
// applied per label.
type Condition struct {
	Field Field  `yaml:"field"`
	Op    Op     `yaml:"op"`
	Value string `yaml:"value"`
}

// Rule assigns Source when any of its conditions match.
type Rule struct {
	Name   string           `yaml:"name"`
	Source model.LeadSource `yaml:"source"`
	Any    []Condition      `yaml:"any"`
}

// Set is a complete rule configuration.
type Set struct {
	SpamDomains  []string `yaml:"spam_domains"`
	SpamKeywords []string `yaml:"spam_keywords"`
	Sources      []Rule   `yaml:"sources"`
}

func subject(op Op, v string) Condition { return Condition{Field: FieldSubject, Op: op, Value: v} }
func sender(v string) Condition         { return Condition{Field: FieldSender, Op: OpContains, Value: v} }
func label(v string) Condition          { return Condition{Field: FieldLabel, Op: OpEquals, Value: v} }

// Default returns the built-in rule set.
func Default() *Set {
	return &Set{
		SpamDomains: []string{
			"stripe.com", "google.com", "tasklet.com", "feedhive.com", "bubble.io",
			"lindy.ai", "wordpress.com", "airtable.com", "booking.com", "link.com",
			"linkedin.com", "facebook.com", "mail.bubble.io",
		},
		SpamKeywords: []string{
			"invoice", "subscription", "verification code", "password reset",
			"lifetime deal", "demo day", "newsletter", "wp statistics",
			"calendar", "hiring", "security",
		},
		Sources: []Rule{
			{
				Name:   "Leadpoint/Rengøring Aarhus",
				Source: model.LeadSourceLeadpoint,
				Any: []Condition{
					subject(OpContains, "rengøring aarhus"),
					subject(OpContains, "formular via rengøring aarhus"),
					subject(OpContains, "opkald via rengøring aarhus"),
					sender("leadpoint"),
					label("rengøring aarhus"),
					label("rengøring århus"),
					label("leadpoint"),
				},
			},
			{
				Name:   "Rengøring.nu/Leadmail.no",
				Source: model.LeadSourceRengoringNu,
				Any: []Condition{
					subject(OpContains, "rengøring.nu"),
					subject(OpContains, "nettbureau"),
					sender("leadmail.no"),
					label("rengøring.nu"),
				},
			},
			{
				Name:   "AdHelp",
				Source: model.LeadSourceAdHelp,
				Any: []Condition{
					sender("adhelp.dk"),
					label("adhelp"),
				},
			},
			{
				Name:   "Existing (Re:/Faktura)",
				Source: model.LeadSourceExisting,
				Any: []Condition{
					subject(OpPrefix, "re:"),
					subject(OpPrefix, "sv:"),
					subject(OpContains, "faktura nr"),
				},
			},
			{
				Name:   "Direct inquiry",
				Source: model.LeadSourceDirect,
				Any: []Condition{
					subject(OpContains, "rengøring"),
					subject(OpContains, "tilbud"),
				},
			},
		},
	}
}

// Load reads a YAML rule file. Sections left out of the file keep their
// defaults. An empty path returns Default().
func Load(path string) (*Set, error) {
	set := Default()
	if path == "" {
		return set, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "rules: read %s", path)
	}

	var file Set
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &config.ConfigurationError{Field: "pipeline.rules_path", Reason: fmt.Sprintf("parse %s: %v", path, err)}
	}
	if file.SpamDomains != nil {
		set.SpamDomains = file.SpamDomains
	}
	if file.SpamKeywords != nil {
		set.SpamKeywords = file.SpamKeywords
	}
	if file.Sources != nil {
		set.Sources = file.Sources
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// Validate rejects unknown sources, fields and operators.
func (s *Set) Validate() error {
	for i, r := range s.Sources {
		where := fmt.Sprintf("sources[%d]", i)
		if !r.Source.Valid() || r.Source == model.LeadSourceUnknown {
			return &config.ConfigurationError{Field: where, Reason: fmt.Sprintf("unknown lead source %q", r.Source)}
		}
		if len(r.Any) == 0 {
			return &config.ConfigurationError{Field: where, Reason: "rule has no conditions"}
		}
		for _, c := range r.Any {
			switch c.Field {
			case FieldSubject, FieldSender, FieldLabel:
			default:
				return &config.ConfigurationError{Field: where, Reason: fmt.Sprintf("unknown field %q", c.Field)}
			}
			switch c.Op {
			case OpContains, OpPrefix, OpEquals:
			default:
				return &config.ConfigurationError{Field: where, Reason: fmt.Sprintf("unknown op %q", c.Op)}
			}
			if c.Value == "" {
				return &config.ConfigurationError{Field: where, Reason: "empty condition value"}
			}
		}
	}
	return nil
}
