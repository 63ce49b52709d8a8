package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AngelCh415/outreach-report/internal/models"
)

// rulesFile is the on-disk shape:
//
//	channels:
//	  whatsapp: automated
//	  linkedin: automated+manual
//	  telegram: manual
type rulesFile struct {
	Channels map[string]string `yaml:"channels"`
}

// DefaultChannelRules mirrors the channels the report has always tracked.
func DefaultChannelRules() models.ChannelRules {
	return models.ChannelRules{
		"whatsapp":        models.ProvAutomated,
		"smartlead_email": models.ProvAutomated,
		"linkedin":        models.ProvCombined,
		"telegram":        models.ProvManual,
		"signal":          models.ProvManual,
	}
}

// LoadChannelRules reads the YAML rule table, or returns the defaults when no
// path is configured.
func LoadChannelRules(path string) (models.ChannelRules, error) {
	if path == "" {
		return DefaultChannelRules(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read channel rules: %w", err)
	}
	var f rulesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse channel rules: %w", err)
	}
	if len(f.Channels) == 0 {
		return nil, fmt.Errorf("channel rules %s: no channels defined", path)
	}
	rules := models.ChannelRules{}
	for ch, rule := range f.Channels {
		switch p := models.Provenance(rule); p {
		case models.ProvAutomated, models.ProvManual, models.ProvCombined:
			rules[ch] = p
		default:
			return nil, fmt.Errorf("channel rules %s: channel %q has unknown rule %q", path, ch, rule)
		}
	}
	return rules, nil
}
