// Package report merges automated source output with the manual store into
// one immutable DailyReport, and orchestrates a run end to end.
package report

import (
	"fmt"
	"sort"

	"github.com/AngelCh415/outreach-report/internal/models"
)

// BuildInput carries everything Build needs. Counts are keyed by source name
// so a degraded source simply contributes nothing.
type BuildInput struct {
	Date            string
	Categories      map[string]models.CategoryCounts
	Channels        map[string]models.ChannelCounts
	Manual          models.ManualRecord
	DegradedSources []string
}

// Build resolves every channel through its rule and passes categories through
// unchanged. It is a pure function: no clock, no randomness, identical inputs
// give identical reports.
func Build(rules models.ChannelRules, in BuildInput) (models.DailyReport, error) {
	categories := models.CategoryCounts{}
	for src, counts := range in.Categories {
		for cat, n := range counts {
			if n < 0 {
				return models.DailyReport{}, fmt.Errorf("%w: source %s category %s = %d", models.ErrInconsistentReport, src, cat, n)
			}
			categories[cat] += n
		}
	}

	automated := models.ChannelCounts{}
	for src, counts := range in.Channels {
		for ch, n := range counts {
			if n < 0 {
				return models.DailyReport{}, fmt.Errorf("%w: source %s channel %s = %d", models.ErrInconsistentReport, src, ch, n)
			}
			automated[ch] += n
		}
	}

	resolved := models.ChannelCounts{}
	prov := map[string]models.Provenance{}
	for _, ch := range channelUnion(rules, automated, in.Manual) {
		rule, ok := rules[ch]
		if !ok {
			// unknown channel: keep it, inferring the rule from where it came
			switch {
			case in.Manual.Supplement[ch] != 0:
				rule = models.ProvCombined
			case in.Manual.Channels[ch] != 0:
				rule = models.ProvManual
			default:
				rule = models.ProvAutomated
			}
		}
		var v int
		switch rule {
		case models.ProvManual:
			v = in.Manual.Channels[ch]
		case models.ProvAutomated:
			v = automated[ch]
		case models.ProvCombined:
			v = automated[ch] + in.Manual.Supplement[ch]
		}
		if v < 0 {
			return models.DailyReport{}, fmt.Errorf("%w: channel %s resolved to %d", models.ErrInconsistentReport, ch, v)
		}
		resolved[ch] = v
		prov[ch] = rule
	}

	degraded := append([]string(nil), in.DegradedSources...)
	sort.Strings(degraded)
	if len(degraded) == 0 {
		degraded = nil
	}
	return models.DailyReport{
		Date:            in.Date,
		Categories:      categories,
		Channels:        resolved,
		Provenance:      prov,
		Degraded:        len(degraded) > 0,
		DegradedSources: degraded,
	}, nil
}

func channelUnion(rules models.ChannelRules, automated models.ChannelCounts, manual models.ManualRecord) []string {
	seen := map[string]struct{}{}
	for ch := range rules {
		seen[ch] = struct{}{}
	}
	for ch := range automated {
		seen[ch] = struct{}{}
	}
	for ch := range manual.Channels {
		seen[ch] = struct{}{}
	}
	for ch := range manual.Supplement {
		seen[ch] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for ch := range seen {
		out = append(out, ch)
	}
	sort.Strings(out)
	return out
}
