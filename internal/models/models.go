package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the canonical key for everything keyed by calendar day.
const DateLayout = "2006-01-02"

func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: bad date %q (want YYYY-MM-DD)", ErrParse, s)
	}
	return t.Format(DateLayout), nil
}

// CategoryCounts maps lead category (creator, agency, ...) to contact count.
// The key set is open; unknown categories are carried through, never dropped.
type CategoryCounts map[string]int

// ChannelCounts maps outreach channel (whatsapp, linkedin, ...) to touch count.
type ChannelCounts map[string]int

func (c CategoryCounts) Clone() CategoryCounts {
	out := make(CategoryCounts, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

func (c ChannelCounts) Clone() ChannelCounts {
	out := make(ChannelCounts, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Provenance says where a resolved channel value came from.
type Provenance string

const (
	ProvAutomated Provenance = "automated"
	ProvManual    Provenance = "manual"
	ProvCombined  Provenance = "automated+manual"
)

// ChannelRules maps channel name to its resolution rule. Loaded from
// configuration at startup; adding a channel is a config change, not code.
type ChannelRules map[string]Provenance

// ManualWritable reports whether set/add commands may touch the channel.
func (r ChannelRules) ManualWritable(channel string) bool {
	switch r[channel] {
	case ProvManual, ProvCombined:
		return true
	}
	return false
}

// Supplement reports whether a manual value adds on top of an automated one.
func (r ChannelRules) Supplement(channel string) bool {
	return r[channel] == ProvCombined
}

// ManualChannels returns the writable channel names in sorted order.
func (r ChannelRules) ManualChannels() []string {
	var out []string
	for ch := range r {
		if r.ManualWritable(ch) {
			out = append(out, ch)
		}
	}
	sort.Strings(out)
	return out
}

// DailyReport is the immutable per-day snapshot handed to the sinks.
// A second build for the same date is a new value, never an update.
type DailyReport struct {
	Date            string                `json:"date"`
	Categories      CategoryCounts        `json:"categories"`
	Channels        ChannelCounts         `json:"channels"`
	Provenance      map[string]Provenance `json:"provenance"`
	Degraded        bool                  `json:"degraded"`
	DegradedSources []string              `json:"degraded_sources,omitempty"`
}

// TotalOutreach is the sum of all resolved channel values.
func (d DailyReport) TotalOutreach() int {
	n := 0
	for _, v := range d.Channels {
		n += v
	}
	return n
}

// SheetRow returns the spreadsheet columns A-D. Later columns are maintained
// by hand in the sheet and never written here.
func (d DailyReport) SheetRow() []interface{} {
	return []interface{}{
		d.Date,
		d.Categories["creator"],
		d.Categories["agency"],
		d.Categories["affiliate"],
	}
}

// Summary renders the chat message.
func (d DailyReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "*📊 Daily Outreach Report — %s*\n\n", d.Date)
	if d.Degraded {
		fmt.Fprintf(&b, "⚠️ _degraded: %s unavailable, counted as zero_\n\n", strings.Join(d.DegradedSources, ", "))
	}
	fmt.Fprintf(&b, "👀  *Total touches:* %d\n\n*By channel:*\n", d.TotalOutreach())
	for _, ch := range sortedKeys(d.Channels) {
		fmt.Fprintf(&b, "  • %s: `%d`\n", ch, d.Channels[ch])
	}
	b.WriteString("\n*By lead type:*\n")
	for _, cat := range sortedKeys(d.Categories) {
		if cat == "unknown" && d.Categories[cat] == 0 {
			continue
		}
		fmt.Fprintf(&b, "  • %s: `%d`\n", cat, d.Categories[cat])
	}
	b.WriteString("\nGreat work everyone! 💪")
	return b.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
