// Package command interprets the manual-count grammar coming from the chat
// boundary: show, set <channel> <n>, add <channel> <n>. Stateless; every
// invocation is independent.
package command

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/AngelCh415/outreach-report/internal/models"
	"github.com/AngelCh415/outreach-report/internal/store"
)

type Processor struct {
	st    store.ManualStore
	rules models.ChannelRules
	loc   *time.Location
}

func NewProcessor(st store.ManualStore, rules models.ChannelRules, loc *time.Location) *Processor {
	return &Processor{st: st, rules: rules, loc: loc}
}

// Verb names the command for metrics labels; it never fails.
func Verb(text string) string {
	f := strings.Fields(strings.ToLower(text))
	if len(f) == 0 {
		return "show"
	}
	switch f[0] {
	case "show", "set", "add":
		return f[0]
	}
	return "unknown"
}

// Execute runs one command against date (today in the configured timezone
// when empty). The reply string is always safe to hand back to the chat
// surface; err only classifies what happened and is already reflected in the
// reply.
func (p *Processor) Execute(date, text string) (string, error) {
	if date == "" {
		date = time.Now().In(p.loc).Format(models.DateLayout)
	}
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(text)))

	if len(fields) == 0 || fields[0] == "show" {
		rec, err := p.st.Get(date)
		if err != nil {
			return fmt.Sprintf("Bad date `%s` (want YYYY-MM-DD).", date), err
		}
		return p.renderShow(rec), nil
	}

	verb := fields[0]
	if verb != "set" && verb != "add" {
		err := fmt.Errorf("%w: %q", models.ErrUnknownCommand, verb)
		return fmt.Sprintf("Unrecognized command `%s`. Usage: `show` | `set <channel> <n>` | `add <channel> <n>`", verb), err
	}
	if len(fields) != 3 {
		err := fmt.Errorf("%w: %s wants a channel and a number", models.ErrParse, verb)
		return fmt.Sprintf("Usage: `%s <channel> <n>`  e.g. `%s telegram 3`", verb, verb), err
	}
	channel := fields[1]
	if !p.rules.ManualWritable(channel) {
		err := fmt.Errorf("%w: %q", models.ErrUnknownChannel, channel)
		return fmt.Sprintf("Unknown channel `%s`. Manual channels: %s", channel, strings.Join(p.rules.ManualChannels(), ", ")), err
	}
	n, aerr := strconv.Atoi(fields[2])
	if aerr != nil || (verb == "set" && n < 0) {
		err := fmt.Errorf("%w: %q", models.ErrParse, fields[2])
		kind := "integer"
		if verb == "set" {
			kind = "non-negative integer"
		}
		return fmt.Sprintf("`%s` is not a valid %s.", fields[2], kind), err
	}

	var rec models.ManualRecord
	var err error
	if verb == "set" {
		rec, err = p.st.Set(date, channel, n)
	} else {
		rec, err = p.st.Add(date, channel, n)
	}
	if err != nil {
		if errors.Is(err, models.ErrInvalidValue) {
			return fmt.Sprintf("❌ Rejected: `%s` would go below zero.", channel), err
		}
		return "Something went wrong saving the count, try again.", err
	}

	value := rec.Channels[channel]
	label := channel
	if p.rules.Supplement(channel) {
		value = rec.Supplement[channel]
		label = channel + " supplement"
	}
	if verb == "set" {
		return fmt.Sprintf("✅ Logged %s = `%d` for %s.", label, value, date), nil
	}
	return fmt.Sprintf("✅ %s now at `%d` for %s (%+d).", label, value, date, n), nil
}

func (p *Processor) renderShow(rec models.ManualRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 *Manual counts for %s:*\n", rec.Date)
	lines := map[string]int{}
	for ch, v := range rec.Channels {
		lines[ch] = v
	}
	for ch, v := range rec.Supplement {
		lines[ch+" (supplement)"] = v
	}
	keys := make([]string, 0, len(lines))
	for k := range lines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: `%d`\n", k, lines[k])
	}
	b.WriteString("\n_Use `set <channel> <n>` or `add <channel> <n>` to update._")
	return b.String()
}
