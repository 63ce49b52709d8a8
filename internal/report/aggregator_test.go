package report

import (
	"errors"
	"reflect"
	"testing"

	"github.com/AngelCh415/outreach-report/internal/config"
	"github.com/AngelCh415/outreach-report/internal/models"
)

func buildInput() BuildInput {
	return BuildInput{
		Date: "2026-02-25",
		Categories: map[string]models.CategoryCounts{
			"crm": {"creator": 12, "agency": 4, "affiliate": 2, "unknown": 1},
		},
		Channels: map[string]models.ChannelCounts{
			"crm": {"whatsapp": 7, "smartlead_email": 9, "linkedin": 10},
		},
		Manual: models.ManualRecord{
			Date:       "2026-02-25",
			Channels:   map[string]int{"telegram": 3, "signal": 1},
			Supplement: map[string]int{"linkedin": 5},
		},
	}
}

func TestBuildResolvesByRule(t *testing.T) {
	rep, err := Build(config.DefaultChannelRules(), buildInput())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	cases := []struct {
		channel string
		value   int
		prov    models.Provenance
	}{
		{"whatsapp", 7, models.ProvAutomated},
		{"smartlead_email", 9, models.ProvAutomated},
		{"linkedin", 15, models.ProvCombined}, // 10 automated + 5 supplement
		{"telegram", 3, models.ProvManual},
		{"signal", 1, models.ProvManual},
	}
	for _, c := range cases {
		if rep.Channels[c.channel] != c.value {
			t.Fatalf("%s: expected %d, got %d", c.channel, c.value, rep.Channels[c.channel])
		}
		if rep.Provenance[c.channel] != c.prov {
			t.Fatalf("%s: expected provenance %s, got %s", c.channel, c.prov, rep.Provenance[c.channel])
		}
	}
	if rep.Categories["creator"] != 12 || rep.Categories["unknown"] != 1 {
		t.Fatalf("categories must pass through unchanged: %+v", rep.Categories)
	}
	if rep.Degraded {
		t.Fatal("report should not be degraded")
	}
}

func TestBuildIsPure(t *testing.T) {
	rules := config.DefaultChannelRules()
	a, err := Build(rules, buildInput())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(rules, buildInput())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical inputs must give identical reports:\n%+v\n%+v", a, b)
	}
}

func TestBuildPreservesUnknownChannels(t *testing.T) {
	in := buildInput()
	in.Channels["crm"]["wechat"] = 2
	rep, err := Build(config.DefaultChannelRules(), in)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Channels["wechat"] != 2 || rep.Provenance["wechat"] != models.ProvAutomated {
		t.Fatalf("unknown automated channel dropped: %+v", rep.Channels)
	}
}

func TestBuildDegradedZeroFill(t *testing.T) {
	in := buildInput()
	delete(in.Categories, "crm")
	in.DegradedSources = []string{"crm"}
	rep, err := Build(config.DefaultChannelRules(), in)
	if err != nil {
		t.Fatal(err)
	}
	if !rep.Degraded {
		t.Fatal("expected degraded report")
	}
	if len(rep.Categories) != 0 {
		t.Fatalf("expected zero categories, got %+v", rep.Categories)
	}
}

func TestBuildRejectsNegativeFromAdapter(t *testing.T) {
	in := buildInput()
	in.Channels["crm"]["whatsapp"] = -1
	if _, err := Build(config.DefaultChannelRules(), in); !errors.Is(err, models.ErrInconsistentReport) {
		t.Fatalf("expected ErrInconsistentReport, got %v", err)
	}
}
