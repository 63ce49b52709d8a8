package command

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/AngelCh415/outreach-report/internal/config"
	"github.com/AngelCh415/outreach-report/internal/models"
	"github.com/AngelCh415/outreach-report/internal/store"
)

const day = "2026-02-25"

func newProcessor() *Processor {
	rules := config.DefaultChannelRules()
	return NewProcessor(store.NewMemoryStore(rules), rules, time.UTC)
}

func TestShowFreshDateAllZero(t *testing.T) {
	p := newProcessor()
	reply, err := p.Execute(day, "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"telegram: `0`", "signal: `0`", "linkedin (supplement): `0`"} {
		if !strings.Contains(reply, want) {
			t.Fatalf("expected %q in reply:\n%s", want, reply)
		}
	}
}

func TestEmptyTextMeansShow(t *testing.T) {
	p := newProcessor()
	reply, err := p.Execute(day, "   ")
	if err != nil {
		t.Fatalf("empty text: %v", err)
	}
	if !strings.Contains(reply, "Manual counts") {
		t.Fatalf("expected the show summary, got:\n%s", reply)
	}
}

func TestSetThenShow(t *testing.T) {
	p := newProcessor()
	reply, err := p.Execute(day, "set telegram 3")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if !strings.Contains(reply, "3") {
		t.Fatalf("confirmation should echo the value: %s", reply)
	}
	reply, _ = p.Execute(day, "show")
	if !strings.Contains(reply, "telegram: `3`") {
		t.Fatalf("show should reflect the set: %s", reply)
	}
}

func TestAddAccumulates(t *testing.T) {
	p := newProcessor()
	p.Execute(day, "add signal 1")
	reply, err := p.Execute(day, "add signal 1")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(reply, "`2`") {
		t.Fatalf("expected cumulative 2: %s", reply)
	}
}

func TestSetAutomatedChannelRejected(t *testing.T) {
	p := newProcessor()
	reply, err := p.Execute(day, "set whatsapp 5")
	if !errors.Is(err, models.ErrUnknownChannel) {
		t.Fatalf("expected ErrUnknownChannel, got %v", err)
	}
	if !strings.Contains(reply, "whatsapp") || !strings.Contains(reply, "telegram") {
		t.Fatalf("rejection should name the channel and list valid ones: %s", reply)
	}
}

func TestParseErrors(t *testing.T) {
	p := newProcessor()
	if _, err := p.Execute(day, "set telegram abc"); !errors.Is(err, models.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if _, err := p.Execute(day, "set telegram -1"); !errors.Is(err, models.ErrParse) {
		t.Fatalf("set with negative must be ErrParse, got %v", err)
	}
	if _, err := p.Execute(day, "set telegram"); !errors.Is(err, models.ErrParse) {
		t.Fatalf("missing argument must be ErrParse, got %v", err)
	}
}

func TestUnknownCommandGetsUsageHint(t *testing.T) {
	p := newProcessor()
	reply, err := p.Execute(day, "bump telegram 3")
	if !errors.Is(err, models.ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
	if !strings.Contains(reply, "Usage") {
		t.Fatalf("expected a usage hint: %s", reply)
	}
}

func TestAddBelowZeroRejectedStoreUnchanged(t *testing.T) {
	p := newProcessor()
	p.Execute(day, "set signal 2")
	reply, err := p.Execute(day, "add signal -5")
	if !errors.Is(err, models.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if !strings.Contains(reply, "below zero") {
		t.Fatalf("rejection reason should be readable: %s", reply)
	}
	show, _ := p.Execute(day, "show")
	if !strings.Contains(show, "signal: `2`") {
		t.Fatalf("store must be unchanged after rejection: %s", show)
	}
}

func TestSupplementChannelConfirmation(t *testing.T) {
	p := newProcessor()
	reply, err := p.Execute(day, "set linkedin 5")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if !strings.Contains(reply, "supplement") {
		t.Fatalf("linkedin confirmation should say it supplements: %s", reply)
	}
}

func TestVerb(t *testing.T) {
	if Verb("") != "show" || Verb("set telegram 3") != "set" || Verb("bogus") != "unknown" {
		t.Fatal("verb classification broken")
	}
}
