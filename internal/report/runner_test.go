package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/AngelCh415/outreach-report/internal/config"
	"github.com/AngelCh415/outreach-report/internal/models"
	"github.com/AngelCh415/outreach-report/internal/store"
	"github.com/AngelCh415/outreach-report/internal/utils"
)

// retries sin espera para no dormir en tests
func backoffNone() utils.Backoff { return utils.NewBackoff(0, 2) }

type fakeSource struct {
	name     string
	cats     models.CategoryCounts
	chans    models.ChannelCounts
	catErr   error
	chanErr  error
	catCalls int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchCategoryCounts(ctx context.Context, date string) (models.CategoryCounts, error) {
	f.catCalls++
	if f.catErr != nil {
		return nil, f.catErr
	}
	return f.cats, nil
}

func (f *fakeSource) FetchChannelCounts(ctx context.Context, date string) (models.ChannelCounts, error) {
	if f.chanErr != nil {
		return nil, f.chanErr
	}
	return f.chans, nil
}

type fakeSink struct {
	name      string
	err       error
	delivered []models.DailyReport
}

func (f *fakeSink) Name() string { return f.name }

func (f *fakeSink) Deliver(ctx context.Context, rep models.DailyReport) error {
	if f.err != nil {
		return f.err
	}
	f.delivered = append(f.delivered, rep)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func newTestRunner(t *testing.T) (*Runner, *fakeSource, store.ManualStore, *History) {
	t.Helper()
	rules := config.DefaultChannelRules()
	st := store.NewMemoryStore(rules)
	hist := NewHistory()
	r := NewRunner(quietLogger(), rules, st, hist, time.UTC)
	r.backoff = backoffNone()
	src := &fakeSource{
		name:  "crm",
		cats:  models.CategoryCounts{"creator": 12},
		chans: models.ChannelCounts{"whatsapp": 7, "linkedin": 10},
	}
	r.AddCategorySource(src)
	r.AddChannelSource(src)
	return r, src, st, hist
}

func TestRunHappyPath(t *testing.T) {
	r, _, st, hist := newTestRunner(t)
	sk := &fakeSink{name: "chat"}
	r.AddSink(sk)
	st.Set("2026-02-25", "linkedin", 5)

	rep, err := r.Run(context.Background(), "2026-02-25", false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Channels["linkedin"] != 15 {
		t.Fatalf("expected linkedin=15, got %d", rep.Channels["linkedin"])
	}
	if len(sk.delivered) != 1 {
		t.Fatalf("expected one delivery, got %d", len(sk.delivered))
	}
	if got, ok := hist.Latest("2026-02-25"); !ok || !reflect.DeepEqual(got, rep) {
		t.Fatal("history must keep the built report")
	}
}

func TestRunDegradedContinues(t *testing.T) {
	r, src, _, _ := newTestRunner(t)
	sk := &fakeSink{name: "chat"}
	r.AddSink(sk)
	src.catErr = fmt.Errorf("%w: crm categories: boom", models.ErrSourceUnavailable)

	rep, err := r.Run(context.Background(), "2026-02-25", false)
	if err != nil {
		t.Fatalf("degraded run must not fail: %v", err)
	}
	if !rep.Degraded || len(rep.DegradedSources) != 1 || rep.DegradedSources[0] != "crm" {
		t.Fatalf("expected degraded report naming crm: %+v", rep)
	}
	if len(rep.Categories) != 0 {
		t.Fatalf("categories must be zero-filled, got %+v", rep.Categories)
	}
	// los canales automáticos siguen llegando
	if rep.Channels["whatsapp"] != 7 {
		t.Fatalf("channel counts should survive, got %+v", rep.Channels)
	}
	if len(sk.delivered) != 1 {
		t.Fatal("degraded report still goes to sinks")
	}
}

func TestRunRetriesSourceBeforeDegrading(t *testing.T) {
	r, src, _, _ := newTestRunner(t)
	src.catErr = fmt.Errorf("%w: flaky", models.ErrSourceUnavailable)

	if _, err := r.Run(context.Background(), "2026-02-25", true); err != nil {
		t.Fatalf("run: %v", err)
	}
	if src.catCalls < 2 {
		t.Fatalf("expected bounded retries, got %d calls", src.catCalls)
	}
}

func TestRunDryRunSkipsSinks(t *testing.T) {
	r, _, _, hist := newTestRunner(t)
	sk := &fakeSink{name: "chat"}
	r.AddSink(sk)

	rep, err := r.Run(context.Background(), "2026-02-25", true)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Date != "2026-02-25" {
		t.Fatalf("unexpected date %s", rep.Date)
	}
	if len(sk.delivered) != 0 {
		t.Fatal("dry run must not touch sinks")
	}
	if _, ok := hist.Latest("2026-02-25"); ok {
		t.Fatal("dry run must not enter history")
	}
}

func TestRunSinkFailuresAreIndependent(t *testing.T) {
	r, _, _, _ := newTestRunner(t)
	bad := &fakeSink{name: "sheets", err: fmt.Errorf("%w: sheets: 503", models.ErrSink)}
	good := &fakeSink{name: "chat"}
	r.AddSink(bad)
	r.AddSink(good)

	rep, err := r.Run(context.Background(), "2026-02-25", false)
	if !errors.Is(err, models.ErrSink) {
		t.Fatalf("expected sink error reported, got %v", err)
	}
	if len(good.delivered) != 1 {
		t.Fatal("second sink must still be attempted")
	}
	if rep.Date == "" {
		t.Fatal("the report itself stands despite sink failure")
	}
}

func TestRunInconsistentAbortsBeforeSinks(t *testing.T) {
	r, src, _, _ := newTestRunner(t)
	sk := &fakeSink{name: "chat"}
	r.AddSink(sk)
	src.chans = models.ChannelCounts{"whatsapp": -1} // adapter bug

	if _, err := r.Run(context.Background(), "2026-02-25", false); !errors.Is(err, models.ErrInconsistentReport) {
		t.Fatalf("expected ErrInconsistentReport, got %v", err)
	}
	if len(sk.delivered) != 0 {
		t.Fatal("inconsistent report must never reach a sink")
	}
}

func TestRunRerunIsIdempotent(t *testing.T) {
	r, _, _, hist := newTestRunner(t)
	a, err := r.Run(context.Background(), "2026-02-25", false)
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Run(context.Background(), "2026-02-25", false)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("re-run with unchanged store must rebuild the same report:\n%+v\n%+v", a, b)
	}
	if got := hist.Query(nil); len(got) != 1 {
		t.Fatalf("one logical report per day, got %d", len(got))
	}
}

func TestRunRejectsBadDate(t *testing.T) {
	r, _, _, _ := newTestRunner(t)
	if _, err := r.Run(context.Background(), "not-a-date", true); !errors.Is(err, models.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}
