package report

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AngelCh415/outreach-report/internal/metrics"
	"github.com/AngelCh415/outreach-report/internal/models"
	"github.com/AngelCh415/outreach-report/internal/sink"
	"github.com/AngelCh415/outreach-report/internal/source"
	"github.com/AngelCh415/outreach-report/internal/store"
	"github.com/AngelCh415/outreach-report/internal/utils"
)

// Runner sequences one report run: pull sources, read the manual store,
// build, deliver. It holds no per-run state; every Run is independent.
type Runner struct {
	log     *slog.Logger
	rules   models.ChannelRules
	st      store.ManualStore
	hist    *History
	loc     *time.Location
	backoff utils.Backoff

	catSources  []source.CategorySource
	chanSources []source.ChannelSource
	sinks       []sink.Sink
}

func NewRunner(log *slog.Logger, rules models.ChannelRules, st store.ManualStore, hist *History, loc *time.Location) *Runner {
	return &Runner{
		log:     log,
		rules:   rules,
		st:      st,
		hist:    hist,
		loc:     loc,
		backoff: utils.NewBackoff(200*time.Millisecond, 2),
	}
}

func (r *Runner) AddCategorySource(s source.CategorySource) { r.catSources = append(r.catSources, s) }
func (r *Runner) AddChannelSource(s source.ChannelSource)   { r.chanSources = append(r.chanSources, s) }
func (r *Runner) AddSink(s sink.Sink)                       { r.sinks = append(r.sinks, s) }

// Run builds the report for date (today in the configured timezone when
// empty). With dryRun no sink is touched. A source failure zero-fills that
// source and marks the report degraded; only an inconsistent report aborts.
// Sink failures are joined into the returned error but the report stands.
func (r *Runner) Run(ctx context.Context, date string, dryRun bool) (models.DailyReport, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := r.log.With(slog.String("run_id", runID))

	if date == "" {
		date = time.Now().In(r.loc).Format(models.DateLayout)
	} else {
		var err error
		if date, err = models.ParseDate(date); err != nil {
			return models.DailyReport{}, err
		}
	}
	log.Info("report run", slog.String("date", date), slog.Bool("dry_run", dryRun))

	degraded := map[string]struct{}{}
	cats := map[string]models.CategoryCounts{}
	for _, src := range r.catSources {
		var counts models.CategoryCounts
		err := r.backoff.Do(func(int) error {
			var ferr error
			counts, ferr = src.FetchCategoryCounts(ctx, date)
			return ferr
		})
		if err != nil {
			log.Warn("category source unavailable, zero-filling", slog.String("source", src.Name()), slog.String("err", err.Error()))
			degraded[src.Name()] = struct{}{}
			continue
		}
		cats[src.Name()] = counts
	}
	chans := map[string]models.ChannelCounts{}
	for _, src := range r.chanSources {
		var counts models.ChannelCounts
		err := r.backoff.Do(func(int) error {
			var ferr error
			counts, ferr = src.FetchChannelCounts(ctx, date)
			return ferr
		})
		if err != nil {
			log.Warn("channel source unavailable, zero-filling", slog.String("source", src.Name()), slog.String("err", err.Error()))
			degraded[src.Name()] = struct{}{}
			continue
		}
		chans[src.Name()] = counts
	}

	manual, err := r.st.Get(date)
	if err != nil {
		metrics.RunsTotal.WithLabelValues("error").Inc()
		return models.DailyReport{}, err
	}

	var degradedNames []string
	for name := range degraded {
		degradedNames = append(degradedNames, name)
	}
	rep, err := Build(r.rules, BuildInput{
		Date:            date,
		Categories:      cats,
		Channels:        chans,
		Manual:          manual,
		DegradedSources: degradedNames,
	})
	if err != nil {
		// adapter or store bug; abort before any sink sees it
		log.Error("report build failed", slog.String("err", err.Error()))
		metrics.RunsTotal.WithLabelValues("error").Inc()
		return models.DailyReport{}, err
	}

	result := "ok"
	if rep.Degraded {
		result = "degraded"
	}
	metrics.RunsTotal.WithLabelValues(result).Inc()
	defer func() { metrics.RunDurationSeconds.Observe(time.Since(start).Seconds()) }()

	if dryRun {
		log.Info("dry run, skipping sinks", slog.Int("total", rep.TotalOutreach()))
		return rep, nil
	}
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	r.hist.Record(rep)

	var sinkErrs []error
	for _, s := range r.sinks {
		if err := s.Deliver(ctx, rep); err != nil {
			log.Error("sink delivery failed", slog.String("sink", s.Name()), slog.String("err", err.Error()))
			metrics.SinkFailuresTotal.WithLabelValues(s.Name()).Inc()
			sinkErrs = append(sinkErrs, err)
			continue
		}
		log.Info("sink delivered", slog.String("sink", s.Name()))
	}
	return rep, errors.Join(sinkErrs...)
}
