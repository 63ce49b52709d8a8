package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/AngelCh415/outreach-report/internal/command"
	"github.com/AngelCh415/outreach-report/internal/config"
	"github.com/AngelCh415/outreach-report/internal/httpx"
	"github.com/AngelCh415/outreach-report/internal/metrics"
	"github.com/AngelCh415/outreach-report/internal/report"
	"github.com/AngelCh415/outreach-report/internal/sink"
	"github.com/AngelCh415/outreach-report/internal/source"
	"github.com/AngelCh415/outreach-report/internal/store"
)

func main() {
	cfg := config.FromEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	metrics.Register()

	rules, err := config.LoadChannelRules(cfg.ChannelRulesFile)
	if err != nil {
		logger.Error("channel rules", slog.String("err", err.Error()))
		os.Exit(1)
	}

	var st store.ManualStore
	switch cfg.StoreDriver {
	case "memory":
		st = store.NewMemoryStore(rules)
	case "sqlite":
		s, err := store.NewSQLiteStore(cfg.StorePath, rules)
		if err != nil {
			logger.Error("sqlite store", slog.String("err", err.Error()))
			os.Exit(1)
		}
		defer s.Close()
		st = s
	default:
		st = store.NewFileStore(cfg.StorePath, rules)
	}

	loc := cfg.Location()
	hist := report.NewHistory()
	runner := report.NewRunner(logger, rules, st, hist, loc)

	if cfg.CRMURL != "" {
		crm := source.NewCRM(cfg.CRMURL, source.NewHTTPClient(cfg.HTTPTimeout))
		runner.AddCategorySource(crm)
		runner.AddChannelSource(crm)
	} else {
		logger.Warn("CRM_API_URL not set, automated counts will be zero")
	}
	if cfg.SpreadsheetID != "" {
		sheets, err := sink.NewSheets(context.Background(), cfg.SheetsCredentialsFile, cfg.SpreadsheetID, cfg.WorksheetName)
		if err != nil {
			logger.Error("sheets sink", slog.String("err", err.Error()))
			os.Exit(1)
		}
		runner.AddSink(sheets)
	}
	if cfg.ChatURL != "" {
		runner.AddSink(sink.NewChat(cfg.ChatURL, cfg.ChatSecret, &http.Client{Timeout: cfg.HTTPTimeout}))
	}

	proc := command.NewProcessor(st, rules, loc)
	r := httpx.NewRouter(logger, runner, hist, proc, cfg.SigningSecret)

	go scheduleDaily(logger, runner, loc, cfg.ReportHour, cfg.ReportMinute)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

// scheduleDaily fires one report run per day at hh:mm in loc. The runner
// takes everything as parameters, so this loop is just one more caller.
func scheduleDaily(log *slog.Logger, runner *report.Runner, loc *time.Location, hour, minute int) {
	for {
		next := nextRun(time.Now().In(loc), hour, minute)
		log.Info("daily report scheduled", slog.Time("next", next))
		time.Sleep(time.Until(next))
		if _, err := runner.Run(context.Background(), "", false); err != nil {
			log.Error("scheduled run", slog.String("err", err.Error()))
		}
	}
}

func nextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
