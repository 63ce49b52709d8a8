package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/outreach-report/internal/command"
	"github.com/AngelCh415/outreach-report/internal/metrics"
	"github.com/AngelCh415/outreach-report/internal/models"
	"github.com/AngelCh415/outreach-report/internal/report"
	"github.com/AngelCh415/outreach-report/internal/utils"
)

func NewRouter(log *slog.Logger, runner *report.Runner, hist *report.History, proc *command.Processor, signingSecret string) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.Post("/report/run", func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		dq := r.URL.Query().Get("dry_run")
		dryRun := dq == "1" || dq == "true"

		rep, err := runner.Run(r.Context(), date, dryRun)
		switch {
		case errors.Is(err, models.ErrParse):
			http.Error(w, err.Error(), 400)
			return
		case errors.Is(err, models.ErrInconsistentReport):
			http.Error(w, err.Error(), 500)
			return
		}
		body := map[string]any{"report": rep, "dry_run": dryRun}
		if err != nil {
			// sink failures: the report stands, the caller gets told
			body["sink_error"] = err.Error()
		}
		writeJSON(w, body)
	})

	mux.Get("/reports", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, hist.Query(r.URL.Query()))
	})

	mux.Post("/slack/commands/log-social", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			http.Error(w, "bad body", 400)
			return
		}
		if signingSecret != "" {
			ts := r.Header.Get("X-Slack-Request-Timestamp")
			sig := r.Header.Get("X-Slack-Signature")
			if err := verifySignature(signingSecret, ts, sig, body, time.Now()); err != nil {
				http.Error(w, err.Error(), 403)
				return
			}
		}
		params, err := url.ParseQuery(string(body))
		if err != nil {
			http.Error(w, "bad form body", 400)
			return
		}
		text := params.Get("text")

		reply, cmdErr := proc.Execute("", text)
		result := "ok"
		if cmdErr != nil {
			result = "rejected"
		}
		metrics.CommandsTotal.WithLabelValues(command.Verb(text), result).Inc()

		// the chat surface always gets a short text answer, never a raw error
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(200)
		w.Write([]byte(reply))
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
