package models

import "errors"

// Error classes. Callers branch with errors.Is; the concrete message wraps the
// class with fmt.Errorf("%w: ...").
var (
	// Caller input errors. Never retried, surfaced verbatim to the issuer.
	ErrParse          = errors.New("parse error")
	ErrUnknownChannel = errors.New("unknown channel")
	ErrUnknownCommand = errors.New("unknown command")

	// Rejected invariant violation; the store stays unchanged.
	ErrInvalidValue = errors.New("invalid value")

	// Transient external failure; the run degrades instead of aborting.
	ErrSourceUnavailable = errors.New("source unavailable")

	// Internal invariant violation; always fatal for the run, before sinks.
	ErrInconsistentReport = errors.New("inconsistent report")

	// Post-aggregation delivery failure; reported per sink, never rolls back.
	ErrSink = errors.New("sink failure")
)
