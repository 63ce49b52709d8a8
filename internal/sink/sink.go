// Package sink delivers finished reports downstream. Deliveries are
// fire-and-forget with reported failure; one sink failing never blocks
// another.
package sink

import (
	"context"

	"github.com/AngelCh415/outreach-report/internal/models"
)

type Sink interface {
	Name() string
	Deliver(ctx context.Context, rep models.DailyReport) error
}
