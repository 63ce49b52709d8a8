// Package source holds the adapters that supply automated counts. The core
// only consumes the contracted output shape; fetch failures surface as
// models.ErrSourceUnavailable and the caller decides how to degrade.
package source

import (
	"context"

	"github.com/AngelCh415/outreach-report/internal/models"
)

type CategorySource interface {
	Name() string
	FetchCategoryCounts(ctx context.Context, date string) (models.CategoryCounts, error)
}

type ChannelSource interface {
	Name() string
	FetchChannelCounts(ctx context.Context, date string) (models.ChannelCounts, error)
}
