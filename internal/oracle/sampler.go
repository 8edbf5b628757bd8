package oracle

import (
	"context"

	"go.uber.org/zap"

	"wagerwinz/internal/db"
	"wagerwinz/internal/models"
	"wagerwinz/internal/repository"
)

// Sampler persists oracle readings so the pricefeed API can show recent
// history. Settlement never reads samples; it always hits the feed live.
type Sampler struct {
	Feed   PriceFeed
	Repo   repository.Repository
	Logger *zap.Logger
}

func (s *Sampler) SampleOnce(ctx context.Context) error {
	if s == nil || s.Feed == nil || s.Repo == nil {
		return nil
	}
	reading, err := s.Feed.LatestRound(ctx)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("price sample failed", zap.Error(err))
		}
		return err
	}
	return s.Repo.InsertPriceSample(ctx, &models.PriceSample{
		Price:     reading.Price,
		UpdatedAt: reading.UpdatedAt,
		SampledAt: db.NowUTC(),
	})
}
