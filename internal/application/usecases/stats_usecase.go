package usecases

import (
	"context"
	"time"

	"github.com/funnelpulse/lead-engine-api/internal/common"
	"github.com/funnelpulse/lead-engine-api/internal/domain/entities"
	"github.com/funnelpulse/lead-engine-api/internal/domain/repositories"
	"github.com/funnelpulse/lead-engine-api/internal/infrastructure/cache"
)

type StatsUseCase interface {
	// GetCampaignStats returns the campaign aggregate, served from a short
	// TTL cache since the funnel dashboard polls it.
	GetCampaignStats(ctx context.Context, campaignID string) (*entities.CampaignAggregate, error)
}

type statsUseCase struct {
	aggregateRepo repositories.AggregateRepository
	snapshots     *cache.Cache
	ttl           time.Duration
}

func NewStatsUseCase(aggregateRepo repositories.AggregateRepository, snapshots *cache.Cache, ttl time.Duration) StatsUseCase {
	return &statsUseCase{
		aggregateRepo: aggregateRepo,
		snapshots:     snapshots,
		ttl:           ttl,
	}
}

func (uc *statsUseCase) GetCampaignStats(ctx context.Context, campaignID string) (*entities.CampaignAggregate, error) {
	if campaignID == "" {
		return nil, common.ErrMissingCampaign
	}

	if cached, ok := uc.snapshots.Get(campaignID); ok {
		if agg, ok := cached.(*entities.CampaignAggregate); ok {
			return agg, nil
		}
	}

	agg, err := uc.aggregateRepo.Get(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	uc.snapshots.Set(campaignID, agg, uc.ttl)
	return agg, nil
}
