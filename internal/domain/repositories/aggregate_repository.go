package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/funnelpulse/lead-engine-api/internal/common"
	"github.com/funnelpulse/lead-engine-api/internal/domain/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AggregateRepository interface {
	// Get returns the campaign's aggregate row, or a zero-valued aggregate
	// when the campaign has no row yet.
	Get(ctx context.Context, campaignID string) (*entities.CampaignAggregate, error)
	// Increment bumps one total by exactly 1 in a single atomic upsert.
	Increment(ctx context.Context, campaignID string, kind entities.ActionKind) error
	// RecoverIncrement is the non-atomic fallback when Increment fails:
	// re-read the current total and write total+1. Known to race; an
	// occasional lost count is accepted over losing the event.
	RecoverIncrement(ctx context.Context, campaignID string, kind entities.ActionKind) error
	// SetTotals overwrites the aggregate row, used by the resync repair.
	SetTotals(ctx context.Context, campaignID string, totals entities.ActionTotals) error
}

type aggregateRepository struct {
	db *gorm.DB
}

func NewAggregateRepository(db *gorm.DB) AggregateRepository {
	return &aggregateRepository{db}
}

func (r *aggregateRepository) Get(ctx context.Context, campaignID string) (*entities.CampaignAggregate, error) {
	var agg entities.CampaignAggregate
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		First(&agg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &entities.CampaignAggregate{CampaignID: campaignID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get aggregate: %v", common.ErrStoreUnavailable, err)
	}
	return &agg, nil
}

func (r *aggregateRepository) Increment(ctx context.Context, campaignID string, kind entities.ActionKind) error {
	column := entities.TotalColumn(kind)
	if column == "" {
		return fmt.Errorf("%w: %s", common.ErrUnknownAction, kind)
	}

	agg := entities.CampaignAggregate{CampaignID: campaignID}
	switch kind {
	case entities.ActionVisit:
		agg.TotalVisits = 1
	case entities.ActionBooking:
		agg.TotalBookings = 1
	case entities.ActionLogin:
		agg.TotalLogins = 1
	case entities.ActionVerification:
		agg.TotalVerifications = 1
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "campaign_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{column: gorm.Expr(column + " + 1")}),
	}).Create(&agg).Error
	if err != nil {
		return fmt.Errorf("%w: increment %s: %v", common.ErrStoreUnavailable, column, err)
	}
	return nil
}

func (r *aggregateRepository) RecoverIncrement(ctx context.Context, campaignID string, kind entities.ActionKind) error {
	agg, err := r.Get(ctx, campaignID)
	if err != nil {
		return err
	}

	switch kind {
	case entities.ActionVisit:
		agg.TotalVisits++
	case entities.ActionBooking:
		agg.TotalBookings++
	case entities.ActionLogin:
		agg.TotalLogins++
	case entities.ActionVerification:
		agg.TotalVerifications++
	default:
		return fmt.Errorf("%w: %s", common.ErrUnknownAction, kind)
	}

	if err := r.db.WithContext(ctx).Save(agg).Error; err != nil {
		return fmt.Errorf("%w: recover increment: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *aggregateRepository) SetTotals(ctx context.Context, campaignID string, totals entities.ActionTotals) error {
	agg := entities.CampaignAggregate{
		CampaignID:         campaignID,
		TotalVisits:        totals.Visits,
		TotalBookings:      totals.Bookings,
		TotalLogins:        totals.Logins,
		TotalVerifications: totals.Verifications,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "campaign_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_visits", "total_bookings", "total_logins", "total_verifications", "updated_at",
		}),
	}).Create(&agg).Error
	if err != nil {
		return fmt.Errorf("%w: set totals: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}
