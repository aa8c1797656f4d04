package repositories

import (
	"context"
	"fmt"

	"github.com/funnelpulse/lead-engine-api/internal/common"
	"github.com/funnelpulse/lead-engine-api/internal/domain/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClaimRepository interface {
	// Claim records that (campaign, ip) performed action, and reports
	// whether this call was the first to do so. The unique index on
	// (campaign_id, ip_address, action) plus ON CONFLICT DO NOTHING makes
	// the answer consistent across concurrent handlers and processes.
	Claim(ctx context.Context, campaignID, ip, action string) (bool, error)
}

type claimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db}
}

func (r *claimRepository) Claim(ctx context.Context, campaignID, ip, action string) (bool, error) {
	claim := entities.IPActionClaim{
		CampaignID: campaignID,
		IPAddress:  ip,
		Action:     action,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&claim)
	if result.Error != nil {
		return false, fmt.Errorf("%w: claim %s for %s/%s: %v", common.ErrStoreUnavailable, action, campaignID, ip, result.Error)
	}
	return result.RowsAffected == 1, nil
}
