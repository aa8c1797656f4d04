package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/funnelpulse/lead-engine-api/internal/common"
	"github.com/funnelpulse/lead-engine-api/internal/domain/entities"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeadRepository interface {
	// FindByIP returns the lead for (campaign, ip), or nil when none exists.
	// When transient duplicates share the IP the earliest-created row wins,
	// ties broken by id, so every caller sees the same record.
	FindByIP(ctx context.Context, campaignID, ip string) (*entities.Lead, error)
	FindByEmail(ctx context.Context, campaignID, email string) (*entities.Lead, error)
	Insert(ctx context.Context, lead *entities.Lead) error
	Update(ctx context.Context, lead *entities.Lead) error
	ListByCampaign(ctx context.Context, campaignID string) ([]entities.Lead, error)
	ListPage(ctx context.Context, campaignID string, page, limit int, orderBy string) ([]entities.Lead, int64, error)
	// ReplaceGroup writes a merged primary record and deletes the losers in
	// one transaction, so a failed run never leaves summed counters next to
	// the rows they were summed from.
	ReplaceGroup(ctx context.Context, primary *entities.Lead, loserIDs []uuid.UUID) error
	// DistinctIPTotals recomputes per-action distinct-IP counts from the
	// lead rows, used by the aggregate resync.
	DistinctIPTotals(ctx context.Context, campaignID string) (entities.ActionTotals, error)
}

type leadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db}
}

func (r *leadRepository) FindByIP(ctx context.Context, campaignID, ip string) (*entities.Lead, error) {
	var lead entities.Lead
	err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND ip_address = ?", campaignID, ip).
		Order("created_at ASC, lead_id ASC").
		First(&lead).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find lead by ip: %v", common.ErrStoreUnavailable, err)
	}
	return &lead, nil
}

func (r *leadRepository) FindByEmail(ctx context.Context, campaignID, email string) (*entities.Lead, error) {
	var lead entities.Lead
	err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND email = ?", campaignID, email).
		Order("created_at ASC, lead_id ASC").
		First(&lead).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find lead by email: %v", common.ErrStoreUnavailable, err)
	}
	return &lead, nil
}

func (r *leadRepository) Insert(ctx context.Context, lead *entities.Lead) error {
	if err := r.db.WithContext(ctx).Create(lead).Error; err != nil {
		return fmt.Errorf("%w: insert lead: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *leadRepository) Update(ctx context.Context, lead *entities.Lead) error {
	if err := r.db.WithContext(ctx).Save(lead).Error; err != nil {
		return fmt.Errorf("%w: update lead: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *leadRepository) ListByCampaign(ctx context.Context, campaignID string) ([]entities.Lead, error) {
	var leads []entities.Lead
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at ASC, lead_id ASC").
		Find(&leads).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list leads: %v", common.ErrStoreUnavailable, err)
	}
	return leads, nil
}

func (r *leadRepository) ListPage(ctx context.Context, campaignID string, page, limit int, orderBy string) ([]entities.Lead, int64, error) {
	var leads []entities.Lead
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.Lead{}).Where("campaign_id = ?", campaignID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: count leads: %v", common.ErrStoreUnavailable, err)
	}

	offset := (page - 1) * limit
	result := query.Order(orderBy).Offset(offset).Limit(limit).Find(&leads)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("%w: list leads page: %v", common.ErrStoreUnavailable, result.Error)
	}

	return leads, total, nil
}

func (r *leadRepository) ReplaceGroup(ctx context.Context, primary *entities.Lead, loserIDs []uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(primary).Error; err != nil {
			return err
		}
		if len(loserIDs) == 0 {
			return nil
		}
		return tx.Where("lead_id IN ?", loserIDs).Delete(&entities.Lead{}).Error
	})
	if err != nil {
		return fmt.Errorf("%w: replace lead group: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *leadRepository) DistinctIPTotals(ctx context.Context, campaignID string) (entities.ActionTotals, error) {
	var totals entities.ActionTotals
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(DISTINCT CASE WHEN visit_count > 0 THEN ip_address END) AS visits,
			COUNT(DISTINCT CASE WHEN booking_count > 0 THEN ip_address END) AS bookings,
			COUNT(DISTINCT CASE WHEN login_count > 0 THEN ip_address END) AS logins,
			COUNT(DISTINCT CASE WHEN verification_count > 0 THEN ip_address END) AS verifications
		FROM leads
		WHERE campaign_id = ? AND ip_address <> ''`, campaignID).
		Scan(&totals).Error
	if err != nil {
		return entities.ActionTotals{}, fmt.Errorf("%w: distinct ip totals: %v", common.ErrStoreUnavailable, err)
	}
	return totals, nil
}
