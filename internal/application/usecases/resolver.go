package usecases

import (
	"context"

	"github.com/funnelpulse/lead-engine-api/internal/common"
	"github.com/funnelpulse/lead-engine-api/internal/domain/entities"
	"github.com/funnelpulse/lead-engine-api/internal/domain/repositories"
)

// LeadResolver finds the existing lead an incoming event belongs to.
type LeadResolver interface {
	// Resolve looks up by IP first, then by email, returning nil when the
	// event belongs to a brand-new identity. IP wins over email because it
	// identifies the browser session before any email is captured; an empty
	// IP or email is never used as a lookup key.
	Resolve(ctx context.Context, campaignID, ip, email string) (*entities.Lead, error)
}

type leadResolver struct {
	leadRepo repositories.LeadRepository
}

func NewLeadResolver(leadRepo repositories.LeadRepository) LeadResolver {
	return &leadResolver{leadRepo}
}

func (r *leadResolver) Resolve(ctx context.Context, campaignID, ip, email string) (*entities.Lead, error) {
	if campaignID == "" {
		return nil, common.ErrMissingCampaign
	}

	if ip != "" {
		lead, err := r.leadRepo.FindByIP(ctx, campaignID, ip)
		if err != nil {
			return nil, err
		}
		if lead != nil {
			return lead, nil
		}
	}

	if email != "" {
		return r.leadRepo.FindByEmail(ctx, campaignID, email)
	}

	return nil, nil
}
