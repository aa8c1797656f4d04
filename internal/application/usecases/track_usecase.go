package usecases

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/funnelpulse/lead-engine-api/internal/common"
	"github.com/funnelpulse/lead-engine-api/internal/domain/entities"
	"github.com/funnelpulse/lead-engine-api/internal/domain/merge"
	"github.com/funnelpulse/lead-engine-api/internal/domain/repositories"
	"github.com/funnelpulse/lead-engine-api/internal/utils"
	"github.com/google/uuid"
)

// TrackResult is what a tracking call reports back to the funnel.
type TrackResult struct {
	LeadID   uuid.UUID               `json:"lead_id"`
	Counters entities.ActionCounters `json:"counters"`
}

type TrackUseCase interface {
	// Track folds one funnel event into its lead record and, when this is
	// the first time the event's IP performs this action kind in the
	// campaign, bumps the campaign total. The lead write is the one that
	// matters: aggregate failures are logged and recovered, never surfaced.
	Track(ctx context.Context, ev entities.TrackEvent) (*TrackResult, error)
}

type trackUseCase struct {
	leadRepo      repositories.LeadRepository
	aggregateRepo repositories.AggregateRepository
	claimRepo     repositories.ClaimRepository
	resolver      LeadResolver
	retry         utils.RetryPolicy
	now           func() time.Time
}

func NewTrackUseCase(
	leadRepo repositories.LeadRepository,
	aggregateRepo repositories.AggregateRepository,
	claimRepo repositories.ClaimRepository,
	resolver LeadResolver,
	retry utils.RetryPolicy,
) TrackUseCase {
	return &trackUseCase{
		leadRepo:      leadRepo,
		aggregateRepo: aggregateRepo,
		claimRepo:     claimRepo,
		resolver:      resolver,
		retry:         retry,
		now:           time.Now,
	}
}

func (uc *trackUseCase) Track(ctx context.Context, ev entities.TrackEvent) (*TrackResult, error) {
	if ev.CampaignID == "" {
		return nil, common.ErrMissingCampaign
	}
	if ev.IPAddress == "" && ev.Email == "" {
		return nil, common.ErrMissingIdentity
	}

	now := uc.now()

	lead, err := uc.resolver.Resolve(ctx, ev.CampaignID, ev.IPAddress, ev.Email)
	if err != nil {
		return nil, err
	}

	if lead == nil {
		lead, err = uc.createLead(ctx, ev, now)
	} else {
		if err = merge.ApplyEvent(lead, ev, now); err == nil {
			lead.UpdatedAt = now
			err = uc.leadRepo.Update(ctx, lead)
		}
	}
	if err != nil {
		return nil, err
	}

	uc.updateAggregate(ctx, ev)

	return &TrackResult{LeadID: lead.ID, Counters: lead.Counters()}, nil
}

// createLead inserts the first row for a new identity. The lead claim on
// (campaign, ip) decides a single creator when concurrent first-events race;
// losers wait for the winner's row and fold their event into it.
func (uc *trackUseCase) createLead(ctx context.Context, ev entities.TrackEvent, now time.Time) (*entities.Lead, error) {
	if ev.IPAddress != "" {
		won, err := uc.claimRepo.Claim(ctx, ev.CampaignID, ev.IPAddress, entities.ClaimLead)
		if err != nil {
			return nil, err
		}
		if !won {
			existing, err := uc.awaitLead(ctx, ev.CampaignID, ev.IPAddress)
			if err != nil && !errors.Is(err, common.ErrLeadNotFound) {
				return nil, err
			}
			if existing != nil {
				if err := merge.ApplyEvent(existing, ev, now); err != nil {
					return nil, err
				}
				existing.UpdatedAt = now
				if err := uc.leadRepo.Update(ctx, existing); err != nil {
					return nil, err
				}
				return existing, nil
			}
			// The claim winner never landed its row. Create our own rather
			// than drop the event; the campaign merge collapses leftovers.
			log.Printf("[TRACKING] claimed lead row missing for %s/%s, creating a new one", ev.CampaignID, ev.IPAddress)
		}
	}

	lead := &entities.Lead{
		ID:         uuid.New(),
		CampaignID: ev.CampaignID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := merge.ApplyEvent(lead, ev, now); err != nil {
		return nil, err
	}
	if err := uc.leadRepo.Insert(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (uc *trackUseCase) awaitLead(ctx context.Context, campaignID, ip string) (*entities.Lead, error) {
	var found *entities.Lead
	err := uc.retry.Do(func() error {
		lead, err := uc.leadRepo.FindByIP(ctx, campaignID, ip)
		if err != nil {
			return err
		}
		if lead == nil {
			return common.ErrLeadNotFound
		}
		found = lead
		return nil
	})
	return found, err
}

// updateAggregate bumps total_<kind> when this is the first event of the kind
// from this IP in the campaign. Totals count distinct IPs per action, so an
// event without an IP leaves them untouched. Failures here never fail the
// event — a stale count is tolerable, a lost lead is not.
func (uc *trackUseCase) updateAggregate(ctx context.Context, ev entities.TrackEvent) {
	if ev.IPAddress == "" {
		return
	}

	won, err := uc.claimRepo.Claim(ctx, ev.CampaignID, ev.IPAddress, ev.Kind.String())
	if err != nil {
		log.Printf("[TRACKING] first-seen claim failed for %s/%s %s: %v", ev.CampaignID, ev.IPAddress, ev.Kind, err)
		return
	}
	if !won {
		return
	}

	if err := uc.aggregateRepo.Increment(ctx, ev.CampaignID, ev.Kind); err != nil {
		log.Printf("[TRACKING] aggregate increment failed for %s %s, using fallback: %v", ev.CampaignID, ev.Kind, err)
		ferr := uc.retry.Do(func() error {
			return uc.aggregateRepo.RecoverIncrement(ctx, ev.CampaignID, ev.Kind)
		})
		if ferr != nil {
			log.Printf("[TRACKING] aggregate fallback exhausted, %s totals for %s are stale: %v", ev.Kind, ev.CampaignID, ferr)
		}
	}
}
