package usecases

import (
	"context"
	"log"
	"sort"

	"github.com/funnelpulse/lead-engine-api/internal/common"
	"github.com/funnelpulse/lead-engine-api/internal/domain/entities"
	"github.com/funnelpulse/lead-engine-api/internal/domain/merge"
	"github.com/funnelpulse/lead-engine-api/internal/domain/repositories"
	"github.com/funnelpulse/lead-engine-api/internal/infrastructure/lock"
	"github.com/google/uuid"
)

// MergeReport summarizes one merge run over a campaign.
type MergeReport struct {
	CampaignID      string         `json:"campaign_id"`
	DuplicatesFound int            `json:"duplicates_found"`
	GroupsMerged    int            `json:"groups_merged"`
	SkippedGroups   []SkippedGroup `json:"skipped_groups,omitempty"`
}

// SkippedGroup records a duplicate group the run could not merge. The rest of
// the run proceeds; skipped groups are picked up by the next run.
type SkippedGroup struct {
	IPAddress string `json:"ip_address"`
	Reason    string `json:"reason"`
}

type MergeUseCase interface {
	// MergeCampaign collapses every duplicate lead group (same IP) in the
	// campaign into its earliest-created record. Idempotent: a second run
	// finds no groups. With dryRun the report is computed but nothing is
	// written.
	MergeCampaign(ctx context.Context, campaignID string, dryRun bool) (*MergeReport, error)
	// ResyncCampaign rebuilds the campaign's aggregate totals from its lead
	// rows (distinct IPs per action kind).
	ResyncCampaign(ctx context.Context, campaignID string) (*entities.CampaignAggregate, error)
}

type mergeUseCase struct {
	leadRepo      repositories.LeadRepository
	aggregateRepo repositories.AggregateRepository
	locker        lock.CampaignLocker
}

func NewMergeUseCase(
	leadRepo repositories.LeadRepository,
	aggregateRepo repositories.AggregateRepository,
	locker lock.CampaignLocker,
) MergeUseCase {
	return &mergeUseCase{
		leadRepo:      leadRepo,
		aggregateRepo: aggregateRepo,
		locker:        locker,
	}
}

func (uc *mergeUseCase) MergeCampaign(ctx context.Context, campaignID string, dryRun bool) (*MergeReport, error) {
	if campaignID == "" {
		return nil, common.ErrMissingCampaign
	}

	release, err := uc.locker.Acquire(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	defer release()

	leads, err := uc.leadRepo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	// Leads without an IP cannot be grouped and are left alone.
	groups := make(map[string][]entities.Lead)
	for _, lead := range leads {
		if lead.IPAddress == "" {
			continue
		}
		groups[lead.IPAddress] = append(groups[lead.IPAddress], lead)
	}

	ips := make([]string, 0, len(groups))
	for ip, group := range groups {
		if len(group) > 1 {
			ips = append(ips, ip)
		}
	}
	sort.Strings(ips)

	report := &MergeReport{CampaignID: campaignID}
	seenPrimaries := make(map[uuid.UUID]bool)

	for _, ip := range ips {
		group := groups[ip]
		report.DuplicatesFound += len(group) - 1

		primary := merge.ReduceGroup(group)

		if seenPrimaries[primary.ID] {
			// A concurrent modification produced two groups claiming the
			// same winner. Skip this one; the next run sees clean state.
			log.Printf("[MERGE] %v for campaign %s ip %s", common.ErrMergeConflict, campaignID, ip)
			report.SkippedGroups = append(report.SkippedGroups, SkippedGroup{
				IPAddress: ip,
				Reason:    common.ErrMergeConflict.Error(),
			})
			continue
		}
		seenPrimaries[primary.ID] = true

		if dryRun {
			report.GroupsMerged++
			continue
		}

		loserIDs := make([]uuid.UUID, 0, len(group)-1)
		for _, lead := range group {
			if lead.ID != primary.ID {
				loserIDs = append(loserIDs, lead.ID)
			}
		}

		if err := uc.leadRepo.ReplaceGroup(ctx, &primary, loserIDs); err != nil {
			log.Printf("[MERGE] group write failed for campaign %s ip %s: %v", campaignID, ip, err)
			report.SkippedGroups = append(report.SkippedGroups, SkippedGroup{
				IPAddress: ip,
				Reason:    err.Error(),
			})
			continue
		}
		report.GroupsMerged++
	}

	log.Printf("[MERGE] campaign %s: %d duplicates in %d groups, %d merged, %d skipped",
		campaignID, report.DuplicatesFound, len(ips), report.GroupsMerged, len(report.SkippedGroups))

	return report, nil
}

func (uc *mergeUseCase) ResyncCampaign(ctx context.Context, campaignID string) (*entities.CampaignAggregate, error) {
	if campaignID == "" {
		return nil, common.ErrMissingCampaign
	}

	totals, err := uc.leadRepo.DistinctIPTotals(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	if err := uc.aggregateRepo.SetTotals(ctx, campaignID, totals); err != nil {
		return nil, err
	}

	return uc.aggregateRepo.Get(ctx, campaignID)
}
