package usecases

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/funnelpulse/lead-engine-api/internal/common"
	"github.com/funnelpulse/lead-engine-api/internal/domain/entities"
	"github.com/google/uuid"
)

// In-memory repository fakes. They guard state with a mutex so the
// concurrency tests exercise the same winner/loser claim behavior the
// database's unique index provides in production.

type fakeLeadRepo struct {
	mu          sync.Mutex
	leads       map[uuid.UUID]entities.Lead
	failReplace map[string]error // keyed by the group's IP
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{
		leads:       make(map[uuid.UUID]entities.Lead),
		failReplace: make(map[string]error),
	}
}

func (f *fakeLeadRepo) findWhere(match func(*entities.Lead) bool) *entities.Lead {
	var best *entities.Lead
	for id := range f.leads {
		lead := f.leads[id]
		if !match(&lead) {
			continue
		}
		if best == nil ||
			lead.CreatedAt.Before(best.CreatedAt) ||
			(lead.CreatedAt.Equal(best.CreatedAt) && lead.ID.String() < best.ID.String()) {
			copied := lead
			best = &copied
		}
	}
	return best
}

func (f *fakeLeadRepo) FindByIP(_ context.Context, campaignID, ip string) (*entities.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findWhere(func(l *entities.Lead) bool {
		return l.CampaignID == campaignID && l.IPAddress == ip
	}), nil
}

func (f *fakeLeadRepo) FindByEmail(_ context.Context, campaignID, email string) (*entities.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findWhere(func(l *entities.Lead) bool {
		return l.CampaignID == campaignID && l.Email == email
	}), nil
}

func (f *fakeLeadRepo) Insert(_ context.Context, lead *entities.Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leads[lead.ID] = *lead
	return nil
}

func (f *fakeLeadRepo) Update(_ context.Context, lead *entities.Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.leads[lead.ID]; !ok {
		return common.ErrLeadNotFound
	}
	f.leads[lead.ID] = *lead
	return nil
}

func (f *fakeLeadRepo) ListByCampaign(_ context.Context, campaignID string) ([]entities.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []entities.Lead
	for _, lead := range f.leads {
		if lead.CampaignID == campaignID {
			out = append(out, lead)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (f *fakeLeadRepo) ListPage(ctx context.Context, campaignID string, page, limit int, orderBy string) ([]entities.Lead, int64, error) {
	leads, err := f.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, 0, err
	}
	return leads, int64(len(leads)), nil
}

func (f *fakeLeadRepo) ReplaceGroup(_ context.Context, primary *entities.Lead, loserIDs []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failReplace[primary.IPAddress]; err != nil {
		return err
	}

	f.leads[primary.ID] = *primary
	for _, id := range loserIDs {
		delete(f.leads, id)
	}
	return nil
}

func (f *fakeLeadRepo) DistinctIPTotals(_ context.Context, campaignID string) (entities.ActionTotals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := map[string]map[string]bool{
		"visit": {}, "booking": {}, "login": {}, "verification": {},
	}
	for _, lead := range f.leads {
		if lead.CampaignID != campaignID || lead.IPAddress == "" {
			continue
		}
		if lead.VisitCount > 0 {
			seen["visit"][lead.IPAddress] = true
		}
		if lead.BookingCount > 0 {
			seen["booking"][lead.IPAddress] = true
		}
		if lead.LoginCount > 0 {
			seen["login"][lead.IPAddress] = true
		}
		if lead.VerificationCount > 0 {
			seen["verification"][lead.IPAddress] = true
		}
	}
	return entities.ActionTotals{
		Visits:        int64(len(seen["visit"])),
		Bookings:      int64(len(seen["booking"])),
		Logins:        int64(len(seen["login"])),
		Verifications: int64(len(seen["verification"])),
	}, nil
}

func (f *fakeLeadRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.leads)
}

type fakeAggregateRepo struct {
	mu             sync.Mutex
	rows           map[string]entities.CampaignAggregate
	failIncrements int
	recoverCalls   int
}

func newFakeAggregateRepo() *fakeAggregateRepo {
	return &fakeAggregateRepo{rows: make(map[string]entities.CampaignAggregate)}
}

func (f *fakeAggregateRepo) Get(_ context.Context, campaignID string) (*entities.CampaignAggregate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.rows[campaignID]
	if !ok {
		return &entities.CampaignAggregate{CampaignID: campaignID}, nil
	}
	return &row, nil
}

func (f *fakeAggregateRepo) bump(campaignID string, kind entities.ActionKind) {
	row := f.rows[campaignID]
	row.CampaignID = campaignID
	switch kind {
	case entities.ActionVisit:
		row.TotalVisits++
	case entities.ActionBooking:
		row.TotalBookings++
	case entities.ActionLogin:
		row.TotalLogins++
	case entities.ActionVerification:
		row.TotalVerifications++
	}
	f.rows[campaignID] = row
}

func (f *fakeAggregateRepo) Increment(_ context.Context, campaignID string, kind entities.ActionKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failIncrements > 0 {
		f.failIncrements--
		return fmt.Errorf("%w: injected increment failure", common.ErrStoreUnavailable)
	}
	f.bump(campaignID, kind)
	return nil
}

func (f *fakeAggregateRepo) RecoverIncrement(_ context.Context, campaignID string, kind entities.ActionKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.recoverCalls++
	f.bump(campaignID, kind)
	return nil
}

func (f *fakeAggregateRepo) SetTotals(_ context.Context, campaignID string, totals entities.ActionTotals) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.rows[campaignID] = entities.CampaignAggregate{
		CampaignID:         campaignID,
		TotalVisits:        totals.Visits,
		TotalBookings:      totals.Bookings,
		TotalLogins:        totals.Logins,
		TotalVerifications: totals.Verifications,
	}
	return nil
}

type fakeClaimRepo struct {
	mu     sync.Mutex
	claims map[string]bool
}

func newFakeClaimRepo() *fakeClaimRepo {
	return &fakeClaimRepo{claims: make(map[string]bool)}
}

func (f *fakeClaimRepo) Claim(_ context.Context, campaignID, ip, action string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := campaignID + "|" + ip + "|" + action
	if f.claims[key] {
		return false, nil
	}
	f.claims[key] = true
	return true, nil
}
