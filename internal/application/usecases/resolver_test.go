package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/funnelpulse/lead-engine-api/internal/common"
	"github.com/funnelpulse/lead-engine-api/internal/domain/entities"
	"github.com/google/uuid"
)

func TestResolveMissingCampaign(t *testing.T) {
	resolver := NewLeadResolver(newFakeLeadRepo())

	_, err := resolver.Resolve(context.Background(), "", "10.0.0.1", "")
	if !errors.Is(err, common.ErrMissingCampaign) {
		t.Fatalf("err = %v, want ErrMissingCampaign", err)
	}
}

func TestResolveIPTakesPriorityOverEmail(t *testing.T) {
	repo := newFakeLeadRepo()
	ctx := context.Background()

	byIP := entities.Lead{ID: uuid.New(), CampaignID: "camp1", IPAddress: "10.0.0.1", Email: "visitor_s1@temp.local", CreatedAt: time.Now()}
	byEmail := entities.Lead{ID: uuid.New(), CampaignID: "camp1", IPAddress: "10.0.0.2", Email: "alice@gmail.com", CreatedAt: time.Now()}
	repo.Insert(ctx, &byIP)
	repo.Insert(ctx, &byEmail)

	resolver := NewLeadResolver(repo)

	// The email matches one lead, the IP another; IP wins.
	lead, err := resolver.Resolve(ctx, "camp1", "10.0.0.1", "alice@gmail.com")
	if err != nil {
		t.Fatal(err)
	}
	if lead == nil || lead.ID != byIP.ID {
		t.Errorf("resolved %v, want the IP-matched lead", lead)
	}
}

func TestResolveFallsBackToEmail(t *testing.T) {
	repo := newFakeLeadRepo()
	ctx := context.Background()

	existing := entities.Lead{ID: uuid.New(), CampaignID: "camp1", IPAddress: "10.0.0.2", Email: "alice@gmail.com", CreatedAt: time.Now()}
	repo.Insert(ctx, &existing)

	resolver := NewLeadResolver(repo)

	lead, err := resolver.Resolve(ctx, "camp1", "10.0.0.99", "alice@gmail.com")
	if err != nil {
		t.Fatal(err)
	}
	if lead == nil || lead.ID != existing.ID {
		t.Errorf("resolved %v, want the email-matched lead", lead)
	}
}

func TestResolveEmptyIPNeverMatchesEmptyIPRows(t *testing.T) {
	repo := newFakeLeadRepo()
	ctx := context.Background()

	// A lead captured via email only, with no IP recorded.
	anonymous := entities.Lead{ID: uuid.New(), CampaignID: "camp1", IPAddress: "", Email: "bob@gmail.com", CreatedAt: time.Now()}
	repo.Insert(ctx, &anonymous)

	resolver := NewLeadResolver(repo)

	lead, err := resolver.Resolve(ctx, "camp1", "", "carol@gmail.com")
	if err != nil {
		t.Fatal(err)
	}
	if lead != nil {
		t.Errorf("resolved %v, want no match: empty IP is not an identity key", lead)
	}
}

func TestResolveScopedToCampaign(t *testing.T) {
	repo := newFakeLeadRepo()
	ctx := context.Background()

	other := entities.Lead{ID: uuid.New(), CampaignID: "camp2", IPAddress: "10.0.0.1", CreatedAt: time.Now()}
	repo.Insert(ctx, &other)

	resolver := NewLeadResolver(repo)

	lead, err := resolver.Resolve(ctx, "camp1", "10.0.0.1", "")
	if err != nil {
		t.Fatal(err)
	}
	if lead != nil {
		t.Errorf("resolved %v from another campaign", lead)
	}
}

func TestResolveDeterministicAmongDuplicates(t *testing.T) {
	repo := newFakeLeadRepo()
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	first := entities.Lead{ID: uuid.New(), CampaignID: "camp1", IPAddress: "10.0.0.1", CreatedAt: base}
	second := entities.Lead{ID: uuid.New(), CampaignID: "camp1", IPAddress: "10.0.0.1", CreatedAt: base.Add(time.Hour)}
	repo.Insert(ctx, &second)
	repo.Insert(ctx, &first)

	resolver := NewLeadResolver(repo)

	for i := 0; i < 5; i++ {
		lead, err := resolver.Resolve(ctx, "camp1", "10.0.0.1", "")
		if err != nil {
			t.Fatal(err)
		}
		if lead == nil || lead.ID != first.ID {
			t.Fatalf("resolved %v, want the earliest-created duplicate every time", lead)
		}
	}
}
