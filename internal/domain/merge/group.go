package merge

import (
	"sort"
	"time"

	"github.com/funnelpulse/lead-engine-api/internal/domain/entities"
)

// ReduceGroup collapses a group of duplicate leads (same campaign and IP)
// into one canonical record. The earliest-created lead is the primary; its
// identity (id, campaign, created_at) is kept. Scalar fields take the first
// non-empty value in creation order, email prefers the first real address
// (falling back to the most recent lead's email), counters are summed and
// submitted_at timestamps take the latest occurrence.
//
// The input slice is not modified. Panics on an empty group; callers only
// reduce groups they built themselves.
func ReduceGroup(group []entities.Lead) entities.Lead {
	ordered := make([]entities.Lead, len(group))
	copy(ordered, group)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID.String() < ordered[j].ID.String()
	})

	primary := ordered[0]

	primary.Email = pickEmail(ordered)
	primary.FirstName = firstNonEmpty(ordered, func(l *entities.Lead) string { return l.FirstName })
	primary.LastName = firstNonEmpty(ordered, func(l *entities.Lead) string { return l.LastName })
	primary.Phone = firstNonEmpty(ordered, func(l *entities.Lead) string { return l.Phone })
	primary.Description = firstNonEmpty(ordered, func(l *entities.Lead) string { return l.Description })
	primary.UserAgent = firstNonEmpty(ordered, func(l *entities.Lead) string { return l.UserAgent })
	primary.SessionID = firstNonEmpty(ordered, func(l *entities.Lead) string { return l.SessionID })
	primary.SelectedPlan = firstNonEmpty(ordered, func(l *entities.Lead) string { return l.SelectedPlan })
	primary.CardNumber = firstNonEmpty(ordered, func(l *entities.Lead) string { return l.CardNumber })
	primary.CardName = firstNonEmpty(ordered, func(l *entities.Lead) string { return l.CardName })
	primary.CardExpiry = firstNonEmpty(ordered, func(l *entities.Lead) string { return l.CardExpiry })
	primary.CardCVV = firstNonEmpty(ordered, func(l *entities.Lead) string { return l.CardCVV })

	primary.BookingData = nil
	primary.LoginData = nil
	for i := range ordered {
		if primary.BookingData == nil && len(ordered[i].BookingData) > 0 {
			primary.BookingData = ordered[i].BookingData
		}
		if primary.LoginData == nil && len(ordered[i].LoginData) > 0 {
			primary.LoginData = ordered[i].LoginData
		}
	}

	primary.VisitCount = 0
	primary.BookingCount = 0
	primary.LoginCount = 0
	primary.VerificationCount = 0
	primary.BookingSubmittedAt = nil
	primary.LoginSubmittedAt = nil
	primary.VerificationSubmittedAt = nil
	for i := range ordered {
		l := &ordered[i]
		primary.VisitCount += l.VisitCount
		primary.BookingCount += l.BookingCount
		primary.LoginCount += l.LoginCount
		primary.VerificationCount += l.VerificationCount
		primary.BookingSubmittedAt = latest(primary.BookingSubmittedAt, l.BookingSubmittedAt)
		primary.LoginSubmittedAt = latest(primary.LoginSubmittedAt, l.LoginSubmittedAt)
		primary.VerificationSubmittedAt = latest(primary.VerificationSubmittedAt, l.VerificationSubmittedAt)
	}

	return primary
}

// pickEmail returns the first real email in creation order, or the
// most-recently-created lead's email when no real address exists in the
// group.
func pickEmail(ordered []entities.Lead) string {
	for i := range ordered {
		if IsRealEmail(ordered[i].Email) {
			return ordered[i].Email
		}
	}
	return ordered[len(ordered)-1].Email
}

func firstNonEmpty(ordered []entities.Lead, field func(*entities.Lead) string) string {
	for i := range ordered {
		if v := field(&ordered[i]); v != "" {
			return v
		}
	}
	return ""
}

func latest(a, b *time.Time) *time.Time {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if b.After(*a) {
		return b
	}
	return a
}
