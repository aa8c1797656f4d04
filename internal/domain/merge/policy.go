// Package merge holds the field-level merge policy shared by the live
// tracking path and the batch duplicate merger. Everything here is a pure
// function of its inputs so both paths apply identical rules.
package merge

import (
	"fmt"
	"strings"
	"time"

	"github.com/funnelpulse/lead-engine-api/internal/common"
	"github.com/funnelpulse/lead-engine-api/internal/domain/entities"
)

const (
	placeholderMarker = "visitor_"
	placeholderDomain = "@temp.local"
)

// IsPlaceholderEmail reports whether email is one of the synthetic addresses
// assigned to anonymous visitors (visitor_<session>@temp.local).
func IsPlaceholderEmail(email string) bool {
	return strings.Contains(email, placeholderMarker) && strings.HasSuffix(email, placeholderDomain)
}

// IsRealEmail reports whether email looks like an address a visitor actually
// typed: it has an "@" and is not a placeholder.
func IsRealEmail(email string) bool {
	return strings.Contains(email, "@") && !IsPlaceholderEmail(email)
}

// MergeScalar resolves a generic scalar field: incoming wins when non-empty,
// otherwise the existing value is kept. A populated field never regresses to
// empty.
func MergeScalar(existing, incoming string) string {
	if incoming != "" {
		return incoming
	}
	return existing
}

// MergeEmail resolves the email field. A real address is never replaced by a
// placeholder; otherwise the generic scalar rule applies.
func MergeEmail(existing, incoming string) string {
	if IsRealEmail(existing) && IsPlaceholderEmail(incoming) {
		return existing
	}
	return MergeScalar(existing, incoming)
}

// ApplyEvent folds one tracking event into a lead record: scalar fields per
// MergeScalar, email per MergeEmail, the matching submitted_at stamped with
// now (last occurrence wins), the event kind's payload fields overwritten,
// and the kind's counter incremented by one. The lead may be a zero-value
// record for a brand-new identity.
func ApplyEvent(lead *entities.Lead, ev entities.TrackEvent, now time.Time) error {
	lead.Email = MergeEmail(lead.Email, ev.Email)
	lead.FirstName = MergeScalar(lead.FirstName, ev.FirstName)
	lead.LastName = MergeScalar(lead.LastName, ev.LastName)
	lead.Phone = MergeScalar(lead.Phone, ev.Phone)
	lead.Description = MergeScalar(lead.Description, ev.Description)
	lead.UserAgent = MergeScalar(lead.UserAgent, ev.UserAgent)
	lead.SessionID = MergeScalar(lead.SessionID, ev.SessionID)

	// Most recent observed IP is kept current. An absent IP is not an
	// observation and never erases a recorded one.
	if ev.IPAddress != "" {
		lead.IPAddress = ev.IPAddress
	}

	switch ev.Kind {
	case entities.ActionVisit:
		lead.VisitCount++
	case entities.ActionBooking:
		t := now
		lead.BookingSubmittedAt = &t
		if ev.Booking != nil {
			lead.BookingData = ev.Booking.Data
			lead.SelectedPlan = ev.Booking.SelectedPlan
		}
		lead.BookingCount++
	case entities.ActionLogin:
		t := now
		lead.LoginSubmittedAt = &t
		if ev.Login != nil {
			lead.LoginData = ev.Login.Data
		}
		lead.LoginCount++
	case entities.ActionVerification:
		t := now
		lead.VerificationSubmittedAt = &t
		if ev.Verification != nil {
			lead.CardNumber = ev.Verification.CardNumber
			lead.CardName = ev.Verification.CardName
			lead.CardExpiry = ev.Verification.CardExpiry
			lead.CardCVV = ev.Verification.CardCVV
		}
		lead.VerificationCount++
	default:
		return fmt.Errorf("%w: %s", common.ErrUnknownAction, ev.Kind)
	}

	return nil
}
