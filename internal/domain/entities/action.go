package entities

import (
	"encoding/json"
	"fmt"
)

// ActionKind is the closed set of funnel actions the tracker accepts. New
// kinds must be added here and handled in every switch over ActionKind; the
// dispatch sites return ErrUnknownAction-style errors on anything else rather
// than silently ignoring it.
type ActionKind uint8

const (
	ActionVisit ActionKind = iota
	ActionBooking
	ActionLogin
	ActionVerification
)

// Kinds lists every action kind, in counter-column order.
func Kinds() []ActionKind {
	return []ActionKind{ActionVisit, ActionBooking, ActionLogin, ActionVerification}
}

func (k ActionKind) String() string {
	switch k {
	case ActionVisit:
		return "visit"
	case ActionBooking:
		return "booking"
	case ActionLogin:
		return "login"
	case ActionVerification:
		return "verification"
	}
	return fmt.Sprintf("ActionKind(%d)", uint8(k))
}

// ParseActionKind maps the wire name of an action to its kind.
func ParseActionKind(s string) (ActionKind, error) {
	switch s {
	case "visit":
		return ActionVisit, nil
	case "booking":
		return ActionBooking, nil
	case "login":
		return ActionLogin, nil
	case "verification":
		return ActionVerification, nil
	}
	return 0, fmt.Errorf("unknown action kind %q", s)
}

// BookingPayload carries the booking-form capture. Data is stored verbatim as
// the lead's booking_data blob.
type BookingPayload struct {
	Data         json.RawMessage `json:"data"`
	SelectedPlan string          `json:"selected_plan"`
}

// LoginPayload carries the login-form capture, stored verbatim as login_data.
type LoginPayload struct {
	Data json.RawMessage `json:"data"`
}

// VerificationPayload carries the card details captured on the verification
// step.
type VerificationPayload struct {
	CardNumber string `json:"card_number"`
	CardName   string `json:"card_name"`
	CardExpiry string `json:"card_expiry"`
	CardCVV    string `json:"card_cvv"`
}

// TrackEvent is one incoming funnel event. Exactly the payload matching Kind
// may be set; payloads for other kinds are ignored by the merge policy.
type TrackEvent struct {
	Kind       ActionKind
	CampaignID string
	IPAddress  string
	Email      string

	FirstName   string
	LastName    string
	Phone       string
	Description string
	UserAgent   string
	SessionID   string

	Booking      *BookingPayload
	Login        *LoginPayload
	Verification *VerificationPayload
}
