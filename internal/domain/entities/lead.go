package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Lead is one (campaign, visitor) identity accumulating captured form data
// and per-action counters. At steady state there is at most one Lead per
// (campaign_id, ip_address); transient duplicates are tolerated and collapsed
// later by the campaign merge.
type Lead struct {
	ID          uuid.UUID `json:"lead_id" gorm:"type:uuid;primaryKey;column:lead_id"`
	CampaignID  string    `json:"campaign_id" gorm:"column:campaign_id"`
	Email       string    `json:"email" gorm:"column:email"`
	FirstName   string    `json:"first_name" gorm:"column:first_name"`
	LastName    string    `json:"last_name" gorm:"column:last_name"`
	Phone       string    `json:"phone" gorm:"column:phone"`
	Description string    `json:"description" gorm:"column:description;type:text"`
	IPAddress   string    `json:"ip_address" gorm:"column:ip_address"`
	UserAgent   string    `json:"user_agent" gorm:"column:user_agent;type:text"`
	SessionID   string    `json:"session_id" gorm:"column:session_id"`

	// Set every time the corresponding action occurs. Records the last
	// occurrence, not the first.
	BookingSubmittedAt      *time.Time `json:"booking_submitted_at" gorm:"column:booking_submitted_at"`
	LoginSubmittedAt        *time.Time `json:"login_submitted_at" gorm:"column:login_submitted_at"`
	VerificationSubmittedAt *time.Time `json:"verification_submitted_at" gorm:"column:verification_submitted_at"`

	BookingData  json.RawMessage `json:"booking_data,omitempty" gorm:"column:booking_data;type:jsonb"`
	LoginData    json.RawMessage `json:"login_data,omitempty" gorm:"column:login_data;type:jsonb"`
	SelectedPlan string          `json:"selected_plan" gorm:"column:selected_plan"`
	CardNumber   string          `json:"card_number" gorm:"column:card_number"`
	CardName     string          `json:"card_name" gorm:"column:card_name"`
	CardExpiry   string          `json:"card_expiry" gorm:"column:card_expiry"`
	CardCVV      string          `json:"card_cvv" gorm:"column:card_cvv"`

	VisitCount        int `json:"visit_count" gorm:"column:visit_count;default:0"`
	BookingCount      int `json:"booking_count" gorm:"column:booking_count;default:0"`
	LoginCount        int `json:"login_count" gorm:"column:login_count;default:0"`
	VerificationCount int `json:"verification_count" gorm:"column:verification_count;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Lead) TableName() string {
	return "leads"
}

// Counters returns a snapshot of the per-action counters, as reported back to
// the tracking caller.
func (l *Lead) Counters() ActionCounters {
	return ActionCounters{
		Visit:        l.VisitCount,
		Booking:      l.BookingCount,
		Login:        l.LoginCount,
		Verification: l.VerificationCount,
	}
}

// CounterFor returns the counter value for one action kind.
func (l *Lead) CounterFor(kind ActionKind) int {
	switch kind {
	case ActionVisit:
		return l.VisitCount
	case ActionBooking:
		return l.BookingCount
	case ActionLogin:
		return l.LoginCount
	case ActionVerification:
		return l.VerificationCount
	}
	return 0
}

// ActionCounters is the counter snapshot returned by tracking responses.
type ActionCounters struct {
	Visit        int `json:"visit"`
	Booking      int `json:"booking"`
	Login        int `json:"login"`
	Verification int `json:"verification"`
}
