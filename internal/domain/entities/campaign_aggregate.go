package entities

import "time"

// CampaignAggregate holds per-campaign distinct-IP action totals. Each total
// counts IPs that performed the action at least once, not raw events; repeat
// submissions from the same IP leave the totals untouched.
type CampaignAggregate struct {
	CampaignID         string    `json:"campaign_id" gorm:"primaryKey;column:campaign_id"`
	TotalVisits        int64     `json:"total_visits" gorm:"column:total_visits;default:0"`
	TotalBookings      int64     `json:"total_bookings" gorm:"column:total_bookings;default:0"`
	TotalLogins        int64     `json:"total_logins" gorm:"column:total_logins;default:0"`
	TotalVerifications int64     `json:"total_verifications" gorm:"column:total_verifications;default:0"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (CampaignAggregate) TableName() string {
	return "campaign_aggregates"
}

// Totals returns the aggregate as an ActionTotals value.
func (a *CampaignAggregate) Totals() ActionTotals {
	return ActionTotals{
		Visits:        a.TotalVisits,
		Bookings:      a.TotalBookings,
		Logins:        a.TotalLogins,
		Verifications: a.TotalVerifications,
	}
}

// ActionTotals is a plain totals tuple, used by the resync recomputation.
type ActionTotals struct {
	Visits        int64 `json:"visits"`
	Bookings      int64 `json:"bookings"`
	Logins        int64 `json:"logins"`
	Verifications int64 `json:"verifications"`
}

// TotalColumn maps an action kind to its aggregate column name.
func TotalColumn(kind ActionKind) string {
	switch kind {
	case ActionVisit:
		return "total_visits"
	case ActionBooking:
		return "total_bookings"
	case ActionLogin:
		return "total_logins"
	case ActionVerification:
		return "total_verifications"
	}
	return ""
}
