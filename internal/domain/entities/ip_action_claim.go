package entities

import "time"

// Claim actions. ClaimLead gates lead-row creation for a (campaign, ip) pair;
// the four action names gate the matching aggregate increment. The unique
// index makes "first event from this IP" a storage-level decision, so
// concurrent handlers on separate processes agree on a single winner.
const ClaimLead = "lead"

// IPActionClaim is one row of the first-seen ledger. Inserted with
// ON CONFLICT DO NOTHING; whoever gets the row in wins the claim.
type IPActionClaim struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement;column:id"`
	CampaignID string    `gorm:"column:campaign_id;uniqueIndex:idx_claims_campaign_ip_action,priority:1"`
	IPAddress  string    `gorm:"column:ip_address;uniqueIndex:idx_claims_campaign_ip_action,priority:2"`
	Action     string    `gorm:"column:action;uniqueIndex:idx_claims_campaign_ip_action,priority:3"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (IPActionClaim) TableName() string {
	return "ip_action_claims"
}
