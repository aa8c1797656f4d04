package migrations

import (
	"gorm.io/gorm"
)

// AddIndexes adds indexes to the database to improve query performance
func AddIndexes(db *gorm.DB) error {
	// Lookup indexes for identity resolution. Deliberately NOT unique on
	// (campaign_id, ip_address): duplicate rows are tolerated between merge
	// runs, and an email-matched update may move a lead onto an IP another
	// row already holds.
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_leads_campaign_ip ON leads (campaign_id, ip_address)").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_leads_campaign_email ON leads (campaign_id, email)").Error; err != nil {
		return err
	}

	// The merge and resync paths scan a whole campaign in creation order.
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_leads_campaign_created_at ON leads (campaign_id, created_at)").Error; err != nil {
		return err
	}

	return nil
}
