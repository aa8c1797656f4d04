package migrations

import (
	"github.com/funnelpulse/lead-engine-api/internal/domain/entities"
	"gorm.io/gorm"
)

// Migrate creates or updates the three tables the engine owns. The unique
// index on ip_action_claims (campaign_id, ip_address, action) comes from the
// entity tags and is what makes first-seen claims atomic.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entities.Lead{},
		&entities.CampaignAggregate{},
		&entities.IPActionClaim{},
	)
}
