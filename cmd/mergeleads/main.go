// mergeleads collapses duplicate lead rows for a campaign and optionally
// rebuilds its aggregate totals. It runs the exact same merge engine as the
// live API, so offline repair and live traffic can never disagree on policy.
//
// Usage:
//
//	mergeleads -campaign camp1 [-dry-run] [-resync]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/funnelpulse/lead-engine-api/internal/application/usecases"
	"github.com/funnelpulse/lead-engine-api/internal/domain/repositories"
	"github.com/funnelpulse/lead-engine-api/internal/infrastructure/database"
	"github.com/funnelpulse/lead-engine-api/internal/infrastructure/lock"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	campaignID := flag.String("campaign", "", "campaign id to merge (required)")
	dryRun := flag.Bool("dry-run", false, "report duplicates without writing")
	resync := flag.Bool("resync", false, "rebuild aggregate totals after merging")
	flag.Parse()

	if *campaignID == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, using system environment variables")
	}

	db, err := database.SetupDatabase()
	if err != nil {
		log.Fatalf("❌ Error setting up database: %v", err)
	}

	var locker lock.CampaignLocker = lock.NewMemoryLocker()
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("❌ Invalid REDIS_URL: %v", err)
		}
		locker = lock.NewRedisLocker(redis.NewClient(opts), 5*time.Minute)
	}

	leadRepo := repositories.NewLeadRepository(db)
	aggregateRepo := repositories.NewAggregateRepository(db)
	mergeUseCase := usecases.NewMergeUseCase(leadRepo, aggregateRepo, locker)

	ctx := context.Background()

	report, err := mergeUseCase.MergeCampaign(ctx, *campaignID, *dryRun)
	if err != nil {
		log.Fatalf("❌ Merge failed: %v", err)
	}

	out, _ := json.MarshalIndent(report, "", "  ")
	log.Printf("Merge report:\n%s", out)

	if *resync && !*dryRun {
		agg, err := mergeUseCase.ResyncCampaign(ctx, *campaignID)
		if err != nil {
			log.Fatalf("❌ Resync failed: %v", err)
		}
		out, _ := json.MarshalIndent(agg, "", "  ")
		log.Printf("Aggregates after resync:\n%s", out)
	}
}
