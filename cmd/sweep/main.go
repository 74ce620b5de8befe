package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"token-forge.backend/internal/config"
	"token-forge.backend/internal/infrastructure/repositories"
)

// One-shot purge of expired metadata sessions, for cron use alongside the
// in-process sweeper.
func main() {
	batchSize := flag.Int("batch", 200, "rows deleted per batch")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.Database.URL(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	sessionRepo := repositories.NewSessionRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var total int64
	for {
		purged, err := sessionRepo.PurgeExpired(ctx, time.Now(), *batchSize)
		if err != nil {
			log.Fatalf("failed to purge expired sessions: %v", err)
		}
		total += purged
		if purged < int64(*batchSize) {
			break
		}
	}

	fmt.Printf("purged %d expired sessions\n", total)
}
