package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"tripmitra/internal/config"
	"tripmitra/internal/repository"
	"tripmitra/internal/seed"
	"tripmitra/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema and indexes, don't seed preferences")
	clearData := flag.Bool("clear-data", false, "Delete the sample users and exit")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *clearData {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--clear-data) in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *clearData {
		log.Printf("🧹 Clearing sample users (environment: %s, store: %s)", cfg.Environment, cfg.StoreDriver)
	} else if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, store: %s)", cfg.Environment, cfg.StoreDriver)
	} else {
		log.Printf("🌱 Seeding preferences (environment: %s, store: %s)", cfg.Environment, cfg.StoreDriver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Opening the store ensures the schema (postgres) or indexes (mongo)
	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open preference store: %v", err)
	}
	defer store.Close(context.Background())
	log.Println("✅ Store ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	samples, err := seed.LoadSamples()
	if err != nil {
		log.Fatalf("Failed to load samples: %v", err)
	}

	prefsService := service.NewPreferenceService(store.Preferences, logger)
	seeder := seed.NewSeeder(prefsService, logger)

	if *clearData {
		removed, err := seeder.Clear(ctx, samples)
		if err != nil {
			log.Printf("❌ Some users could not be cleared: %v", err)
		}
		log.Printf("✅ Removed %d/%d sample users", removed, len(samples))
		return
	}

	log.Println("📝 Seeding sample preferences...")
	written, err := seeder.Seed(ctx, samples)
	if err != nil {
		log.Printf("❌ Some samples failed: %v", err)
	}
	for _, s := range samples {
		log.Printf("   %s", s.UserID)
	}
	log.Printf("🎉 Seeding complete! (%d/%d written, rest unchanged)", written, len(samples))
}
