package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"campus-portal/internal/config"
	"campus-portal/internal/database"
	event_db "campus-portal/internal/events/db"
	"campus-portal/internal/events/markup"
	"campus-portal/internal/logger"
	"campus-portal/internal/models"

	"github.com/joho/godotenv"
)

func main() {
	drop := flag.Bool("drop", false, "drop the portal tables before creating them")
	seedPath := flag.String("seed", "", "event markup file to load; \"sample\" loads the built-in catalog")
	flag.Parse()

	logger := logger.NewLogger()
	defer logger.Close()

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	}

	cfg := config.Load()
	ctx := context.Background()

	bunDB, err := database.Open(cfg.Database)
	if err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to open database: %v", err))
	}
	defer bunDB.Close()

	if err := bunDB.PingContext(ctx); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to connect to database: %v", err))
	}

	if *drop {
		logger.Info("MIGRATE", "Dropping tables...")
		if err := database.DropSchema(ctx, bunDB, cfg.Database.Driver); err != nil {
			logger.Fatal("MIGRATE", fmt.Sprintf("Failed to drop tables: %v", err))
		}
	}

	logger.Info("MIGRATE", "Creating tables...")
	if err := database.EnsureSchema(ctx, bunDB, cfg.Database.Driver); err != nil {
		logger.Fatal("MIGRATE", fmt.Sprintf("Failed to create tables: %v", err))
	}

	if *seedPath != "" {
		records, err := loadSeed(*seedPath, cfg.Portal.Location())
		if err != nil {
			logger.Fatal("SEED", err.Error())
		}
		if err := (&event_db.DB{Bun: bunDB}).ReplaceEvents(ctx, records); err != nil {
			logger.Fatal("SEED", fmt.Sprintf("Failed to store events: %v", err))
		}
		logger.Info("SEED", fmt.Sprintf("Seeded %d events", len(records)))
	}

	logger.Info("MIGRATE", "✅ Done.")
}

func loadSeed(path string, loc *time.Location) ([]models.EventRecord, error) {
	if path == "sample" {
		return sampleEvents(time.Now().In(loc)), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return markup.ParseEvents(f)
}

// sampleEvents spreads the demo catalog over the date buckets relative to today.
func sampleEvents(today time.Time) []models.EventRecord {
	day := func(offset int) string {
		return today.AddDate(0, 0, offset).Format("2006-01-02")
	}
	events := []models.EventRecord{
		{ID: "ai-workshop", Title: "AI Workshop Series", Description: "Hands-on sessions on machine learning fundamentals.", Campus: "North", Category: "Tech", Date: day(2), AttendeeCount: 49, Capacity: 50, HasAttendance: true},
		{ID: "photo-walk", Title: "Photography Walk", Description: "Golden hour shoot around the old quad.", Campus: "South", Category: "Arts", Date: day(0), AttendeeCount: 12, Capacity: 25, HasAttendance: true},
		{ID: "clean-up", Title: "Campus Clean-up Drive", Description: "Volunteer with Environmental Action.", Campus: "East", Category: "Community", Date: day(5), AttendeeCount: 30, Capacity: 60, HasAttendance: true},
		{ID: "art-fair", Title: "Spring Art Fair", Description: "Student exhibitions and live painting.", Campus: "South", Category: "Arts", Date: day(10), AttendeeCount: 80, Capacity: 150, HasAttendance: true},
		{ID: "hackathon", Title: "Innovation Hackathon", Description: "48 hours to build something new.", Campus: "North", Category: "Tech", Date: day(21), AttendeeCount: 95, Capacity: 100, HasAttendance: true},
		{ID: "career-fair", Title: "Career Fair", Description: "Meet recruiters from local companies.", Campus: "Main", Category: "Career", Date: day(45)},
	}
	for i := range events {
		events[i].Position = i
	}
	return events
}
