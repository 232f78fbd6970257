package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sahilchouksey/bursary-hub/config"
	"github.com/sahilchouksey/bursary-hub/database"
	"github.com/sahilchouksey/bursary-hub/utils/logger"
)

func main() {
	// Load environment variables
	if err := config.LoadENV(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	env, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	appLog, err := logger.New(env.GO_ENV)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	// Initialize database connection using GORM
	store, err := database.StartGORM(env, appLog)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Run seeds
	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("Bursary Hub - Database Seeding")
	fmt.Println(separator)
	fmt.Println()

	staffSubject := os.Getenv("STAFF_SUBJECT")
	if staffSubject == "" {
		staffSubject = "staff-seed"
	}
	staffEmail := os.Getenv("STAFF_EMAIL")
	if staffEmail == "" {
		staffEmail = "staff@bursary-hub.local"
	}

	if err := database.NewSeeder(store.DB(), appLog).SeedAll(staffSubject, staffEmail); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	fmt.Println()
	fmt.Println(separator)
	fmt.Println("🎉 Seeding completed successfully!")
	fmt.Println(separator)
	fmt.Println()
	fmt.Printf("Staff user provisioned for token subject %q.\n", staffSubject)
	fmt.Println("Mint a matching token with: go run ./cmd/devtoken -sub", staffSubject, "-role staff")
	fmt.Println()
}
