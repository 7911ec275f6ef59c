package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/config"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/database"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(cfg.DatabaseURL, true)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	log.Println("Running database migrations...")

	// Creates reminders and device_tokens with their indexes. The users and
	// nutrition tables belong to other services and are read-only here.
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully")
	log.Println("  - reminders")
	log.Println("  - device_tokens")
}
