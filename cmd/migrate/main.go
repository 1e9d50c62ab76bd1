package main

import (
	"log"
	"os"

	"recruit-assist-be/internal/model"
	"recruit-assist-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	if err := db.AutoMigrate(
		&model.Handoff{},
		&model.RelayMessage{},
	); err != nil {
		log.Fatal("Error: AutoMigrate failed:", err)
	}

	// The relay depends on the primary key sequence for its store-wide
	// ordering guarantee; make sure the index used by cursor polls exists.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_relay_messages_session_id_id ON relay_messages (session_id, id)`).Error; err != nil {
		log.Fatal("Error: Failed to create relay index:", err)
	}

	log.Println("✅ Migration complete")
}
