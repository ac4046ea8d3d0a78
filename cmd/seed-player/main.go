package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/tiltmaze/backend/internal/config"
	"github.com/tiltmaze/backend/internal/database"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Seed demo player account
	phone := os.Getenv("SEED_PHONE")
	if phone == "" {
		phone = "256700000000" // Default phone
		log.Printf("Using default seed phone: %s", phone)
	}

	pin := os.Getenv("SEED_PIN")
	if pin == "" {
		pin = "0000" // Default PIN
		log.Printf("WARNING: Using default PIN. Set SEED_PIN env var for a real account!")
	}

	displayName := os.Getenv("SEED_DISPLAY_NAME")
	if displayName == "" {
		displayName = "Demo Player"
	}

	pinHash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash PIN: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO players (phone_number, display_name, pin_hash, created_at, is_active)
		VALUES ($1, $2, $3, NOW(), true)
		ON CONFLICT (phone_number)
		DO UPDATE SET display_name = EXCLUDED.display_name, pin_hash = EXCLUDED.pin_hash, is_active = true
	`, phone, displayName, string(pinHash))
	if err != nil {
		log.Fatalf("Failed to seed player: %v", err)
	}

	log.Printf("✓ Player account created/updated successfully")
	log.Printf("  Phone: %s", phone)
	log.Printf("  Display Name: %s", displayName)
	log.Println("\nYou can now login at /api/v1/auth/login with:")
	log.Printf("  Phone: %s", phone)
	log.Printf("  PIN: %s", pin)
}
