package main

import (
	"log"
	"os"

	"go-branchpos-ws/internal/model"
	"go-branchpos-ws/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Emergency password reset for a locked-out account. Defaults to the seeded
// admin; override with RESET_EMAIL / RESET_PASSWORD.
func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	// 2. Setup Database
	db := database.ConnectDB()

	// 3. Find the account
	email := os.Getenv("RESET_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	var user model.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		log.Fatalf("❌ User %s not found in database: %v", email, err)
	}

	// 4. Hash new password
	newPassword := os.Getenv("RESET_PASSWORD")
	if newPassword == "" {
		newPassword = "admin123"
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	// 5. Update password and drop the active session
	updates := map[string]interface{}{
		"password":      string(hashedPassword),
		"token_version": "",
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		log.Fatalf("❌ Failed to update password in DB: %v", err)
	}

	log.Printf("✅ Success! Password for %s has been reset", email)
}
