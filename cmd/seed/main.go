package main

import (
	"context"
	"log"
	"os"
	"time"

	"pairprep-be/internal/entity"
	"pairprep-be/internal/repository/implementation"
	"pairprep-be/internal/repository/specification"
	"pairprep-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a couple of demo accounts for local development.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	repo := implementation.NewUserRepository(db)

	seedUsers := []struct {
		Email    string
		FullName string
		Password string
	}{
		{Email: "alice@example.com", FullName: "Alice Demo", Password: "password123"},
		{Email: "bob@example.com", FullName: "Bob Demo", Password: "password123"},
	}

	for _, su := range seedUsers {
		existing, err := repo.FindOne(ctx, specification.ByEmail{Email: su.Email})
		if err != nil {
			log.Fatalf("Error: lookup failed for %s: %v", su.Email, err)
		}
		if existing != nil {
			log.Printf("Skip: %s already exists", su.Email)
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("Error: hashing password:", err)
		}
		hashStr := string(hash)

		user := &entity.User{
			Id:           uuid.New(),
			Email:        su.Email,
			FullName:     su.FullName,
			PasswordHash: &hashStr,
			ExternalId:   "user_" + uuid.New().String(),
			Status:       entity.UserStatusActive,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		if err := repo.Create(ctx, user); err != nil {
			log.Fatalf("Error: creating %s: %v", su.Email, err)
		}
		log.Printf("Seeded %s (%s)", su.Email, user.ExternalId)
	}
}
