package config

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the postgres connection from environment variables.
// TranslateError turns driver duplicate-key errors into
// gorm.ErrDuplicatedKey so the service layer can map them to conflicts.
func InitDB() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_NAME", "property_management"),
			getEnv("DB_PORT", "5432"),
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	log.Println("Database connection established")
	return db
}

// ServerAddr returns the listen address, defaulting to :8080.
func ServerAddr() string {
	return ":" + getEnv("PORT", "8080")
}

// AllowedOrigin returns the CORS origin for the frontend.
func AllowedOrigin() string {
	return getEnv("FRONTEND_ORIGIN", "http://localhost:3000")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
