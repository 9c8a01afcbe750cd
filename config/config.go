package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func LoadEnv() error {
	// Try to load .env file if it exists (for local development).
	// In deployed environments the variables are set directly.
	err := godotenv.Load()
	if err != nil {
		// .env file not found is not an error
		return nil
	}
	return nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	// Critical variables - application cannot function without these
	if os.Getenv("JWT_SECRET") == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if os.Getenv("DATABASE_URL") == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	// Non-critical variables - log warnings but don't fail
	if os.Getenv("FRONTEND_URL") == "" {
		log.Warn().Msg("FRONTEND_URL not set - CORS may not work correctly")
	}
	if os.Getenv("ADMIN_URL") == "" {
		log.Warn().Msg("ADMIN_URL not set")
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
