package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Backend selects the persistence implementation
const (
	BackendFirestore = "firestore"
	BackendSQLite    = "sqlite"
	BackendMemory    = "memory"
)

type Config struct {
	// HTTP server
	Port string

	// Persistence
	Backend      string
	SQLiteDBPath string

	// Google / Firebase
	FirebaseProjectID     string
	GoogleCredentialsFile string
}

// Load reads configuration from the environment, after loading an optional
// .env file. Missing values fall back to dev-friendly defaults.
func Load() *Config {
	// Ignore a missing .env; plain environment variables still apply.
	_ = godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", "8080"),
		Backend:      getEnv("DATA_BACKEND", BackendMemory),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/gestor.db"),

		FirebaseProjectID:     getEnv("FIREBASE_PROJECT_ID", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q: must be a number", c.Port)
	} else if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}

	switch c.Backend {
	case BackendFirestore:
		if c.FirebaseProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for the %s backend", BackendFirestore)
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLITE_DB_PATH cannot be empty for the %s backend", BackendSQLite)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("invalid data backend %q: must be one of %s, %s, %s",
			c.Backend, BackendFirestore, BackendSQLite, BackendMemory)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
