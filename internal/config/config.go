package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/taskhub/project-management-api/internal/constants"
)

type Config struct {
	Port          string
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	JWTSecret     string
	TokenTTLHours int
	GinMode       string
}

// Load reads configuration from the environment, falling back to a .env
// file when one is present in the working directory.
func Load() *Config {
	// Missing .env is fine; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "taskuser"),
		DBPassword:    getEnv("DB_PASSWORD", "taskpassword"),
		DBName:        getEnv("DB_NAME", "project_management"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenTTLHours: getEnvAsInt("TOKEN_TTL_HOURS", constants.DefaultTokenTTLHours),
		GinMode:       getEnv("GIN_MODE", "debug"),
	}

	validate(cfg)
	return cfg
}

func validate(cfg *Config) {
	if cfg.DBDriver != "mysql" && cfg.DBDriver != "postgres" {
		log.Fatalf("DB_DRIVER must be mysql or postgres, got %q", cfg.DBDriver)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	if cfg.TokenTTLHours <= 0 {
		log.Fatal("TOKEN_TTL_HOURS must be greater than 0")
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("invalid integer value for %s", key)
	}
	return i
}
