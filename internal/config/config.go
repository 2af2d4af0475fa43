package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// Logging
	LogDir      string // Empty disables the log file
	LogMaxFiles int
	// Preference store
	StoreDriver    string // "mongo", "postgres" or "memory"
	MongoURL       string
	DatabaseName   string
	CollectionName string
	DatabaseURL    string // Postgres DSN when StoreDriver is "postgres"
	TablePrefix    string
	// Agent runtime
	AgentProvider   string // "gemini", "openai", "anthropic" or "lorem"
	AgentModel      string // Empty uses the agent definition's model
	GoogleAPIKey    string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	AnthropicAPIKey string
	AgentTimeout    time.Duration
	SessionTTL      time.Duration
	SessionMaxTurns int // User turns kept per session; 0 keeps all
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", 10),
		// Preference store
		StoreDriver:    getEnv("STORE_DRIVER", "mongo"),
		MongoURL:       getEnv("MONGODB_URL", "mongodb://localhost:27017"),
		DatabaseName:   getEnv("DB_NAME", "tripmitra"),
		CollectionName: getEnv("COLLECTION_NAME", "preferences"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		TablePrefix:    getTablePrefix(env),
		// Agent runtime
		AgentProvider:   getEnv("AGENT_PROVIDER", "gemini"),
		AgentModel:      getEnv("AGENT_MODEL", ""),
		GoogleAPIKey:    getEnv("GOOGLE_API_KEY", getEnv("GEMINI_API_KEY", "")),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AgentTimeout:    getEnvDuration("AGENT_TIMEOUT", 60*time.Second),
		SessionTTL:      getEnvDuration("SESSION_TTL", 24*time.Hour),
		SessionMaxTurns: getEnvInt("SESSION_MAX_TURNS", 20),
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

// getEnvDuration parses Go duration strings ("90s", "24h").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
