package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string

	// Database
	DatabaseURL string
	RedisURL    string
	MongoDBURL  string
	MongoDBName string

	// JWT
	JWTSecret string

	// OpenAI
	OpenAIAPIKey   string
	LLMModel       string
	LLMMaxTokens   int
	LLMTemperature float64
	LLMTimeoutSec  int

	// Embeddings
	EmbeddingBackend  string // openai, local, disabled
	EmbeddingModel    string
	LocalEmbeddingURL string

	// OAuth - Google (Gmail ingestion)
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	GoogleRefreshToken string

	// Classification
	CacheTTL            time.Duration
	RegexMinMatches     int
	SimilarityThreshold float64
	LeadershipAddresses []string
	LeadershipDomains   []string
	ClientDomains       []string
	InternalDomains     []string

	// Sweep scheduler
	SweepInterval    time.Duration
	SweepConcurrency int
	SweepBatchSize   int
	SchedulerEnabled bool

	// Analytics
	LLMCostPerCall float64

	// CORS
	AllowedOrigins []string
}

func Load() (*Config, error) {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		MongoDBURL:  getEnv("MONGODB_URL", ""),
		MongoDBName: getEnv("MONGODB_DATABASE", "mailflow"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", ""),

		// OpenAI
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMMaxTokens:   getEnvInt("LLM_MAX_TOKENS", 1024),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.2),
		LLMTimeoutSec:  getEnvInt("LLM_TIMEOUT_SEC", 60),

		// Embeddings
		EmbeddingBackend:  getEnv("EMBEDDING_BACKEND", "openai"),
		EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-ada-002"),
		LocalEmbeddingURL: getEnv("LOCAL_EMBEDDING_URL", "http://localhost:11434/api/embeddings"),

		// OAuth - Google
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		GoogleRefreshToken: getEnv("GOOGLE_REFRESH_TOKEN", ""),

		// Classification
		CacheTTL:            time.Duration(getEnvInt("CLASSIFY_CACHE_TTL_HOUR", 72)) * time.Hour,
		RegexMinMatches:     getEnvInt("REGEX_MIN_MATCHES", 2),
		SimilarityThreshold: getEnvFloat("SIMILARITY_THRESHOLD", 0.5),
		LeadershipAddresses: getEnvSlice("LEADERSHIP_ADDRESSES", nil),
		LeadershipDomains:   getEnvSlice("LEADERSHIP_DOMAINS", nil),
		ClientDomains:       getEnvSlice("CLIENT_DOMAINS", nil),
		InternalDomains:     getEnvSlice("INTERNAL_DOMAINS", nil),

		// Sweep
		SweepInterval:    time.Duration(getEnvInt("SWEEP_INTERVAL_SEC", 300)) * time.Second,
		SweepConcurrency: getEnvInt("SWEEP_CONCURRENCY", 8),
		SweepBatchSize:   getEnvInt("SWEEP_BATCH_SIZE", 50),
		SchedulerEnabled: getEnvBool("SCHEDULER_ENABLED", true),

		// Analytics
		LLMCostPerCall: getEnvFloat("LLM_COST_PER_CALL", 0.002),

		// CORS
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
