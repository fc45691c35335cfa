package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DBDSN    string
	LogFile  string
	LogLevel string
	SeedDemo bool

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	AITimeout     time.Duration

	ChatMemoryTTL  time.Duration
	ChatMemorySize int
	RedisAddr      string
	RulesFile      string
	SuggestionsTTL time.Duration
}

func Load() Config {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := Config{
		Port:     env("PORT", "8080"),
		DBDSN:    env("DB_DSN", "comuni_ia.db"), // sqlite file in project root
		LogFile:  env("LOG_FILE", "./comunia.log"),
		LogLevel: env("LOG_LEVEL", "info"),
		SeedDemo: envBool("SEED_DEMO", true),

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   env("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL: env("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		AITimeout:     envDuration("AI_TIMEOUT", 20*time.Second),

		ChatMemoryTTL:  envDuration("CHAT_MEMORY_TTL", 30*time.Minute),
		ChatMemorySize: envInt("CHAT_MEMORY_SIZE", 10000),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RulesFile:      os.Getenv("ASSISTANT_RULES_FILE"),
		SuggestionsTTL: envDuration("SUGGESTIONS_TTL", 10*time.Minute),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s GEMINI_MODEL=%s GEMINI_API_KEY=%s REDIS_ADDR=%s",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.GeminiModel, redact(cfg.GeminiAPIKey), cfg.RedisAddr)
	return cfg
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func redact(secret string) string {
	if secret == "" {
		return "<unset>"
	}
	return "<set>"
}
