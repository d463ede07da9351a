package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Gemini  GeminiConfig
	Storage StorageConfig
	SMTP    SMTPConfig
	Worker  WorkerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type GeminiConfig struct {
	APIKey string
	// Model used for all generative calls (ATS scoring, MCQ generation,
	// contact-extraction fallback).
	Model string
	// EmbedModel and EmbedDimensions define the active embedding model.
	// The embedding cache validates every stored vector against
	// EmbedDimensions and discards itself wholesale on mismatch.
	EmbedModel      string
	EmbedDimensions int
	RequestTimeout  time.Duration
}

type StorageConfig struct {
	ResumeFolder   string
	EmbeddingCache string
	ContactCache   string
	ATSCache       string
	HistoryFile    string
	MaxFileSize    int64
}

type SMTPConfig struct {
	Email    string
	Password string
	Server   string
	Port     int
	// Delay between bulk sends, to stay under spam filters.
	SendDelay  time.Duration
	MaxRetries int
}

type WorkerConfig struct {
	// MaxWorkers bounds concurrent per-resume scoring/extraction work
	// and therefore peak concurrent LLM calls.
	MaxWorkers       int
	RetryMaxAttempts int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8000"),
			Env:  getEnv("ENV", "development"),
		},
		Gemini: GeminiConfig{
			APIKey:          getEnv("GEMINI_API_KEY", ""),
			Model:           getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbedModel:      getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
			EmbedDimensions: getEnvAsInt("GEMINI_EMBED_DIMENSIONS", 768),
			RequestTimeout:  getEnvAsDuration("GEMINI_REQUEST_TIMEOUT", "120s"),
		},
		Storage: StorageConfig{
			ResumeFolder:   getEnv("RESUME_FOLDER", "data/resumes"),
			EmbeddingCache: getEnv("EMBEDDING_CACHE", "data/resume_embeddings.json"),
			ContactCache:   getEnv("CONTACT_CACHE", "data/contact_info_cache.json"),
			ATSCache:       getEnv("ATS_CACHE", "data/ats_scores_cache.json"),
			HistoryFile:    getEnv("HISTORY_FILE", "data/history.json"),
			MaxFileSize:    getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		SMTP: SMTPConfig{
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			Server:     getEnv("SMTP_SERVER", "smtp.gmail.com"),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			SendDelay:  getEnvAsDuration("EMAIL_DELAY", "2s"),
			MaxRetries: getEnvAsInt("MAX_EMAIL_RETRIES", 3),
		},
		Worker: WorkerConfig{
			MaxWorkers:       getEnvAsInt("MAX_WORKERS", 6),
			RetryMaxAttempts: getEnvAsInt("RETRY_MAX_ATTEMPTS", 2),
		},
	}
}

// SMTPConfigured reports whether outbound email can be attempted at all.
func (c *Config) SMTPConfigured() bool {
	return c.SMTP.Email != "" && c.SMTP.Password != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
