package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	LogMode string

	StoreDriver string
	DatabaseURL string
	SslCertPath string
	SqlitePath  string

	LLMProvider string
	AIAPIKey    string
	GenModel    string
	OllamaHost  string
	OllamaModel string
	LLMTimeout  time.Duration

	ExtractHeadChars int
	ExtractTailChars int
	MaxUploadMB      int
	CorsOrigins      []string

	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string

	WatchDir      string
	IngestWorkers int
}

// LoadConfig loads the environment variables and return config
func LoadConfig() *Config {

	_ = godotenv.Load()

	return &Config{
		Port:    getEnv("PORT", "8080"),
		LogMode: getEnv("LOG_MODE", "dev"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", "sqlite")),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		SslCertPath: getEnv("SSL_CERT_PATH", ""),
		SqlitePath:  getEnv("SQLITE_PATH", "lessona.db"),

		LLMProvider: strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
		AIAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GenModel:    getEnv("GEN_MODEL", "gemini-1.5-flash"),
		OllamaHost:  getEnv("OLLAMA_HOST", ""),
		OllamaModel: getEnv("OLLAMA_MODEL", "llama3"),
		LLMTimeout:  getEnvDuration("LLM_TIMEOUT", 90*time.Second),

		ExtractHeadChars: getEnvInt("EXTRACT_HEAD_CHARS", 8000),
		ExtractTailChars: getEnvInt("EXTRACT_TAIL_CHARS", 2000),
		MaxUploadMB:      getEnvInt("MAX_UPLOAD_MB", 20),
		CorsOrigins:      getEnvList("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),

		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", ""),

		WatchDir:      getEnv("WATCH_DIR", ""),
		IngestWorkers: getEnvInt("INGEST_WORKERS", 2),
	}
}

// Validate reports the first setting that cannot work together with the others.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL not set")
		}
	case "sqlite":
		if c.SqlitePath == "" {
			return fmt.Errorf("SQLITE_PATH not set")
		}
	default:
		return fmt.Errorf("STORE_DRIVER %q is not one of postgres, sqlite", c.StoreDriver)
	}

	switch c.LLMProvider {
	case "gemini":
		if c.AIAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY not set")
		}
	case "ollama":
		if c.OllamaModel == "" {
			return fmt.Errorf("OLLAMA_MODEL not set")
		}
	default:
		return fmt.Errorf("LLM_PROVIDER %q is not one of gemini, ollama", c.LLMProvider)
	}

	if c.ExtractHeadChars <= 0 || c.ExtractTailChars < 0 {
		return fmt.Errorf("EXTRACT_HEAD_CHARS must be positive and EXTRACT_TAIL_CHARS non-negative")
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive")
	}
	return nil
}

// ArchiveEnabled reports whether S3 archiving has everything it needs.
func (c *Config) ArchiveEnabled() bool {
	return c.BucketName != "" && c.AwsAccessKey != "" && c.AwsSecretKey != ""
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("WARN: %s=%q not a duration, using default %s", key, v, def)
		return def
	}
	return d
}

func getEnvList(key string, def []string) []string {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
