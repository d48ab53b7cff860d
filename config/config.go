package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Browser
	StartURL       string
	RemoteDebugURL string
	ChromeBin      string
	Headless       bool

	// Traversal
	MaxPages       int
	StartPage      int
	PageDelayMs    int
	ReadyTimeoutMs int
	ReadyPollMs    int
	MaxRetries     int
	SnapshotEvery  int

	// Output
	OutputDir string
	Debug     bool

	// Optional PostgreSQL sink
	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		StartURL:       getEnv("START_URL", ""),
		RemoteDebugURL: getEnv("REMOTE_DEBUG_URL", ""),
		ChromeBin:      getEnv("CHROME_BIN", ""),
		Headless:       getEnvBool("HEADLESS", true),

		MaxPages:       getEnvInt("MAX_PAGES", 50),
		StartPage:      getEnvInt("START_PAGE", 1),
		PageDelayMs:    getEnvInt("PAGE_DELAY_MS", 8000),
		ReadyTimeoutMs: getEnvInt("READY_TIMEOUT_MS", 15000),
		ReadyPollMs:    getEnvInt("READY_POLL_MS", 500),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		SnapshotEvery:  getEnvInt("SNAPSHOT_EVERY_PAGES", 5),

		OutputDir: getEnv("OUTPUT_DIR", "./extracted"),
		Debug:     getEnvBool("DEBUG", false),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "extractor"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "extractor123"),
		PostgresDB:       getEnv("POSTGRES_DB", "property_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
