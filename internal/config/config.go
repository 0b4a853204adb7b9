package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	BotToken    string
	BotPassword string

	WordsSheetURL   string
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
	RoundSize       int

	StorageDriver string
	SQLitePath    string
	Database      DatabaseConfig

	Speech SpeechConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// SpeechConfig holds text-to-speech settings
type SpeechConfig struct {
	ESpeakBinary string
	OpenAIKey    string
	OpenAIModel  string
	OpenAIVoice  string
	AudioDir     string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	refresh, err := getDuration("WORDS_REFRESH_INTERVAL", 6*time.Hour)
	if err != nil {
		return nil, err
	}
	timeout, err := getDuration("WORDS_FETCH_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	roundSize, err := getInt("PRACTICE_ROUND_SIZE", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BotToken:        os.Getenv("BOT_TOKEN"),
		BotPassword:     os.Getenv("BOT_PASSWORD"),
		WordsSheetURL:   os.Getenv("WORDS_SHEET_URL"),
		RefreshInterval: refresh,
		FetchTimeout:    timeout,
		RoundSize:       roundSize,
		StorageDriver:   getEnv("STORAGE_DRIVER", DriverPostgres),
		SQLitePath:      getEnv("SQLITE_PATH", "dictee.db"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "dictee"),
			User:     getEnv("DB_USER", "dictee"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		Speech: SpeechConfig{
			ESpeakBinary: getEnv("ESPEAK_BINARY", "espeak-ng"),
			OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:  getEnv("OPENAI_TTS_MODEL", "tts-1"),
			OpenAIVoice:  getEnv("OPENAI_TTS_VOICE", "nova"),
			AudioDir:     getEnv("AUDIO_DIR", os.TempDir()),
		},
	}

	// Validate required fields
	if cfg.WordsSheetURL == "" {
		return nil, fmt.Errorf("WORDS_SHEET_URL is required")
	}
	if cfg.RefreshInterval <= 0 {
		return nil, fmt.Errorf("WORDS_REFRESH_INTERVAL must be positive, got %s", cfg.RefreshInterval)
	}
	if cfg.FetchTimeout <= 0 {
		return nil, fmt.Errorf("WORDS_FETCH_TIMEOUT must be positive, got %s", cfg.FetchTimeout)
	}
	if cfg.RoundSize < 1 {
		return nil, fmt.Errorf("PRACTICE_ROUND_SIZE must be positive, got %d", cfg.RoundSize)
	}
	switch cfg.StorageDriver {
	case DriverPostgres:
		if cfg.Database.Password == "" {
			return nil, fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverSQLite, DriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return cfg, nil
}

// RequireBot checks the settings needed to run the Telegram bot
func (c *Config) RequireBot() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.BotPassword == "" {
		return fmt.Errorf("BOT_PASSWORD is required")
	}
	return nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
