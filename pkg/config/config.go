package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Agent     AgentConfig
	Server    ServerConfig
	OCR       OCRConfig
	Cache     CacheConfig
	BanksFile string
	LogLevel  string
}

// AgentConfig holds the Teneo agent settings
type AgentConfig struct {
	Name               string
	Description        string
	PrivateKey         string
	NFTTokenID         string
	OwnerAddress       string
	RateLimitPerMinute int
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// OCRConfig holds the OCR sidecar settings. An empty Endpoint disables OCR.
type OCRConfig struct {
	Endpoint     string
	Language     string
	Timeout      time.Duration
	MaxFailures  int
	ResetTimeout time.Duration
}

// CacheConfig holds report cache settings. A zero TTL disables caching.
type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int
}

// Enabled reports whether reports should be cached
func (c CacheConfig) Enabled() bool {
	return c.TTL > 0
}

// Load reads .env (if present) and then the environment
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("[config] no .env file found, using OS environment")
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only
func FromEnv() (Config, error) {
	config := Config{
		Agent: AgentConfig{
			Name:               getEnv("AGENT_NAME", "TokenLens Analyst"),
			Description:        getEnv("AGENT_DESCRIPTION", "TokenLens annotates token promotion text with educational hype, stage and risk cues. Not financial advice."),
			PrivateKey:         os.Getenv("PRIVATE_KEY"),
			NFTTokenID:         os.Getenv("NFT_TOKEN_ID"),
			OwnerAddress:       os.Getenv("OWNER_ADDRESS"),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 0),
		},
		Server: ServerConfig{
			Port:            getEnvAsInt("HEALTH_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("CORS_ORIGINS", []string{"*"}),
		},
		OCR: OCRConfig{
			Endpoint:     os.Getenv("OCR_ENDPOINT"),
			Language:     getEnv("OCR_LANGUAGE", "eng"),
			Timeout:      getEnvAsDuration("OCR_TIMEOUT", 20*time.Second),
			MaxFailures:  getEnvAsInt("OCR_MAX_FAILURES", 3),
			ResetTimeout: getEnvAsDuration("OCR_RESET_TIMEOUT", 30*time.Second),
		},
		Cache: CacheConfig{
			TTL:        getEnvAsDuration("REPORT_CACHE_TTL", 0),
			MaxEntries: getEnvAsInt("REPORT_CACHE_SIZE", 512),
		},
		BanksFile: os.Getenv("KEYWORD_BANKS_FILE"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("HEALTH_PORT %d is out of range", config.Server.Port)
	}

	if config.OCR.Endpoint != "" {
		u, err := url.Parse(config.OCR.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("OCR_ENDPOINT %q is not an absolute URL", config.OCR.Endpoint)
		}
	}

	if config.Cache.Enabled() && config.Cache.MaxEntries <= 0 {
		return fmt.Errorf("REPORT_CACHE_SIZE must be positive when REPORT_CACHE_TTL is set")
	}

	return nil
}

// Helper functions

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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
