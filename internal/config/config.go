package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Verifier VerifierConfig
	Storage  StorageConfig
	Metadata MetadataConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// VerifierConfig bounds on-chain ownership lookups
type VerifierConfig struct {
	Timeout time.Duration
}

// StorageConfig holds logo asset storage configuration
type StorageConfig struct {
	PinEndpoint   string // remote content-addressed pin API; empty disables remote
	PinToken      string
	GatewayURL    string // public gateway prefix for pinned content
	LocalDir      string // fallback directory served under /assets
	PublicBaseURL string // external base URL for locally stored assets
	MaxLogoBytes  int64
}

// MetadataConfig holds metadata service configuration
type MetadataConfig struct {
	SessionTTL     time.Duration
	AdminAddresses []string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "tokenforge"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-this-in-production"),
			Expiry: getEnvAsDuration("JWT_EXPIRY", 24*time.Hour),
		},
		Verifier: VerifierConfig{
			Timeout: getEnvAsDuration("VERIFIER_TIMEOUT", 5*time.Second),
		},
		Storage: StorageConfig{
			PinEndpoint:   getEnv("PIN_ENDPOINT", ""),
			PinToken:      getEnv("PIN_TOKEN", ""),
			GatewayURL:    getEnv("PIN_GATEWAY_URL", "https://ipfs.io/ipfs"),
			LocalDir:      getEnv("ASSET_LOCAL_DIR", "./uploads/logos"),
			PublicBaseURL: getEnv("ASSET_PUBLIC_BASE_URL", "http://localhost:8080"),
			MaxLogoBytes:  getEnvAsInt64("MAX_LOGO_BYTES", 1<<20),
		},
		Metadata: MetadataConfig{
			SessionTTL:     getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			AdminAddresses: getEnvAsList("ADMIN_ADDRESSES"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
