package config

import (
	"crypto/rand"   // Random development secret
	"encoding/hex"  // Secret encoding
	"errors"        // Error values
	"os"            // For environment variables
	"strconv"       // For string to int conversion
	"strings"       // List parsing
	"time"          // Durations

	"github.com/joho/godotenv"   // For loading .env files
	"github.com/sirupsen/logrus" // Logging
)

// Bcrypt cost bounds accepted by the credential service
const (
	MinBcryptCost = 10
	MaxBcryptCost = 12
)

// ErrMissingJWTSecret is returned in production when no signing secret is configured
var ErrMissingJWTSecret = errors.New("config: JWT_SECRET is required in production")

// Config holds the application configuration
type Config struct {
	AppPort       string        // Application port
	DBDriver      string        // mysql or sqlite
	DBUser        string        // Database user
	DBPassword    string        // Database password
	DBHost        string        // Database host
	DBPort        string        // Database port
	DBName        string        // Database name
	SQLitePath    string        // SQLite database file
	JWTSecret     string        // JWT secret key
	JWTTTL        time.Duration // Token lifetime
	BcryptCost    int           // Password hashing cost
	RedisAddr     string        // Redis server address
	RedisPass     string        // Redis password
	RedisDB       int           // Redis database number
	CORSOrigins   []string      // Allowed browser origins
	KafkaBrokers  []string      // Kafka brokers, empty disables events
	KafkaTopic    string        // Topic for order events
	AuthRateLimit float64       // Auth requests per second per client IP
	AuthRateBurst int           // Auth burst size per client IP
	AdminEmail    string        // Seeded admin email
	AdminPassword string        // Seeded admin password
	IsProd        bool          // Is production environment
}

// DSN builds the MySQL Data Source Name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4&loc=UTC"
}

// LoadConfig loads configuration from an optional .env file and environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	return FromEnv()
}

// FromEnv reads the configuration from the current environment
func FromEnv() (*Config, error) {
	cfg := &Config{
		AppPort:       getEnv("APP_PORT", "8080"),
		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBHost:        getEnv("DB_HOST", "127.0.0.1"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBName:        getEnv("DB_NAME", "cafe"),
		SQLitePath:    getEnv("SQLITE_PATH", "cafe.db"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTTTL:        getDuration("JWT_TTL", 7*24*time.Hour),
		BcryptCost:    ClampBcryptCost(getInt("BCRYPT_COST", MaxBcryptCost)),
		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPass:     os.Getenv("REDIS_PASS"),
		RedisDB:       getInt("REDIS_DB", 0),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")),
		KafkaBrokers:  splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "cafe.orders"),
		AuthRateLimit: getFloat("AUTH_RATE_LIMIT", 5),
		AuthRateBurst: getInt("AUTH_RATE_BURST", 10),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		IsProd:        os.Getenv("IS_PROD") == "true",
	}
	if cfg.JWTSecret == "" {
		if cfg.IsProd {
			return nil, ErrMissingJWTSecret
		}
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.JWTSecret = secret
		logrus.Warn("JWT_SECRET not set, using a random secret; tokens will not survive a restart")
	}
	return cfg, nil
}

// ClampBcryptCost keeps the hashing cost inside the accepted range
func ClampBcryptCost(cost int) int {
	if cost < MinBcryptCost {
		return MinBcryptCost
	}
	if cost > MaxBcryptCost {
		return MaxBcryptCost
	}
	return cost
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
