package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// defaultOrigins mirrors the frontends that shipped with the first version of the API.
// "null" is what browsers send for file:// pages and sandboxed iframes.
var defaultOrigins = []string{
	"null",
	"http://127.0.0.1:5500",
	"http://localhost:5500",
	"http://localhost",
	"https://ishow-feedback-frontend.vercel.app",
	"https://nicowillyx.github.io",
}

type Config struct {
	StoreDriver string // STORE_DRIVER: mongo (default), postgres, memory
	MongoURI    string
	MongoDBName string
	PostgresURI string
	RedisURI    string // optional; enables admin sessions and cross-instance feed fan-out

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	UploadFolder        string
	UploadConcurrency   int64
	UploadTimeout       time.Duration
	MaxUploadBytes      int64

	AdminPassword       string // plain secret or $argon2id$ hash
	RequireAdminSession bool

	Port           string
	AllowedOrigins []string
	Environment    string
	LogLevel       string
	LogFormat      string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = append([]string(nil), defaultOrigins...)
	}

	logFormat := "text"
	if env == "production" {
		logFormat = "json"
	}

	return &Config{
		StoreDriver:         strings.ToLower(getEnv("STORE_DRIVER", StoreMongo)),
		MongoURI:            getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/ishow_feedback")),
		MongoDBName:         getEnv("MONGODB_DB", ""),
		PostgresURI:         getEnv("POSTGRES_URI", "postgres://localhost:5432/ishow_feedback?sslmode=disable"),
		RedisURI:            getEnv("REDIS_URI", ""),
		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		UploadFolder:        getEnv("CLOUDINARY_FOLDER", "ishow_feedback"),
		UploadConcurrency:   int64(getEnvInt("UPLOAD_CONCURRENCY", 8)),
		UploadTimeout:       getEnvDuration("UPLOAD_TIMEOUT", 60*time.Second),
		MaxUploadBytes:      int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),
		AdminPassword:       getEnv("ADMIN_PASSWORD", ""),
		RequireAdminSession: getEnvBool("REQUIRE_ADMIN_SESSION", false),
		Port:                getEnv("PORT", "10000"),
		AllowedOrigins:      allowedOrigins,
		Environment:         env,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", logFormat),
	}
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMongo, StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.RequireAdminSession && c.RedisURI == "" {
		return fmt.Errorf("REQUIRE_ADMIN_SESSION needs REDIS_URI for session storage")
	}
	if c.UploadConcurrency < 1 {
		return fmt.Errorf("UPLOAD_CONCURRENCY must be positive")
	}
	if c.MaxUploadBytes < 1 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// CloudinaryConfigured reports whether all three Cloudinary credentials are set.
func (c *Config) CloudinaryConfigured() bool {
	return c.CloudinaryName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
