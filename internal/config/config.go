package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	logrus "github.com/sirupsen/logrus"
)

// DatabaseConfig holds the connection and pool settings for the store.
type DatabaseConfig struct {
	Driver          string // "pgx" (default) or "postgres" for lib/pq
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	Level  string
	File   string
	Stdout bool
}

// Settings is everything the server reads from the environment.
type Settings struct {
	Env  string
	Port string

	Database DatabaseConfig
	Log      LogConfig

	JWTSecret string
	JWTTTL    time.Duration

	// Location visibility and paging defaults.
	OnlineWindow      time.Duration
	HistoryLimit      int
	RecentLimit       int
	VerificationLimit int
	MaxPageSize       int

	PhotosDir      string
	MaxUploadBytes int64

	AdminEmail    string
	AdminPassword string
}

// Load reads .env (if present) and the process environment.
func Load() (*Settings, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found – relying on env vars")
	}

	s := &Settings{
		Env:  getEnv("APP_ENV", "production"),
		Port: getEnv("PORT", "8080"),
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "pgx"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "password"),
			Name:            getEnv("DB_NAME", "entregas"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			File:   getEnv("LOG_FILE", "./logs/app.log"),
			Stdout: getEnvBool("LOG_STDOUT", false),
		},
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTTTL:            getEnvDuration("JWT_TTL", 72*time.Hour),
		OnlineWindow:      getEnvDuration("ONLINE_WINDOW", time.Hour),
		HistoryLimit:      getEnvInt("HISTORY_LIMIT", 50),
		RecentLimit:       getEnvInt("RECENT_LIMIT", 100),
		VerificationLimit: getEnvInt("VERIFICATION_LIMIT", 10),
		MaxPageSize:       getEnvInt("MAX_PAGE_SIZE", 500),
		PhotosDir:         getEnv("PHOTOS_DIR", "./fotos"),
		MaxUploadBytes:    int64(getEnvInt("MAX_UPLOAD_BYTES", 5<<20)),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
	}

	if s.JWTSecret == "" {
		if s.Env != "development" {
			return nil, errors.New("JWT_SECRET must be set unless APP_ENV=development")
		}
		logrus.Warn("JWT_SECRET not set, using development fallback")
		s.JWTSecret = "supersecret"
	}
	if s.OnlineWindow <= 0 {
		return nil, errors.New("ONLINE_WINDOW must be positive")
	}
	return s, nil
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists && v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		logrus.WithField("key", key).Warnf("invalid integer %q, using %d", v, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logrus.WithField("key", key).Warnf("invalid duration %q, using %s", v, defaultValue)
		return defaultValue
	}
	return d
}
