package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string
	RedisURL    string

	JWTSecret          []byte
	JWTAlgorithm       string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	URLTokenSecret    []byte
	VerifyTokenExpiry time.Duration
	ResetTokenExpiry  time.Duration
	Domain            string

	KafkaBrokers  []string
	EmailTopic    string
	MailerGroupID string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	Mail MailConfig
}

type MailConfig struct {
	Server   string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Load reads .env when present and then the process environment.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v. Using system environment variables", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "bookly"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    EnvDefault("REDIS_URL", "redis://localhost:6379/0"),

		JWTSecret:          []byte(os.Getenv("JWT_SECRET")),
		JWTAlgorithm:       EnvDefault("JWT_ALGORITHM", "HS256"),
		AccessTokenExpiry:  EnvDurationDefault("ACCESS_TOKEN_EXPIRY", time.Hour),
		RefreshTokenExpiry: EnvDurationDefault("REFRESH_TOKEN_EXPIRY", 48*time.Hour),

		URLTokenSecret:    []byte(os.Getenv("URL_TOKEN_SECRET")),
		VerifyTokenExpiry: EnvDurationDefault("VERIFY_TOKEN_EXPIRY", 24*time.Hour),
		ResetTokenExpiry:  EnvDurationDefault("RESET_TOKEN_EXPIRY", time.Hour),
		Domain:            EnvDefault("DOMAIN", "localhost:8080"),

		KafkaBrokers:  CSV(EnvDefault("KAFKA_BROKERS", "localhost:9092")),
		EmailTopic:    EnvDefault("EMAIL_TOPIC", "email_tasks"),
		MailerGroupID: EnvDefault("MAILER_GROUP_ID", "bookly-mailer"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "books"),

		Mail: MailConfig{
			Server:   EnvDefault("MAIL_SERVER", "localhost"),
			Port:     EnvIntDefault("MAIL_PORT", 587),
			Username: os.Getenv("MAIL_USERNAME"),
			Password: os.Getenv("MAIL_PASSWORD"),
			From:     EnvDefault("MAIL_FROM", "noreply@bookly.local"),
			FromName: EnvDefault("MAIL_FROM_NAME", "Bookly"),
		},
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// EnvDurationDefault accepts Go durations ("15m") or plain seconds ("3600").
func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
