package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvDurationDefault(t *testing.T) {
	t.Setenv("TEST_DURATION_GO", "15m")
	t.Setenv("TEST_DURATION_SECONDS", "3600")
	t.Setenv("TEST_DURATION_BAD", "soon")

	assert.Equal(t, 15*time.Minute, EnvDurationDefault("TEST_DURATION_GO", time.Second))
	assert.Equal(t, time.Hour, EnvDurationDefault("TEST_DURATION_SECONDS", time.Second))
	assert.Equal(t, time.Second, EnvDurationDefault("TEST_DURATION_BAD", time.Second))
	assert.Equal(t, time.Minute, EnvDurationDefault("TEST_DURATION_UNSET", time.Minute))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg := Load()

	assert.Equal(t, []byte("s3cret"), cfg.JWTSecret)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, time.Hour, cfg.AccessTokenExpiry)
	assert.Equal(t, 48*time.Hour, cfg.RefreshTokenExpiry)
	assert.Equal(t, "email_tasks", cfg.EmailTopic)
	assert.Equal(t, "books", cfg.ESIndex)
}

func TestRequireServer(t *testing.T) {
	cfg := Config{RedisURL: "redis://localhost:6379/0", KafkaBrokers: []string{"k:9092"}}

	err := cfg.RequireServer()
	require.Error(t, err)
	assert.Equal(t, "missing required env: DATABASE_URL, JWT_SECRET, URL_TOKEN_SECRET", err.Error())

	cfg.DatabaseURL = "postgres://bookly"
	cfg.JWTSecret = []byte("a")
	cfg.URLTokenSecret = []byte("b")
	assert.NoError(t, cfg.RequireServer())
}

func TestRequireMailer(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k:9092")
	cfg := Load()
	assert.NoError(t, cfg.RequireMailer())

	cfg.Mail.Server = ""
	assert.ErrorContains(t, cfg.RequireMailer(), "MAIL_SERVER")
}
