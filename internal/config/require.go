package config

import (
	"fmt"
	"strings"
)

type setting struct {
	env string
	set bool
}

// RequireServer reports the settings the HTTP API cannot start without.
func (c Config) RequireServer() error {
	return requireAll(
		setting{"DATABASE_URL", c.DatabaseURL != ""},
		setting{"REDIS_URL", c.RedisURL != ""},
		setting{"JWT_SECRET", len(c.JWTSecret) > 0},
		setting{"URL_TOKEN_SECRET", len(c.URLTokenSecret) > 0},
		setting{"KAFKA_BROKERS", len(c.KafkaBrokers) > 0},
	)
}

// RequireMailer reports the settings the email worker cannot start without.
func (c Config) RequireMailer() error {
	return requireAll(
		setting{"KAFKA_BROKERS", len(c.KafkaBrokers) > 0},
		setting{"EMAIL_TOPIC", c.EmailTopic != ""},
		setting{"MAILER_GROUP_ID", c.MailerGroupID != ""},
		setting{"MAIL_SERVER", c.Mail.Server != ""},
		setting{"MAIL_FROM", c.Mail.From != ""},
	)
}

func requireAll(settings ...setting) error {
	var missing []string
	for _, s := range settings {
		if !s.set {
			missing = append(missing, s.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env: %s", strings.Join(missing, ", "))
	}
	return nil
}
