package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Skotchmaster/bookly/internal/config"
	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/mail"
	"github.com/Skotchmaster/bookly/internal/mykafka"
)

func main() {
	cfg := config.Load()
	l := logging.New(cfg.LogLevel).With("service", cfg.ServiceName+"-mailer")
	if err := cfg.RequireMailer(); err != nil {
		l.Error("config_invalid", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, l); err != nil {
		l.Error("mailer_stopped", "error", err)
		os.Exit(1)
	}
	l.Info("mailer_stopped")
}

func run(cfg config.Config, l *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, l)

	w := mykafka.NewEmailWorker(cfg.KafkaBrokers, cfg.EmailTopic, cfg.MailerGroupID, mail.NewSMTPSender(cfg.Mail))
	defer func() {
		if err := w.Close(); err != nil {
			l.Error("kafka_close_error", "error", err)
		}
	}()

	l.Info("mailer_started", "topic", cfg.EmailTopic, "group", cfg.MailerGroupID)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
