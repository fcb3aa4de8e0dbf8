package mykafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/mail"
)

const maxAttempts = 3

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EmailWorker consumes email tasks and hands them to a mail.Sender.
type EmailWorker struct {
	reader    messageReader
	sender    mail.Sender
	retryBase time.Duration
}

func NewEmailWorker(brokers []string, topic, groupID string, sender mail.Sender) *EmailWorker {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	return &EmailWorker{reader: r, sender: sender, retryBase: time.Second}
}

// Handle delivers one task. Undecodable payloads are dropped with an error
// so they are not redelivered forever.
func (w *EmailWorker) Handle(ctx context.Context, m kafka.Message) error {
	var msg mail.Message
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return fmt.Errorf("decode email task at offset %d: %w", m.Offset, err)
	}
	return w.sender.Send(ctx, msg)
}

// Run blocks until ctx is cancelled. Each task gets maxAttempts deliveries
// with backoff; it is committed afterwards whether or not it was sent.
func (w *EmailWorker) Run(ctx context.Context) error {
	l := logging.FromContext(ctx).With("worker", "email")
	failures := 0

	for {
		m, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failures++
			l.Error("fetch_failed", "failures", failures, "error", err)
			if err := sleep(ctx, w.backoff(failures)); err != nil {
				return err
			}
			continue
		}
		failures = 0

		if err := w.deliver(ctx, m); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.Error("email_task_dropped", "offset", m.Offset, "partition", m.Partition, "error", err)
		} else {
			l.Info("email_sent", "offset", m.Offset, "partition", m.Partition)
		}

		if err := w.reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.Error("commit_failed", "offset", m.Offset, "error", err)
		}
	}
}

func (w *EmailWorker) deliver(ctx context.Context, m kafka.Message) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = w.Handle(ctx, m)
		if err == nil {
			return nil
		}
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			return err
		}
		if attempt < maxAttempts {
			if serr := sleep(ctx, w.backoff(attempt)); serr != nil {
				return serr
			}
		}
	}
	return err
}

func (w *EmailWorker) Close() error {
	return w.reader.Close()
}

func (w *EmailWorker) backoff(failures int) time.Duration {
	d := time.Duration(failures) * w.retryBase
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
