package mykafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Skotchmaster/bookly/internal/mail"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EmailProducer puts rendered emails on the email task topic.
type EmailProducer struct {
	writer messageWriter
	topic  string
}

func NewEmailProducer(brokers []string, topic string) *EmailProducer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           5 * time.Second,
		AllowAutoTopicCreation: true,
	}
	return &EmailProducer{writer: w, topic: topic}
}

func (p *EmailProducer) Dispatch(ctx context.Context, msg mail.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strings.Join(msg.Recipients, ",")),
		Value: data,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("kafka: write to %s failed: %w", p.topic, err)
	}
	return nil
}

func (p *EmailProducer) Close() error {
	return p.writer.Close()
}
