package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// FlightEvent is the notification payload published when a user saves a
// flight or signs up. The worker turns these into emails.
type FlightEvent struct {
	Type          string    `json:"type"`
	UserID        int64     `json:"user_id"`
	Email         string    `json:"email"`
	OfferID       string    `json:"offer_id,omitempty"`
	DepartureCode string    `json:"departure_code,omitempty"`
	ArrivalCode   string    `json:"arrival_code,omitempty"`
	Price         string    `json:"price,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

const (
	EventFlightSaved  = "flight_saved"
	EventUserSignedUp = "user_signed_up"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
