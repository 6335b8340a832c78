package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/solnguyen93/flightcast/config"
	"github.com/solnguyen93/flightcast/internal/email"
	"github.com/solnguyen93/flightcast/internal/kafka"
	"github.com/solnguyen93/flightcast/internal/logger"
)

func main() {
	log := logger.New()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	wlog := logger.WithComponent(log, "worker")
	wlog.Infof("consuming %s", cfg.Kafka.NotificationsTopic)
	if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
		var event kafka.FlightEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			wlog.WithError(err).Warn("decode event error")
			return nil
		}
		return emailSender.Send(ctx, event)
	}); err != nil && ctx.Err() == nil {
		wlog.WithError(err).Error("consumer stopped")
	}
}
