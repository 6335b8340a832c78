package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solnguyen93/flightcast/config"
	"github.com/solnguyen93/flightcast/internal/amadeus"
	"github.com/solnguyen93/flightcast/internal/bootstrap"
	"github.com/solnguyen93/flightcast/internal/kafka"
	"github.com/solnguyen93/flightcast/internal/logger"
	"github.com/solnguyen93/flightcast/internal/repository"
	"github.com/solnguyen93/flightcast/internal/service/auth"
	"github.com/solnguyen93/flightcast/internal/service/bookmarks"
	"github.com/solnguyen93/flightcast/internal/service/flights"
	"github.com/solnguyen93/flightcast/internal/session"
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

	if cfg.Migrations.Dir != "" {
		if err := runMigrations(cfg); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	sessions := session.NewStore(cfg.Redis, time.Duration(cfg.Session.TTLMinutes)*time.Minute)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	userRepo := repository.NewUserRepository(pool)
	locationRepo := repository.NewLocationRepository(pool)
	flightRepo := repository.NewSavedFlightRepository(pool)

	authService := auth.NewAuthService(userRepo, log,
		auth.WithProducer(producer, cfg.Kafka.NotificationsTopic))
	searchService := flights.NewSearchService(amadeus.NewClient(cfg.Amadeus), log)
	bookmarkService := bookmarks.NewBookmarkService(flightRepo, locationRepo, log,
		bookmarks.WithProducer(producer, cfg.Kafka.NotificationsTopic))

	log.Infof("listening on %s", cfg.HTTP.Address)
	if err := bootstrap.Run(ctx, cfg, bootstrap.Deps{
		Sessions:  sessions,
		Auth:      authService,
		Search:    searchService,
		Bookmarks: bookmarkService,
		Log:       log,
	}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runMigrations(cfg *config.Config) error {
	m, err := migrate.New("file://"+cfg.Migrations.Dir, cfg.Database.URL())
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
