package main // Entry point package

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/grandmeridian/guest-services/internal/config"
	"github.com/grandmeridian/guest-services/internal/database"
	"github.com/grandmeridian/guest-services/internal/handler"
	"github.com/grandmeridian/guest-services/internal/queue"
	"github.com/grandmeridian/guest-services/internal/repository"
	"github.com/grandmeridian/guest-services/internal/router"
	"github.com/grandmeridian/guest-services/internal/seed"
	queue_publisher "github.com/grandmeridian/guest-services/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Str("component", "server").Logger()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("ensure schema")
	}
	if err := seed.Run(ctx, db, cfg.SeedFile, log.With().Str("component", "seed").Logger()); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("seed database")
	}
	cancel()

	guests := repository.NewGuestRepo(db)
	staff := repository.NewStaffRepo(db)
	requests := repository.NewRequestRepo(db)
	activities := repository.NewActivityRepo(db)

	var publish handler.EventPublisher
	if cfg.RabbitURL != "" {
		publish = func(ctx context.Context, ev queue.RequestEvent) {
			_ = queue_publisher.PublishRequestEvent(ctx, cfg.RabbitURL, ev)
		}
		go queue.StartLifecycleConsumer(cfg.RabbitURL, log.With().Str("component", "lifecycle-consumer").Logger())
	}

	authH := handler.NewAuthHandler(cfg, guests, staff)
	guestH := handler.NewGuestHandler(requests, publish)
	staffH := handler.NewStaffHandler(requests, activities, publish)

	e := echo.New()
	e.HideBanner = true

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, login rate limiting disabled")
	}

	router.RegisterRoutes(e, authH)
	router.RegisterAuth(e, authH, config.LoadRateLimitConfig(), rdb)
	router.RegisterGuest(e, guestH, cfg.SessionSecret, guests)
	router.RegisterStaff(e, staffH, cfg.SessionSecret, staff)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")

	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
