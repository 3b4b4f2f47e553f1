package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ridehub/taxi-bot/internal/auth"
	"github.com/ridehub/taxi-bot/internal/bot"
	"github.com/ridehub/taxi-bot/internal/conversation"
	"github.com/ridehub/taxi-bot/internal/dispatch"
	"github.com/ridehub/taxi-bot/internal/jobs"
	"github.com/ridehub/taxi-bot/internal/metrics"
	"github.com/ridehub/taxi-bot/internal/notify"
	"github.com/ridehub/taxi-bot/internal/registry"
	"github.com/ridehub/taxi-bot/internal/server"
)

func main() {
	logger := initLogger("taxi-bot")
	logger.Info().Msg("Starting Taxi Bot...")

	// A .env file is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Fatal().Err(err).Msg("Failed to read .env file")
	}

	config, err := loadConfig(os.Getenv)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger = logger.Level(config.LogLevel)
	log.Logger = logger

	metrics.RegisterMetrics()

	logger.Info().Msg("Connecting to Telegram...")
	passengerAPI, err := bot.Connect(config.PassengerToken, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize passenger bot")
	}
	driverAPI, err := bot.Connect(config.DriverToken, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize driver bot")
	}

	drivers := registry.New()
	notifier := notify.NewAdminNotifier(bot.NewSender(passengerAPI), config.AdminChatID, config.DispatchTimeout, logger)
	if config.AdminChatID == 0 {
		logger.Warn().Msg("ADMIN_CHAT_ID not set; failure alerts start once the admin sends a driver command")
	}
	dispatcher := dispatch.New(dispatch.Config{Timeout: config.DispatchTimeout}, drivers, bot.NewSender(driverAPI), notifier, logger)
	orders := conversation.New(dispatcher, logger)

	passengerBot := bot.NewPassengerBot(passengerAPI, orders, drivers, auth.NewAdminGate(config.AdminUsername), notifier, logger)
	driverBot := bot.NewDriverBot(driverAPI, drivers, logger)

	purgeJob := jobs.NewDraftPurgeJob(orders, config.DraftTTL, config.PurgeSchedule, logger)
	if err := purgeJob.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start draft purge job")
	}
	defer purgeJob.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return passengerBot.Run(ctx) })
	g.Go(func() error { return driverBot.Run(ctx) })
	if config.OpsAddr != "" {
		ops := server.New(config.OpsAddr, drivers, orders, logger)
		g.Go(func() error { return ops.Run(ctx) })
	}

	logger.Info().Msg("Bots are running. Press Ctrl+C to stop.")

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("Bot error")
	}
	logger.Info().Msg("Shut down")
}

func initLogger(app string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
