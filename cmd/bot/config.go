package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ridehub/taxi-bot/internal/dispatch"
	"github.com/ridehub/taxi-bot/internal/jobs"
)

type Config struct {
	PassengerToken  string
	DriverToken     string
	AdminUsername   string
	AdminChatID     int64 // 0 means learn it from the admin's first command
	DispatchTimeout time.Duration
	DraftTTL        time.Duration
	PurgeSchedule   string
	OpsAddr         string // empty disables the ops server
	LogLevel        zerolog.Level
}

const defaultDraftTTL = 24 * time.Hour

// loadConfig reads the configuration through getenv, normally os.Getenv.
func loadConfig(getenv func(string) string) (Config, error) {
	var errs []error
	require := func(key string) string {
		value := strings.TrimSpace(getenv(key))
		if value == "" {
			errs = append(errs, fmt.Errorf("required environment variable %s is not set", key))
		}
		return value
	}
	orDefault := func(key, defaultValue string) string {
		if value := strings.TrimSpace(getenv(key)); value != "" {
			return value
		}
		return defaultValue
	}
	duration := func(key string, defaultValue time.Duration) time.Duration {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return defaultValue
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("invalid %s %q: must be a positive duration", key, raw))
			return defaultValue
		}
		return d
	}

	config := Config{
		PassengerToken:  require("PASSENGER_BOT_TOKEN"),
		DriverToken:     require("DRIVER_BOT_TOKEN"),
		AdminUsername:   strings.TrimPrefix(require("ADMIN_USERNAME"), "@"),
		DispatchTimeout: duration("DISPATCH_TIMEOUT", dispatch.DefaultTimeout),
		DraftTTL:        duration("DRAFT_TTL", defaultDraftTTL),
		PurgeSchedule:   orDefault("DRAFT_PURGE_SCHEDULE", jobs.DefaultPurgeSchedule),
		OpsAddr:         orDefault("OPS_ADDR", ":9090"),
		LogLevel:        zerolog.InfoLevel,
	}

	if strings.EqualFold(strings.TrimSpace(getenv("OPS_ADDR")), "off") {
		config.OpsAddr = ""
	}

	if config.PassengerToken != "" && config.PassengerToken == config.DriverToken {
		errs = append(errs, errors.New("PASSENGER_BOT_TOKEN and DRIVER_BOT_TOKEN must belong to different bots"))
	}

	if raw := strings.TrimSpace(getenv("ADMIN_CHAT_ID")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid ADMIN_CHAT_ID: %w", err))
		}
		config.AdminChatID = id
	}

	if raw := strings.TrimSpace(getenv("LOG_LEVEL")); raw != "" {
		level, err := zerolog.ParseLevel(strings.ToLower(raw))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid LOG_LEVEL: %w", err))
		} else {
			config.LogLevel = level
		}
	}

	return config, errors.Join(errs...)
}
