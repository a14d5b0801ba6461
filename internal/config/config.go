package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"taxmind/internal/models"
)

// Config carries every tunable the reminder engine depends on. It is built
// once at startup and passed by value so tests can vary it per case instead
// of mutating package state.
type Config struct {
	Env  string
	Port string

	DatabaseURL string

	BotToken string
	OwnerIDs map[int64]struct{}

	Timezone *time.Location

	// daily sweep wall-clock time in Timezone
	DailyHour   int
	DailyMinute int

	// thresholds in business days per frequency, with a fallback
	Thresholds       map[models.Frequency]int
	DefaultThreshold int

	// outbound message chunking
	ChunkSize      int
	ForceChunkSize int

	// minimum gap between hourly reminders for the same requirement/due date
	HourlyMinGap time.Duration
}

// Default returns the standing production configuration
func Default() Config {
	tz, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		tz = time.UTC
	}
	return Config{
		Env:         "development",
		Port:        "8080",
		Timezone:    tz,
		DailyHour:   8,
		DailyMinute: 30,
		Thresholds: map[models.Frequency]int{
			models.Monthly:   3,
			models.Quarterly: 3,
		},
		DefaultThreshold: 10,
		ChunkSize:        15,
		ForceChunkSize:   12,
		HourlyMinGap:     time.Hour,
	}
}

// Load builds a Config from the environment on top of the defaults
func Load() (Config, error) {
	cfg := Default()

	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.BotToken = os.Getenv("BOT_TOKEN")
	if cfg.BotToken == "" {
		return cfg, fmt.Errorf("BOT_TOKEN is not set")
	}

	cfg.OwnerIDs = parseOwnerIDs(os.Getenv("OWNER_IDS"))

	if v := os.Getenv("TIMEZONE"); v != "" {
		tz, err := time.LoadLocation(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid TIMEZONE %q: %w", v, err)
		}
		cfg.Timezone = tz
	}

	if v := os.Getenv("DAILY_REMINDER_TIME"); v != "" {
		h, m, err := parseClock(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid DAILY_REMINDER_TIME %q: %w", v, err)
		}
		cfg.DailyHour, cfg.DailyMinute = h, m
	}

	return cfg, nil
}

// IsOwner reports whether userID is one of the configured bot owners
func (c Config) IsOwner(userID int64) bool {
	_, ok := c.OwnerIDs[userID]
	return ok
}

// Threshold returns the candidacy threshold in business days for a frequency
func (c Config) Threshold(freq models.Frequency) int {
	if thr, ok := c.Thresholds[freq]; ok {
		return thr
	}
	return c.DefaultThreshold
}

func parseOwnerIDs(raw string) map[int64]struct{} {
	out := make(map[int64]struct{})
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		out[id] = struct{}{}
	}
	return out
}

func parseClock(raw string) (int, int, error) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM")
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("bad hour")
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("bad minute")
	}
	return h, m, nil
}
