package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"splitship/internal/core/domain/model/splitplan"
	"splitship/internal/pkg/errs"
)

const (
	defaultHTTPPort         = "8080"
	defaultPartnerTimeout   = 10 * time.Second
	defaultRetryMaxAttempts = 5
	defaultRetryBatchSize   = 50
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// PartnerURL selects the HTTP partner client; blank logs payloads instead.
	PartnerURL     string
	PartnerTimeout time.Duration

	AckPolicy splitplan.AckPolicy

	// RetrySchedule is a cron expression with seconds or a descriptor such
	// as "@every 1m". Blank disables the retry job.
	RetrySchedule    string
	RetryMaxAttempts int
	RetryBatchSize   int

	LogMode string
}

// DSN renders the postgres connection string.
func (c Config) DSN() string {
	sslMode := c.DBSslMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, sslMode)
}

// LoadConfig reads the configuration through getenv. Every malformed value
// is reported, not just the first.
func LoadConfig(getenv func(string) string) (Config, error) {
	cfg := Config{
		HTTPPort:      getenv("HTTP_PORT"),
		DBHost:        getenv("DB_HOST"),
		DBPort:        getenv("DB_PORT"),
		DBUser:        getenv("DB_USER"),
		DBPassword:    getenv("DB_PASSWORD"),
		DBName:        getenv("DB_NAME"),
		DBSslMode:     getenv("DB_SSLMODE"),
		PartnerURL:    strings.TrimSpace(getenv("PARTNER_URL")),
		RetrySchedule: strings.TrimSpace(getenv("RETRY_SCHEDULE")),
		LogMode:       getenv("LOG_MODE"),
	}
	if cfg.HTTPPort == "" {
		cfg.HTTPPort = defaultHTTPPort
	}

	var problems []error

	timeout, err := durationVar(getenv, "PARTNER_TIMEOUT", defaultPartnerTimeout)
	problems = append(problems, err)
	cfg.PartnerTimeout = timeout

	requiresSent, err := boolVar(getenv, "DELIVERY_ACK_REQUIRES_SENT")
	problems = append(problems, err)
	if requiresSent {
		cfg.AckPolicy = splitplan.AckRequiresSent
	}

	maxAttempts, err := intVar(getenv, "RETRY_MAX_ATTEMPTS", defaultRetryMaxAttempts)
	problems = append(problems, err)
	cfg.RetryMaxAttempts = maxAttempts

	batchSize, err := intVar(getenv, "RETRY_BATCH_SIZE", defaultRetryBatchSize)
	problems = append(problems, err)
	cfg.RetryBatchSize = batchSize

	if err = errors.Join(problems...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func durationVar(getenv func(string) string, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(key, err)
	}
	if d <= 0 {
		return 0, errs.NewValueIsOutOfRangeError(key, d, "1ns", "unbounded")
	}
	return d, nil
}

func boolVar(getenv func(string) string, key string) (bool, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errs.NewValueIsInvalidErrorWithCause(key, err)
	}
	return v, nil
}

func intVar(getenv func(string) string, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(key, err)
	}
	return v, nil
}
