package cmd

import (
	"fmt"
	"time"
)

type Config struct {
	ServiceName string
	Environment string
	HTTPPort    string
	LogLevel    string
	Timezone    string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaBrokers string
	KafkaTopic   string
	RedisAddr    string
	OTLPEndpoint string

	JWTSecret string

	SettlementSchedule      string
	PaymentMaxAttempts      int
	SettingsRefreshSchedule string
	RateLimit               float64
	RateBurst               int
}

// DSN is the libpq connection string of the service database.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// Location falls back to UTC when Timezone is empty.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}
