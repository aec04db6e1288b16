package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"fulfillment/cmd"
	api "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/pkg/telemetry"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configs := getConfigs()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := telemetry.NewLogger(os.Stdout, configs.LogLevel)
	shutdownTracer, err := telemetry.SetupTracer(ctx, configs.ServiceName, configs.Environment, configs.OTLPEndpoint)
	if err != nil {
		log.Fatalf("tracer setup failed: %v", err)
	}

	gormDB, err := gorm.Open(pgdriver.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err = postgres.AutoMigrate(gormDB); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("composition failed: %v", err)
	}
	if err = app.Settings().Load(ctx); err != nil {
		log.Fatalf("settings load failed: %v", err)
	}

	app.StartListener(ctx)
	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("jobs start failed: %v", err)
	}

	e, err := api.NewRouter(ctx, app.CreateServer(), app.CreateRouterConfig())
	if err != nil {
		log.Fatalf("router setup failed: %v", err)
	}
	go startWebServer(e, configs.HTTPPort)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	jobManager.StopAll()
	if err = app.Close(); err != nil {
		logger.Error("close failed", "error", err)
	}
	if err = shutdownTracer(shutdownCtx); err != nil {
		logger.Error("tracer shutdown failed", "error", err)
	}
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("no .env file loaded: %v", err)
	}

	config := cmd.Config{
		ServiceName:             envOr("SERVICE_NAME", "fulfillment"),
		Environment:             envOr("ENVIRONMENT", "development"),
		HTTPPort:                envOr("HTTP_PORT", "8080"),
		LogLevel:                os.Getenv("LOG_LEVEL"),
		Timezone:                os.Getenv("TIMEZONE"),
		DBHost:                  os.Getenv("DB_HOST"),
		DBPort:                  os.Getenv("DB_PORT"),
		DBUser:                  os.Getenv("DB_USER"),
		DBPassword:              os.Getenv("DB_PASSWORD"),
		DBName:                  os.Getenv("DB_NAME"),
		DBSslMode:               envOr("DB_SSLMODE", "disable"),
		KafkaBrokers:            os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:              os.Getenv("KAFKA_TOPIC"),
		RedisAddr:               os.Getenv("REDIS_ADDR"),
		OTLPEndpoint:            os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		SettlementSchedule:      os.Getenv("SETTLEMENT_SCHEDULE"),
		PaymentMaxAttempts:      intEnv("PAYMENT_MAX_ATTEMPTS"),
		SettingsRefreshSchedule: os.Getenv("SETTINGS_REFRESH_SCHEDULE"),
		RateLimit:               floatEnv("RATE_LIMIT"),
		RateBurst:               intEnv("RATE_BURST"),
	}
	if config.JWTSecret == "" {
		log.Fatalf("JWT_SECRET is required")
	}
	return config
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("%s: %v", key, err)
	}
	return n
}

func floatEnv(key string) float64 {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("%s: %v", key, err)
	}
	return f
}

func startWebServer(e *echo.Echo, port string) {
	if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		e.Logger.Fatal(err)
	}
}
