// @title                       Expense Tracker API
// @version                     1.0
// @description                 Personal income and expense tracking with per-user summaries and an admin overview.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	_ "github.com/fintrack/expense-api/docs"
	"github.com/fintrack/expense-api/internal/api"
	"github.com/fintrack/expense-api/internal/core/ports"
	"github.com/fintrack/expense-api/internal/core/service"
	"github.com/fintrack/expense-api/internal/infrastructure/google"
	"github.com/fintrack/expense-api/internal/infrastructure/queue"
	"github.com/fintrack/expense-api/internal/pkg/config"
	"github.com/fintrack/expense-api/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// A missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "expense-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	var events ports.EventPublisher = queue.NopPublisher{}
	if cfg.AMQP.URL != "" {
		pub, err := queue.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange, logger.Component("events"))
		if err != nil {
			return err
		}
		defer pub.Close()
		events = pub
		log.Info().Str("exchange", cfg.AMQP.Exchange).Msg("publishing transaction events")
	}

	var googleVerifier ports.GoogleVerifier
	if cfg.GoogleClientID != "" {
		v, err := google.NewVerifier(ctx, cfg.GoogleClientID)
		if err != nil {
			return err
		}
		googleVerifier = v
	} else {
		log.Info().Msg("GOOGLE_CLIENT_ID not set, google sign-in disabled")
	}

	authService := service.NewAuthService(st.users, service.AuthOptions{
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.TokenTTL,
		AdminEmail: cfg.AdminEmail,
		Google:     googleVerifier,
	}, logger.Component("auth"))
	txService := service.NewTransactionService(st.transactions, logger.Component("transactions"),
		service.WithIdempotency(st.idempotency),
		service.WithEvents(events),
	)
	summaryService := service.NewSummaryService(st.transactions, logger.Component("summary"))
	overviewService := service.NewOverviewService(st.users, st.transactions, logger.Component("overview"))

	e := api.NewRouter(api.Dependencies{
		Auth:         authService,
		Transactions: txService,
		Summaries:    summaryService,
		Overview:     overviewService,
		HealthChecks: st.checks,
		JWTSecret:    cfg.JWTSecret,
		AllowOrigins: cfg.AllowOrigins(),
		BodyLimit:    cfg.BodyLimit,
		Log:          logger.Component("http"),
	})
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 10 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.StoreBackend).Msg("starting expense tracker API")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err, ok := <-errCh:
		if ok {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped gracefully")
	return nil
}
