package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reviewlens/database"
	"reviewlens/internal/classifier"
	"reviewlens/internal/config"
	"reviewlens/internal/microservices/http-api/router"
	"reviewlens/internal/middleware/auth"
	"reviewlens/internal/usage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := cfg.Logger()
	slog.SetDefault(logger)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	// Redis is optional; without it AI calls are not capped per day
	var counter *usage.Counter
	if cfg.RedisURL != "" {
		counter, err = usage.NewCounter(cfg.RedisURL, cfg.RedisPassword, cfg.AIDailyCallLimit)
		if err != nil {
			logger.Warn("usage counter unavailable, daily AI limit disabled", "error", err)
			counter = nil
		}
	}
	defer counter.Close()

	var c classifier.Classifier = classifier.Disabled{}
	if cfg.OpenAIAPIKey != "" {
		c = classifier.NewOpenAIClient(classifier.Config{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
			Timeout: cfg.AITimeout,
		}, logger)
	} else {
		logger.Warn("OPENAI_API_KEY not set, AI features disabled")
	}

	svcs := router.NewServices(db, c, counter, cfg.ClassifyConcurrency, logger)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiry)

	opts := router.OptionsFromConfig(cfg)
	opts.Health = func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router.New(svcs, tokens, opts, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
