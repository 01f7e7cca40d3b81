package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"unsaid_feelings/internal/auth"
	"unsaid_feelings/internal/config"
	"unsaid_feelings/internal/http_server/router"
	sl "unsaid_feelings/internal/lib/logger/sl"
	"unsaid_feelings/internal/mail"
	"unsaid_feelings/internal/posts"
	"unsaid_feelings/internal/rabbitmq"
	"unsaid_feelings/internal/storage/postgres"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting unsaid_feelings", slog.String("env", cfg.Env))

	if !cfg.MailConfigured() {
		log.Warn("EMAIL_USER or EMAIL_PASS is not set, outgoing email will fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("Shutdown signal received")
		cancel()
	}()

	if cfg.Postgres.Migrate {
		if err := postgres.Migrate(ctx, cfg); err != nil {
			log.Error("failed to apply migrations", sl.Err(err))
			os.Exit(1)
		}
	}

	storage, err := postgres.New(ctx, cfg)
	if err != nil {
		log.Error("failed to connect postgres", sl.Err(err))
		os.Exit(1)
	}
	defer storage.Close()

	gateway := mail.New(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.FromName)

	var dispatcher auth.Dispatcher

	if cfg.RabbitMQ.Enabled {
		msgBroker, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
		if err != nil {
			log.Error("failed to connect rabbitmq", sl.Err(err))
			os.Exit(1)
		}
		defer msgBroker.Close()

		dispatcher = mail.NewQueueDispatcher(log, msgBroker)
	} else {
		async := mail.NewAsyncDispatcher(log, gateway, cfg.Mail.SendTimeout)
		defer async.Wait()

		dispatcher = async
	}

	authService := auth.New(log, storage, storage, gateway, dispatcher, auth.Config{
		TokenSecret:          cfg.Tokens.Secret,
		VerificationTokenTTL: cfg.Tokens.VerificationTokenTTL,
		SessionTokenTTL:      cfg.Tokens.SessionTokenTTL,
		ResetTokenTTL:        cfg.Tokens.ResetTokenTTL,
		PublicURL:            cfg.URLs.Public,
		FrontendURL:          cfg.URLs.Frontend,
		MailAccount:          gateway.Account(),
	})

	postService := posts.New(log, storage, storage)

	srv := &http.Server{
		Addr: cfg.HTTPServer.Address,
		Handler: router.New(log, authService, postService, storage, router.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			FrontendURL:    cfg.URLs.Frontend,
		}),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server is running", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", sl.Err(err))
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", sl.Err(err))
	} else {
		log.Info("Server stopped gracefully")
	}

	log.Info("Main service stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
