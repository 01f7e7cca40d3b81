package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"unsaid_feelings/internal/config"
	sl "unsaid_feelings/internal/lib/logger/sl"
	"unsaid_feelings/internal/mail"
	"unsaid_feelings/internal/rabbitmq"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoadMailSender()
	log := setupLogger(cfg.Env)

	log.Info("Starting mail_sender", slog.String("env", cfg.Env), slog.String("queue", cfg.RabbitMQ.QueueName))

	startServer(ctx, cfg, log)
}

type consumer interface {
	StartReading(ctx context.Context, handler func(ctx context.Context, body []byte) error) error
}

func startServer(ctx context.Context, cfg *config.MailSender, log *slog.Logger) {
	r, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
	if err != nil {
		log.Error("failed to init rabbitmq", sl.Err(err))
		return
	}
	defer r.Close()

	gateway := mail.New(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.FromName)

	if err := runConsumer(ctx, log, r, gateway); err != nil {
		log.Error("consumer stopped", sl.Err(err))
	}

	log.Info("service gracefully stopped")
}

// runConsumer delivers queued messages through sender until ctx is done or
// the consumer stops on its own. It waits for the consumer to return, so the
// connection can be closed afterwards. The error is nil on a ctx shutdown.
func runConsumer(ctx context.Context, log *slog.Logger, c consumer, sender mail.Sender) error {
	done := make(chan error, 1)

	go func() {
		done <- c.StartReading(ctx, mail.QueueHandler(log, sender))
	}()

	log.Info("consumer successfully started")

	select {
	case <-ctx.Done():
		log.Info("shutting down consumer...")

		<-done

		return nil
	case err := <-done:
		log.Info("consumer finished the work")

		return err
	}
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
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
