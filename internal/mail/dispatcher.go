package mail

import (
	"context"
	"log/slog"
	"sync"
	"time"

	sl "unsaid_feelings/internal/lib/logger/sl"
	"unsaid_feelings/internal/models"
)

type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) Result
}

type Publisher interface {
	SendMessage(ctx context.Context, msg models.Message) error
}

// AsyncDispatcher delivers messages from a detached goroutine. The caller
// never observes the outcome.
type AsyncDispatcher struct {
	log     *slog.Logger
	sender  Sender
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsyncDispatcher(log *slog.Logger, sender Sender, timeout time.Duration) *AsyncDispatcher {
	return &AsyncDispatcher{
		log:     log,
		sender:  sender,
		timeout: timeout,
	}
}

func (d *AsyncDispatcher) Dispatch(ctx context.Context, msg models.Message) {
	const op = "mail.AsyncDispatcher.Dispatch"

	log := d.log.With(slog.String("op", op), slog.String("to", msg.Email))

	d.wg.Add(1)

	go func() {
		defer d.wg.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		res := d.sender.Send(sendCtx, msg.Email, msg.Subject, msg.HTML)
		if !res.Success {
			log.Error("failed to send email", sl.Err(res.Err))
			return
		}

		log.Info("email sent", slog.String("subject", msg.Subject))
	}()
}

// Wait blocks until every in-flight message has been handled.
func (d *AsyncDispatcher) Wait() {
	d.wg.Wait()
}

// QueueDispatcher hands messages to the mail queue consumed by the mail sender.
type QueueDispatcher struct {
	log *slog.Logger
	pub Publisher
}

func NewQueueDispatcher(log *slog.Logger, pub Publisher) *QueueDispatcher {
	return &QueueDispatcher{
		log: log,
		pub: pub,
	}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, msg models.Message) {
	const op = "mail.QueueDispatcher.Dispatch"

	log := d.log.With(slog.String("op", op), slog.String("to", msg.Email))

	if err := d.pub.SendMessage(ctx, msg); err != nil {
		log.Error("failed to enqueue email", sl.Err(err))
		return
	}

	log.Debug("email enqueued")
}
