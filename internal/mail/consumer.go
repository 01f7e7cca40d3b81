package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	sl "unsaid_feelings/internal/lib/logger/sl"
	"unsaid_feelings/internal/models"
)

// QueueHandler decodes a queued message and delivers it through sender.
// A returned error means the delivery must not be acknowledged.
func QueueHandler(log *slog.Logger, sender Sender) func(ctx context.Context, body []byte) error {
	return func(ctx context.Context, body []byte) error {
		const op = "mail.QueueHandler"

		var msg models.Message
		if err := json.Unmarshal(body, &msg); err != nil {
			log.Error("failed to unmarshal message", slog.String("op", op), sl.Err(err))
			return fmt.Errorf("%s: %w", op, err)
		}

		res := sender.Send(ctx, msg.Email, msg.Subject, msg.HTML)
		if !res.Success {
			log.Error("failed to send message",
				slog.String("op", op),
				slog.String("id", msg.ID),
				sl.Err(res.Err),
			)
			return fmt.Errorf("%s: %w", op, res.Err)
		}

		log.Info("message sent successfully", slog.String("id", msg.ID))

		return nil
	}
}
