package testEmail

import (
	"context"
	"log/slog"
	"net/http"

	resp "unsaid_feelings/internal/lib/api/response"
	"unsaid_feelings/internal/mail"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	Detail string `json:"detail,omitempty"`
}

type TestMailer interface {
	SendTestEmail(ctx context.Context) mail.Result
}

func New(log *slog.Logger, mailer TestMailer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.testEmail.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		res := mailer.SendTestEmail(r.Context())
		if !res.Success {
			detail := "unknown error"
			if res.Err != nil {
				detail = res.Err.Error()
			}

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, Response{Response: resp.Error("Failed to send test email"), Detail: detail})

			return
		}

		log.Info("test email sent")

		render.JSON(w, r, resp.Message("Test email sent!"))
	}
}
