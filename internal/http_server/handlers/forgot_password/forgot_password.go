package forgotPassword

import (
	"context"
	"log/slog"
	"net/http"

	resp "unsaid_feelings/internal/lib/api/response"
	sl "unsaid_feelings/internal/lib/logger/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Email string `json:"email" validate:"required"`
}

type PasswordForgetter interface {
	ForgotPassword(ctx context.Context, email string) error
}

func New(
	log *slog.Logger,
	validate *validator.Validate,
	forgetter PasswordForgetter,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.forgotPassword.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("Failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Email required"))

			return
		}

		if err := forgetter.ForgotPassword(r.Context(), req.Email); err != nil {
			log.Error("failed to issue reset link", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Error processing request"))

			return
		}

		render.JSON(w, r, resp.Message("Reset link sent to email"))
	}
}
