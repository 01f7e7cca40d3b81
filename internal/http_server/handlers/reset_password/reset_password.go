package resetPassword

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"unsaid_feelings/internal/auth"
	sl "unsaid_feelings/internal/lib/logger/sl"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Pass string `json:"password" validate:"required"`
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type PasswordResetter interface {
	ResetPassword(ctx context.Context, token, password string) error
}

// New expects the reset token in the "token" route parameter.
func New(
	log *slog.Logger,
	validate *validator.Validate,
	resetter PasswordResetter,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.resetPassword.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		token := chi.URLParam(r, "token")

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("Failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, Response{Message: "Failed to decode request"})

			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, Response{Message: "Password required."})

			return
		}

		if err := resetter.ResetPassword(r.Context(), token, req.Pass); err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, Response{Message: "Invalid or expired token."})

				return
			}

			log.Error("failed to reset password", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, Response{Message: "Database error."})

			return
		}

		render.JSON(w, r, Response{Success: true, Message: "Password updated."})
	}
}
