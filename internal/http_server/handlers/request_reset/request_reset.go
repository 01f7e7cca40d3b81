package requestReset

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"unsaid_feelings/internal/auth"
	sl "unsaid_feelings/internal/lib/logger/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	EmailOrPhone string `json:"emailOrPhone" validate:"required"`
}

// Response is the body shape the reset page on the frontend expects.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ResetRequester interface {
	RequestReset(ctx context.Context, emailOrPhone string) error
}

func New(
	log *slog.Logger,
	validate *validator.Validate,
	requester ResetRequester,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.requestReset.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

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
			render.JSON(w, r, Response{Message: "Email or phone required."})

			return
		}

		if err := requester.RequestReset(r.Context(), req.EmailOrPhone); err != nil {
			switch {
			case errors.Is(err, auth.ErrUserNotFound):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, Response{Message: "No user found with that email or phone."})
			case errors.Is(err, auth.ErrMailNotSent):
				log.Error("reset email not sent", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, Response{Message: "Failed to send email."})
			default:
				log.Error("failed to request reset", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, Response{Message: "Server error."})
			}

			return
		}

		render.JSON(w, r, Response{Success: true, Message: "Reset link sent to your email."})
	}
}
