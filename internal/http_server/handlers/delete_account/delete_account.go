package deleteAccount

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"unsaid_feelings/internal/auth"
	resp "unsaid_feelings/internal/lib/api/response"
	sl "unsaid_feelings/internal/lib/logger/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	EmailOrPhone string `json:"emailOrPhone" validate:"required"`
	Pass         string `json:"password" validate:"required"`
}

type AccountDeleter interface {
	DeleteAccount(ctx context.Context, emailOrPhone, password string) error
}

func New(
	log *slog.Logger,
	validate *validator.Validate,
	deleter AccountDeleter,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.deleteAccount.New"

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
			log.Info("Invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Email/Phone and password required"))

			return
		}

		if err := deleter.DeleteAccount(r.Context(), req.EmailOrPhone, req.Pass); err != nil {
			switch {
			case errors.Is(err, auth.ErrUserNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("User not found"))
			case errors.Is(err, auth.ErrInvalidCredentials):
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Error("Incorrect password"))
			default:
				log.Error("failed to delete account", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp.Error("Error deleting account"))
			}

			return
		}

		log.Info("account deleted")

		render.JSON(w, r, resp.Message("Account deleted successfully"))
	}
}
