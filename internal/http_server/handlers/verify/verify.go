package verify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"unsaid_feelings/internal/auth"
	sl "unsaid_feelings/internal/lib/logger/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type UserVerifier interface {
	VerifyUser(ctx context.Context, token string) error
}

// New answers with plain text errors and redirects to successURL once the
// email is verified, since the link is opened directly from the mailbox.
func New(
	log *slog.Logger,
	verifier UserVerifier,
	successURL string,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.verify.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		token := r.URL.Query().Get("token")
		if token == "" {
			log.Warn("missing verification token")

			render.Status(r, http.StatusBadRequest)
			render.PlainText(w, r, "Verification token missing")

			return
		}

		if err := verifier.VerifyUser(r.Context(), token); err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidToken):
				log.Warn("invalid verification token", sl.Err(err))

				render.Status(r, http.StatusBadRequest)
				render.PlainText(w, r, "Invalid or expired token")
			case errors.Is(err, auth.ErrUserNotFound):
				log.Warn("user not found or already verified")

				render.Status(r, http.StatusNotFound)
				render.PlainText(w, r, "User not found or already verified")
			default:
				log.Error("failed to mark user as verified", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.PlainText(w, r, "Database error during verification")
			}

			return
		}

		log.Info("email verified successfully")

		http.Redirect(w, r, successURL, http.StatusFound)
	}
}
