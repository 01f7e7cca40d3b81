package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	resp "unsaid_feelings/internal/lib/api/response"
	sl "unsaid_feelings/internal/lib/logger/sl"

	"github.com/go-chi/render"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func New(log *slog.Logger, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.health.New"

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			log.Error("database unreachable", slog.String("op", op), sl.Err(err))

			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, resp.Error("database unavailable"))

			return
		}

		render.JSON(w, r, resp.OK())
	}
}
