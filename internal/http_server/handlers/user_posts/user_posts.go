package userPosts

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	resp "unsaid_feelings/internal/lib/api/response"
	sl "unsaid_feelings/internal/lib/logger/sl"
	"unsaid_feelings/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	Posts []models.Post `json:"posts"`
}

type AuthorPostsProvider interface {
	PostsForAuthor(ctx context.Context, userID int64) ([]models.Post, error)
}

// New lists posts written by the "userId" query parameter in creation order.
// An id that is not a number matches nothing.
func New(log *slog.Logger, provider AuthorPostsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.userPosts.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
		if err != nil {
			log.Debug("non-numeric user id", slog.String("userId", r.URL.Query().Get("userId")))

			render.JSON(w, r, Response{Posts: []models.Post{}})

			return
		}

		posts, err := provider.PostsForAuthor(r.Context(), userID)
		if err != nil {
			log.Error("failed to fetch user posts", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Error fetching user posts"))

			return
		}

		render.JSON(w, r, Response{Posts: posts})
	}
}
