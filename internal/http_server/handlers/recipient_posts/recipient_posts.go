package recipientPosts

import (
	"context"
	"log/slog"
	"net/http"

	resp "unsaid_feelings/internal/lib/api/response"
	sl "unsaid_feelings/internal/lib/logger/sl"
	"unsaid_feelings/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	Posts []models.Post `json:"posts"`
}

type RecipientPostsProvider interface {
	PostsForRecipient(ctx context.Context, toName string) ([]models.Post, error)
}

// New lists posts addressed to the "name" query parameter in creation order.
// A missing name matches nothing, an empty one matches posts with an empty
// recipient.
func New(log *slog.Logger, provider RecipientPostsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.recipientPosts.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		query := r.URL.Query()
		if !query.Has("name") {
			render.JSON(w, r, Response{Posts: []models.Post{}})

			return
		}

		posts, err := provider.PostsForRecipient(r.Context(), query.Get("name"))
		if err != nil {
			log.Error("failed to fetch posts", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Error fetching posts"))

			return
		}

		render.JSON(w, r, Response{Posts: posts})
	}
}
