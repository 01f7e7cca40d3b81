package createPost

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	resp "unsaid_feelings/internal/lib/api/response"
	sl "unsaid_feelings/internal/lib/logger/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

// Request accepts userId as a JSON number or a numeric string. Content is
// stored as given.
type Request struct {
	ToName  string          `json:"to_name"`
	Content string          `json:"content"`
	UserID  json.RawMessage `json:"userId"`
}

type Response struct {
	resp.Response
	PostID int64 `json:"post_id"`
}

type PostCreator interface {
	CreatePost(ctx context.Context, userID int64, toName, content string) (int64, error)
}

func New(
	log *slog.Logger,
	creator PostCreator,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.createPost.New"

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

		userID, err := parseUserID(req.UserID)
		if err != nil {
			log.Error("invalid user id", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Error creating post"))

			return
		}

		postID, err := creator.CreatePost(r.Context(), userID, req.ToName, req.Content)
		if err != nil {
			log.Error("failed to create post", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Error creating post"))

			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response: resp.Message("Post created successfully!"),
			PostID:   postID,
		})
	}
}

func parseUserID(raw json.RawMessage) (int64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strconv.ParseInt(s, 10, 64)
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}

	return n.Int64()
}
