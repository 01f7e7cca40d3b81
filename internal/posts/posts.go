package posts

import (
	"context"
	"fmt"
	"log/slog"

	sl "unsaid_feelings/internal/lib/logger/sl"
	"unsaid_feelings/internal/models"
)

type PostSaver interface {
	SavePost(ctx context.Context, userID int64, toName, content string) (int64, error)
}

type PostProvider interface {
	PostsByRecipient(ctx context.Context, toName string) ([]models.Post, error)
	PostsByAuthor(ctx context.Context, userID int64) ([]models.Post, error)
}

type Posts struct {
	log      *slog.Logger
	saver    PostSaver
	provider PostProvider
}

func New(log *slog.Logger, saver PostSaver, provider PostProvider) *Posts {
	return &Posts{
		log:      log,
		saver:    saver,
		provider: provider,
	}
}

// CreatePost stores a post as given, without checking ownership or content.
func (p *Posts) CreatePost(ctx context.Context, userID int64, toName, content string) (int64, error) {
	const op = "posts.CreatePost"

	log := p.log.With(slog.String("op", op))

	id, err := p.saver.SavePost(ctx, userID, toName, content)
	if err != nil {
		log.Error("failed to save post", sl.Err(err))

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("post created", slog.Int64("id", id), slog.Int64("uid", userID))

	return id, nil
}

func (p *Posts) PostsForRecipient(ctx context.Context, toName string) ([]models.Post, error) {
	const op = "posts.PostsForRecipient"

	posts, err := p.provider.PostsByRecipient(ctx, toName)
	if err != nil {
		p.log.Error("failed to fetch posts", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return nonNil(posts), nil
}

func (p *Posts) PostsForAuthor(ctx context.Context, userID int64) ([]models.Post, error) {
	const op = "posts.PostsForAuthor"

	posts, err := p.provider.PostsByAuthor(ctx, userID)
	if err != nil {
		p.log.Error("failed to fetch posts", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return nonNil(posts), nil
}

// nonNil keeps empty results encoding as [] rather than null.
func nonNil(posts []models.Post) []models.Post {
	if posts == nil {
		return []models.Post{}
	}

	return posts
}
