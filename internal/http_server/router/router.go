package router

import (
	"log/slog"
	"net/http"

	createPost "unsaid_feelings/internal/http_server/handlers/create_post"
	deleteAccount "unsaid_feelings/internal/http_server/handlers/delete_account"
	forgotPassword "unsaid_feelings/internal/http_server/handlers/forgot_password"
	"unsaid_feelings/internal/http_server/handlers/health"
	"unsaid_feelings/internal/http_server/handlers/login"
	recipientPosts "unsaid_feelings/internal/http_server/handlers/recipient_posts"
	"unsaid_feelings/internal/http_server/handlers/register"
	requestReset "unsaid_feelings/internal/http_server/handlers/request_reset"
	resetPassword "unsaid_feelings/internal/http_server/handlers/reset_password"
	testEmail "unsaid_feelings/internal/http_server/handlers/test_email"
	userPosts "unsaid_feelings/internal/http_server/handlers/user_posts"
	"unsaid_feelings/internal/http_server/handlers/verify"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
)

type AuthService interface {
	register.UserRegistrar
	verify.UserVerifier
	login.Authenticator
	deleteAccount.AccountDeleter
	forgotPassword.PasswordForgetter
	requestReset.ResetRequester
	resetPassword.PasswordResetter
	testEmail.TestMailer
}

type PostService interface {
	createPost.PostCreator
	recipientPosts.RecipientPostsProvider
	userPosts.AuthorPostsProvider
}

type Options struct {
	AllowedOrigins []string
	// FrontendURL receives the browser after a successful email verification.
	FrontendURL string
}

func New(
	log *slog.Logger,
	authService AuthService,
	postService PostService,
	db health.Pinger,
	opts Options,
) *chi.Mux {
	validate := validator.New()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", health.New(log, db))

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", register.New(log, validate, authService))
		r.Get("/verify", verify.New(log, authService, opts.FrontendURL+"/verified-success"))
		r.Post("/login", login.New(log, validate, authService))
		r.Delete("/delete-account", deleteAccount.New(log, validate, authService))
		r.Post("/forgot-password", forgotPassword.New(log, validate, authService))
		r.Post("/request-reset", requestReset.New(log, validate, authService))
		r.Post("/reset-password/{token}", resetPassword.New(log, validate, authService))
		r.Get("/test-email", testEmail.New(log, authService))
	})

	r.Route("/api/posts", func(r chi.Router) {
		r.Post("/posts", createPost.New(log, postService))
		r.Get("/posts", recipientPosts.New(log, postService))
		r.Get("/userposts", userPosts.New(log, postService))
	})

	return r
}
