package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"unsaid_feelings/internal/lib/jwt"
	sl "unsaid_feelings/internal/lib/logger/sl"
	"unsaid_feelings/internal/mail"
	"unsaid_feelings/internal/models"
	"unsaid_feelings/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrMailNotSent        = errors.New("failed to send email")
)

type Auth struct {
	log         *slog.Logger
	usrSaver    UserSaver
	usrProvider UserProvider
	mailer      Mailer
	dispatcher  Dispatcher
	cfg         Config
}

type Config struct {
	TokenSecret          string
	VerificationTokenTTL time.Duration
	SessionTokenTTL      time.Duration
	ResetTokenTTL        time.Duration
	// PublicURL is where this API is reachable, used in verification links.
	PublicURL string
	// FrontendURL hosts the reset-password pages.
	FrontendURL string
	// MailAccount receives the diagnostic test email.
	MailAccount string
}

type UserSaver interface {
	SaveUser(ctx context.Context, email, phone, username string, passHash []byte) (uid int64, err error)
	SetEmailVerified(ctx context.Context, email string) (int64, error)
	UpdatePassword(ctx context.Context, uid int64, passHash []byte) error
	DeleteUser(ctx context.Context, uid int64) error
}

type UserProvider interface {
	UserByEmailOrPhone(ctx context.Context, email, phone string) (models.User, error)
}

// Mailer sends synchronously, the caller decides what a failure means.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) mail.Result
}

// Dispatcher sends without reporting the outcome.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg models.Message)
}

type LoginResult struct {
	Token string
	User  models.PublicUser
}

func New(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	mailer Mailer,
	dispatcher Dispatcher,
	cfg Config,
) *Auth {
	return &Auth{
		log:         log,
		usrSaver:    userSaver,
		usrProvider: userProvider,
		mailer:      mailer,
		dispatcher:  dispatcher,
		cfg:         cfg,
	}
}

func (a *Auth) RegisterNewUser(
	ctx context.Context,
	email string,
	phone string,
	username string,
	pass string,
) (int64, error) {
	const op = "auth.RegisterNewUser"

	log := a.log.With(
		slog.String("op", op),
	)

	log.Info("Registering new user")

	_, err := a.usrProvider.UserByEmailOrPhone(ctx, email, phone)
	switch {
	case err == nil:
		log.Warn("User already exists")

		return 0, fmt.Errorf("%s: %w", op, ErrUserExists)
	case !errors.Is(err, storage.ErrUserNotFound):
		log.Error("failed to look up user", sl.Err(err))

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := a.usrSaver.SaveUser(ctx, email, phone, username, passHash)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("User already exists")

			return 0, fmt.Errorf("%s: %w", op, ErrUserExists)
		}

		log.Error("Failed to save user", sl.Err(err))

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("User registered", slog.Int64("uid", id))

	a.sendVerificationEmail(ctx, log, email, username)

	return id, nil
}

// sendVerificationEmail is best effort: failures are logged, never returned.
func (a *Auth) sendVerificationEmail(ctx context.Context, log *slog.Logger, email, username string) {
	token, err := jwt.NewToken(email, jwt.PurposeEmailVerification, a.cfg.VerificationTokenTTL, a.cfg.TokenSecret)
	if err != nil {
		log.Error("failed to generate verification token", sl.Err(err))
		return
	}

	link := fmt.Sprintf("%s/api/users/verify?token=%s", a.cfg.PublicURL, token)

	body, err := mail.VerificationBody(username, link)
	if err != nil {
		log.Error("failed to render verification email", sl.Err(err))
		return
	}

	a.dispatcher.Dispatch(ctx, models.Message{
		Email:   email,
		Subject: mail.SubjectVerify,
		HTML:    body,
	})
}

// VerifyUser flips the verified flag of the token's email. A user that is
// missing or already verified yields ErrUserNotFound, so a repeated call with
// the same token fails.
func (a *Auth) VerifyUser(ctx context.Context, verificationToken string) error {
	const op = "auth.VerifyUser"

	log := a.log.With(
		slog.String("op", op),
	)

	email, err := jwt.ParseToken(verificationToken, jwt.PurposeEmailVerification, a.cfg.TokenSecret)
	if err != nil {
		log.Warn("invalid verification token", sl.Err(err))

		return fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	updated, err := a.usrSaver.SetEmailVerified(ctx, email)
	if err != nil {
		log.Error("failed to update verification status", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	if updated == 0 {
		log.Warn("user not found or already verified")

		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}

	log.Info("email verified")

	return nil
}

// Login checks the credentials and issues a session token.
func (a *Auth) Login(ctx context.Context, emailOrPhone, password string) (LoginResult, error) {
	const op = "auth.Login"

	log := a.log.With(slog.String("op", op))

	user, err := a.authenticate(ctx, log, emailOrPhone, password)
	if err != nil {
		return LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}

	token, err := jwt.NewToken(jwt.UserSubject(user.ID), jwt.PurposeSession, a.cfg.SessionTokenTTL, a.cfg.TokenSecret)
	if err != nil {
		log.Error("failed to generate session token", sl.Err(err))

		return LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in successfully", slog.Int64("uid", user.ID))

	return LoginResult{
		Token: token,
		User:  user.Public(),
	}, nil
}

// DeleteAccount removes the account after re-checking the password. The
// goodbye email does not affect the result.
func (a *Auth) DeleteAccount(ctx context.Context, emailOrPhone, password string) error {
	const op = "auth.DeleteAccount"

	log := a.log.With(slog.String("op", op))

	user, err := a.authenticate(ctx, log, emailOrPhone, password)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := a.usrSaver.DeleteUser(ctx, user.ID); err != nil {
		log.Error("failed to delete user", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("account deleted", slog.Int64("uid", user.ID))

	body, err := mail.AccountDeletedBody(user.Username)
	if err != nil {
		log.Error("failed to render account deleted email", sl.Err(err))

		return nil
	}

	a.dispatcher.Dispatch(ctx, models.Message{
		Email:   user.Email,
		Subject: mail.SubjectAccountDeleted,
		HTML:    body,
	})

	return nil
}

// ForgotPassword mails a reset link to any address without checking that an
// account exists.
func (a *Auth) ForgotPassword(ctx context.Context, email string) error {
	const op = "auth.ForgotPassword"

	log := a.log.With(slog.String("op", op))

	token, err := jwt.NewToken(email, jwt.PurposePasswordReset, a.cfg.ResetTokenTTL, a.cfg.TokenSecret)
	if err != nil {
		log.Error("failed to generate reset token", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", a.cfg.FrontendURL, token)

	body, err := mail.ForgotPasswordBody(link)
	if err != nil {
		log.Error("failed to render reset email", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	a.dispatcher.Dispatch(ctx, models.Message{
		Email:   email,
		Subject: mail.SubjectForgotPassword,
		HTML:    body,
	})

	return nil
}

// RequestReset mails a reset link for an existing account and reports
// whether the email went out.
func (a *Auth) RequestReset(ctx context.Context, emailOrPhone string) error {
	const op = "auth.RequestReset"

	log := a.log.With(slog.String("op", op))

	user, err := a.usrProvider.UserByEmailOrPhone(ctx, emailOrPhone, emailOrPhone)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found")

			return fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		log.Error("failed to get user", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	token, err := jwt.NewToken(jwt.UserSubject(user.ID), jwt.PurposePasswordReset, a.cfg.ResetTokenTTL, a.cfg.TokenSecret)
	if err != nil {
		log.Error("failed to generate reset token", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	link := fmt.Sprintf("%s/reset-password/%s", a.cfg.FrontendURL, token)

	body, err := mail.RequestResetBody(link)
	if err != nil {
		log.Error("failed to render reset email", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	res := a.mailer.Send(ctx, user.Email, mail.SubjectRequestReset, body)
	if !res.Success {
		log.Error("failed to send reset email", sl.Err(res.Err))

		return fmt.Errorf("%s: %w: %w", op, ErrMailNotSent, res.Err)
	}

	log.Info("reset link sent", slog.Int64("uid", user.ID))

	return nil
}

// ResetPassword stores a new password for the token's user id. The number of
// updated rows is not checked.
func (a *Auth) ResetPassword(ctx context.Context, resetToken, password string) error {
	const op = "auth.ResetPassword"

	log := a.log.With(slog.String("op", op))

	subject, err := jwt.ParseToken(resetToken, jwt.PurposePasswordReset, a.cfg.TokenSecret)
	if err != nil {
		log.Warn("invalid reset token", sl.Err(err))

		return fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	// forgot-password tokens carry an email and match no id.
	uid, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		uid = 0
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := a.usrSaver.UpdatePassword(ctx, uid, passHash); err != nil {
		log.Error("failed to update password", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("password updated", slog.Int64("uid", uid))

	return nil
}

// SendTestEmail sends a diagnostic message to the configured mail account.
func (a *Auth) SendTestEmail(ctx context.Context) mail.Result {
	const op = "auth.SendTestEmail"

	body, err := mail.TestBody()
	if err != nil {
		return mail.Result{Err: fmt.Errorf("%s: %w", op, err)}
	}

	res := a.mailer.Send(ctx, a.cfg.MailAccount, mail.SubjectTest, body)
	if !res.Success {
		a.log.Error("test email failed", slog.String("op", op), sl.Err(res.Err))
	}

	return res
}

func (a *Auth) authenticate(ctx context.Context, log *slog.Logger, emailOrPhone, password string) (models.User, error) {
	identifier := NormalizeIdentifier(emailOrPhone)

	user, err := a.usrProvider.UserByEmailOrPhone(ctx, identifier, identifier)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found")

			return models.User{}, ErrUserNotFound
		}

		log.Error("failed to get user", sl.Err(err))

		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))

		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}

func NormalizeIdentifier(emailOrPhone string) string {
	return strings.ToLower(strings.TrimSpace(emailOrPhone))
}
