package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"unsaid_feelings/internal/config"
	"unsaid_feelings/internal/models"
	"unsaid_feelings/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// DB is the subset of *pgxpool.Pool used by the repository.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

type PostgresRepo struct {
	pool DB
}

func New(ctx context.Context, cfg *config.Config) (*PostgresRepo, error) {
	const op = "storage.postgres.New"

	poolConfig, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse config: %w", op, err)
	}

	poolConfig.MaxConns = cfg.Postgres.MaxConns
	poolConfig.MinConns = cfg.Postgres.MinConns
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create pool: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	return &PostgresRepo{pool: pool}, nil
}

func NewWithDB(db DB) *PostgresRepo {
	return &PostgresRepo{pool: db}
}

func (r *PostgresRepo) SaveUser(ctx context.Context, email, phone, username string, passHash []byte) (int64, error) {
	const op = "storage.postgres.SaveUser"

	query := `
		INSERT INTO users (email, phone, username, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`

	var id int64

	err := r.pool.QueryRow(ctx, query, email, phone, username, string(passHash)).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}

		return 0, fmt.Errorf("%s: failed to save user: %w", op, err)
	}

	return id, nil
}

// UserByEmailOrPhone returns the first user whose email equals email or whose phone equals phone.
func (r *PostgresRepo) UserByEmailOrPhone(ctx context.Context, email, phone string) (models.User, error) {
	const op = "storage.postgres.UserByEmailOrPhone"

	query := `
		SELECT id, email, phone, username, password_hash, verified
		FROM users
		WHERE email = $1 OR phone = $2
		ORDER BY id
		LIMIT 1;
	`

	var (
		u        models.User
		passHash string
	)

	err := r.pool.QueryRow(ctx, query, email, phone).Scan(
		&u.ID,
		&u.Email,
		&u.Phone,
		&u.Username,
		&passHash,
		&u.IsVerified,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	u.PassHash = []byte(passHash)

	return u, nil
}

// SetEmailVerified marks the unverified user with the given email as verified
// and returns the number of rows changed.
func (r *PostgresRepo) SetEmailVerified(ctx context.Context, email string) (int64, error) {
	const op = "storage.postgres.SetEmailVerified"

	query := `UPDATE users SET verified = TRUE WHERE email = $1 AND verified = FALSE`

	tag, err := r.pool.Exec(ctx, query, email)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected(), nil
}

func (r *PostgresRepo) UpdatePassword(ctx context.Context, userID int64, passHash []byte) error {
	const op = "storage.postgres.UpdatePassword"

	query := `UPDATE users SET password_hash = $1 WHERE id = $2`

	if _, err := r.pool.Exec(ctx, query, string(passHash), userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) DeleteUser(ctx context.Context, userID int64) error {
	const op = "storage.postgres.DeleteUser"

	query := `DELETE FROM users WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) SavePost(ctx context.Context, userID int64, toName, content string) (int64, error) {
	const op = "storage.postgres.SavePost"

	query := `
		INSERT INTO posts (user_id, to_name, content)
		VALUES ($1, $2, $3)
		RETURNING id;
	`

	var id int64

	if err := r.pool.QueryRow(ctx, query, userID, toName, content).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *PostgresRepo) PostsByRecipient(ctx context.Context, toName string) ([]models.Post, error) {
	const op = "storage.postgres.PostsByRecipient"

	query := `
		SELECT id, user_id, to_name, content, created_at
		FROM posts
		WHERE to_name = $1
		ORDER BY id;
	`

	posts, err := r.queryPosts(ctx, query, toName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return posts, nil
}

func (r *PostgresRepo) PostsByAuthor(ctx context.Context, userID int64) ([]models.Post, error) {
	const op = "storage.postgres.PostsByAuthor"

	query := `
		SELECT id, user_id, to_name, content, created_at
		FROM posts
		WHERE user_id = $1
		ORDER BY id;
	`

	posts, err := r.queryPosts(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return posts, nil
}

func (r *PostgresRepo) queryPosts(ctx context.Context, query string, arg any) ([]models.Post, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]models.Post, 0)

	for rows.Next() {
		var p models.Post

		if err := rows.Scan(&p.ID, &p.UserID, &p.ToName, &p.Content, &p.CreatedAt); err != nil {
			return nil, err
		}

		posts = append(posts, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return posts, nil
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PostgresRepo) Close() {
	r.pool.Close()
}

// DSN builds a keyword/value connection string from the postgres section.
func DSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)
}
