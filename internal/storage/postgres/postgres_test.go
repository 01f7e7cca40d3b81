package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"unsaid_feelings/internal/config"
	"unsaid_feelings/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepo, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})

	return NewWithDB(mock), mock
}

func TestSaveUser_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("a@x.com", "555", "ann", "hash").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := repo.SaveUser(context.Background(), "a@x.com", "555", "ann", []byte("hash"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestSaveUser_UniqueViolation(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("a@x.com", "555", "ann", "hash").
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	_, err := repo.SaveUser(context.Background(), "a@x.com", "555", "ann", []byte("hash"))
	assert.ErrorIs(t, err, storage.ErrUserExists)
}

func TestSaveUser_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("a@x.com", "555", "ann", "hash").
		WillReturnError(errors.New("db down"))

	_, err := repo.SaveUser(context.Background(), "a@x.com", "555", "ann", []byte("hash"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrUserExists)
	assert.Contains(t, err.Error(), "db down")
}

func TestUserByEmailOrPhone_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := pgxmock.NewRows([]string{"id", "email", "phone", "username", "password_hash", "verified"}).
		AddRow(int64(3), "a@x.com", "555", "ann", "hash", true)

	mock.ExpectQuery(`SELECT id, email, phone, username, password_hash, verified`).
		WithArgs("555", "555").
		WillReturnRows(rows)

	u, err := repo.UserByEmailOrPhone(context.Background(), "555", "555")
	require.NoError(t, err)

	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, "555", u.Phone)
	assert.Equal(t, []byte("hash"), u.PassHash)
	assert.True(t, u.IsVerified)
}

func TestUserByEmailOrPhone_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT id, email, phone, username, password_hash, verified`).
		WithArgs("ghost@x.com", "000").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.UserByEmailOrPhone(context.Background(), "ghost@x.com", "000")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestSetEmailVerified_RowsAffected(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`UPDATE users SET verified = TRUE`).
		WithArgs("a@x.com").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE users SET verified = TRUE`).
		WithArgs("a@x.com").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	n, err := repo.SetEmailVerified(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.SetEmailVerified(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestUpdatePassword(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`UPDATE users SET password_hash`).
		WithArgs("new-hash", int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.NoError(t, repo.UpdatePassword(context.Background(), 3, []byte("new-hash")))
}

func TestDeleteUser_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`DELETE FROM users`).
		WithArgs(int64(3)).
		WillReturnError(errors.New("locked"))

	err := repo.DeleteUser(context.Background(), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")
}

func TestSavePost(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(int64(3), "bob", "hello").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))

	id, err := repo.SavePost(context.Background(), 3, "bob", "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
}

func TestPostsByRecipient(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := pgxmock.NewRows([]string{"id", "user_id", "to_name", "content", "created_at"}).
		AddRow(int64(1), int64(3), "bob", "first", created).
		AddRow(int64(2), int64(4), "bob", "second", created)

	mock.ExpectQuery(`SELECT id, user_id, to_name, content, created_at`).
		WithArgs("bob").
		WillReturnRows(rows)

	posts, err := repo.PostsByRecipient(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "first", posts[0].Content)
	assert.Equal(t, int64(4), posts[1].UserID)
	assert.Equal(t, created, posts[1].CreatedAt)
}

func TestPostsByAuthor_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT id, user_id, to_name, content, created_at`).
		WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "to_name", "content", "created_at"}))

	posts, err := repo.PostsByAuthor(context.Background(), 9)
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestPostsByAuthor_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT id, user_id, to_name, content, created_at`).
		WithArgs(int64(9)).
		WillReturnError(errors.New("timeout"))

	_, err := repo.PostsByAuthor(context.Background(), 9)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestPing(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectPing()

	assert.NoError(t, repo.Ping(context.Background()))
}

func TestDSN(t *testing.T) {
	cfg := &config.Config{Postgres: config.Postgres{
		Host:     "db",
		Port:     5433,
		User:     "app",
		Password: "pw",
		DBName:   "feelings",
		SSLMode:  "disable",
	}}

	assert.Equal(t, "host=db port=5433 user=app password=pw dbname=feelings sslmode=disable", DSN(cfg))
}
