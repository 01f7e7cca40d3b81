package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	sl "unsaid_feelings/internal/lib/logger/sl"

	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	h := New(sl.Discard(), pingerFunc(func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rr.Body.String())
}

func TestHealth_DatabaseDown(t *testing.T) {
	h := New(sl.Discard(), pingerFunc(func(context.Context) error {
		return errors.New("connection refused")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"status":"Error","error":"database unavailable"}`, rr.Body.String())
}
