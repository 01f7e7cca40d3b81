package deleteAccount

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"unsaid_feelings/internal/auth"
	resp "unsaid_feelings/internal/lib/api/response"
	sl "unsaid_feelings/internal/lib/logger/sl"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deleterFunc func(ctx context.Context, emailOrPhone, password string) error

func (f deleterFunc) DeleteAccount(ctx context.Context, emailOrPhone, password string) error {
	return f(ctx, emailOrPhone, password)
}

func TestDeleteAccount(t *testing.T) {
	const body = `{"emailOrPhone":"+100","password":"secret"}`

	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		want     resp.Response
	}{
		{name: "deleted", body: body, wantCode: http.StatusOK, want: resp.Message("Account deleted successfully")},
		{name: "missing fields", body: `{}`, wantCode: http.StatusBadRequest, want: resp.Error("Email/Phone and password required")},
		{name: "unknown user", body: body, err: auth.ErrUserNotFound, wantCode: http.StatusNotFound, want: resp.Error("User not found")},
		{name: "wrong password", body: body, err: auth.ErrInvalidCredentials, wantCode: http.StatusUnauthorized, want: resp.Error("Incorrect password")},
		{name: "store failure", body: body, err: errors.New("boom"), wantCode: http.StatusInternalServerError, want: resp.Error("Error deleting account")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(sl.Discard(), validator.New(), deleterFunc(func(_ context.Context, id, pass string) error {
				assert.Equal(t, "+100", id)
				assert.Equal(t, "secret", pass)
				return tt.err
			}))

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/users/delete-account", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rr.Code)

			var got resp.Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}
