package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hvaldez/garage/internal/auth"
)

func TestService_LoginAndVerify(t *testing.T) {
	svc := auth.NewService("test-secret", "admin", "hunter2", time.Hour)

	token, err := svc.Login("admin", "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", user)
}

func TestService_Login_BadCredentials(t *testing.T) {
	svc := auth.NewService("test-secret", "admin", "hunter2", time.Hour)

	tests := map[string]struct {
		username string
		password string
	}{
		"wrong password": {username: "admin", password: "letmein"},
		"wrong user":     {username: "root", password: "hunter2"},
		"both empty":     {username: "", password: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Login(tt.username, tt.password)
			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		})
	}
}

func TestService_Verify_Expired(t *testing.T) {
	svc := auth.NewService("test-secret", "admin", "hunter2", -time.Minute)

	token, err := svc.Login("admin", "hunter2")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestService_Verify_WrongSecret(t *testing.T) {
	issuer := auth.NewService("secret-a", "admin", "hunter2", time.Hour)
	verifier := auth.NewService("secret-b", "admin", "hunter2", time.Hour)

	token, err := issuer.Login("admin", "hunter2")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	svc := auth.NewService("test-secret", "admin", "hunter2", time.Hour)

	token, err := svc.Login("admin", "hunter2")
	require.NoError(t, err)

	var seenUser string

	handler := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = auth.UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := map[string]struct {
		header     string
		wantStatus int
		wantUser   string
	}{
		"valid token":    {header: "Bearer " + token, wantStatus: http.StatusNoContent, wantUser: "admin"},
		"missing header": {header: "", wantStatus: http.StatusUnauthorized},
		"not bearer":     {header: "Basic YWRtaW4=", wantStatus: http.StatusUnauthorized},
		"garbage token":  {header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			seenUser = ""

			req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUser, seenUser)
		})
	}
}

func TestMiddleware_DisabledWithoutSecret(t *testing.T) {
	svc := auth.NewService("", "", "", time.Hour)
	require.False(t, svc.Enabled())

	handler := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
