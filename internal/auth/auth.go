package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type contextKey struct{}

// Service issues and verifies the HMAC-signed bearer tokens the API
// uses. With an empty secret the service is disabled and the middleware
// lets every request through, which keeps local development friction-free.
type Service struct {
	secret        []byte
	adminUser     string
	adminPassword string
	ttl           time.Duration
}

func NewService(secret, adminUser, adminPassword string, ttl time.Duration) *Service {
	return &Service{
		secret:        []byte(secret),
		adminUser:     adminUser,
		adminPassword: adminPassword,
		ttl:           ttl,
	}
}

func (s *Service) Enabled() bool {
	return len(s.secret) > 0
}

// Login checks the configured admin credentials and returns a signed token.
func (s *Service) Login(username, password string) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("authentication is not configured: %w", ErrInvalidCredentials)
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1

	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return token, nil
}

// Verify parses a token and returns the subject it was issued for.
func (s *Service) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}

		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// Middleware rejects requests without a valid bearer token and stashes the
// authenticated user in the request context.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		user, err := s.Verify(tokenString)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, user)))
	})
}

// UserFromContext returns the authenticated user, or an empty string when
// authentication is disabled.
func UserFromContext(ctx context.Context) string {
	user, _ := ctx.Value(contextKey{}).(string)
	return user
}
