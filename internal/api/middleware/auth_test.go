package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/craftfolio/server/internal/api/middleware"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{
		"userId": "11111111-1111-1111-1111-111111111111",
		"exp":    jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func runAuth(t *testing.T, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		id, ok := middleware.UserID(r.Context())
		require.True(t, ok)
		require.NotEmpty(t, id)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}

	rr := httptest.NewRecorder()
	middleware.Auth(testSecret)(next).ServeHTTP(rr, req)
	return rr, called
}

func TestAuthMissingHeader(t *testing.T) {
	rr, called := runAuth(t, "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.False(t, called)
	require.JSONEq(t, `{"success":false,"message":"Authorization header is required"}`, rr.Body.String())
}

func TestAuthMalformedHeader(t *testing.T) {
	rr, called := runAuth(t, "Token abc")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.False(t, called)
}

func TestAuthInvalidToken(t *testing.T) {
	rr, called := runAuth(t, "Bearer not-a-token")
	require.Equal(t, http.StatusForbidden, rr.Code)
	require.False(t, called)
}

func TestAuthWrongSecret(t *testing.T) {
	token := signTestToken(t, "another-secret", time.Now().Add(time.Hour))
	rr, called := runAuth(t, "Bearer "+token)
	require.Equal(t, http.StatusForbidden, rr.Code)
	require.False(t, called)
}

func TestAuthExpiredToken(t *testing.T) {
	token := signTestToken(t, testSecret, time.Now().Add(-time.Hour))
	rr, called := runAuth(t, "Bearer "+token)
	require.Equal(t, http.StatusForbidden, rr.Code)
	require.False(t, called)
}

func TestAuthValidToken(t *testing.T) {
	token := signTestToken(t, testSecret, time.Now().Add(time.Hour))
	rr, called := runAuth(t, "Bearer "+token)
	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, called)
}
