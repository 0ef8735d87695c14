package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, claims Claims, key string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return tok
}

func serve(header string) *httptest.ResponseRecorder {
	var seen *Claims
	h := RequireAdmin(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFrom(r.Context())
		if seen != nil {
			w.Header().Set("X-User", "ok")
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/admin/orders/1", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireAdmin(t *testing.T) {
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	admin := sign(t, Claims{UserID: 1, Role: "admin", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future}}, secret)
	customer := sign(t, Claims{UserID: 2, Role: "customer"}, secret)
	expired := sign(t, Claims{UserID: 1, Role: "admin", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: past}}, secret)
	forged := sign(t, Claims{UserID: 1, Role: "admin"}, "other-secret")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"admin token", "Bearer " + admin, http.StatusNoContent},
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"wrong role", "Bearer " + customer, http.StatusForbidden},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"bad signature", "Bearer " + forged, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(tt.header)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, "ok", rec.Header().Get("X-User"))
			}
		})
	}
}

func TestRequireAdmin_EmptySecretDeniesAll(t *testing.T) {
	tok := sign(t, Claims{Role: "admin"}, secret)
	h := RequireAdmin("")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
