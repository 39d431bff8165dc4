package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bloodfinder-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func protectedHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetUserID(r.Context()) + ":" + GetUserRole(r.Context())))
	})
}

func TestJWTAuthValidToken(t *testing.T) {
	token, err := IssueToken(testSecret, "abc123", models.RoleDonor)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	JWTAuth(testSecret)(protectedHandler(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc123:donor", rec.Body.String())
}

func TestJWTAuthMissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	JWTAuth(testSecret)(protectedHandler(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access token required")
}

func TestJWTAuthBadSignature(t *testing.T) {
	token, err := IssueToken("some-other-secret", "abc123", models.RoleDonor)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	JWTAuth(testSecret)(protectedHandler(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "abc123",
		"role":   "donor",
		"exp":    time.Now().Add(-time.Hour).Unix(),
		"iat":    time.Now().Add(-2 * time.Hour).Unix(),
	})
	tokenString, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rec := httptest.NewRecorder()

	JWTAuth(testSecret)(protectedHandler(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	donorToken, err := IssueToken(testSecret, "abc123", models.RoleDonor)
	require.NoError(t, err)

	stack := JWTAuth(testSecret)(RequireRole(models.RoleAdmin)(handler))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+donorToken)
	rec := httptest.NewRecorder()
	stack.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin access required")

	adminToken, err := IssueToken(testSecret, "abc123", models.RoleAdmin)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	stack.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
