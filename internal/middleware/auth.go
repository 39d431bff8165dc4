package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"bloodfinder-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	userRoleKey contextKey = "userRole"
)

// TokenTTL is how long issued bearer tokens stay valid.
const TokenTTL = 7 * 24 * time.Hour

// IssueToken signs a bearer token carrying the user id and role.
func IssueToken(secret, userID string, role models.Role) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"role":   string(role),
		"exp":    time.Now().Add(TokenTTL).Unix(),
		"iat":    time.Now().Unix(),
	})
	return token.SignedString([]byte(secret))
}

// JWTAuth verifies the Authorization bearer token and stashes the subject
// id and role claim in the request context. Missing token → 401, invalid
// or expired → 403. The role claim is trusted as signed; routes that need
// the live account state re-fetch the user themselves.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "Access token required")
				return
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				writeAuthError(w, http.StatusForbidden, "Invalid token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				writeAuthError(w, http.StatusForbidden, "Invalid token")
				return
			}
			userID, _ := claims["userId"].(string)
			role, _ := claims["role"].(string)
			if userID == "" {
				writeAuthError(w, http.StatusForbidden, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, userRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route group on the token's role claim.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetUserRole(r.Context()) != string(role) {
				writeAuthError(w, http.StatusForbidden, string(role)+" access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserID returns the authenticated user's id hex, or "" outside JWTAuth.
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// GetUserRole returns the role claim carried by the token.
func GetUserRole(ctx context.Context) string {
	role, _ := ctx.Value(userRoleKey).(string)
	return role
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
}
