package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"keepsake-backend/internal/config"
)

const UserIDKey = "user_id"

type authError struct {
	code    string
	message string
}

// parseBearer validates a Supabase access token (HS256) and returns its sub.
func parseBearer(header, secret string) (uuid.UUID, *authError) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return uuid.Nil, &authError{"invalid authorization header format", "expected: Bearer <token>"}
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return uuid.Nil, &authError{"empty token", ""}
	}

	// Some clients URL encode the token.
	if decoded, err := url.QueryUnescape(tokenString); err == nil {
		tokenString = decoded
	}

	if len(strings.Split(tokenString, ".")) != 3 {
		return uuid.Nil, &authError{"invalid token format", "JWT token must have 3 parts separated by dots"}
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		if secret == "" {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		var message string
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			message = "token has expired"
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
			message = "token signature is invalid - check JWT secret"
		case errors.Is(err, jwt.ErrTokenMalformed):
			message = "token is malformed - ensure you're using a valid Supabase JWT token"
		default:
			message = err.Error()
		}
		return uuid.Nil, &authError{"invalid token", message}
	}
	if !token.Valid {
		return uuid.Nil, &authError{"invalid token", ""}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, &authError{"invalid token claims", ""}
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, &authError{"missing user id in token", ""}
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, &authError{"invalid user id in token", "sub claim must be a uuid"}
	}
	return userID, nil
}

// AuthMiddleware rejects requests without a valid creator token.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		userID, authErr := parseBearer(authHeader, cfg.SupabaseJWTSecret)
		if authErr != nil {
			body := gin.H{"error": authErr.code}
			if authErr.message != "" {
				body["message"] = authErr.message
			}
			c.JSON(http.StatusUnauthorized, body)
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID.String())
		c.Next()
	}
}

// OptionalAuth records the creator when a valid token is present and lets
// anonymous visitors through otherwise.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			if userID, authErr := parseBearer(header, cfg.SupabaseJWTSecret); authErr == nil {
				c.Set(UserIDKey, userID.String())
			}
		}
		c.Next()
	}
}

// UserID returns the authenticated creator, if any.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(UserIDKey)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
