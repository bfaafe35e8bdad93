package middleware

import (
	"errors"
	"net/http"
	"strings"

	"bookhole/backend/common"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of the bearer tokens the auth provider
// issues. The subject carries the caller id.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// ValidateSessionToken parses and verifies a bearer token and returns the
// caller id from the subject claim.
func ValidateSessionToken(tokenString string) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(common.JWTSecret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid session token")
	}
	return claims.Subject, nil
}

// JWTAuth resolves the bearer credential to a caller identity before any
// operation runs and stores it as user_id. The error bodies are part of the
// external contract.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.RespError(c, http.StatusUnauthorized, "No authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.RespError(c, http.StatusUnauthorized, "Invalid session")
			c.Abort()
			return
		}

		userId, err := ValidateSessionToken(parts[1])
		if err != nil {
			common.RespError(c, http.StatusUnauthorized, "Invalid session")
			c.Abort()
			return
		}

		c.Set("user_id", userId)
		c.Next()
	}
}
