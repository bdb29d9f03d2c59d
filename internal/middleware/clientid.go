package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ClientIDKey is the gin context key holding the resolved client identity
const ClientIDKey = "client_id"

// ClientID resolves who is calling: the subject of a valid HS256 bearer token
// when secret is set, otherwise the client IP
func ClientID(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ClientIDKey, resolveClientID(c, secret))
		c.Next()
	}
}

// ClientIDFrom returns the identity stored by ClientID
func ClientIDFrom(c *gin.Context) string {
	if id := c.GetString(ClientIDKey); id != "" {
		return id
	}
	return "unknown"
}

func resolveClientID(c *gin.Context, secret string) string {
	if secret != "" {
		if sub, err := bearerSubject(c.GetHeader("Authorization"), secret); err == nil {
			return "sub:" + sub
		}
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func bearerSubject(header, secret string) (string, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return "", errors.New("no bearer token")
	}

	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}

// SignClientToken issues an HS256 token identifying subject. A zero ttl
// produces a token without expiry.
func SignClientToken(secret, subject string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is not configured")
	}
	if subject == "" {
		return "", errors.New("subject is required")
	}

	claims := jwt.RegisteredClaims{
		Subject:  subject,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
