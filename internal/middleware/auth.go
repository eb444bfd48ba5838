package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoice-dashboard-backend/internal/auth"
	"invoice-dashboard-backend/internal/logger"
)

const (
	ClaimsKey     = "session_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenValidator validates session tokens.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*auth.Claims, error)
}

var _ TokenValidator = (*auth.TokenService)(nil)

// RequireSession rejects requests without a valid session token. The token
// is read from the Authorization header first and from the session cookie
// otherwise. Valid claims are attached to the request context.
func RequireSession(tokens TokenValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c, cookieName)
		if token == "" {
			abortUnauthorized(c, auth.ErrInvalidToken)
			return
		}

		claims, err := tokens.Validate(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		c.Set(ClaimsKey, claims)
		ctx := auth.WithClaims(c.Request.Context(), claims)
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(zap.String("user", claims.Email)))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// SessionToken returns the bearer token or the session cookie value.
func SessionToken(c *gin.Context, cookieName string) string {
	if header := c.GetHeader(AuthHeaderKey); strings.HasPrefix(header, BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	}
	if cookieName == "" {
		return ""
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

// GetClaims returns the claims set by RequireSession.
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

func abortUnauthorized(c *gin.Context, err error) {
	logger.FromContext(c.Request.Context()).Warn("Session rejected",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path))

	message := "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		message = "Session has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		message = "Session has been revoked"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}
