package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoice-dashboard-backend/internal/auth"
	"invoice-dashboard-backend/internal/config"
	"invoice-dashboard-backend/internal/logger"
	"invoice-dashboard-backend/internal/middleware"
)

const msgInvalidCredentials = "Invalid credentials."

type AuthHandler struct {
	authenticator *auth.Authenticator
	tokens        *auth.TokenService
	cookie        config.CookieConfig
}

func NewAuthHandler(a *auth.Authenticator, tokens *auth.TokenService, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{authenticator: a, tokens: tokens, cookie: cookie}
}

// Login checks the submitted e-mail and password and starts a session.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.authenticator.Authorize(ctx, c.PostForm("email"), c.PostForm("password"))
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
		return
	}

	session, err := h.tokens.Issue(user)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to issue session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, session.Token, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)

	c.JSON(http.StatusOK, gin.H{
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
		"user":       user,
	})
}

// Logout revokes the current session, if any, and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	if token := middleware.SessionToken(c, h.cookie.Name); token != "" {
		if claims, err := h.tokens.Validate(ctx, token); err == nil {
			if err := h.tokens.Revoke(ctx, claims); err != nil {
				logger.FromContext(ctx).Warn("Failed to revoke session", zap.Error(err))
			}
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", h.cookie.Domain, h.cookie.Secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out."})
}
