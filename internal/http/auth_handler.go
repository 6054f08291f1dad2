package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kakao-login/internal/service"
)

const (
	DefaultSessionCookie = "session_token"

	loginFailedMessage = "kakao login failed"
)

// AuthURLBuilder construye la URL de autorización del proveedor.
type AuthURLBuilder interface {
	AuthCodeURL() string
}

// CookieConfig controla la cookie de sesión.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler mantiene dependencias para los endpoints de login con Kakao.
type AuthHandler struct {
	logger  *zap.Logger
	authURL AuthURLBuilder
	login   *service.LoginService
	users   *service.UserService
	cookie  CookieConfig
}

// NewAuthHandler crea una instancia de AuthHandler con dependencias necesarias.
func NewAuthHandler(logger *zap.Logger, authURL AuthURLBuilder, login *service.LoginService, users *service.UserService, cookie CookieConfig) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = DefaultSessionCookie
	}
	return &AuthHandler{
		logger:  logger,
		authURL: authURL,
		login:   login,
		users:   users,
		cookie:  cookie,
	}
}

// Redirect maneja GET /auth/kakao.
func (h *AuthHandler) Redirect(c *gin.Context) {
	c.Redirect(http.StatusFound, h.authURL.AuthCodeURL())
}

// Callback maneja GET /auth/kakao/callback.
func (h *AuthHandler) Callback(c *gin.Context) {
	if providerErr := c.Query("error"); providerErr != "" {
		h.logger.Warn("kakao authorization not granted",
			zap.String("error", providerErr),
			zap.String("description", c.Query("error_description")),
		)
		c.JSON(http.StatusBadRequest, gin.H{"message": "authorization not granted"})
		return
	}

	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		h.logger.Warn("kakao callback without code")
		c.JSON(http.StatusBadRequest, gin.H{"message": "missing authorization code"})
		return
	}

	result, err := h.login.CompleteLogin(c.Request.Context(), code)
	if err != nil {
		state := service.StateFailed
		var loginErr *service.LoginError
		if errors.As(err, &loginErr) {
			state = loginErr.State
		}
		if errors.Is(err, service.ErrInput) {
			h.logger.Warn("invalid kakao callback", zap.String("state", string(state)), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
			return
		}
		h.logger.Error("kakao login failed", zap.String("state", string(state)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": loginFailedMessage})
		return
	}

	h.setSessionCookie(c, result.Session)
	h.logger.Info("kakao login completed",
		zap.String("provider_id", result.User.ProviderID),
		zap.String("state", string(service.StateResponded)),
	)
	c.JSON(http.StatusOK, gin.H{
		"token":    result.Session.Value,
		"userInfo": result.Profile.Raw,
	})
}

// Me maneja GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
		return
	}

	user, err := h.users.GetByProviderID(c.Request.Context(), claims.KakaoID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}
		h.logger.Error("load session user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Health maneja GET /healthz.
func (h *AuthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.users.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, session service.SessionToken) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, session.Value, int(session.ExpiresIn), "/", "", h.cookie.Secure, true)
}
