// Package handler provides the HTTP handlers for the auth feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"auth_backend/internal/feature/auth/domain"
	"auth_backend/internal/feature/auth/domain/valueobject"
	"auth_backend/internal/feature/auth/transport/http/dto"
	"auth_backend/internal/feature/auth/usecase"
)

// AuthUsecase defines the lifecycle operations the handler needs.
// Following Go convention: interfaces are defined by the consumer (handler),
// not the provider (usecase).
type AuthUsecase interface {
	Login(ctx context.Context, username, rawPassword, clientIP, userAgent string) (*usecase.TokenBundle, error)
	Refresh(ctx context.Context, refreshToken, clientIP, userAgent string) (*usecase.TokenBundle, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	Validate(ctx context.Context, accessToken string) (uint, error)
	ListSessions(ctx context.Context, userID uint, page, size int) (*usecase.SessionPage, error)
	RevokeAllSessions(ctx context.Context, userID uint) (int, error)
	Suspend(ctx context.Context, sessionID string) error
	Activate(ctx context.Context, sessionID string) error
}

// AuthHandler processes HTTP requests for session lifecycle operations.
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler creates a new instance of AuthHandler.
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}

	bundle, err := h.auth.Login(c.Request.Context(), req.Username, req.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		// Do not expose whether the username or the password was wrong.
		slog.Warn("login failed", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
		h.writeError(c, err, "invalid username or password")
		return
	}
	c.JSON(http.StatusOK, toBundleRes(bundle))
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("refresh validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}

	bundle, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		slog.Warn("refresh failed", "error", err, "remote_addr", c.ClientIP())
		h.writeError(c, err, "refresh failed")
		return
	}
	c.JSON(http.StatusOK, toBundleRes(bundle))
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("logout validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.AccessToken, req.RefreshToken); err != nil {
		slog.Warn("logout failed", "error", err, "remote_addr", c.ClientIP())
		h.writeError(c, err, "logout failed")
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Message: "ok"})
}

// Validate handles GET /auth/validate with a bearer token.
func (h *AuthHandler) Validate(c *gin.Context) {
	tok, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: "missing bearer token"})
		return
	}

	userID, err := h.auth.Validate(c.Request.Context(), tok)
	if err != nil {
		slog.Warn("token validation failed", "error", err, "remote_addr", c.ClientIP())
		h.writeError(c, err, "invalid token")
		return
	}
	c.JSON(http.StatusOK, dto.ValidateRes{UserID: userID})
}

// ListSessions handles GET /auth/sessions for the bearer's own sessions.
func (h *AuthHandler) ListSessions(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	result, err := h.auth.ListSessions(c.Request.Context(), userID, page, size)
	if err != nil {
		slog.Warn("session listing failed", "error", err, "user_id", userID)
		h.writeError(c, err, "failed to list sessions")
		return
	}

	res := dto.SessionPageRes{
		Sessions: make([]dto.SessionInfoRes, len(result.Sessions)),
		Total:    result.Total,
		Page:     result.Page,
		Size:     result.Size,
	}
	for i, s := range result.Sessions {
		res.Sessions[i] = dto.SessionInfoRes{
			SessionID:             s.ID,
			UserID:                s.UserID,
			Username:              s.Username,
			ClientIP:              s.ClientIP,
			UserAgent:             s.UserAgent,
			Status:                string(s.Status),
			AccessTokenExpiresAt:  s.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: s.RefreshTokenExpiresAt,
			LastActivityAt:        s.LastActivityAt,
			CreatedAt:             s.CreatedAt,
			UpdatedAt:             s.UpdatedAt,
		}
	}
	c.JSON(http.StatusOK, res)
}

// RevokeAll handles DELETE /auth/sessions: deny every outstanding token for
// the bearer's user and remove all session rows.
func (h *AuthHandler) RevokeAll(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	denied, err := h.auth.RevokeAllSessions(c.Request.Context(), userID)
	if err != nil {
		slog.Warn("bulk revocation failed", "error", err, "user_id", userID)
		h.writeError(c, err, "failed to revoke sessions")
		return
	}
	c.JSON(http.StatusOK, dto.RevokeAllRes{TokensDenied: denied})
}

// Suspend handles POST /auth/sessions/:id/suspend.
func (h *AuthHandler) Suspend(c *gin.Context) {
	h.adminTransition(c, h.auth.Suspend)
}

// Activate handles POST /auth/sessions/:id/activate.
func (h *AuthHandler) Activate(c *gin.Context) {
	h.adminTransition(c, h.auth.Activate)
}

func (h *AuthHandler) adminTransition(c *gin.Context, apply func(context.Context, string) error) {
	sessionID := c.Param("id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "missing session id"})
		return
	}

	if err := apply(c.Request.Context(), sessionID); err != nil {
		slog.Warn("session transition failed", "error", err, "session_id", sessionID)
		h.writeError(c, err, "transition failed")
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Message: "ok"})
}

// requireUser resolves the bearer token to a user ID or writes a 401.
func (h *AuthHandler) requireUser(c *gin.Context) (uint, bool) {
	tok, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: "missing bearer token"})
		return 0, false
	}
	userID, err := h.auth.Validate(c.Request.Context(), tok)
	if err != nil {
		slog.Warn("bearer validation failed", "error", err, "remote_addr", c.ClientIP())
		h.writeError(c, err, "invalid token")
		return 0, false
	}
	return userID, true
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(auth, "Bearer "), true
}

// writeError maps typed domain errors to HTTP status codes. The public
// message stays generic; details go to the log only.
func (h *AuthHandler) writeError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, valueobject.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: msg})
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: msg})
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorRes{Error: msg})
	case errors.Is(err, domain.ErrSessionInvalid):
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: msg})
	case errors.Is(err, domain.ErrConcurrencyConflict):
		c.JSON(http.StatusConflict, dto.ErrorRes{Error: msg})
	case errors.Is(err, domain.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorRes{Error: "temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msg})
	}
}

func toBundleRes(b *usecase.TokenBundle) dto.TokenBundleRes {
	return dto.TokenBundleRes{
		AccessToken:      b.AccessToken,
		RefreshToken:     b.RefreshToken,
		TokenType:        b.TokenType,
		ExpiresIn:        b.ExpiresIn,
		RefreshExpiresIn: b.RefreshExpiresIn,
		UserID:           b.UserID,
		Username:         b.Username,
		SessionID:        b.SessionID,
		CreatedAt:        b.CreatedAt,
	}
}
