// Package router assembles the HTTP routes for the auth service.
package router

import (
	"net/http"
	"time"

	authhandler "auth_backend/internal/feature/auth/transport/handler"
	"auth_backend/internal/platform/http/handler"
	"auth_backend/internal/shared/ratelimiter"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Login attempts allowed per client IP per window.
const (
	loginAttemptLimit  = 10
	loginAttemptWindow = time.Minute
)

// NewRouter wires the auth endpoints onto a gin engine.
func NewRouter(auth *authhandler.AuthHandler) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/healthz", handler.Health)

	loginLimiter := ratelimiter.NewFixedWindow(loginAttemptLimit, loginAttemptWindow)

	a := r.Group("/auth")
	{
		a.POST("/login", throttle(loginLimiter), auth.Login)
		a.POST("/refresh", auth.Refresh)
		a.POST("/logout", auth.Logout)

		// Bearer token required; the handler validates it itself since
		// validation is the operation under test here, not a gate.
		a.GET("/validate", auth.Validate)
		a.GET("/sessions", auth.ListSessions)
		a.DELETE("/sessions", auth.RevokeAll)

		// Administrative session toggles.
		a.POST("/sessions/:id/suspend", auth.Suspend)
		a.POST("/sessions/:id/activate", auth.Activate)
	}

	return r
}

// throttle rejects requests from clients that exceeded their window limit.
func throttle(l ratelimiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts"})
			return
		}
		c.Next()
	}
}
