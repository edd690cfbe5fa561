package api

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"fitwise/fitness-client/internal/access"
	"fitwise/fitness-client/internal/domain"
	"fitwise/fitness-client/internal/logger"
	"fitwise/fitness-client/internal/service"

	"github.com/gin-gonic/gin"
)

// Constants for context keys
const (
	ContextSessionKey = "session"
)

// LoopbackOnly refuses clients that are not on this machine. The server holds a single
// process-wide session, so a remote client would inherit whoever logged in last.
func LoopbackOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := net.ParseIP(c.RemoteIP())
		if ip == nil || !ip.IsLoopback() {
			abortWithError(c, http.StatusForbidden, "Access denied: local clients only")
			return
		}
		c.Next()
	}
}

// SessionMiddleware puts a snapshot of the current session into the context.
// Handlers read it with getSessionFromContext so one request sees one session.
func SessionMiddleware(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextSessionKey, auth.Current())
		c.Next()
	}
}

// GateMiddleware consults the authorization gate for a page route and redirects
// (302) to the deny target. Must run AFTER SessionMiddleware.
func GateMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := getSessionFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "Session not found in context")
			return
		}
		decision := access.CanEnter(access.RouteFromPath(c.Request.URL.Path), sess)
		if !decision.Allowed {
			c.Redirect(http.StatusFound, decision.Redirect.Path())
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole guards an API group with the same rule the gate applies to its page.
// Must run AFTER SessionMiddleware.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := getSessionFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "Session not found in context")
			return
		}
		if !sess.IsAuthenticated() {
			abortWithError(c, http.StatusUnauthorized, "Please log in first")
			return
		}
		if sess.Role != role {
			abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied: Role '%s' does not have permission", sess.Role))
			return
		}
		c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// Helper function to get the session snapshot from context (used by handlers)
func getSessionFromContext(c *gin.Context) (domain.Session, error) {
	raw, exists := c.Get(ContextSessionKey)
	if !exists {
		return domain.Session{}, errors.New("session not found in context")
	}
	sess, ok := raw.(domain.Session)
	if !ok {
		return domain.Session{}, errors.New("invalid session type in context")
	}
	return sess, nil
}
