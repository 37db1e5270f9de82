package handler

import (
	"complaintdesk/backend/internal/analysis"
	"complaintdesk/backend/internal/metrics"
	"complaintdesk/backend/internal/models"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ctxUserKey      = "user"
	ctxRequestIDKey = "request_id"
)

// RequestLogger logs one line per request with a generated request ID.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set(ctxRequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error("request completed", fields...)
			return
		}
		log.Info("request completed", fields...)
	}
}

// Metrics records request counts and latency by route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Authenticate requires a valid bearer token and loads the caller. The
// stored user is authoritative, so role changes apply to existing tokens.
func (h *Handler) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(c, http.StatusUnauthorized, CodeUnauthorized, "authorization token missing")
			return
		}

		user, err := h.userFromToken(c, token)
		if err != nil {
			h.respondErr(c, err)
			return
		}
		if user == nil {
			respondError(c, http.StatusUnauthorized, CodeUnauthorized, "invalid token or expired")
			return
		}
		c.Set(ctxUserKey, user)
		c.Next()
	}
}

func (h *Handler) userFromToken(c *gin.Context, token string) (*models.User, error) {
	claims, err := h.Tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	return h.Storage.FindUserByID(c.Request.Context(), claims.Subject)
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !slices.Contains(roles, user.Role) {
			respondError(c, http.StatusForbidden, CodeForbidden, "insufficient permissions")
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func currentViewer(c *gin.Context) analysis.Viewer {
	return analysis.ViewerFor(currentUser(c))
}
