package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"real-estate-marketplace/internal/activity"
	"real-estate-marketplace/internal/errs"
	"real-estate-marketplace/internal/models"
	"real-estate-marketplace/internal/ratelimit"
)

// Identity headers set by the gateway in front of this service.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
	HeaderUserName = "X-User-Name"
	HeaderSession  = "X-Session-ID"
)

// ActorFrom extracts the gateway-authenticated identity from the request.
// Absent headers yield an anonymous actor.
func ActorFrom(c *gin.Context) models.Actor {
	actor := models.Actor{
		ID:   c.GetHeader(HeaderUserID),
		Name: c.GetHeader(HeaderUserName),
	}
	role := models.UserRole(c.GetHeader(HeaderUserRole))
	if role.Valid() {
		actor.Role = role
	} else if actor.ID != "" {
		actor.Role = models.RoleUser
	}
	return actor
}

// requestMeta builds the ledger metadata shared by view/search events
func requestMeta(c *gin.Context) activity.Event {
	return activity.Event{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
		SessionID: c.GetHeader(HeaderSession),
	}
}

// RequestLogger logs one line per request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("HTTP: %s %s -> %d (%v)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// respondError maps classified errors to HTTP responses
func respondError(c *gin.Context, err error) {
	var verr *errs.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
		return
	}

	switch {
	case errs.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errs.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errs.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errs.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("HTTP: Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// IntakeRateLimit throttles unauthenticated intake endpoints per client IP
func IntakeRateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects requests whose actor is not an admin
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ActorFrom(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}
