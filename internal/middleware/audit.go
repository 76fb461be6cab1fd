package middleware

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/alumni-tracking-api/internal/models"
)

const createdIDKey = "created_id"

// AuditWriter persists audit entries.
type AuditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// SetCreatedID exposes the id of a freshly inserted row to Audit.
func SetCreatedID(c *gin.Context, id int64) {
	c.Set(createdIDKey, id)
}

// Audit records an audit log entry after every successful request on the route.
// Failures to write the entry are logged and never change the response.
func Audit(writer AuditWriter, logger *zap.Logger, action, resource string) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if writer == nil || c.Writer.Status() >= 400 {
			return
		}

		entry := &models.AuditLog{
			Action:     action,
			Resource:   resource,
			ResourceID: resourceID(c),
			IPAddress:  c.ClientIP(),
			UserAgent:  c.GetHeader("User-Agent"),
		}
		if claims := Claims(c); claims != nil {
			userID := claims.UserID
			entry.UserID = &userID
		}
		entry.NewValues, _ = json.Marshal(map[string]interface{}{
			"path":    c.FullPath(),
			"method":  c.Request.Method,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Milliseconds(),
		})

		if err := writer.CreateAuditLog(c.Request.Context(), entry); err != nil {
			logger.Warn("audit log write failed", zap.String("action", action), zap.Error(err))
		}
	}
}

func resourceID(c *gin.Context) *string {
	if id := c.Param("id"); id != "" {
		return &id
	}
	if v, ok := c.Get(createdIDKey); ok {
		if id, ok := v.(int64); ok {
			s := strconv.FormatInt(id, 10)
			return &s
		}
	}
	return nil
}
