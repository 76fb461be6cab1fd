package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/alumni-tracking-api/pkg/middleware/requestid"
)

const responseMetaKey = "response_meta"

// WithResponseMeta starts a per-request metadata map that handlers may attach to
// the response envelope.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, map[string]interface{}{"started_at": time.Now()})
		c.Next()
	}
}

// SetCacheHit records whether the response was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	ensureMeta(c)["cache_hit"] = hit
}

// ResponseMeta returns the metadata to embed in a response, or nil when none was set.
func ResponseMeta(c *gin.Context) map[string]interface{} {
	raw, ok := c.Get(responseMetaKey)
	if !ok {
		return nil
	}
	meta, _ := raw.(map[string]interface{})
	if _, hasCache := meta["cache_hit"]; !hasCache {
		return nil
	}

	out := map[string]interface{}{"cache_hit": meta["cache_hit"]}
	if started, ok := meta["started_at"].(time.Time); ok {
		out["processing_time_ms"] = time.Since(started).Milliseconds()
	}
	if id := requestid.Value(c); id != "" {
		out["request_id"] = id
	}
	return out
}

func ensureMeta(c *gin.Context) map[string]interface{} {
	if raw, ok := c.Get(responseMetaKey); ok {
		if meta, ok := raw.(map[string]interface{}); ok {
			return meta
		}
	}
	meta := make(map[string]interface{})
	c.Set(responseMetaKey, meta)
	return meta
}
