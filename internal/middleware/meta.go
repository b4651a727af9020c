package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cohort-api/internal/rules"
)

const (
	responseMetaKey    = "response_meta"
	cacheHitKey        = "cache_hit"
	capacityWarningKey = "capacity_warning"
	warningReasonKey   = "warning_reason"
)

// ResponseMeta initialises response metadata storage on the request context.
func ResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, map[string]interface{}{})
		c.Next()
	}
}

// SetCacheHit records whether the payload was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	ensureMeta(c)[cacheHitKey] = hit
}

// SetCapacityWarning flags an enrollment that went over cohort capacity.
// An empty reason leaves the metadata untouched.
func SetCapacityWarning(c *gin.Context, reason rules.ReasonCode) {
	if reason == "" {
		return
	}
	meta := ensureMeta(c)
	meta[capacityWarningKey] = true
	meta[warningReasonKey] = reason
}

// ExtractMeta returns the metadata map stored on the context.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	if meta, exists := c.Get(responseMetaKey); exists {
		if typed, ok := meta.(map[string]interface{}); ok {
			return typed
		}
	}
	return nil
}

func ensureMeta(c *gin.Context) map[string]interface{} {
	if meta := ExtractMeta(c); meta != nil {
		return meta
	}
	meta := make(map[string]interface{})
	c.Set(responseMetaKey, meta)
	return meta
}
