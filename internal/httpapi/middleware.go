package httpapi

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-productivity/auth"
	"github.com/goliatone/go-productivity/repositorycache"
)

const bearerPrefix = "Bearer"

// authenticate verifies the bearer token and places its subject on the
// request context for the repositories to scope by.
func (s *server) authenticate(c *gin.Context) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix || parts[1] == "" {
		s.abort(c, auth.Unauthenticated())
		return
	}

	userID, err := s.tokens.Verify(parts[1])
	if err != nil {
		s.abort(c, err)
		return
	}

	c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), userID))
	c.Next()
}

// cacheControl honors "Cache-Control: no-cache" by reading past the cache.
func (s *server) cacheControl(c *gin.Context) {
	if strings.Contains(strings.ToLower(c.GetHeader("Cache-Control")), "no-cache") {
		c.Request = c.Request.WithContext(repositorycache.WithCacheBypass(c.Request.Context()))
	}
	c.Next()
}

func (s *server) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()

	s.logger.Debug().
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", c.Writer.Status()).
		Dur("latency", time.Since(start)).
		Msg("request")
}
