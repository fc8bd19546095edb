// Package httpapi exposes the api facade over HTTP with gin.
package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-productivity/api"
	"github.com/goliatone/go-productivity/audit"
	"github.com/goliatone/go-productivity/auth"
)

// Options are the dependencies of the router.
type Options struct {
	API      *api.API
	Tokens   *auth.Tokens
	Activity *audit.Log
	Logger   zerolog.Logger
	// Release switches gin to release mode.
	Release bool
}

type server struct {
	api      *api.API
	tokens   *auth.Tokens
	activity *audit.Log
	logger   zerolog.Logger
}

// NewRouter builds the HTTP handler. Every route under /api/v1 requires a
// bearer token whose subject owns the data.
func NewRouter(opts Options) *gin.Engine {
	if opts.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &server{
		api:      opts.API,
		tokens:   opts.Tokens,
		activity: opts.Activity,
		logger:   opts.Logger.With().Str("component", "http").Logger(),
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.accessLog)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1", s.authenticate, s.cacheControl)
	s.registerTodos(v1.Group("/todos"))
	s.registerNotes(v1.Group("/notes"))
	s.registerEvents(v1.Group("/events"))
	s.registerCategories(v1.Group("/categories"))
	v1.GET("/dashboard", s.dashboard)
	v1.GET("/dashboard/quick-stats", s.quickStats)
	v1.GET("/activity", s.history)

	return router
}

func (s *server) reply(c *gin.Context, status int, v any, err error) {
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(status, v)
}

func (s *server) noContent(c *gin.Context, err error) {
	if err != nil {
		s.abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "invalid request body")
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		badRequest(c, "invalid query parameters")
		return false
	}
	return true
}

// queryInt reads an optional integer parameter; zero when absent.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, name+" must be an integer")
		return 0, false
	}
	return n, true
}

// queryTime reads a required RFC 3339 timestamp.
func queryTime(c *gin.Context, name string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, c.Query(name))
	if err != nil {
		badRequest(c, name+" must be an RFC 3339 timestamp")
		return time.Time{}, false
	}
	return t, true
}

// queryList accepts both repeated and comma separated values.
func queryList(c *gin.Context, name string) []string {
	var out []string
	for _, raw := range c.QueryArray(name) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

type idsRequest struct {
	IDs []string `json:"ids"`
}

type deletedResponse struct {
	Deleted int `json:"deleted"`
}
