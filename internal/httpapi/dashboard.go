package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-productivity/auth"
)

// DefaultHistoryLimit bounds the activity listing when no limit is given.
const DefaultHistoryLimit = 50

func (s *server) dashboard(c *gin.Context) {
	data, err := s.api.Dashboard.GetDashboardData(c.Request.Context())
	s.reply(c, http.StatusOK, data, err)
}

func (s *server) quickStats(c *gin.Context) {
	stats, err := s.api.Dashboard.GetQuickStats(c.Request.Context())
	s.reply(c, http.StatusOK, stats, err)
}

// history lists the caller's audit rows, newest first.
func (s *server) history(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	userID, _ := auth.UserFromContext(c.Request.Context())
	rows, err := s.activity.History(c.Request.Context(), userID, c.Query("entity_type"), c.Query("entity_id"), limit)
	s.reply(c, http.StatusOK, rows, err)
}
