package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-productivity/events"
)

func (s *server) registerEvents(g *gin.RouterGroup) {
	g.GET("", s.listEvents)
	g.POST("", s.createEvent)
	g.POST("/bulk", s.bulkCreateEvents)
	g.PATCH("/bulk", s.bulkUpdateEvents)
	g.POST("/bulk/delete", s.bulkDeleteEvents)
	g.GET("/stats", s.eventStats)
	g.GET("/today", s.eventsToday)
	g.GET("/week", s.eventsThisWeek)
	g.GET("/upcoming", s.upcomingEvents)
	g.GET("/range", s.eventsByRange)
	g.GET("/conflicts", s.conflictingEvents)
	g.GET("/occurrences", s.eventOccurrences)
	g.GET("/category/:categoryId", s.eventsByCategory)
	g.GET("/:id", s.getEvent)
	g.PATCH("/:id", s.updateEvent)
	g.DELETE("/:id", s.deleteEvent)
	g.POST("/:id/cancel", s.cancelEvent)
	g.POST("/:id/restore", s.restoreEvent)
	g.POST("/:id/duplicate", s.duplicateEvent)
	g.POST("/:id/attendees", s.addAttendee)
	g.PATCH("/:id/attendees/:attendeeId", s.updateAttendee)
	g.DELETE("/:id/attendees/:attendeeId", s.removeAttendee)
	g.POST("/:id/reminders", s.addReminder)
	g.DELETE("/:id/reminders/:reminderId", s.removeReminder)
}

type eventListQuery struct {
	events.Filters
	Query string `form:"q"`
}

func (s *server) listEvents(c *gin.Context) {
	var p events.Pagination
	var q eventListQuery
	if !bindQuery(c, &p) || !bindQuery(c, &q) {
		return
	}
	page, err := s.api.Events.GetWithFilters(c.Request.Context(), q.Filters, p, q.Query)
	s.reply(c, http.StatusOK, page, err)
}

func (s *server) createEvent(c *gin.Context) {
	var in events.CreateInput
	if !bind(c, &in) {
		return
	}
	e, err := s.api.Events.Create(c.Request.Context(), in)
	s.reply(c, http.StatusCreated, e, err)
}

func (s *server) bulkCreateEvents(c *gin.Context) {
	var in []events.CreateInput
	if !bind(c, &in) {
		return
	}
	list, err := s.api.Events.BulkCreate(c.Request.Context(), in)
	s.reply(c, http.StatusCreated, list, err)
}

func (s *server) bulkUpdateEvents(c *gin.Context) {
	var in []events.Change
	if !bind(c, &in) {
		return
	}
	list, err := s.api.Events.BulkUpdate(c.Request.Context(), in)
	s.reply(c, http.StatusOK, list, err)
}

func (s *server) bulkDeleteEvents(c *gin.Context) {
	var in idsRequest
	if !bind(c, &in) {
		return
	}
	n, err := s.api.Events.BulkDelete(c.Request.Context(), in.IDs)
	s.reply(c, http.StatusOK, deletedResponse{Deleted: n}, err)
}

func (s *server) eventStats(c *gin.Context) {
	stats, err := s.api.Events.GetStats(c.Request.Context())
	s.reply(c, http.StatusOK, stats, err)
}

func (s *server) eventsToday(c *gin.Context) {
	list, err := s.api.Events.Today(c.Request.Context())
	s.reply(c, http.StatusOK, list, err)
}

func (s *server) eventsThisWeek(c *gin.Context) {
	list, err := s.api.Events.ThisWeek(c.Request.Context())
	s.reply(c, http.StatusOK, list, err)
}

func (s *server) upcomingEvents(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	list, err := s.api.Events.Upcoming(c.Request.Context(), limit)
	s.reply(c, http.StatusOK, list, err)
}

func (s *server) eventsByRange(c *gin.Context) {
	var p events.Pagination
	if !bindQuery(c, &p) {
		return
	}
	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}
	page, err := s.api.Events.ByDateRange(c.Request.Context(), from, to, p)
	s.reply(c, http.StatusOK, page, err)
}

func (s *server) conflictingEvents(c *gin.Context) {
	start, ok := queryTime(c, "start")
	if !ok {
		return
	}
	end, ok := queryTime(c, "end")
	if !ok {
		return
	}
	list, err := s.api.Events.Conflicting(c.Request.Context(), start, end, c.Query("exclude"))
	s.reply(c, http.StatusOK, list, err)
}

func (s *server) eventOccurrences(c *gin.Context) {
	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}
	list, err := s.api.Events.Occurrences(c.Request.Context(), from, to)
	s.reply(c, http.StatusOK, list, err)
}

func (s *server) eventsByCategory(c *gin.Context) {
	list, err := s.api.Events.ByCategory(c.Request.Context(), c.Param("categoryId"))
	s.reply(c, http.StatusOK, list, err)
}

func (s *server) getEvent(c *gin.Context) {
	e, err := s.api.Events.GetByID(c.Request.Context(), c.Param("id"))
	s.reply(c, http.StatusOK, e, err)
}

func (s *server) updateEvent(c *gin.Context) {
	var in events.UpdateInput
	if !bind(c, &in) {
		return
	}
	e, err := s.api.Events.Update(c.Request.Context(), c.Param("id"), in)
	s.reply(c, http.StatusOK, e, err)
}

func (s *server) deleteEvent(c *gin.Context) {
	s.noContent(c, s.api.Events.Delete(c.Request.Context(), c.Param("id")))
}

func (s *server) cancelEvent(c *gin.Context) {
	e, err := s.api.Events.Cancel(c.Request.Context(), c.Param("id"))
	s.reply(c, http.StatusOK, e, err)
}

func (s *server) restoreEvent(c *gin.Context) {
	e, err := s.api.Events.Restore(c.Request.Context(), c.Param("id"))
	s.reply(c, http.StatusOK, e, err)
}

type duplicateEventRequest struct {
	StartTime *time.Time `json:"start_time,omitempty"`
}

func (s *server) duplicateEvent(c *gin.Context) {
	var in duplicateEventRequest
	if c.Request.ContentLength > 0 && !bind(c, &in) {
		return
	}
	e, err := s.api.Events.Duplicate(c.Request.Context(), c.Param("id"), in.StartTime)
	s.reply(c, http.StatusCreated, e, err)
}

func (s *server) addAttendee(c *gin.Context) {
	var in events.AttendeeInput
	if !bind(c, &in) {
		return
	}
	e, err := s.api.Events.AddAttendee(c.Request.Context(), c.Param("id"), in)
	s.reply(c, http.StatusCreated, e, err)
}

type attendeeStatusRequest struct {
	Status events.AttendeeStatus `json:"status"`
}

func (s *server) updateAttendee(c *gin.Context) {
	var in attendeeStatusRequest
	if !bind(c, &in) {
		return
	}
	e, err := s.api.Events.UpdateAttendeeStatus(c.Request.Context(), c.Param("id"), c.Param("attendeeId"), in.Status)
	s.reply(c, http.StatusOK, e, err)
}

func (s *server) removeAttendee(c *gin.Context) {
	e, err := s.api.Events.RemoveAttendee(c.Request.Context(), c.Param("id"), c.Param("attendeeId"))
	s.reply(c, http.StatusOK, e, err)
}

func (s *server) addReminder(c *gin.Context) {
	var in events.ReminderInput
	if !bind(c, &in) {
		return
	}
	e, err := s.api.Events.AddReminder(c.Request.Context(), c.Param("id"), in)
	s.reply(c, http.StatusCreated, e, err)
}

func (s *server) removeReminder(c *gin.Context) {
	e, err := s.api.Events.RemoveReminder(c.Request.Context(), c.Param("id"), c.Param("reminderId"))
	s.reply(c, http.StatusOK, e, err)
}
