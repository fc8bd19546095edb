package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-productivity/notes"
)

func (s *server) registerNotes(g *gin.RouterGroup) {
	g.GET("", s.listNotes)
	g.POST("", s.createNote)
	g.POST("/bulk", s.bulkCreateNotes)
	g.PATCH("/bulk", s.bulkUpdateNotes)
	g.POST("/bulk/delete", s.bulkDeleteNotes)
	g.GET("/stats", s.noteStats)
	g.GET("/search", s.searchNotes)
	g.GET("/pinned", s.pinnedNotes)
	g.GET("/recent", s.recentNotes)
	g.GET("/tags", s.noteTags)
	g.GET("/by-tags", s.notesByTags)
	g.GET("/shared", s.sharedNotes)
	g.GET("/category/:categoryId", s.notesByCategory)
	g.GET("/:id", s.getNote)
	g.PATCH("/:id", s.updateNote)
	g.DELETE("/:id", s.deleteNote)
	g.POST("/:id/pin", s.pinNote)
	g.POST("/:id/archive", s.archiveNote)
	g.POST("/:id/share", s.shareNote)
	g.POST("/:id/unshare", s.unshareNote)
	g.POST("/:id/duplicate", s.duplicateNote)
}

type noteListQuery struct {
	notes.Filters
	Query string `form:"q"`
}

func (s *server) listNotes(c *gin.Context) {
	var p notes.Pagination
	var q noteListQuery
	if !bindQuery(c, &p) || !bindQuery(c, &q) {
		return
	}
	page, err := s.api.Notes.GetWithFilters(c.Request.Context(), q.Filters, p, q.Query)
	s.reply(c, http.StatusOK, page, err)
}

func (s *server) createNote(c *gin.Context) {
	var in notes.CreateInput
	if !bind(c, &in) {
		return
	}
	n, err := s.api.Notes.Create(c.Request.Context(), in)
	s.reply(c, http.StatusCreated, n, err)
}

func (s *server) bulkCreateNotes(c *gin.Context) {
	var in []notes.CreateInput
	if !bind(c, &in) {
		return
	}
	list, err := s.api.Notes.BulkCreate(c.Request.Context(), in)
	s.reply(c, http.StatusCreated, list, err)
}

func (s *server) bulkUpdateNotes(c *gin.Context) {
	var in []notes.Change
	if !bind(c, &in) {
		return
	}
	list, err := s.api.Notes.BulkUpdate(c.Request.Context(), in)
	s.reply(c, http.StatusOK, list, err)
}

func (s *server) bulkDeleteNotes(c *gin.Context) {
	var in idsRequest
	if !bind(c, &in) {
		return
	}
	n, err := s.api.Notes.BulkDelete(c.Request.Context(), in.IDs)
	s.reply(c, http.StatusOK, deletedResponse{Deleted: n}, err)
}

func (s *server) noteStats(c *gin.Context) {
	stats, err := s.api.Notes.GetStats(c.Request.Context())
	s.reply(c, http.StatusOK, stats, err)
}

func (s *server) searchNotes(c *gin.Context) {
	var p notes.Pagination
	if !bindQuery(c, &p) {
		return
	}
	page, err := s.api.Notes.Search(c.Request.Context(), c.Query("q"), p)
	s.reply(c, http.StatusOK, page, err)
}

func (s *server) pinnedNotes(c *gin.Context) {
	list, err := s.api.Notes.Pinned(c.Request.Context())
	s.reply(c, http.StatusOK, list, err)
}

func (s *server) recentNotes(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	list, err := s.api.Notes.Recent(c.Request.Context(), limit)
	s.reply(c, http.StatusOK, list, err)
}

func (s *server) noteTags(c *gin.Context) {
	tags, err := s.api.Notes.AllTags(c.Request.Context())
	s.reply(c, http.StatusOK, tags, err)
}

func (s *server) notesByTags(c *gin.Context) {
	list, err := s.api.Notes.ByTags(c.Request.Context(), queryList(c, "tags"))
	s.reply(c, http.StatusOK, list, err)
}

func (s *server) sharedNotes(c *gin.Context) {
	list, err := s.api.Notes.SharedWithMe(c.Request.Context())
	s.reply(c, http.StatusOK, list, err)
}

func (s *server) notesByCategory(c *gin.Context) {
	list, err := s.api.Notes.ByCategory(c.Request.Context(), c.Param("categoryId"))
	s.reply(c, http.StatusOK, list, err)
}

func (s *server) getNote(c *gin.Context) {
	n, err := s.api.Notes.GetByID(c.Request.Context(), c.Param("id"))
	s.reply(c, http.StatusOK, n, err)
}

func (s *server) updateNote(c *gin.Context) {
	var in notes.UpdateInput
	if !bind(c, &in) {
		return
	}
	n, err := s.api.Notes.Update(c.Request.Context(), c.Param("id"), in)
	s.reply(c, http.StatusOK, n, err)
}

func (s *server) deleteNote(c *gin.Context) {
	s.noContent(c, s.api.Notes.Delete(c.Request.Context(), c.Param("id")))
}

func (s *server) pinNote(c *gin.Context) {
	n, err := s.api.Notes.TogglePin(c.Request.Context(), c.Param("id"))
	s.reply(c, http.StatusOK, n, err)
}

func (s *server) archiveNote(c *gin.Context) {
	n, err := s.api.Notes.ToggleArchive(c.Request.Context(), c.Param("id"))
	s.reply(c, http.StatusOK, n, err)
}

type shareRequest struct {
	UserIDs []string `json:"user_ids"`
}

func (s *server) shareNote(c *gin.Context) {
	var in shareRequest
	if !bind(c, &in) {
		return
	}
	n, err := s.api.Notes.Share(c.Request.Context(), c.Param("id"), in.UserIDs)
	s.reply(c, http.StatusOK, n, err)
}

func (s *server) unshareNote(c *gin.Context) {
	var in shareRequest
	if !bind(c, &in) {
		return
	}
	n, err := s.api.Notes.Unshare(c.Request.Context(), c.Param("id"), in.UserIDs)
	s.reply(c, http.StatusOK, n, err)
}

func (s *server) duplicateNote(c *gin.Context) {
	n, err := s.api.Notes.Duplicate(c.Request.Context(), c.Param("id"))
	s.reply(c, http.StatusCreated, n, err)
}
