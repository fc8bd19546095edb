package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-productivity/categories"
)

func (s *server) registerCategories(g *gin.RouterGroup) {
	g.GET("", s.listCategories)
	g.POST("", s.createCategory)
	g.POST("/bulk", s.bulkCreateCategories)
	g.PATCH("/bulk", s.bulkUpdateCategories)
	g.POST("/bulk/delete", s.bulkDeleteCategories)
	g.GET("/stats", s.categoryStats)
	g.GET("/usage", s.categoryUsage)
	g.GET("/:id", s.getCategory)
	g.PATCH("/:id", s.updateCategory)
	g.DELETE("/:id", s.deleteCategory)
	g.GET("/:id/can-delete", s.canDeleteCategory)
	g.POST("/:id/reassign", s.reassignCategory)
}

type categoryListQuery struct {
	Query string `form:"q"`
}

func (s *server) listCategories(c *gin.Context) {
	var p categories.Pagination
	var q categoryListQuery
	if !bindQuery(c, &p) || !bindQuery(c, &q) {
		return
	}
	page, err := s.api.Categories.GetAll(c.Request.Context(), p, categories.Search{Query: q.Query})
	s.reply(c, http.StatusOK, page, err)
}

func (s *server) createCategory(c *gin.Context) {
	var in categories.CreateInput
	if !bind(c, &in) {
		return
	}
	cat, err := s.api.Categories.Create(c.Request.Context(), in)
	s.reply(c, http.StatusCreated, cat, err)
}

func (s *server) bulkCreateCategories(c *gin.Context) {
	var in []categories.CreateInput
	if !bind(c, &in) {
		return
	}
	list, err := s.api.Categories.BulkCreate(c.Request.Context(), in)
	s.reply(c, http.StatusCreated, list, err)
}

func (s *server) bulkUpdateCategories(c *gin.Context) {
	var in []categories.Change
	if !bind(c, &in) {
		return
	}
	list, err := s.api.Categories.BulkUpdate(c.Request.Context(), in)
	s.reply(c, http.StatusOK, list, err)
}

func (s *server) bulkDeleteCategories(c *gin.Context) {
	var in idsRequest
	if !bind(c, &in) {
		return
	}
	n, err := s.api.Categories.BulkDelete(c.Request.Context(), in.IDs)
	s.reply(c, http.StatusOK, deletedResponse{Deleted: n}, err)
}

func (s *server) categoryStats(c *gin.Context) {
	stats, err := s.api.Categories.GetStats(c.Request.Context())
	s.reply(c, http.StatusOK, stats, err)
}

func (s *server) categoryUsage(c *gin.Context) {
	usage, err := s.api.Categories.Usage(c.Request.Context())
	s.reply(c, http.StatusOK, usage, err)
}

func (s *server) getCategory(c *gin.Context) {
	cat, err := s.api.Categories.GetByID(c.Request.Context(), c.Param("id"))
	s.reply(c, http.StatusOK, cat, err)
}

func (s *server) updateCategory(c *gin.Context) {
	var in categories.UpdateInput
	if !bind(c, &in) {
		return
	}
	cat, err := s.api.Categories.Update(c.Request.Context(), c.Param("id"), in)
	s.reply(c, http.StatusOK, cat, err)
}

func (s *server) deleteCategory(c *gin.Context) {
	s.noContent(c, s.api.Categories.Delete(c.Request.Context(), c.Param("id")))
}

func (s *server) canDeleteCategory(c *gin.Context) {
	check, err := s.api.Categories.CanDelete(c.Request.Context(), c.Param("id"))
	s.reply(c, http.StatusOK, check, err)
}

type reassignRequest struct {
	// TargetID receives the references; null clears them.
	TargetID *string `json:"target_id"`
}

func (s *server) reassignCategory(c *gin.Context) {
	var in reassignRequest
	if !bind(c, &in) {
		return
	}
	s.noContent(c, s.api.Categories.DeleteWithReassignment(c.Request.Context(), c.Param("id"), in.TargetID))
}
