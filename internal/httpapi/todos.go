package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-productivity/todos"
)

func (s *server) registerTodos(g *gin.RouterGroup) {
	g.GET("", s.listTodos)
	g.POST("", s.createTodo)
	g.POST("/bulk", s.bulkCreateTodos)
	g.PATCH("/bulk", s.bulkUpdateTodos)
	g.POST("/bulk/delete", s.bulkDeleteTodos)
	g.GET("/stats", s.todoStats)
	g.GET("/overdue", s.overdueTodos)
	g.GET("/due-today", s.todosDueToday)
	g.GET("/assigned", s.assignedTodos)
	g.GET("/status/:status", s.todosByStatus)
	g.GET("/category/:categoryId", s.todosByCategory)
	g.GET("/:id", s.getTodo)
	g.PATCH("/:id", s.updateTodo)
	g.DELETE("/:id", s.deleteTodo)
	g.PATCH("/:id/status", s.updateTodoStatus)
	g.POST("/:id/complete", s.completeTodo)
	g.POST("/:id/archive", s.archiveTodo)
	g.POST("/:id/duplicate", s.duplicateTodo)
	g.POST("/:id/subtasks", s.addSubtask)
	g.PATCH("/:id/subtasks/:subtaskId", s.updateSubtask)
	g.DELETE("/:id/subtasks/:subtaskId", s.removeSubtask)
}

type todoListQuery struct {
	todos.Filters
	Query string `form:"q"`
}

func (s *server) listTodos(c *gin.Context) {
	var p todos.Pagination
	var q todoListQuery
	if !bindQuery(c, &p) || !bindQuery(c, &q) {
		return
	}
	page, err := s.api.Todos.GetWithFilters(c.Request.Context(), q.Filters, p, q.Query)
	s.reply(c, http.StatusOK, page, err)
}

func (s *server) createTodo(c *gin.Context) {
	var in todos.CreateInput
	if !bind(c, &in) {
		return
	}
	t, err := s.api.Todos.Create(c.Request.Context(), in)
	s.reply(c, http.StatusCreated, t, err)
}

func (s *server) bulkCreateTodos(c *gin.Context) {
	var in []todos.CreateInput
	if !bind(c, &in) {
		return
	}
	list, err := s.api.Todos.BulkCreate(c.Request.Context(), in)
	s.reply(c, http.StatusCreated, list, err)
}

func (s *server) bulkUpdateTodos(c *gin.Context) {
	var in []todos.Change
	if !bind(c, &in) {
		return
	}
	list, err := s.api.Todos.BulkUpdate(c.Request.Context(), in)
	s.reply(c, http.StatusOK, list, err)
}

func (s *server) bulkDeleteTodos(c *gin.Context) {
	var in idsRequest
	if !bind(c, &in) {
		return
	}
	n, err := s.api.Todos.BulkDelete(c.Request.Context(), in.IDs)
	s.reply(c, http.StatusOK, deletedResponse{Deleted: n}, err)
}

func (s *server) todoStats(c *gin.Context) {
	stats, err := s.api.Todos.GetStats(c.Request.Context())
	s.reply(c, http.StatusOK, stats, err)
}

func (s *server) overdueTodos(c *gin.Context) {
	list, err := s.api.Todos.Overdue(c.Request.Context())
	s.reply(c, http.StatusOK, list, err)
}

func (s *server) todosDueToday(c *gin.Context) {
	list, err := s.api.Todos.DueToday(c.Request.Context())
	s.reply(c, http.StatusOK, list, err)
}

func (s *server) assignedTodos(c *gin.Context) {
	list, err := s.api.Todos.Assigned(c.Request.Context())
	s.reply(c, http.StatusOK, list, err)
}

func (s *server) todosByStatus(c *gin.Context) {
	list, err := s.api.Todos.ByStatus(c.Request.Context(), todos.Status(c.Param("status")))
	s.reply(c, http.StatusOK, list, err)
}

func (s *server) todosByCategory(c *gin.Context) {
	list, err := s.api.Todos.ByCategory(c.Request.Context(), c.Param("categoryId"))
	s.reply(c, http.StatusOK, list, err)
}

func (s *server) getTodo(c *gin.Context) {
	t, err := s.api.Todos.GetByID(c.Request.Context(), c.Param("id"))
	s.reply(c, http.StatusOK, t, err)
}

func (s *server) updateTodo(c *gin.Context) {
	var in todos.UpdateInput
	if !bind(c, &in) {
		return
	}
	t, err := s.api.Todos.Update(c.Request.Context(), c.Param("id"), in)
	s.reply(c, http.StatusOK, t, err)
}

func (s *server) deleteTodo(c *gin.Context) {
	s.noContent(c, s.api.Todos.Delete(c.Request.Context(), c.Param("id")))
}

type statusRequest struct {
	Status todos.Status `json:"status"`
}

func (s *server) updateTodoStatus(c *gin.Context) {
	var in statusRequest
	if !bind(c, &in) {
		return
	}
	t, err := s.api.Todos.UpdateStatus(c.Request.Context(), c.Param("id"), in.Status)
	s.reply(c, http.StatusOK, t, err)
}

func (s *server) completeTodo(c *gin.Context) {
	t, err := s.api.Todos.Complete(c.Request.Context(), c.Param("id"))
	s.reply(c, http.StatusOK, t, err)
}

func (s *server) archiveTodo(c *gin.Context) {
	t, err := s.api.Todos.ToggleArchive(c.Request.Context(), c.Param("id"))
	s.reply(c, http.StatusOK, t, err)
}

func (s *server) duplicateTodo(c *gin.Context) {
	t, err := s.api.Todos.Duplicate(c.Request.Context(), c.Param("id"))
	s.reply(c, http.StatusCreated, t, err)
}

func (s *server) addSubtask(c *gin.Context) {
	var in todos.SubtaskInput
	if !bind(c, &in) {
		return
	}
	t, err := s.api.Todos.AddSubtask(c.Request.Context(), c.Param("id"), in.Title)
	s.reply(c, http.StatusCreated, t, err)
}

func (s *server) updateSubtask(c *gin.Context) {
	var in todos.SubtaskPatch
	if !bind(c, &in) {
		return
	}
	t, err := s.api.Todos.UpdateSubtask(c.Request.Context(), c.Param("id"), c.Param("subtaskId"), in)
	s.reply(c, http.StatusOK, t, err)
}

func (s *server) removeSubtask(c *gin.Context) {
	t, err := s.api.Todos.RemoveSubtask(c.Request.Context(), c.Param("id"), c.Param("subtaskId"))
	s.reply(c, http.StatusOK, t, err)
}
