package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	goerrors "github.com/goliatone/go-errors"
)

const (
	codeBadRequest = "BAD_REQUEST"
	codeInternal   = "INTERNAL"
)

type errorResponse struct {
	Error   string                `json:"error"`
	Code    string                `json:"code,omitempty"`
	Details []goerrors.FieldError `json:"details,omitempty"`
}

func statusOf(err error) int {
	switch {
	case goerrors.IsAuth(err):
		return http.StatusUnauthorized
	case goerrors.IsNotFound(err):
		return http.StatusNotFound
	case goerrors.IsValidation(err):
		return http.StatusBadRequest
	case goerrors.IsCategory(err, goerrors.CategoryConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *server) abort(c *gin.Context, err error) {
	status := statusOf(err)
	body := errorResponse{Error: http.StatusText(status), Code: codeInternal}

	var e *goerrors.Error
	if goerrors.As(err, &e) {
		body.Error = e.Message
		body.Code = e.TextCode
		body.Details = e.ValidationErrors
	}

	event := s.logger.Warn()
	if status >= http.StatusInternalServerError {
		event = s.logger.Error()
	}
	event.Err(err).
		Int("status", status).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("request failed")

	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: message, Code: codeBadRequest})
}
