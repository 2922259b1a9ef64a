package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/gin-gonic/gin"
)

func abortWithMessage(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

// respondError maps service errors onto status codes. notFoundMsg names the
// missing resource. Unexpected errors are logged and hidden from the client.
func (s *HTTPServer) respondError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		abortWithMessage(c, http.StatusBadRequest, clientMessage(err, common.ErrorValidation))
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		abortWithMessage(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, common.ErrorNotFound):
		abortWithMessage(c, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, common.ErrorAlreadyExists):
		abortWithMessage(c, http.StatusConflict, clientMessage(err, common.ErrorAlreadyExists))
	default:
		s.logger.Error(c.Request.Context(), "request failed", "route", c.FullPath(), "error", err)
		abortWithMessage(c, http.StatusInternalServerError, "internal error")
	}
}

// clientMessage strips the sentinel prefix from "sentinel: detail" so the
// client sees only the detail.
func clientMessage(err error, sentinel error) string {
	msg := err.Error()
	if detail, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
		return detail
	}
	return msg
}
