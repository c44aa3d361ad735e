package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxtobyd/panelplanner/internal/validation"
	"github.com/oxtobyd/panelplanner/pkg/response"
)

// badBinding answers a failed ShouldBind*. Oversized bodies get 413.
func badBinding(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "request body too large")
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "parameter validation failed", err.Error())
}

// inputProblems answers a malformed event set with its field problems.
// Returns false when err is not an input error.
func inputProblems(c *gin.Context, err error) bool {
	var inErr *validation.InputError
	if !errors.As(err, &inErr) {
		return false
	}
	response.ErrorWithData(c, http.StatusBadRequest, 20002, "invalid event data", inErr.Problems)
	return true
}
