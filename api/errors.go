package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errorStatuses = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrValidation, http.StatusBadRequest, "validation_error"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrPermission, http.StatusForbidden, "permission_denied"},
	{domain.ErrConflict, http.StatusConflict, "conflict"},
	{domain.ErrCapacity, http.StatusConflict, "capacity_exceeded"},
	{domain.ErrRoute, http.StatusUnprocessableEntity, "invalid_route"},
}

func statusFor(err error) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			return e.status, e.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// writeError maps a service error to its HTTP status. Internal failures are
// attached to the context for the request logger and hidden from the client.
func writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		message = "internal error"
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: message, Code: code})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "validation_error"})
}
