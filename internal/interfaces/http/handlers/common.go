// Package handlers implements the HTTP endpoint handlers for crystal-api.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/gemmology-dev/crystal-api/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeAppError maps a pipeline error to its HTTP status.  User-attributable
// CDL failures surface their message; internal failures are masked.
func writeAppError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()
	if status >= 500 {
		_ = c.Error(err)
		c.JSON(status, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(status, ErrorResponse{Error: shortMessage(err)})
}

// shortMessage strips the code prefix from an AppError for API responses,
// keeping only the human-readable message and detail.
func shortMessage(err error) string {
	var ae *errors.AppError
	if e, ok := err.(*errors.AppError); ok {
		ae = e
	}
	if ae == nil {
		return err.Error()
	}
	if ae.Detail != "" {
		return ae.Message + " (" + ae.Detail + ")"
	}
	return ae.Message
}
