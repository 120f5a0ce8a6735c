// Package handlers contains the gin handlers for the search API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/turtacn/patent-prophet/pkg/errors"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an application error onto an HTTP response. Client
// errors carry their message through; server errors are masked.
func respondError(c *gin.Context, err error) {
	status := appErrors.HTTPStatus(err)
	code := appErrors.GetCode(err)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		code = appErrors.CodeInternal
		message = "internal server error"
	}
	c.JSON(status, ErrorResponse{Code: string(code), Message: message})
}
