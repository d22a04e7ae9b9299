package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
// Kind lets clients branch on the failure class without parsing the message.
type ErrorResponse struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code and kind.
// If it's not an AppError, it defaults to 500 Internal Server Error.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, ErrorResponse{Kind: string(appErr.Kind), Error: appErr.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Kind:  string(apperror.KindInternal),
		Error: "internal server error",
	})
}
