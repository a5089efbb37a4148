package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/plansearch/internal/shared/errors"
)

// APIResponse is the envelope every endpoint answers with. Exactly one of
// Data and Error is non-null.
type APIResponse struct {
	Data  interface{} `json:"data"`
	Error *ErrorInfo  `json:"error"`
}

// ErrorInfo represents error information in API response
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SuccessResponse sends a successful response with custom status code
func SuccessResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, APIResponse{Data: data})
}

// ErrorResponse sends an error response with custom status code and code string
func ErrorResponse(c *gin.Context, statusCode int, code errors.ErrorType, message string) {
	c.JSON(statusCode, APIResponse{
		Error: &ErrorInfo{
			Code:    string(code),
			Message: message,
		},
	})
}

// ErrorResponseWithError sends an error response based on error type
func ErrorResponseWithError(c *gin.Context, err error) {
	if appErr := errors.GetAppError(err); appErr != nil {
		ErrorResponse(c, appErr.Code, appErr.Type, appErr.Message)
		return
	}

	// Non-AppErrors never expose internal details
	ErrorResponse(c, http.StatusInternalServerError, errors.ErrorTypeInternal, "Internal server error occurred")
}
