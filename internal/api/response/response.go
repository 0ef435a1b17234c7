package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope of every JSON body the API returns.
type Response struct {
	Success bool `json:"success"`
	Code    int  `json:"code"`
	Extras  any  `json:"extras"`
}

// ErrorExtras carries the message of a failed request.
type ErrorExtras struct {
	Message string `json:"message"`
}

func NewResponse(success bool, code int, extras any) Response {
	return Response{
		Success: success,
		Code:    code,
		Extras:  extras,
	}
}

// SuccessResponse returns a JSON response with a success message with no type limitation
func SuccessResponse(c *gin.Context, extras any) {
	c.JSON(http.StatusOK, NewResponse(true, http.StatusOK, extras))
}

func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, NewResponse(false, code, ErrorExtras{Message: message}))
}

// AbortResponse writes an error envelope and stops the handler chain.
func AbortResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, NewResponse(false, code, ErrorExtras{Message: message}))
}
