// Package response writes the JSON bodies shared by every handler. Errors
// always use the {"error": {...}} envelope.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/palearn-backend/internal/platform/apierr"
	"github.com/yungbote/palearn-backend/internal/platform/ctxutil"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError writes status with err's message. A nil err reads "unknown error".
func RespondError(c *gin.Context, status int, code string, err error) {
	body := APIError{Message: "unknown error", Code: code, TraceID: ctxutil.TraceID(c.Request.Context())}
	if err != nil {
		body.Message = err.Error()
	}
	c.JSON(status, ErrorEnvelope{Error: body})
}

// AbortError is RespondError for middleware: later handlers do not run.
func AbortError(c *gin.Context, status int, code, message string) {
	c.Abort()
	c.JSON(status, ErrorEnvelope{Error: APIError{
		Message: message,
		Code:    code,
		TraceID: ctxutil.TraceID(c.Request.Context()),
	}})
}

// RespondErr picks status and code with apierr.StatusOf. 5xx messages are
// replaced so internal details stay server-side.
func RespondErr(c *gin.Context, err error) {
	status, code := apierr.StatusOf(err)
	if status >= http.StatusInternalServerError {
		err = nil
	}
	RespondError(c, status, code, err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
