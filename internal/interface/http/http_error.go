package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/nyayasetu/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

type codeMapping struct {
	status int
	code   string
}

// appErrorStatus maps domain error codes onto responses. Codes not listed
// fall back to 500 with the caller's code.
var appErrorStatus = map[string]codeMapping{
	apperrors.CodeInvalidInput: {http.StatusBadRequest, "invalid_request"},
	apperrors.CodeSpeech:       {http.StatusBadGateway, apperrors.CodeSpeech},
	apperrors.CodeFeedback:     {http.StatusInternalServerError, apperrors.CodeFeedback},
	apperrors.CodeDataLoad:     {http.StatusServiceUnavailable, apperrors.CodeDataLoad},
	"invalid_credentials":      {http.StatusUnauthorized, "invalid_credentials"},
	"invalid_token":            {http.StatusForbidden, "invalid_token"},
	"auth_not_configured":      {http.StatusServiceUnavailable, "auth_not_configured"},
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// abortWithAppError translates a domain error using appErrorStatus.
func abortWithAppError(c *gin.Context, fallbackCode string, err error) {
	mapping, ok := appErrorStatus[apperrors.CodeOf(err)]
	if !ok {
		mapping = codeMapping{http.StatusInternalServerError, fallbackCode}
	}
	abortWithError(c, NewHTTPError(mapping.status, mapping.code, errMessage(err), err))
}

// errorHandlingMiddleware renders the last handler error as {"error":{"code","message"}}.
func errorHandlingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		httpErr := asHTTPError(c.Errors.Last().Err)
		message := httpErr.Message
		if message == "" {
			message = httpErr.Error()
		}

		attrs := []any{"code", httpErr.Code, "status", httpErr.Status, "method", c.Request.Method, "path", c.Request.URL.Path, "error", httpErr.Err}
		if httpErr.Status >= http.StatusInternalServerError {
			logger.Error("request failed", attrs...)
		} else {
			logger.Warn("request failed", attrs...)
		}

		c.JSON(httpErr.Status, gin.H{
			"error": gin.H{
				"code":    httpErr.Code,
				"message": message,
			},
		})
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
