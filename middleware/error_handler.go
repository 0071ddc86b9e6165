package middleware

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/NomadCrew/feedback-service/errors"
	"github.com/NomadCrew/feedback-service/logger"
	"github.com/NomadCrew/feedback-service/types"
	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error attached to the context as
// {"error": "<message>"}. Only AppError messages reach the client; anything
// else becomes a generic 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var appError *errors.AppError
		if stderrors.As(err, &appError) {
			statusCode := appError.GetHTTPStatus()
			if statusCode >= http.StatusInternalServerError {
				logger.LogHTTPError(c, err, statusCode, string(appError.Type)+" error")
			} else {
				logger.GetLogger().Debugw("Request rejected",
					"type", appError.Type,
					"detail", appError.Detail,
					"path", c.Request.URL.Path)
			}
			c.JSON(statusCode, types.ErrorResponse{Error: appError.Message})
			return
		}

		logger.LogHTTPError(c, err, http.StatusInternalServerError, "Unexpected server error")
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: errors.MsgInternal})
	}
}

// NotFoundHandler answers unmatched routes. Paths under /api get a JSON
// body; everything else gets plain text.
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/api" || strings.HasPrefix(path, "/api/") {
			_ = c.Error(errors.NotFound(path))
			return
		}
		c.String(http.StatusNotFound, "Not found")
	}
}

// Recovery turns panics into the standard 500 body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.GetLogger().Errorw("Recovered from panic",
			"panic", recovered,
			"path", c.Request.URL.Path,
			"method", c.Request.Method)
		appErr := errors.InternalServerError(fmt.Sprint(recovered))
		c.AbortWithStatusJSON(appErr.GetHTTPStatus(), types.ErrorResponse{Error: appErr.Message})
	})
}
