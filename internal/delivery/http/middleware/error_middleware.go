package middleware

import (
	"errors"
	"net/http"

	"ats-backend/internal/delivery/http/response"
	"ats-backend/pkg/apperror"
	"ats-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				if appErr.Status >= http.StatusInternalServerError {
					logger.Log.Error("request failed",
						"method", c.Request.Method,
						"path", c.Request.URL.Path,
						"code", appErr.Code,
						"error", err)
				}
				response.Error(c, appErr.Status, appErr.Code, appErr.Message, nil)
				return
			}

			// Never expose internal error details to clients. Log the actual
			// error server-side and send a generic message.
			logger.Log.Error("unhandled error",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err)
			response.Error(c, http.StatusInternalServerError, apperror.CodeInternal,
				"An unexpected error occurred. Please try again later.", nil)
		}
	}
}
