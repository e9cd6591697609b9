// Package handler provides the HTTP request handlers.
package handler

import (
	"github.com/gin-gonic/gin"

	"lexia-api/internal/interfaces/http/dto"
	"lexia-api/pkg/errors"
	"lexia-api/pkg/logger"
)

// respondError maps an application error onto the HTTP envelope. Server
// faults get logged here so handlers don't repeat it per call site.
func respondError(c *gin.Context, err error) {
	appErr := errors.AsAppError(err)

	if appErr.HTTPStatus >= 500 {
		logger.Error(c.Request.Context(), "request failed", appErr,
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
	}

	var detail *dto.ErrorDetail
	if appErr.Detail != "" || appErr.Code != "" {
		detail = &dto.ErrorDetail{
			ErrorCode: string(appErr.Code),
			Details:   appErr.Detail,
		}
	}

	dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, detail)
}
