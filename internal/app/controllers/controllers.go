// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/app/models/dto"
	"github.com/yigit/assigntrack/internal/middleware"
	"github.com/yigit/assigntrack/internal/pkg/helpers"
)

// principal returns the authenticated caller or answers 401
func principal(ctx *gin.Context) (models.Principal, bool) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
	}
	return p, ok
}

// idParam parses a path ID or answers 400
func idParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := helpers.ParseIDParam(ctx, name)
	if err != nil {
		middleware.HandleInvalidID(ctx, err)
		return 0, false
	}
	return id, true
}
