package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/assigntrack/internal/app/models/dto"
	"github.com/yigit/assigntrack/internal/app/services"
	"github.com/yigit/assigntrack/internal/middleware"
)

// DashboardController serves the dashboards
type DashboardController struct {
	dashboardService services.DashboardService
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService services.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// Student godoc
// @Summary Student dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentDashboardResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /dashboard/student [get]
func (c *DashboardController) Student(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	resp, err := c.dashboardService.StudentDashboard(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// Instructor godoc
// @Summary Instructor dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.InstructorDashboardResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /dashboard/instructor [get]
func (c *DashboardController) Instructor(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	resp, err := c.dashboardService.InstructorDashboard(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}
