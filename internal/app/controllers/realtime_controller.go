package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/assigntrack/internal/app/services"
	"github.com/yigit/assigntrack/internal/middleware"
	"github.com/yigit/assigntrack/internal/pkg/logger"
	"github.com/yigit/assigntrack/internal/pkg/websocket"
)

// RealtimeController upgrades clients to the per-assignment event stream
type RealtimeController struct {
	hub               *websocket.Hub
	assignmentService services.AssignmentService
}

// NewRealtimeController creates a new RealtimeController
func NewRealtimeController(hub *websocket.Hub, assignmentService services.AssignmentService) *RealtimeController {
	return &RealtimeController{hub: hub, assignmentService: assignmentService}
}

// Subscribe godoc
// @Summary Subscribe to assignment events
// @Description Websocket stream of group.joined and submission.created events. Pass the token as a query parameter.
// @Tags realtime
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param token query string false "Access token"
// @Success 101 "Switching Protocols"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /ws/assignments/{id} [get]
func (c *RealtimeController) Subscribe(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if _, err := c.assignmentService.GetAssignment(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.hub.Serve(ctx.Writer, ctx.Request, p.UserID, id); err != nil {
		logger.Warn().Err(err).Int64("assignmentID", id).Msg("Websocket upgrade failed")
	}
}
