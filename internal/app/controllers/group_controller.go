package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/assigntrack/internal/app/models/dto"
	"github.com/yigit/assigntrack/internal/app/services"
	"github.com/yigit/assigntrack/internal/middleware"
)

// GroupController handles group listing and joining
type GroupController struct {
	groupService services.GroupService
}

// NewGroupController creates a new GroupController
func NewGroupController(groupService services.GroupService) *GroupController {
	return &GroupController{groupService: groupService}
}

// ListGroups godoc
// @Summary List the groups of an assignment
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.GroupResponse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /assignments/{id}/groups [get]
func (c *GroupController) ListGroups(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	groups, err := c.groupService.ListGroups(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(groups, ""))
}

// JoinGroup godoc
// @Summary Join a group
// @Description Joins a group of a manual-policy assignment. Joining the group you are already in succeeds without changes.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse{data=dto.JoinGroupResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Joining not allowed"
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail} "Students only"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Group full or already in another group"
// @Failure 422 {object} dto.APIResponse{error=dto.ErrorDetail} "Deadline passed"
// @Router /groups/{id}/join [post]
func (c *GroupController) JoinGroup(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.groupService.JoinGroup(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := "Joined group successfully"
	if resp.AlreadyMember {
		message = "Already a member of this group"
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, message))
}
