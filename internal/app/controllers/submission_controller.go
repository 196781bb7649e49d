package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/assigntrack/internal/app/models/dto"
	"github.com/yigit/assigntrack/internal/app/services"
	"github.com/yigit/assigntrack/internal/middleware"
)

// SubmissionController handles submissions and status
type SubmissionController struct {
	submissionService services.SubmissionService
	maxUploadBytes    int64
}

// NewSubmissionController creates a new SubmissionController
func NewSubmissionController(submissionService services.SubmissionService, maxUploadBytes int64) *SubmissionController {
	return &SubmissionController{submissionService: submissionService, maxUploadBytes: maxUploadBytes}
}

// Submit godoc
// @Summary Submit an assignment
// @Description Hands in a file and/or a link. Group assignments need the groupId of a group the caller belongs to.
// @Tags submissions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param file formData file false "Submission file"
// @Param link formData string false "Submission link"
// @Param supportingLink formData string false "Supporting link"
// @Param groupId formData int false "Group ID"
// @Success 201 {object} dto.APIResponse{data=dto.SubmissionResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Already submitted"
// @Failure 422 {object} dto.APIResponse{error=dto.ErrorDetail} "Deadline passed"
// @Router /assignments/{id}/submissions [post]
func (c *SubmissionController) Submit(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if c.maxUploadBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadBytes)
	}

	var req dto.SubmitRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	var file *multipart.FileHeader
	if fh, err := ctx.FormFile("file"); err == nil {
		file = fh
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		middleware.HandleBindingError(ctx, err)
		return
	}

	resp, err := c.submissionService.Submit(ctx.Request.Context(), p, id, &req, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Submission received"))
}

// ListSubmissions godoc
// @Summary List the submissions of an assignment
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.SubmissionResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /assignments/{id}/submissions [get]
func (c *SubmissionController) ListSubmissions(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.submissionService.ListSubmissions(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// GetStatus godoc
// @Summary Caller's status for an assignment
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=dto.StatusResponse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /assignments/{id}/status [get]
func (c *SubmissionController) GetStatus(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.submissionService.GetStatus(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}
