package admin

import (
	"errors"
	"strings"

	"github.com/whimsicalfrog/wf-admin/internal/http/response"
	"github.com/whimsicalfrog/wf-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// ImageCleanupRequest 图片清理请求
type ImageCleanupRequest struct {
	Action string `json:"action" binding:"required"`
	JobID  string `json:"job_id"`
	DryRun bool   `json:"dry_run"`
}

// RunImageCleanup 启动或推进清理任务，每次请求只推进一个单元
func (h *Handler) RunImageCleanup(c *gin.Context) {
	var req ImageCleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	progress, err := h.ImageCleanupService.Run(c.Request.Context(), service.CleanupInput{
		Action: req.Action,
		JobID:  req.JobID,
		DryRun: req.DryRun,
	})
	if err != nil {
		respondCleanupError(c, err)
		return
	}
	response.Success(c, progress)
}

// GetImageCleanupStatus 查询清理任务进度
func (h *Handler) GetImageCleanupStatus(c *gin.Context) {
	progress, err := h.ImageCleanupService.Status(strings.TrimSpace(c.Param("job_id")))
	if err != nil {
		respondCleanupError(c, err)
		return
	}
	response.Success(c, progress)
}

func respondCleanupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCleanupActionInvalid):
		respondError(c, response.CodeBadRequest, "error.cleanup_action_invalid", nil)
	case errors.Is(err, service.ErrCleanupJobNotFound):
		respondError(c, response.CodeNotFound, "error.cleanup_job_not_found", nil)
	case errors.Is(err, service.ErrCleanupJobBusy):
		respondError(c, response.CodeTooManyRequests, "error.cleanup_job_busy", nil)
	default:
		respondError(c, response.CodeInternal, "error.cleanup_failed", err)
	}
}
