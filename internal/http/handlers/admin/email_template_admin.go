package admin

import (
	"errors"
	"strings"

	"github.com/whimsicalfrog/wf-admin/internal/http/response"
	"github.com/whimsicalfrog/wf-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// EmailTemplateRequest 邮件模板请求
type EmailTemplateRequest struct {
	TemplateName string   `json:"template_name"`
	TemplateType string   `json:"template_type"`
	Subject      string   `json:"subject"`
	HTMLContent  string   `json:"html_content"`
	TextContent  string   `json:"text_content"`
	Description  string   `json:"description"`
	Variables    []string `json:"variables"`
	IsActive     *bool    `json:"is_active"`
}

func (r EmailTemplateRequest) toInput() service.EmailTemplateInput {
	return service.EmailTemplateInput{
		TemplateName: r.TemplateName,
		TemplateType: r.TemplateType,
		Subject:      r.Subject,
		HTMLContent:  r.HTMLContent,
		TextContent:  r.TextContent,
		Description:  r.Description,
		Variables:    r.Variables,
		IsActive:     r.IsActive,
	}
}

// TemplateAssignmentRequest 邮件类型绑定请求
type TemplateAssignmentRequest struct {
	TemplateID uint `json:"template_id" binding:"required"`
}

// TemplatePreviewRequest 模板预览请求
type TemplatePreviewRequest struct {
	Variables map[string]string `json:"variables"`
}

// ListEmailTemplates 模板列表
func (h *Handler) ListEmailTemplates(c *gin.Context) {
	templates, err := h.EmailTemplateService.List(strings.TrimSpace(c.Query("template_type")))
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, templates)
}

// GetEmailTemplate 模板详情
func (h *Handler) GetEmailTemplate(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	template, err := h.EmailTemplateService.Get(id)
	if err != nil {
		respondTemplateError(c, err)
		return
	}
	response.Success(c, template)
}

// CreateEmailTemplate 创建模板
func (h *Handler) CreateEmailTemplate(c *gin.Context) {
	var req EmailTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	template, err := h.EmailTemplateService.Create(req.toInput())
	if err != nil {
		respondTemplateError(c, err)
		return
	}
	response.Success(c, template)
}

// UpdateEmailTemplate 更新模板
func (h *Handler) UpdateEmailTemplate(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req EmailTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	template, err := h.EmailTemplateService.Update(id, req.toInput())
	if err != nil {
		respondTemplateError(c, err)
		return
	}
	response.Success(c, template)
}

// DeleteEmailTemplate 删除模板
func (h *Handler) DeleteEmailTemplate(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.EmailTemplateService.Delete(id); err != nil {
		respondTemplateError(c, err)
		return
	}
	response.Success(c, nil)
}

// ListEmailTemplateAssignments 邮件类型绑定列表
func (h *Handler) ListEmailTemplateAssignments(c *gin.Context) {
	assignments, err := h.EmailTemplateService.ListAssignments()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, assignments)
}

// AssignEmailTemplate 绑定邮件类型到模板
func (h *Handler) AssignEmailTemplate(c *gin.Context) {
	var req TemplateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	assignment, err := h.EmailTemplateService.Assign(c.Param("email_type"), req.TemplateID)
	if err != nil {
		respondTemplateError(c, err)
		return
	}
	response.Success(c, assignment)
}

// PreviewEmailTemplate 渲染模板预览
func (h *Handler) PreviewEmailTemplate(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req TemplatePreviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}
	preview, err := h.EmailTemplateService.Preview(id, req.Variables)
	if err != nil {
		respondTemplateError(c, err)
		return
	}
	response.Success(c, preview)
}

func respondTemplateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondValidation(c, err)
	case errors.Is(err, service.ErrTemplateNotFound):
		respondError(c, response.CodeNotFound, "error.template_not_found", nil)
	case errors.Is(err, service.ErrTemplateAssigned):
		respondError(c, response.CodeBadRequest, "error.template_assigned", nil)
	default:
		respondError(c, response.CodeInternal, "error.template_save_failed", err)
	}
}
