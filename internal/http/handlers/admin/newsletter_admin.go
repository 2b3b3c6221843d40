package admin

import (
	"errors"
	"strings"
	"time"

	"github.com/whimsicalfrog/wf-admin/internal/http/response"
	"github.com/whimsicalfrog/wf-admin/internal/repository"
	"github.com/whimsicalfrog/wf-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// CampaignRequest 通讯活动请求
type CampaignRequest struct {
	Subject     string     `json:"subject"`
	Content     string     `json:"content"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

func (r CampaignRequest) toInput() service.CampaignInput {
	return service.CampaignInput{
		Subject:     r.Subject,
		Content:     r.Content,
		Status:      r.Status,
		ScheduledAt: r.ScheduledAt,
	}
}

// SubscriberRequest 订阅者请求
type SubscriberRequest struct {
	Email     string `json:"email" binding:"required"`
	FirstName string `json:"first_name"`
}

// ListCampaigns 活动列表
func (h *Handler) ListCampaigns(c *gin.Context) {
	page, pageSize := parsePage(c)
	campaigns, total, err := h.NewsletterService.ListCampaigns(repository.CampaignListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, campaigns, pagination(page, pageSize, total))
}

// GetCampaign 活动详情
func (h *Handler) GetCampaign(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	campaign, err := h.NewsletterService.GetCampaign(id)
	if err != nil {
		respondNewsletterError(c, err)
		return
	}
	response.Success(c, campaign)
}

// CreateCampaign 创建活动
func (h *Handler) CreateCampaign(c *gin.Context) {
	var req CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	campaign, err := h.NewsletterService.CreateCampaign(req.toInput())
	if err != nil {
		respondNewsletterError(c, err)
		return
	}
	response.Success(c, campaign)
}

// UpdateCampaign 更新活动
func (h *Handler) UpdateCampaign(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	campaign, err := h.NewsletterService.UpdateCampaign(id, req.toInput())
	if err != nil {
		respondNewsletterError(c, err)
		return
	}
	response.Success(c, campaign)
}

// DeleteCampaign 删除活动
func (h *Handler) DeleteCampaign(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.NewsletterService.DeleteCampaign(id); err != nil {
		respondNewsletterError(c, err)
		return
	}
	response.Success(c, nil)
}

// ListSubscribers 订阅者列表
func (h *Handler) ListSubscribers(c *gin.Context) {
	page, pageSize := parsePage(c)
	subscribers, total, err := h.NewsletterService.ListSubscribers(repository.SubscriberListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     strings.TrimSpace(c.Query("search")),
		OnlyActive: parseQueryBool(c, "only_active"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, subscribers, pagination(page, pageSize, total))
}

// AddSubscriber 新增订阅者
func (h *Handler) AddSubscriber(c *gin.Context) {
	var req SubscriberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	subscriber, err := h.NewsletterService.AddSubscriber(service.SubscriberInput{
		Email:     req.Email,
		FirstName: req.FirstName,
	})
	if err != nil {
		respondNewsletterError(c, err)
		return
	}
	response.Success(c, subscriber)
}

// DeactivateSubscriber 退订
func (h *Handler) DeactivateSubscriber(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	subscriber, err := h.NewsletterService.DeactivateSubscriber(id)
	if err != nil {
		respondNewsletterError(c, err)
		return
	}
	response.Success(c, subscriber)
}

func respondNewsletterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondValidation(c, err)
	case errors.Is(err, service.ErrCampaignNotFound):
		respondError(c, response.CodeNotFound, "error.campaign_not_found", nil)
	case errors.Is(err, service.ErrCampaignSent):
		respondError(c, response.CodeBadRequest, "error.campaign_sent", nil)
	case errors.Is(err, service.ErrSubscriberExists):
		respondError(c, response.CodeBadRequest, "error.subscriber_exists", nil)
	case errors.Is(err, service.ErrSubscriberNotFound):
		respondError(c, response.CodeNotFound, "error.subscriber_not_found", nil)
	default:
		respondError(c, response.CodeInternal, "error.campaign_save_failed", err)
	}
}
