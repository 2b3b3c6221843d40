package service

import (
	"strings"
	"time"

	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/repository"
)

// CampaignInput 通讯活动输入
type CampaignInput struct {
	Subject     string
	Content     string
	Status      string
	ScheduledAt *time.Time
}

// SubscriberInput 订阅者输入
type SubscriberInput struct {
	Email     string
	FirstName string
}

// NewsletterService 通讯活动与订阅者管理（不负责投递）
type NewsletterService struct {
	repo repository.NewsletterRepository
	now  func() time.Time
}

// NewNewsletterService 创建通讯服务
func NewNewsletterService(repo repository.NewsletterRepository) *NewsletterService {
	return &NewsletterService{repo: repo, now: time.Now}
}

// ListCampaigns 活动列表
func (s *NewsletterService) ListCampaigns(filter repository.CampaignListFilter) ([]models.NewsletterCampaign, int64, error) {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	return s.repo.ListCampaigns(filter)
}

// GetCampaign 获取活动
func (s *NewsletterService) GetCampaign(id uint) (*models.NewsletterCampaign, error) {
	campaign, err := s.repo.GetCampaign(id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	return campaign, nil
}

// CreateCampaign 创建活动
func (s *NewsletterService) CreateCampaign(input CampaignInput) (*models.NewsletterCampaign, error) {
	input, err := normalizeCampaignInput(input)
	if err != nil {
		return nil, err
	}
	campaign := &models.NewsletterCampaign{}
	s.applyCampaignInput(campaign, input)
	if err := s.repo.CreateCampaign(campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// UpdateCampaign 更新活动，已发送的活动不可修改
func (s *NewsletterService) UpdateCampaign(id uint, input CampaignInput) (*models.NewsletterCampaign, error) {
	input, err := normalizeCampaignInput(input)
	if err != nil {
		return nil, err
	}
	campaign, err := s.GetCampaign(id)
	if err != nil {
		return nil, err
	}
	if campaign.Status == constants.CampaignStatusSent {
		return nil, ErrCampaignSent
	}
	s.applyCampaignInput(campaign, input)
	if err := s.repo.UpdateCampaign(campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// DeleteCampaign 删除活动
func (s *NewsletterService) DeleteCampaign(id uint) error {
	if _, err := s.GetCampaign(id); err != nil {
		return err
	}
	return s.repo.DeleteCampaign(id)
}

// ListSubscribers 订阅者列表
func (s *NewsletterService) ListSubscribers(filter repository.SubscriberListFilter) ([]models.NewsletterSubscriber, int64, error) {
	return s.repo.ListSubscribers(filter)
}

// AddSubscriber 新增订阅者；已退订的邮箱重新激活
func (s *NewsletterService) AddSubscriber(input SubscriberInput) (*models.NewsletterSubscriber, error) {
	email, err := normalizeSubscriberEmail(input.Email)
	if err != nil {
		return nil, err
	}
	subscriber, err := s.repo.GetSubscriberByEmail(email)
	if err != nil {
		return nil, err
	}
	if subscriber != nil && subscriber.IsActive {
		return nil, ErrSubscriberExists
	}
	if subscriber == nil {
		subscriber = &models.NewsletterSubscriber{Email: email}
	}
	if name := strings.TrimSpace(input.FirstName); name != "" {
		subscriber.FirstName = name
	}
	subscriber.IsActive = true
	subscriber.SubscribedAt = s.now()
	if err := s.repo.SaveSubscriber(subscriber); err != nil {
		return nil, err
	}
	return subscriber, nil
}

// DeactivateSubscriber 退订
func (s *NewsletterService) DeactivateSubscriber(id uint) (*models.NewsletterSubscriber, error) {
	subscriber, err := s.repo.GetSubscriber(id)
	if err != nil {
		return nil, err
	}
	if subscriber == nil {
		return nil, ErrSubscriberNotFound
	}
	if !subscriber.IsActive {
		return subscriber, nil
	}
	subscriber.IsActive = false
	if err := s.repo.SaveSubscriber(subscriber); err != nil {
		return nil, err
	}
	return subscriber, nil
}

func (s *NewsletterService) applyCampaignInput(campaign *models.NewsletterCampaign, input CampaignInput) {
	campaign.Subject = input.Subject
	campaign.Content = input.Content
	campaign.Status = input.Status
	campaign.ScheduledAt = input.ScheduledAt
	if input.Status == constants.CampaignStatusSent && campaign.SentAt == nil {
		sentAt := s.now()
		campaign.SentAt = &sentAt
	}
}

func normalizeCampaignInput(input CampaignInput) (CampaignInput, error) {
	input.Subject = strings.TrimSpace(input.Subject)
	input.Status = strings.ToLower(strings.TrimSpace(input.Status))
	if input.Subject == "" {
		return input, newValidationError("subject", "required")
	}
	if input.Status == "" {
		input.Status = constants.CampaignStatusDraft
	}
	switch input.Status {
	case constants.CampaignStatusDraft, constants.CampaignStatusSent:
	case constants.CampaignStatusScheduled:
		if input.ScheduledAt == nil {
			return input, newValidationError("scheduled_at", "required for scheduled campaigns")
		}
	default:
		return input, newValidationError("status", "unknown status %q", input.Status)
	}
	return input, nil
}

func normalizeSubscriberEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", newValidationError("email", "required")
	}
	if !validEmail(email) {
		return "", newValidationError("email", "invalid email address")
	}
	return email, nil
}
