package repository

import (
	"errors"
	"strings"

	"github.com/whimsicalfrog/wf-admin/internal/models"

	"gorm.io/gorm"
)

// NewsletterRepository 通讯活动与订阅者数据访问接口
type NewsletterRepository interface {
	ListCampaigns(filter CampaignListFilter) ([]models.NewsletterCampaign, int64, error)
	GetCampaign(id uint) (*models.NewsletterCampaign, error)
	CreateCampaign(campaign *models.NewsletterCampaign) error
	UpdateCampaign(campaign *models.NewsletterCampaign) error
	DeleteCampaign(id uint) error
	ListSubscribers(filter SubscriberListFilter) ([]models.NewsletterSubscriber, int64, error)
	GetSubscriber(id uint) (*models.NewsletterSubscriber, error)
	GetSubscriberByEmail(email string) (*models.NewsletterSubscriber, error)
	SaveSubscriber(subscriber *models.NewsletterSubscriber) error
}

// GormNewsletterRepository GORM 实现
type GormNewsletterRepository struct {
	db *gorm.DB
}

// NewNewsletterRepository 创建通讯仓库
func NewNewsletterRepository(db *gorm.DB) *GormNewsletterRepository {
	return &GormNewsletterRepository{db: db}
}

// ListCampaigns 活动列表
func (r *GormNewsletterRepository) ListCampaigns(filter CampaignListFilter) ([]models.NewsletterCampaign, int64, error) {
	var campaigns []models.NewsletterCampaign
	query := r.db.Model(&models.NewsletterCampaign{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id DESC").Find(&campaigns).Error; err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

// GetCampaign 根据 ID 获取活动
func (r *GormNewsletterRepository) GetCampaign(id uint) (*models.NewsletterCampaign, error) {
	var campaign models.NewsletterCampaign
	if err := r.db.First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

// CreateCampaign 创建活动
func (r *GormNewsletterRepository) CreateCampaign(campaign *models.NewsletterCampaign) error {
	return r.db.Create(campaign).Error
}

// UpdateCampaign 更新活动
func (r *GormNewsletterRepository) UpdateCampaign(campaign *models.NewsletterCampaign) error {
	return r.db.Save(campaign).Error
}

// DeleteCampaign 删除活动
func (r *GormNewsletterRepository) DeleteCampaign(id uint) error {
	return r.db.Delete(&models.NewsletterCampaign{}, id).Error
}

// ListSubscribers 订阅者列表
func (r *GormNewsletterRepository) ListSubscribers(filter SubscriberListFilter) ([]models.NewsletterSubscriber, int64, error) {
	var subscribers []models.NewsletterSubscriber
	query := r.db.Model(&models.NewsletterSubscriber{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, args := buildLikeCondition(r.db, search, "email", "first_name")
		query = query.Where(condition, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("subscribed_at DESC, id DESC").Find(&subscribers).Error; err != nil {
		return nil, 0, err
	}
	return subscribers, total, nil
}

// GetSubscriber 根据 ID 获取订阅者
func (r *GormNewsletterRepository) GetSubscriber(id uint) (*models.NewsletterSubscriber, error) {
	var subscriber models.NewsletterSubscriber
	if err := r.db.First(&subscriber, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &subscriber, nil
}

// GetSubscriberByEmail 根据邮箱获取订阅者
func (r *GormNewsletterRepository) GetSubscriberByEmail(email string) (*models.NewsletterSubscriber, error) {
	var subscriber models.NewsletterSubscriber
	if err := r.db.Where("email = ?", email).First(&subscriber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &subscriber, nil
}

// SaveSubscriber 创建或更新订阅者
func (r *GormNewsletterRepository) SaveSubscriber(subscriber *models.NewsletterSubscriber) error {
	return r.db.Save(subscriber).Error
}
