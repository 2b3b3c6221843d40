package repository

import (
	"errors"

	"github.com/whimsicalfrog/wf-admin/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmailTemplateRepository 邮件模板数据访问接口
type EmailTemplateRepository interface {
	List(templateType string) ([]models.EmailTemplate, error)
	GetByID(id uint) (*models.EmailTemplate, error)
	Create(template *models.EmailTemplate) error
	Update(template *models.EmailTemplate) error
	Delete(id uint) error
	ListAssignments() ([]models.EmailTemplateAssignment, error)
	UpsertAssignment(assignment *models.EmailTemplateAssignment) error
	CountAssignmentsByTemplate(templateID uint) (int64, error)
}

// GormEmailTemplateRepository GORM 实现
type GormEmailTemplateRepository struct {
	db *gorm.DB
}

// NewEmailTemplateRepository 创建邮件模板仓库
func NewEmailTemplateRepository(db *gorm.DB) *GormEmailTemplateRepository {
	return &GormEmailTemplateRepository{db: db}
}

// List 模板列表，可按类型过滤
func (r *GormEmailTemplateRepository) List(templateType string) ([]models.EmailTemplate, error) {
	var templates []models.EmailTemplate
	query := r.db.Model(&models.EmailTemplate{})
	if templateType != "" {
		query = query.Where("template_type = ?", templateType)
	}
	if err := query.Order("template_type ASC, template_name ASC").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// GetByID 根据 ID 获取模板
func (r *GormEmailTemplateRepository) GetByID(id uint) (*models.EmailTemplate, error) {
	var template models.EmailTemplate
	if err := r.db.First(&template, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

// Create 创建模板
func (r *GormEmailTemplateRepository) Create(template *models.EmailTemplate) error {
	return r.db.Create(template).Error
}

// Update 更新模板
func (r *GormEmailTemplateRepository) Update(template *models.EmailTemplate) error {
	return r.db.Save(template).Error
}

// Delete 删除模板
func (r *GormEmailTemplateRepository) Delete(id uint) error {
	return r.db.Delete(&models.EmailTemplate{}, id).Error
}

// ListAssignments 全部邮件类型绑定
func (r *GormEmailTemplateRepository) ListAssignments() ([]models.EmailTemplateAssignment, error) {
	var assignments []models.EmailTemplateAssignment
	if err := r.db.Order("email_type ASC").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// UpsertAssignment 绑定邮件类型到模板
func (r *GormEmailTemplateRepository) UpsertAssignment(assignment *models.EmailTemplateAssignment) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"template_id", "updated_at"}),
	}).Create(assignment).Error
}

// CountAssignmentsByTemplate 统计模板被绑定次数
func (r *GormEmailTemplateRepository) CountAssignmentsByTemplate(templateID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.EmailTemplateAssignment{}).Where("template_id = ?", templateID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
