package repository

import (
	"errors"

	"github.com/whimsicalfrog/wf-admin/internal/models"

	"gorm.io/gorm"
)

// RoomRepository 房间分类陈列数据访问接口
type RoomRepository interface {
	ListByRoom(room int) ([]models.RoomCategoryAssignment, error)
	Get(room int, categoryID uint) (*models.RoomCategoryAssignment, error)
	Create(assignment *models.RoomCategoryAssignment) error
	Delete(room int, categoryID uint) (bool, error)
	DeleteByCategory(categoryID uint) error
	ClearPrimary(room int) error
	SetPrimary(room int, categoryID uint) error
	UpdateDisplayOrder(room int, categoryID uint, order int) error
	MaxDisplayOrder(room int) (int, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) RoomRepository
}

// GormRoomRepository GORM 实现
type GormRoomRepository struct {
	db *gorm.DB
}

// NewRoomRepository 创建房间陈列仓库
func NewRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRoomRepository) WithTx(tx *gorm.DB) RoomRepository {
	if tx == nil {
		return r
	}
	return &GormRoomRepository{db: tx}
}

// Transaction 执行事务
func (r *GormRoomRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// ListByRoom 房间内分类（主分类优先，再按顺序）
func (r *GormRoomRepository) ListByRoom(room int) ([]models.RoomCategoryAssignment, error) {
	var assignments []models.RoomCategoryAssignment
	if err := r.db.Preload("Category").
		Where("room_number = ?", room).
		Order("is_primary DESC, display_order ASC, id ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// Get 获取单条分配
func (r *GormRoomRepository) Get(room int, categoryID uint) (*models.RoomCategoryAssignment, error) {
	var assignment models.RoomCategoryAssignment
	if err := r.db.Where("room_number = ? AND category_id = ?", room, categoryID).First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

// Create 新增分配
func (r *GormRoomRepository) Create(assignment *models.RoomCategoryAssignment) error {
	return r.db.Omit("Category").Create(assignment).Error
}

// Delete 移除分配，返回是否存在
func (r *GormRoomRepository) Delete(room int, categoryID uint) (bool, error) {
	result := r.db.Where("room_number = ? AND category_id = ?", room, categoryID).Delete(&models.RoomCategoryAssignment{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteByCategory 删除分类在所有房间的分配
func (r *GormRoomRepository) DeleteByCategory(categoryID uint) error {
	return r.db.Where("category_id = ?", categoryID).Delete(&models.RoomCategoryAssignment{}).Error
}

// ClearPrimary 取消房间内全部主分类标记
func (r *GormRoomRepository) ClearPrimary(room int) error {
	return r.db.Model(&models.RoomCategoryAssignment{}).
		Where("room_number = ? AND is_primary = ?", room, true).
		Update("is_primary", false).Error
}

// SetPrimary 标记主分类
func (r *GormRoomRepository) SetPrimary(room int, categoryID uint) error {
	return r.db.Model(&models.RoomCategoryAssignment{}).
		Where("room_number = ? AND category_id = ?", room, categoryID).
		Update("is_primary", true).Error
}

// UpdateDisplayOrder 更新展示顺序
func (r *GormRoomRepository) UpdateDisplayOrder(room int, categoryID uint, order int) error {
	return r.db.Model(&models.RoomCategoryAssignment{}).
		Where("room_number = ? AND category_id = ?", room, categoryID).
		Update("display_order", order).Error
}

// MaxDisplayOrder 房间内最大展示顺序，空房间返回 -1
func (r *GormRoomRepository) MaxDisplayOrder(room int) (int, error) {
	var maxOrder *int
	if err := r.db.Model(&models.RoomCategoryAssignment{}).
		Where("room_number = ?", room).
		Select("MAX(display_order)").
		Scan(&maxOrder).Error; err != nil {
		return 0, err
	}
	if maxOrder == nil {
		return -1, nil
	}
	return *maxOrder, nil
}
