package repository

import (
	"errors"
	"strings"

	"github.com/whimsicalfrog/wf-admin/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	GetByID(id string) (*models.Order, error)
	GetByIDForUpdate(id string) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	ListItems(orderID string) ([]models.OrderItem, error)
	UpdateFields(id string, updates map[string]interface{}) error
	ReplaceItems(orderID string, items []models.OrderItem) error
	MaxOrderItemID() (string, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction 执行事务
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

func (r *GormOrderRepository) withItems(query *gorm.DB) *gorm.DB {
	return query.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

// GetByID 根据订单号获取订单（含订单项）
func (r *GormOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.withItems(r.db).Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDForUpdate 在事务内锁定订单行（不含订单项）
func (r *GormOrderRepository) GetByIDForUpdate(id string) (*models.Order, error) {
	var order models.Order
	if err := lockForUpdate(r.db).Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List 管理端订单列表
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	query := r.db.Model(&models.Order{})
	if filter.OrderStatus != "" {
		query = query.Where("order_status = ?", filter.OrderStatus)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, args := buildLikeCondition(r.db, search, "id", "customer_name", "customer_email")
		query = query.Where(condition, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListItems 读取已持久化的订单项
func (r *GormOrderRepository) ListItems(orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.db.Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateFields 以单条 UPDATE 写入字段
func (r *GormOrderRepository) UpdateFields(id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// ReplaceItems 删除全部订单项后重新写入
func (r *GormOrderRepository) ReplaceItems(orderID string, items []models.OrderItem) error {
	if err := r.db.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	return r.db.Create(&items).Error
}

// MaxOrderItemID 返回当前最大的订单项编号，没有时返回空串
func (r *GormOrderRepository) MaxOrderItemID() (string, error) {
	var ids []string
	if err := r.db.Model(&models.OrderItem{}).
		Order("id DESC").
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}
