package repository

import (
	"github.com/whimsicalfrog/wf-admin/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceRepository 单调序列数据访问接口
type SequenceRepository interface {
	Reserve(name string, floor int64, count int) (int64, error)
	WithTx(tx *gorm.DB) SequenceRepository
}

// GormSequenceRepository GORM 实现
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository 创建序列仓库
func NewSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSequenceRepository) WithTx(tx *gorm.DB) SequenceRepository {
	if tx == nil {
		return r
	}
	return &GormSequenceRepository{db: tx}
}

// Reserve 预留 count 个连续序号，返回第一个
// floor 为已知的最大已用值，序列不会回退到它之下
func (r *GormSequenceRepository) Reserve(name string, floor int64, count int) (int64, error) {
	if count <= 0 {
		count = 1
	}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Sequence{Name: name, Value: 0}).Error; err != nil {
		return 0, err
	}
	next := gorm.Expr("(CASE WHEN value < ? THEN ? ELSE value END) + ?", floor, floor, count)
	if err := r.db.Model(&models.Sequence{}).Where("name = ?", name).Update("value", next).Error; err != nil {
		return 0, err
	}

	var seq models.Sequence
	if err := r.db.Where("name = ?", name).First(&seq).Error; err != nil {
		return 0, err
	}
	return seq.Value - int64(count) + 1, nil
}
