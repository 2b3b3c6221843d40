package models

import "time"

// RoomCategoryAssignment 房间与分类的陈列关系
type RoomCategoryAssignment struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                      // 主键
	RoomNumber   int       `gorm:"not null;uniqueIndex:idx_room_category" json:"room_number"` // 房间编号
	CategoryID   uint      `gorm:"not null;uniqueIndex:idx_room_category" json:"category_id"` // 分类ID
	IsPrimary    bool      `gorm:"not null;default:false" json:"is_primary"`                  // 是否主分类
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`                   // 展示顺序
	CreatedAt    time.Time `json:"created_at"`                                                // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                                // 更新时间

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类
}

// TableName 指定表名
func (RoomCategoryAssignment) TableName() string {
	return "room_category_assignments"
}
