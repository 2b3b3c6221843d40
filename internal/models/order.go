package models

import "time"

// Order 订单表
type Order struct {
	ID               string     `gorm:"primaryKey;type:varchar(32)" json:"id"`                        // 订单号
	CustomerName     string     `gorm:"type:varchar(200)" json:"customer_name"`                       // 客户姓名
	CustomerEmail    string     `gorm:"type:varchar(200);index" json:"customer_email"`                // 客户邮箱
	OrderStatus      string     `gorm:"type:varchar(32);index;not null" json:"order_status"`          // 订单状态
	PaymentStatus    string     `gorm:"type:varchar(32);index;not null" json:"payment_status"`        // 支付状态
	PaymentMethod    string     `gorm:"type:varchar(32)" json:"payment_method"`                       // 支付方式
	ShippingMethod   string     `gorm:"type:varchar(32)" json:"shipping_method"`                      // 配送方式
	TrackingNumber   string     `gorm:"type:varchar(100)" json:"tracking_number"`                     // 物流单号
	PaymentDate      *time.Time `json:"payment_date"`                                                 // 支付日期
	ShippingCost     Money      `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_cost"`   // 运费
	TaxAmount        Money      `gorm:"type:decimal(20,2);not null;default:0" json:"tax_amount"`      // 税费
	DiscountAmount   Money      `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 折扣
	TotalAmount      Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`    // 订单总额
	AddressLine1     string     `gorm:"type:varchar(255)" json:"address_line1"`                       // 地址行 1
	AddressLine2     string     `gorm:"type:varchar(255)" json:"address_line2"`                       // 地址行 2
	City             string     `gorm:"type:varchar(100)" json:"city"`                                // 城市
	State            string     `gorm:"type:varchar(50)" json:"state"`                                // 州
	ZipCode          string     `gorm:"type:varchar(20)" json:"zip_code"`                             // 邮编
	ShippingAddress  string     `gorm:"type:text" json:"shipping_address"`                            // 拼接后的配送地址
	FulfillmentNotes string     `gorm:"type:text" json:"fulfillment_notes"`                           // 履约备注（追加）
	PaymentNotes     string     `gorm:"type:text" json:"payment_notes"`                               // 支付备注（追加）
	AdminNotes       string     `gorm:"type:text" json:"admin_notes"`                                 // 管理备注（追加）
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt        time.Time  `json:"updated_at"`                                                   // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单项表，ID 由序列表生成
type OrderItem struct {
	ID        string    `gorm:"primaryKey;type:varchar(32)" json:"id"`                   // 订单项编号
	OrderID   string    `gorm:"type:varchar(32);index;not null" json:"order_id"`         // 订单号
	SKU       string    `gorm:"type:varchar(64);index;not null" json:"sku"`              // SKU
	ItemName  string    `gorm:"type:varchar(255)" json:"item_name"`                      // 商品名称快照
	Quantity  int       `gorm:"not null" json:"quantity"`                                // 数量
	UnitPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 单价
	Color     string    `gorm:"type:varchar(100)" json:"color"`                          // 颜色
	Size      string    `gorm:"type:varchar(50)" json:"size"`                            // 尺码
	CreatedAt time.Time `json:"created_at"`                                              // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// Sequence 单调递增序列表
type Sequence struct {
	Name  string `gorm:"primaryKey;type:varchar(64)" json:"name"` // 序列名称
	Value int64  `gorm:"not null;default:0" json:"value"`         // 当前值
}

// TableName 指定表名
func (Sequence) TableName() string {
	return "sequences"
}
