package repository

// ItemListFilter 查询商品列表的过滤条件
type ItemListFilter struct {
	Page       int
	PageSize   int
	Category   string
	Search     string
	OnlyActive bool
	LowStock   bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page          int
	PageSize      int
	OrderStatus   string
	PaymentStatus string
	Search        string
}

// CampaignListFilter 查询通讯活动列表的过滤条件
type CampaignListFilter struct {
	Page     int
	PageSize int
	Status   string
}

// SubscriberListFilter 查询订阅者列表的过滤条件
type SubscriberListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}
