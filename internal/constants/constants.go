package constants

// 订单状态常量
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// 支付状态常量
const (
	PaymentStatusPending  = "Pending"
	PaymentStatusReceived = "Received"
	PaymentStatusRefunded = "Refunded"
	PaymentStatusFailed   = "Failed"
)

// 支付方式常量
const (
	PaymentMethodCreditCard = "Credit Card"
	PaymentMethodCash       = "Cash"
	PaymentMethodCheck      = "Check"
	PaymentMethodPayPal     = "PayPal"
	PaymentMethodVenmo      = "Venmo"
	PaymentMethodSquare     = "Square"
	PaymentMethodOther      = "Other"
)

// 配送方式常量
const (
	ShippingMethodCustomerPickup = "Customer Pickup"
	ShippingMethodLocalDelivery  = "Local Delivery"
	ShippingMethodUSPS           = "USPS"
	ShippingMethodFedEx          = "FedEx"
	ShippingMethodUPS            = "UPS"
)

// OrderStatuses 订单状态白名单
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// PaymentStatuses 支付状态白名单
var PaymentStatuses = []string{
	PaymentStatusPending,
	PaymentStatusReceived,
	PaymentStatusRefunded,
	PaymentStatusFailed,
}

// PaymentMethods 支付方式白名单
var PaymentMethods = []string{
	PaymentMethodCreditCard,
	PaymentMethodCash,
	PaymentMethodCheck,
	PaymentMethodPayPal,
	PaymentMethodVenmo,
	PaymentMethodSquare,
	PaymentMethodOther,
}

// ShippingMethods 配送方式白名单
var ShippingMethods = []string{
	ShippingMethodCustomerPickup,
	ShippingMethodLocalDelivery,
	ShippingMethodUSPS,
	ShippingMethodFedEx,
	ShippingMethodUPS,
}

// 序列名称
const (
	SequenceOrderItem      = "order_item"
	OrderItemIDPrefix      = "OI"
	OrderItemIDDigits      = 10
	SKUPrefix              = "WF"
	SKUSequenceDigits      = 3
	DefaultBusinessTZ      = "America/New_York"
	OrderNoteTimestampForm = "2006-01-02 15:04"
)

// 业务设置值类型
const (
	SettingTypeText    = "text"
	SettingTypeNumber  = "number"
	SettingTypeBoolean = "boolean"
	SettingTypeJSON    = "json"
	SettingTypeColor   = "color"
	SettingTypeEmail   = "email"
	SettingTypeURL     = "url"
)

// 业务设置分类与键
const (
	SettingCategoryBusinessInfo = "business_info"
	SettingCategoryAI           = "ai"
	SettingKeyBusinessTimezone  = "business_timezone"
	SettingKeyAIProvider        = "ai_provider"
	SettingKeyAIModel           = "ai_model"
	SettingKeyAIAPIKey          = "ai_api_key"
	SettingKeyAIBrandVoice      = "ai_brand_voice"
	SettingKeyAIContentTone     = "ai_content_tone"
)

// 选项级联维度
const (
	CascadeDimensionGender = "gender"
	CascadeDimensionSize   = "size"
	CascadeDimensionColor  = "color"
	CascadeScopeSKU        = "sku"
	CascadeScopeCategory   = "category"
	CascadeSourceDefault   = "default"
)

// CascadeDimensions 默认级联维度及顺序
var CascadeDimensions = []string{
	CascadeDimensionGender,
	CascadeDimensionSize,
	CascadeDimensionColor,
}

// AI 服务商
const (
	AIProviderOpenAI    = "openai"
	AIProviderAnthropic = "anthropic"
	AIProviderGoogle    = "google"
	AIProviderMeta      = "meta"
	AIProviderJonsAI    = "jons_ai"
)

// 内容来源
const (
	ContentSourceAI        = "ai"
	ContentSourceHeuristic = "heuristic"
	ContentSourceRefined   = "ai_refined"
)

// 定价建议类型
const (
	PricingKindCost  = "cost"
	PricingKindPrice = "price"
)

// 图片裁剪策略
const (
	CropMethodAI            = "ai_vision"
	CropMethodEdgeDetection = "edge_detection"
	CropMethodFixedTrim     = "fixed_trim"
)

// 图片输出格式
const (
	ImageFormatWebP = "webp"
	ImageFormatPNG  = "png"
	ImageFormatJPEG = "jpeg"
)

// 处理步骤状态
const (
	StepStatusOK      = "ok"
	StepStatusSkipped = "skipped"
	StepStatusFailed  = "failed"
)

// 图片清理任务阶段
const (
	CleanupPhaseInit               = "init"
	CleanupPhaseBuildingReferences = "building_references"
	CleanupPhaseArchiving          = "archiving"
	CleanupPhaseComplete           = "complete"
	CleanupActionStart             = "start"
	CleanupActionStep              = "step"
)

// 邮件模板类型
const (
	EmailTypeOrderConfirmation = "order_confirmation"
	EmailTypeAdminNotification = "admin_notification"
	EmailTypeWelcome           = "welcome"
	EmailTypePasswordReset     = "password_reset"
	EmailTypeCustom            = "custom"
)

// EmailTypes 邮件模板类型白名单
var EmailTypes = []string{
	EmailTypeOrderConfirmation,
	EmailTypeAdminNotification,
	EmailTypeWelcome,
	EmailTypePasswordReset,
	EmailTypeCustom,
}

// 通讯活动状态
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusScheduled = "scheduled"
	CampaignStatusSent      = "sent"
)

// 队列与任务
const (
	QueueDefault           = "default"
	TaskCategorySKURewrite = "category:sku_rewrite"
)

// 后台任务名称（指标标签）
const (
	JobSKURewrite   = "sku_rewrite"
	JobImageCleanup = "image_cleanup"
)

// 管理端角色
const (
	AdminRoleAdmin = "admin"
)
