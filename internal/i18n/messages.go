package i18n

var catalogs = map[string]map[string]string{
	LocaleEnUS: {
		"error.bad_request":              "Invalid request parameters",
		"error.unauthorized":             "Unauthorized",
		"error.forbidden":                "Forbidden",
		"error.not_found":                "Resource not found",
		"error.internal":                 "Internal server error",
		"error.auth_header_missing":      "Missing Authorization header",
		"error.auth_header_invalid":      "Malformed Authorization header",
		"error.token_invalid":            "Invalid or expired token",
		"error.auth_not_configured":      "Admin authentication is not configured",
		"error.rate_limited":             "Too many requests, retry in %d seconds",
		"error.rate_limit_unavailable":   "Rate limiter unavailable",
		"error.validation_failed":        "Validation failed",
		"error.order_not_found":          "Order not found",
		"error.order_update_failed":      "Failed to update order",
		"error.order_fetch_failed":       "Failed to load order",
		"error.item_not_found":           "Item not found",
		"error.item_exists":              "An item with this SKU already exists",
		"error.item_fetch_failed":        "Failed to load items",
		"error.item_save_failed":         "Failed to save item",
		"error.item_delete_failed":       "Failed to delete item",
		"error.color_not_found":          "Color not found",
		"error.size_not_found":           "Size not found",
		"error.stock_sync_failed":        "Failed to synchronize stock",
		"error.category_not_found":       "Category not found",
		"error.category_exists":          "Category name or code already in use",
		"error.category_in_use":          "Category still has items",
		"error.category_save_failed":     "Failed to save category",
		"error.category_fetch_failed":    "Failed to fetch categories",
		"error.setting_save_failed":      "Failed to save setting",
		"error.setting_fetch_failed":     "Failed to load settings",
		"error.cascade_invalid":          "Invalid cascade dimensions",
		"error.cascade_fetch_failed":     "Failed to resolve cascade settings",
		"error.cascade_not_found":        "Cascade override not found",
		"error.ai_provider_unknown":      "Unknown AI provider",
		"error.ai_operation_unknown":     "Unknown AI operation",
		"error.ai_action_unknown":        "Unknown action key",
		"error.ai_generation_failed":     "Content generation failed",
		"error.image_path_invalid":       "Image path is outside the images directory",
		"error.image_process_failed":     "Image processing failed",
		"error.cleanup_job_not_found":    "Cleanup job not found",
		"error.cleanup_job_busy":         "Cleanup job is already running a step",
		"error.cleanup_action_invalid":   "Unknown cleanup action",
		"error.cleanup_failed":           "Cleanup step failed",
		"error.template_not_found":       "Email template not found",
		"error.template_invalid":         "Invalid email template",
		"error.template_save_failed":     "Failed to save email template",
		"error.template_assigned":        "Template is still assigned to an email type",
		"error.campaign_not_found":       "Newsletter campaign not found",
		"error.campaign_save_failed":     "Failed to save newsletter campaign",
		"error.campaign_sent":            "Sent campaigns cannot be modified",
		"error.subscriber_exists":        "Subscriber already exists",
		"error.subscriber_not_found":     "Subscriber not found",
		"error.subscriber_save_failed":   "Failed to save subscriber",
		"error.room_assignment_invalid":  "Invalid room assignment",
		"error.room_assignment_missing":  "Room assignment not found",
		"error.room_assignment_failed":   "Failed to update room assignment",
		"error.room_assignment_exists":   "Category is already assigned to this room",
		"error.marketing_not_found":      "No marketing suggestion for this item",
		"error.pricing_kind_invalid":     "Pricing kind must be cost or price",
		"error.estimate_failed":          "Failed to estimate cost",
		"error.sku_rewrite_enqueue_fail": "Failed to schedule SKU rewrite",
	},
	LocaleZhCN: {
		"error.bad_request":              "请求参数错误",
		"error.unauthorized":             "未授权",
		"error.forbidden":                "无权限",
		"error.not_found":                "资源不存在",
		"error.internal":                 "服务器内部错误",
		"error.auth_header_missing":      "缺少 Authorization 请求头",
		"error.auth_header_invalid":      "Authorization 格式错误",
		"error.token_invalid":            "令牌无效或已过期",
		"error.auth_not_configured":      "管理端鉴权未配置",
		"error.rate_limited":             "请求过于频繁，请 %d 秒后重试",
		"error.rate_limit_unavailable":   "限流服务不可用",
		"error.validation_failed":        "参数校验失败",
		"error.order_not_found":          "订单不存在",
		"error.order_update_failed":      "订单更新失败",
		"error.order_fetch_failed":       "订单查询失败",
		"error.item_not_found":           "商品不存在",
		"error.item_exists":              "SKU 已存在",
		"error.item_fetch_failed":        "商品查询失败",
		"error.item_save_failed":         "商品保存失败",
		"error.item_delete_failed":       "商品删除失败",
		"error.color_not_found":          "颜色不存在",
		"error.size_not_found":           "尺码不存在",
		"error.stock_sync_failed":        "库存同步失败",
		"error.category_not_found":       "分类不存在",
		"error.category_exists":          "分类名称或编码已被使用",
		"error.category_in_use":          "分类下仍有商品",
		"error.category_save_failed":     "分类保存失败",
		"error.category_fetch_failed":    "分类查询失败",
		"error.setting_save_failed":      "设置保存失败",
		"error.setting_fetch_failed":     "设置查询失败",
		"error.cascade_invalid":          "级联维度无效",
		"error.cascade_fetch_failed":     "级联设置解析失败",
		"error.cascade_not_found":        "级联覆盖不存在",
		"error.ai_provider_unknown":      "未知的 AI 服务商",
		"error.ai_operation_unknown":     "未知的 AI 操作",
		"error.ai_action_unknown":        "未知的动作",
		"error.ai_generation_failed":     "内容生成失败",
		"error.image_path_invalid":       "图片路径超出图片目录",
		"error.image_process_failed":     "图片处理失败",
		"error.cleanup_job_not_found":    "清理任务不存在",
		"error.cleanup_job_busy":         "清理任务正在执行",
		"error.cleanup_action_invalid":   "未知的清理动作",
		"error.cleanup_failed":           "清理步骤执行失败",
		"error.template_not_found":       "邮件模板不存在",
		"error.template_invalid":         "邮件模板无效",
		"error.template_save_failed":     "邮件模板保存失败",
		"error.template_assigned":        "模板仍绑定在邮件类型上",
		"error.campaign_not_found":       "通讯活动不存在",
		"error.campaign_save_failed":     "通讯活动保存失败",
		"error.campaign_sent":            "已发送的活动不可修改",
		"error.subscriber_exists":        "订阅者已存在",
		"error.subscriber_not_found":     "订阅者不存在",
		"error.subscriber_save_failed":   "订阅者保存失败",
		"error.room_assignment_invalid":  "房间分配参数无效",
		"error.room_assignment_missing":  "房间分配不存在",
		"error.room_assignment_failed":   "房间分配更新失败",
		"error.room_assignment_exists":   "分类已在该房间中",
		"error.marketing_not_found":      "该商品暂无营销建议",
		"error.pricing_kind_invalid":     "定价类型必须为 cost 或 price",
		"error.estimate_failed":          "费用估算失败",
		"error.sku_rewrite_enqueue_fail": "SKU 重写任务调度失败",
	},
}
