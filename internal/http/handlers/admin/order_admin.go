package admin

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/whimsicalfrog/wf-admin/internal/http/response"
	"github.com/whimsicalfrog/wf-admin/internal/repository"
	"github.com/whimsicalfrog/wf-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminListOrders 管理端订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, pageSize := parsePage(c)

	orders, total, err := h.OrderService.List(repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		OrderStatus:   strings.TrimSpace(c.Query("order_status")),
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
		Search:        strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, pagination(page, pageSize, total))
}

// AdminGetOrder 管理端订单详情（含订单项）
func (h *Handler) AdminGetOrder(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.OrderService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.Success(c, order)
}

// AdminUpdateOrder 部分更新订单
// 请求体为 JSON 对象，只处理出现的字段；校验失败返回 422，数据库不做任何写入
func (h *Handler) AdminUpdateOrder(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.OrderService.UpdateFromJSON(c.Request.Context(), id, raw)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			respondValidation(c, err)
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.order_update_failed", err)
		}
		return
	}

	requestLog(c).Infow("admin_order_updated",
		"order_id", result.OrderID,
		"admin", adminSubject(c),
		"updated_fields", result.UpdatedFields,
	)
	response.Success(c, result)
}
