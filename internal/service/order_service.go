package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单业务服务
type OrderService struct {
	orderRepo repository.OrderRepository
	itemRepo  repository.ItemRepository
	seqRepo   repository.SequenceRepository
	settings  *BusinessSettingService
	defaultTZ string
	now       func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	itemRepo repository.ItemRepository,
	seqRepo repository.SequenceRepository,
	settings *BusinessSettingService,
	defaultTZ string,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		seqRepo:   seqRepo,
		settings:  settings,
		defaultTZ: defaultTZ,
		now:       time.Now,
	}
}

// OrderUpdateResult 订单更新结果
type OrderUpdateResult struct {
	OrderID       string       `json:"order_id"`
	TotalAmount   models.Money `json:"total_amount"`
	UpdatedFields []string     `json:"updated_fields"`
}

// Location 当前业务时区
func (s *OrderService) Location(ctx context.Context) *time.Location {
	return s.settings.Location(ctx, s.defaultTZ)
}

// Get 获取订单详情
func (s *OrderService) Get(id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// List 订单列表
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// UpdateFromJSON 校验原始补丁后更新订单
func (s *OrderService) UpdateFromJSON(ctx context.Context, id string, raw map[string]json.RawMessage) (*OrderUpdateResult, error) {
	patch, err := ParseOrderPatch(raw, s.Location(ctx))
	if err != nil {
		return nil, err
	}
	return s.UpdateOrder(ctx, id, patch)
}

// UpdateOrder 在单个事务中应用补丁，按已持久化订单项重算总额
func (s *OrderService) UpdateOrder(ctx context.Context, id string, patch *OrderPatch) (*OrderUpdateResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrOrderNotFound
	}
	if patch == nil {
		patch = &OrderPatch{}
	}
	loc := s.Location(ctx)
	now := s.now().In(loc)

	var result *OrderUpdateResult
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}

		updates := make(map[string]interface{})
		fields := make([]string, 0)
		set := func(column string, value interface{}) {
			updates[column] = value
			fields = append(fields, column)
		}

		if patch.OrderStatus != nil {
			set("order_status", *patch.OrderStatus)
		}
		if patch.PaymentStatus != nil {
			set("payment_status", *patch.PaymentStatus)
		}
		if patch.PaymentMethod != nil {
			set("payment_method", *patch.PaymentMethod)
		}
		if patch.ShippingMethod != nil {
			set("shipping_method", *patch.ShippingMethod)
		}
		if patch.TrackingNumber != nil {
			set("tracking_number", *patch.TrackingNumber)
		}

		switch {
		case patch.PaymentDate != nil:
			set("payment_date", *patch.PaymentDate)
		case patch.ClearPaymentDate:
			set("payment_date", nil)
		case patch.PaymentStatus != nil && *patch.PaymentStatus == constants.PaymentStatusReceived && order.PaymentDate == nil:
			set("payment_date", now)
		}

		if patch.HasAddress() {
			merged := mergeAddress(order, patch)
			if patch.AddressLine1 != nil {
				set("address_line1", merged.line1)
			}
			if patch.AddressLine2 != nil {
				set("address_line2", merged.line2)
			}
			if patch.City != nil {
				set("city", merged.city)
			}
			if patch.State != nil {
				set("state", merged.state)
			}
			if patch.ZipCode != nil {
				set("zip_code", merged.zip)
			}
			set("shipping_address", merged.String())
		}

		shipping, tax, discount := order.ShippingCost, order.TaxAmount, order.DiscountAmount
		if patch.ShippingCost != nil {
			shipping = *patch.ShippingCost
			set("shipping_cost", shipping)
		}
		if patch.TaxAmount != nil {
			tax = *patch.TaxAmount
			set("tax_amount", tax)
		}
		if patch.DiscountAmount != nil {
			discount = *patch.DiscountAmount
			set("discount_amount", discount)
		}

		if patch.HasItems {
			items, err := s.buildOrderItems(tx, patch.Items)
			if err != nil {
				return err
			}
			if err := orderRepo.ReplaceItems(order.ID, items); err != nil {
				return err
			}
			fields = append(fields, "items")
		}

		notes := []struct {
			column  string
			current string
			text    string
		}{
			{column: "fulfillment_notes", current: order.FulfillmentNotes, text: patch.FulfillmentNote},
			{column: "payment_notes", current: order.PaymentNotes, text: patch.PaymentNote},
			{column: "admin_notes", current: order.AdminNotes, text: patch.AdminNote},
		}
		for _, note := range notes {
			if note.text == "" {
				continue
			}
			set(note.column, appendOrderNote(note.current, note.text, now))
		}

		total := order.TotalAmount
		if patch.HasItems || patch.HasFinancials() {
			persisted, err := orderRepo.ListItems(order.ID)
			if err != nil {
				return err
			}
			total = computeOrderTotal(persisted, shipping, tax, discount)
			set("total_amount", total)
		}

		if err := orderRepo.UpdateFields(order.ID, updates); err != nil {
			return err
		}
		result = &OrderUpdateResult{
			OrderID:       order.ID,
			TotalAmount:   total,
			UpdatedFields: fields,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *OrderService) buildOrderItems(tx *gorm.DB, inputs []OrderItemInput) ([]models.OrderItem, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	orderRepo := s.orderRepo.WithTx(tx)
	maxID, err := orderRepo.MaxOrderItemID()
	if err != nil {
		return nil, err
	}
	first, err := s.seqRepo.WithTx(tx).Reserve(constants.SequenceOrderItem, parseOrderItemNumber(maxID), len(inputs))
	if err != nil {
		return nil, err
	}

	itemRepo := s.itemRepo.WithTx(tx)
	items := make([]models.OrderItem, 0, len(inputs))
	for idx, input := range inputs {
		name := input.ItemName
		if name == "" {
			item, err := itemRepo.GetBySKU(input.SKU)
			if err != nil {
				return nil, err
			}
			if item != nil {
				name = item.Name
			}
		}
		items = append(items, models.OrderItem{
			ID:        formatOrderItemID(first + int64(idx)),
			SKU:       input.SKU,
			ItemName:  name,
			Quantity:  input.Quantity,
			UnitPrice: input.UnitPrice,
			Color:     input.Color,
			Size:      input.Size,
		})
	}
	return items, nil
}

// computeOrderTotal Σ qty×unit_price + shipping + tax − discount，保留 2 位
func computeOrderTotal(items []models.OrderItem, shipping, tax, discount models.Money) models.Money {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	total := subtotal.Add(shipping.Decimal).Add(tax.Decimal).Sub(discount.Decimal)
	return models.NewMoneyFromDecimal(total)
}

func formatOrderItemID(n int64) string {
	return fmt.Sprintf("%s%0*d", constants.OrderItemIDPrefix, constants.OrderItemIDDigits, n)
}

func parseOrderItemNumber(id string) int64 {
	digits := strings.TrimPrefix(strings.TrimSpace(id), constants.OrderItemIDPrefix)
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func appendOrderNote(current, text string, at time.Time) string {
	line := "[" + at.Format(constants.OrderNoteTimestampForm) + "] " + text
	if strings.TrimSpace(current) == "" {
		return line
	}
	return current + "\n" + line
}

type orderAddress struct {
	line1 string
	line2 string
	city  string
	state string
	zip   string
}

func mergeAddress(order *models.Order, patch *OrderPatch) orderAddress {
	pick := func(override *string, stored string) string {
		if override != nil {
			return *override
		}
		return strings.TrimSpace(stored)
	}
	return orderAddress{
		line1: pick(patch.AddressLine1, order.AddressLine1),
		line2: pick(patch.AddressLine2, order.AddressLine2),
		city:  pick(patch.City, order.City),
		state: pick(patch.State, order.State),
		zip:   pick(patch.ZipCode, order.ZipCode),
	}
}

// String 拼接为 line1[, line2], city, state zip，省略空段
func (a orderAddress) String() string {
	parts := make([]string, 0, 4)
	for _, part := range []string{a.line1, a.line2, a.city} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if tail := strings.TrimSpace(a.state + " " + a.zip); tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}
