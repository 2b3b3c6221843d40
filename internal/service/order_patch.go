package service

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/models"
)

// payment_date 接受的格式（按业务时区解释）
var paymentDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// OrderPatch 已校验的订单局部更新
type OrderPatch struct {
	OrderStatus      *string
	PaymentStatus    *string
	PaymentMethod    *string
	ShippingMethod   *string
	TrackingNumber   *string
	PaymentDate      *time.Time
	ClearPaymentDate bool
	ShippingCost     *models.Money
	TaxAmount        *models.Money
	DiscountAmount   *models.Money
	AddressLine1     *string
	AddressLine2     *string
	City             *string
	State            *string
	ZipCode          *string
	Items            []OrderItemInput
	HasItems         bool
	FulfillmentNote  string
	PaymentNote      string
	AdminNote        string
}

// OrderItemInput 订单项输入
type OrderItemInput struct {
	SKU       string
	ItemName  string
	Quantity  int
	UnitPrice models.Money
	Color     string
	Size      string
}

type orderItemPayload struct {
	SKU       string          `json:"sku"`
	ItemName  string          `json:"item_name"`
	Quantity  json.RawMessage `json:"quantity"`
	UnitPrice json.RawMessage `json:"unit_price"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
}

// HasAddress 是否包含地址字段
func (p *OrderPatch) HasAddress() bool {
	return p.AddressLine1 != nil || p.AddressLine2 != nil || p.City != nil || p.State != nil || p.ZipCode != nil
}

// HasFinancials 是否包含运费/税费/折扣
func (p *OrderPatch) HasFinancials() bool {
	return p.ShippingCost != nil || p.TaxAmount != nil || p.DiscountAmount != nil
}

// ParseOrderPatch 在写库前校验全部字段，日期按 loc 解释
func ParseOrderPatch(raw map[string]json.RawMessage, loc *time.Location) (*OrderPatch, error) {
	if loc == nil {
		loc = time.UTC
	}
	patch := &OrderPatch{}
	var err error

	enumFields := []struct {
		key     string
		allowed []string
		dest    **string
	}{
		{key: "order_status", allowed: constants.OrderStatuses, dest: &patch.OrderStatus},
		{key: "payment_status", allowed: constants.PaymentStatuses, dest: &patch.PaymentStatus},
		{key: "payment_method", allowed: constants.PaymentMethods, dest: &patch.PaymentMethod},
		{key: "shipping_method", allowed: constants.ShippingMethods, dest: &patch.ShippingMethod},
	}
	for _, field := range enumFields {
		value, ok := raw[field.key]
		if !ok {
			continue
		}
		if *field.dest, err = parseEnum(field.key, value, field.allowed); err != nil {
			return nil, err
		}
	}

	textFields := []struct {
		key  string
		dest **string
	}{
		{key: "tracking_number", dest: &patch.TrackingNumber},
		{key: "address_line1", dest: &patch.AddressLine1},
		{key: "address_line2", dest: &patch.AddressLine2},
		{key: "city", dest: &patch.City},
		{key: "state", dest: &patch.State},
		{key: "zip_code", dest: &patch.ZipCode},
	}
	for _, field := range textFields {
		value, ok := raw[field.key]
		if !ok {
			continue
		}
		if *field.dest, err = parseOptionalText(field.key, value); err != nil {
			return nil, err
		}
	}

	moneyFields := []struct {
		key  string
		dest **models.Money
	}{
		{key: "shipping_cost", dest: &patch.ShippingCost},
		{key: "tax_amount", dest: &patch.TaxAmount},
		{key: "discount_amount", dest: &patch.DiscountAmount},
	}
	for _, field := range moneyFields {
		value, ok := raw[field.key]
		if !ok {
			continue
		}
		amount, err := parseNonNegativeMoney(field.key, value)
		if err != nil {
			return nil, err
		}
		*field.dest = &amount
	}

	if value, ok := raw["payment_date"]; ok {
		if isJSONNull(value) {
			patch.ClearPaymentDate = true
		} else {
			date, err := parsePaymentDate(value, loc)
			if err != nil {
				return nil, err
			}
			if date == nil {
				patch.ClearPaymentDate = true
			}
			patch.PaymentDate = date
		}
	}

	if value, ok := raw["items"]; ok {
		items, err := parseOrderItems(value)
		if err != nil {
			return nil, err
		}
		patch.Items = items
		patch.HasItems = true
	}

	noteFields := []struct {
		key  string
		dest *string
	}{
		{key: "fulfillment_note", dest: &patch.FulfillmentNote},
		{key: "payment_note", dest: &patch.PaymentNote},
		{key: "admin_note", dest: &patch.AdminNote},
	}
	for _, field := range noteFields {
		value, ok := raw[field.key]
		if !ok || isJSONNull(value) {
			continue
		}
		var note string
		if err := json.Unmarshal(value, &note); err != nil {
			return nil, newValidationError(field.key, "must be a string")
		}
		*field.dest = strings.TrimSpace(note)
	}
	return patch, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

func parseEnum(field string, raw json.RawMessage, allowed []string) (*string, error) {
	var value string
	if isJSONNull(raw) || json.Unmarshal(raw, &value) != nil {
		return nil, newValidationError(field, "must be one of %s", strings.Join(allowed, ", "))
	}
	value = strings.TrimSpace(value)
	for _, candidate := range allowed {
		if strings.EqualFold(candidate, value) {
			canonical := candidate
			return &canonical, nil
		}
	}
	return nil, newValidationError(field, "must be one of %s", strings.Join(allowed, ", "))
}

func parseOptionalText(field string, raw json.RawMessage) (*string, error) {
	value := ""
	if !isJSONNull(raw) {
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, newValidationError(field, "must be a string")
		}
	}
	value = strings.TrimSpace(value)
	return &value, nil
}

func parseNonNegativeMoney(field string, raw json.RawMessage) (models.Money, error) {
	if isJSONNull(raw) {
		return models.Money{}, newValidationError(field, "must be a number")
	}
	var amount models.Money
	if err := json.Unmarshal(raw, &amount); err != nil {
		return models.Money{}, newValidationError(field, "must be a number")
	}
	if amount.IsNegative() {
		return models.Money{}, newValidationError(field, "must not be negative")
	}
	return amount, nil
}

func parsePaymentDate(raw json.RawMessage, loc *time.Location) (*time.Time, error) {
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, newValidationError("payment_date", "must be a date string")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range paymentDateLayouts {
		parsed, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return &parsed, nil
		}
	}
	return nil, newValidationError("payment_date", "must be YYYY-MM-DD, YYYY-MM-DD HH:MM:SS or RFC3339")
}

func parseOrderItems(raw json.RawMessage) ([]OrderItemInput, error) {
	var payloads []orderItemPayload
	if isJSONNull(raw) {
		return []OrderItemInput{}, nil
	}
	if err := json.Unmarshal(raw, &payloads); err != nil {
		return nil, newValidationError("items", "must be an array of line items")
	}
	items := make([]OrderItemInput, 0, len(payloads))
	for idx, payload := range payloads {
		field := "items[" + strconv.Itoa(idx) + "]"
		sku := strings.TrimSpace(payload.SKU)
		if sku == "" {
			return nil, newValidationError(field+".sku", "required")
		}
		var quantity int
		if isJSONNull(payload.Quantity) || json.Unmarshal(payload.Quantity, &quantity) != nil {
			return nil, newValidationError(field+".quantity", "must be an integer")
		}
		if quantity < 1 {
			return nil, newValidationError(field+".quantity", "must be at least 1")
		}
		price, err := parseNonNegativeMoney(field+".unit_price", payload.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, OrderItemInput{
			SKU:       sku,
			ItemName:  strings.TrimSpace(payload.ItemName),
			Quantity:  quantity,
			UnitPrice: price,
			Color:     strings.TrimSpace(payload.Color),
			Size:      strings.TrimSpace(payload.Size),
		})
	}
	return items, nil
}
