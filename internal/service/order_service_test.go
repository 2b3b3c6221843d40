package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/repository"

	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t)
	svc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewItemRepository(db),
		repository.NewSequenceRepository(db),
		newTestSettingService(db),
		"UTC",
	)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	}
	return svc, db
}

func seedOrder(t *testing.T, db *gorm.DB) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:            "WF2503140001",
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		OrderStatus:   constants.OrderStatusPending,
		PaymentStatus: constants.PaymentStatusPending,
		ShippingCost:  mustMoney(t, "5.00"),
		TaxAmount:     mustMoney(t, "1.50"),
		TotalAmount:   mustMoney(t, "26.50"),
		AddressLine1:  "12 Lily Pad Ln",
		City:          "Dover",
		State:         "DE",
		ZipCode:       "19901",
		AdminNotes:    "[2025-03-01 10:00] created by phone",
		Items: []models.OrderItem{
			{ID: "OI0000000007", SKU: "WF-TS-001", ItemName: "Frog Tee", Quantity: 2, UnitPrice: mustMoney(t, "10.00")},
		},
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func rawPatch(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("decode patch failed: %v", err)
	}
	return raw
}

func loadOrder(t *testing.T, db *gorm.DB, id string) *models.Order {
	t.Helper()
	order, err := repository.NewOrderRepository(db).GetByID(id)
	if err != nil || order == nil {
		t.Fatalf("load order failed: %v", err)
	}
	return order
}

func TestUpdateOrderRecomputesTotalFromPersistedItems(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	seedOrder(t, db)

	result, err := svc.UpdateFromJSON(context.Background(), "WF2503140001", rawPatch(t, `{
		"items": [
			{"sku": "WF-TS-001", "quantity": 3, "unit_price": "10.00"},
			{"sku": "WF-MG-002", "item_name": "Frog Mug", "quantity": 1, "unit_price": 7.25}
		],
		"discount_amount": "2.00"
	}`))
	if err != nil {
		t.Fatalf("update order failed: %v", err)
	}
	// 3*10 + 7.25 + 5 + 1.5 - 2
	if result.TotalAmount.String() != "41.75" {
		t.Fatalf("unexpected total: %s", result.TotalAmount.String())
	}

	order := loadOrder(t, db, "WF2503140001")
	if order.TotalAmount.String() != "41.75" {
		t.Fatalf("stored total mismatch: %s", order.TotalAmount.String())
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	if order.Items[0].ID != "OI0000000008" || order.Items[1].ID != "OI0000000009" {
		t.Fatalf("unexpected item ids: %s %s", order.Items[0].ID, order.Items[1].ID)
	}
	if order.Items[1].ItemName != "Frog Mug" {
		t.Fatalf("unexpected item name: %s", order.Items[1].ItemName)
	}
	if !containsField(result.UpdatedFields, "items") || !containsField(result.UpdatedFields, "total_amount") {
		t.Fatalf("unexpected updated fields: %v", result.UpdatedFields)
	}
}

func TestUpdateOrderItemIDsKeepIncreasing(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	seedOrder(t, db)

	patch := `{"items": [{"sku": "WF-TS-001", "quantity": 1, "unit_price": 10}]}`
	for i := 0; i < 2; i++ {
		if _, err := svc.UpdateFromJSON(context.Background(), "WF2503140001", rawPatch(t, patch)); err != nil {
			t.Fatalf("update %d failed: %v", i, err)
		}
	}
	order := loadOrder(t, db, "WF2503140001")
	if len(order.Items) != 1 || order.Items[0].ID != "OI0000000009" {
		t.Fatalf("unexpected items after replace: %+v", order.Items)
	}
}

func TestUpdateOrderInvalidPaymentStatusLeavesRowUntouched(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	seedOrder(t, db)

	_, err := svc.UpdateFromJSON(context.Background(), "WF2503140001", rawPatch(t, `{
		"payment_status": "bogus",
		"tracking_number": "1Z999"
	}`))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "payment_status" {
		t.Fatalf("expected payment_status field, got %v", err)
	}

	order := loadOrder(t, db, "WF2503140001")
	if order.PaymentStatus != constants.PaymentStatusPending || order.TrackingNumber != "" {
		t.Fatalf("order should be unchanged: %+v", order)
	}
}

func TestUpdateOrderNotFound(t *testing.T) {
	svc, _ := setupOrderServiceTest(t)
	_, err := svc.UpdateFromJSON(context.Background(), "missing", rawPatch(t, `{"order_status": "Shipped"}`))
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestUpdateOrderReceivedStampsPaymentDate(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	seedOrder(t, db)

	result, err := svc.UpdateFromJSON(context.Background(), "WF2503140001", rawPatch(t, `{"payment_status": "received"}`))
	if err != nil {
		t.Fatalf("update order failed: %v", err)
	}
	if !containsField(result.UpdatedFields, "payment_date") {
		t.Fatalf("expected payment_date stamped: %v", result.UpdatedFields)
	}
	if containsField(result.UpdatedFields, "total_amount") {
		t.Fatalf("total should not be recomputed: %v", result.UpdatedFields)
	}

	order := loadOrder(t, db, "WF2503140001")
	if order.PaymentStatus != constants.PaymentStatusReceived {
		t.Fatalf("unexpected payment status: %s", order.PaymentStatus)
	}
	if order.PaymentDate == nil || !order.PaymentDate.Equal(svc.now()) {
		t.Fatalf("unexpected payment date: %v", order.PaymentDate)
	}
}

func TestUpdateOrderUsesBusinessTimezone(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	seedOrder(t, db)
	if _, err := svc.settings.Upsert(context.Background(), UpsertBusinessSettingInput{
		Category: constants.SettingCategoryBusinessInfo,
		Key:      constants.SettingKeyBusinessTimezone,
		Value:    "America/Chicago",
		Type:     constants.SettingTypeText,
	}); err != nil {
		t.Fatalf("upsert setting failed: %v", err)
	}

	if _, err := svc.UpdateFromJSON(context.Background(), "WF2503140001", rawPatch(t, `{
		"payment_date": "2025-03-10 08:00:00",
		"payment_note": "check cleared"
	}`)); err != nil {
		t.Fatalf("update order failed: %v", err)
	}
	order := loadOrder(t, db, "WF2503140001")
	want := time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC)
	if order.PaymentDate == nil || !order.PaymentDate.Equal(want) {
		t.Fatalf("unexpected payment date: %v", order.PaymentDate)
	}
	if order.PaymentNotes != "[2025-03-14 04:30] check cleared" {
		t.Fatalf("unexpected payment notes: %q", order.PaymentNotes)
	}
}

func TestUpdateOrderMergesAddress(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	seedOrder(t, db)

	if _, err := svc.UpdateFromJSON(context.Background(), "WF2503140001", rawPatch(t, `{
		"address_line2": "Apt 3",
		"zip_code": "19904"
	}`)); err != nil {
		t.Fatalf("update order failed: %v", err)
	}
	order := loadOrder(t, db, "WF2503140001")
	if order.ShippingAddress != "12 Lily Pad Ln, Apt 3, Dover, DE 19904" {
		t.Fatalf("unexpected shipping address: %q", order.ShippingAddress)
	}
	if order.City != "Dover" {
		t.Fatalf("city should be kept: %q", order.City)
	}
}

func TestUpdateOrderAppendsNotes(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	seedOrder(t, db)

	if _, err := svc.UpdateFromJSON(context.Background(), "WF2503140001", rawPatch(t, `{
		"admin_note": "  called customer  ",
		"fulfillment_note": "packed"
	}`)); err != nil {
		t.Fatalf("update order failed: %v", err)
	}
	order := loadOrder(t, db, "WF2503140001")
	lines := strings.Split(order.AdminNotes, "\n")
	if len(lines) != 2 || lines[1] != "[2025-03-14 09:30] called customer" {
		t.Fatalf("unexpected admin notes: %q", order.AdminNotes)
	}
	if order.FulfillmentNotes != "[2025-03-14 09:30] packed" {
		t.Fatalf("unexpected fulfillment notes: %q", order.FulfillmentNotes)
	}
}

func TestComputeOrderTotal(t *testing.T) {
	items := []models.OrderItem{
		{Quantity: 3, UnitPrice: mustMoney(t, "3.33")},
	}
	total := computeOrderTotal(items, mustMoney(t, "0"), mustMoney(t, "0.45"), mustMoney(t, "1"))
	if total.String() != "9.44" {
		t.Fatalf("unexpected total: %s", total.String())
	}
}

func TestOrderAddressString(t *testing.T) {
	cases := []struct {
		addr orderAddress
		want string
	}{
		{orderAddress{line1: "1 Main", city: "Dover", state: "DE", zip: "19901"}, "1 Main, Dover, DE 19901"},
		{orderAddress{line1: "1 Main", line2: "Unit 2", city: "Dover", state: "DE"}, "1 Main, Unit 2, Dover, DE"},
		{orderAddress{zip: "19901"}, "19901"},
	}
	for _, tc := range cases {
		if got := tc.addr.String(); got != tc.want {
			t.Fatalf("address string = %q, want %q", got, tc.want)
		}
	}
}

func containsField(fields []string, target string) bool {
	for _, field := range fields {
		if field == target {
			return true
		}
	}
	return false
}
