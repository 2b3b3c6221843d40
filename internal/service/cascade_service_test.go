package service

import (
	"errors"
	"reflect"
	"testing"

	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/repository"
)

func TestCascadeEffectivePrecedence(t *testing.T) {
	db := openServiceTestDB(t)
	svc := NewCascadeService(repository.NewCascadeSettingRepository(db), repository.NewItemRepository(db))
	for _, item := range []models.Item{
		{SKU: "WF-TS-001", Name: "Tee", Category: "T-Shirts", IsActive: true},
		{SKU: "WF-TS-002", Name: "Tee 2", Category: "T-Shirts", IsActive: true},
		{SKU: "WF-MG-001", Name: "Mug", Category: "Mugs", IsActive: true},
	} {
		item := item
		if err := db.Create(&item).Error; err != nil {
			t.Fatalf("seed item failed: %v", err)
		}
	}

	if _, err := svc.Upsert(CascadeInput{
		ScopeType:         "category",
		ScopeKey:          "T-Shirts",
		EnabledDimensions: []string{"size", "color"},
		CascadeOrder:      []string{"color", "size"},
	}); err != nil {
		t.Fatalf("upsert category cascade failed: %v", err)
	}
	if _, err := svc.Upsert(CascadeInput{
		ScopeType:         "sku",
		ScopeKey:          "WF-TS-001",
		EnabledDimensions: []string{"gender"},
		GroupingRules:     map[string]interface{}{"gender": "split"},
	}); err != nil {
		t.Fatalf("upsert sku cascade failed: %v", err)
	}

	skuLevel, err := svc.Effective("WF-TS-001")
	if err != nil {
		t.Fatalf("effective failed: %v", err)
	}
	if skuLevel.Source != constants.CascadeScopeSKU || !reflect.DeepEqual(skuLevel.CascadeOrder, []string{"gender"}) {
		t.Fatalf("unexpected sku-level cascade: %+v", skuLevel)
	}
	if skuLevel.GroupingRules["gender"] != "split" {
		t.Fatalf("grouping rules not returned verbatim: %+v", skuLevel.GroupingRules)
	}

	categoryLevel, err := svc.Effective("WF-TS-002")
	if err != nil {
		t.Fatalf("effective failed: %v", err)
	}
	if categoryLevel.Source != constants.CascadeScopeCategory || !reflect.DeepEqual(categoryLevel.CascadeOrder, []string{"color", "size"}) {
		t.Fatalf("unexpected category-level cascade: %+v", categoryLevel)
	}

	defaults, err := svc.Effective("WF-MG-001")
	if err != nil {
		t.Fatalf("effective failed: %v", err)
	}
	want := []string{"gender", "size", "color"}
	if defaults.Source != constants.CascadeSourceDefault ||
		!reflect.DeepEqual(defaults.EnabledDimensions, want) ||
		!reflect.DeepEqual(defaults.CascadeOrder, want) {
		t.Fatalf("unexpected default cascade: %+v", defaults)
	}
}

func TestCascadeUpsertValidation(t *testing.T) {
	db := openServiceTestDB(t)
	svc := NewCascadeService(repository.NewCascadeSettingRepository(db), repository.NewItemRepository(db))

	cases := []CascadeInput{
		{ScopeType: "room", ScopeKey: "1"},
		{ScopeType: "sku", ScopeKey: ""},
		{ScopeType: "sku", ScopeKey: "WF-TS-001", EnabledDimensions: []string{"material"}},
		{ScopeType: "sku", ScopeKey: "WF-TS-001", CascadeOrder: []string{"size", "SIZE"}},
	}
	for _, input := range cases {
		if _, err := svc.Upsert(input); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected validation error for %+v, got %v", input, err)
		}
	}
}

func TestCascadeDelete(t *testing.T) {
	db := openServiceTestDB(t)
	svc := NewCascadeService(repository.NewCascadeSettingRepository(db), repository.NewItemRepository(db))
	if _, err := svc.Upsert(CascadeInput{ScopeType: "sku", ScopeKey: "WF-TS-001", EnabledDimensions: []string{"size"}}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := svc.Delete("sku", "WF-TS-001"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete("sku", "WF-TS-001"); !errors.Is(err, ErrCascadeNotFound) {
		t.Fatalf("expected ErrCascadeNotFound, got %v", err)
	}
}
