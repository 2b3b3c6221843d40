package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/whimsicalfrog/wf-admin/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openRepositoryTestDBWithParams(t, "")
}

// openRepositoryTestDBWithFK 开启外键约束，行为与 postgres/mysql 一致
func openRepositoryTestDBWithFK(t *testing.T) *gorm.DB {
	t.Helper()
	return openRepositoryTestDBWithParams(t, "&_pragma=foreign_keys(1)")
}

func openRepositoryTestDBWithParams(t *testing.T, params string) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared%s", name, params)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(1)
		t.Cleanup(func() { _ = sqlDB.Close() })
	}
	return db
}

func createTestItem(t *testing.T, db *gorm.DB, sku string) *models.Item {
	t.Helper()
	item := &models.Item{
		SKU:      sku,
		Name:     "Item " + sku,
		Category: "T-Shirts",
		IsActive: true,
	}
	if err := NewItemRepository(db).Create(item); err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	return item
}
