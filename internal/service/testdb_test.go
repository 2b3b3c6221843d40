package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)
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

func newTestSettingService(db *gorm.DB) *BusinessSettingService {
	return NewBusinessSettingService(repository.NewBusinessSettingRepository(db), 0)
}

func mustMoney(t *testing.T, raw string) models.Money {
	t.Helper()
	m, err := models.ParseMoney(raw)
	if err != nil {
		t.Fatalf("parse money %q failed: %v", raw, err)
	}
	return m
}
