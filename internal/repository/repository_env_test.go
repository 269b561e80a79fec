package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/pie-rfid/inventory-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Company{},
		&models.OperationType{},
		&models.DaySlot{},
		&models.CatalogItem{},
		&models.EpcLedgerEntry{},
		&models.ScanRecord{},
		&models.LotHashEntry{},
		&models.Specification{},
		&models.InventoryRecord{},
		&models.DiscrepancyRecord{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T failed: %v", value, err)
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func lotPtr(s string) *string {
	return &s
}
