package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/pie-rfid/inventory-next/internal/cache"
	"github.com/pie-rfid/inventory-next/internal/epc"
	"github.com/pie-rfid/inventory-next/internal/models"
	"github.com/pie-rfid/inventory-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// 测试用 EPC 布局：前缀 4、产品代码 5、有效期 6、批号哈希 9
func testDecoder() *epc.Decoder {
	return epc.NewDecoder(epc.Layout{
		PrefixLength:      4,
		ProductCodeLength: 5,
		ExpiryLength:      6,
		LotHashLength:     9,
		MinExpiry:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		MaxExpiry:         time.Date(2100, 12, 31, 0, 0, 0, 0, time.UTC),
	})
}

type serviceTestEnv struct {
	db *gorm.DB

	companyRepo     *repository.GormCompanyRepository
	typeRepo        *repository.GormOperationTypeRepository
	slotRepo        *repository.GormDaySlotRepository
	catalogRepo     *repository.GormCatalogItemRepository
	scanRepo        *repository.GormScanRepository
	lotHashRepo     *repository.GormLotHashRepository
	specRepo        *repository.GormSpecificationRepository
	inventoryRepo   *repository.GormInventoryRepository
	discrepancyRepo *repository.GormDiscrepancyRepository

	lotHash     *LotHashService
	scans       *ScanService
	specs       *SpecificationService
	inventory   *InventoryService
	discrepancy *DiscrepancyService
	transfer    *TransferService
	ingest      *IngestService
}

func setupServiceTest(t *testing.T) *serviceTestEnv {
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

	env := &serviceTestEnv{
		db:              db,
		companyRepo:     repository.NewCompanyRepository(db),
		typeRepo:        repository.NewOperationTypeRepository(db),
		slotRepo:        repository.NewDaySlotRepository(db),
		catalogRepo:     repository.NewCatalogItemRepository(db),
		scanRepo:        repository.NewScanRepository(db),
		lotHashRepo:     repository.NewLotHashRepository(db),
		specRepo:        repository.NewSpecificationRepository(db),
		inventoryRepo:   repository.NewInventoryRepository(db),
		discrepancyRepo: repository.NewDiscrepancyRepository(db),
	}

	store := cache.NewMemoryStore()
	ttl := 300 * time.Second
	env.lotHash = NewLotHashService(env.lotHashRepo, store, ttl, 9, 10000)
	env.scans = NewScanService(env.scanRepo, testDecoder(), env.lotHash, 100)
	env.specs = NewSpecificationService(env.specRepo, env.catalogRepo, store, ttl, 100, 999999)
	env.inventory = NewInventoryService(env.inventoryRepo)
	env.discrepancy = NewDiscrepancyService(env.discrepancyRepo, env.inventoryRepo)
	env.transfer = NewTransferService(env.companyRepo, env.typeRepo, env.slotRepo, env.inventoryRepo, env.specs, env.inventory, env.discrepancy)
	env.ingest = NewIngestService(env.companyRepo, env.typeRepo, env.slotRepo, env.scans, env.specs, env.inventory, env.discrepancy, env.transfer, "남양주백병원", time.UTC)
	return env
}

func (e *serviceTestEnv) createCompany(t *testing.T, name, code string, allowedTypes ...*models.OperationType) *models.Company {
	t.Helper()
	company := &models.Company{Name: name, Code: code}
	for _, allowed := range allowedTypes {
		company.AllowedTypes = append(company.AllowedTypes, *allowed)
	}
	if err := e.companyRepo.Create(company); err != nil {
		t.Fatalf("create company failed: %v", err)
	}
	return company
}

func (e *serviceTestEnv) createType(t *testing.T, name string) *models.OperationType {
	t.Helper()
	operationType := &models.OperationType{Name: name}
	if err := e.typeRepo.Create(operationType); err != nil {
		t.Fatalf("create operation type failed: %v", err)
	}
	return operationType
}

func (e *serviceTestEnv) createSlot(t *testing.T, companyID, typeID uint, date time.Time) *models.DaySlot {
	t.Helper()
	slot, err := e.slotRepo.GetOrCreate(companyID, typeID, date)
	if err != nil {
		t.Fatalf("create slot failed: %v", err)
	}
	return slot
}

func (e *serviceTestEnv) createCatalogItem(t *testing.T, productCode string, expiry time.Time, lot *string, name string) *models.CatalogItem {
	t.Helper()
	item := &models.CatalogItem{
		ProductCode: productCode,
		ExpiryDate:  models.DateOnly(expiry),
		LotNumber:   lot,
		Name:        name,
	}
	if err := e.db.Create(item).Error; err != nil {
		t.Fatalf("create catalog item failed: %v", err)
	}
	return item
}

func strPtr(s string) *string {
	return &s
}

func scanRecord(slotID uint, productCode string, expiry time.Time, lot *string, quantity int) models.ScanRecord {
	return models.ScanRecord{
		DaySlotID:       slotID,
		ProductCode:     productCode,
		ExpiryDate:      models.DateOnly(expiry),
		LotNumber:       lot,
		ScannedQuantity: quantity,
	}
}
