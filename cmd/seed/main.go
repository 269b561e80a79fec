package main

import (
	"context"
	"time"

	"github.com/pie-rfid/inventory-next/internal/cache"
	"github.com/pie-rfid/inventory-next/internal/config"
	"github.com/pie-rfid/inventory-next/internal/constants"
	"github.com/pie-rfid/inventory-next/internal/logger"
	"github.com/pie-rfid/inventory-next/internal/models"
	"github.com/pie-rfid/inventory-next/internal/repository"
	"github.com/pie-rfid/inventory-next/internal/service"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加作业类型
	typeNames := []string{
		constants.OperationTypeStocktake,
		constants.OperationTypeOutbound,
		constants.OperationTypeInspection,
	}
	typeByName := map[string]models.OperationType{}
	for _, name := range typeNames {
		var existing models.OperationType
		if err := models.DB.Where("name = ?", name).First(&existing).Error; err != nil {
			existing = models.OperationType{Name: name}
			if err := models.DB.Create(&existing).Error; err != nil {
				stdLog.Fatalf("Failed to create operation type %s: %v", name, err)
			}
			stdLog.Printf("Created operation type: %s", name)
		} else {
			stdLog.Printf("Operation type already exists: %s", name)
		}
		typeByName[name] = existing
	}

	// 添加参与方：医院允许全部类型，供应商只允许盘点与出库
	companies := []struct {
		company models.Company
		allowed []string
	}{
		{
			company: models.Company{Name: "남양주백병원", Code: "NYB"},
			allowed: typeNames,
		},
		{
			company: models.Company{Name: "한빛약품", Code: "HB01"},
			allowed: []string{constants.OperationTypeStocktake, constants.OperationTypeOutbound},
		},
		{
			company: models.Company{Name: "대명팜", Code: "DM02"},
			allowed: []string{constants.OperationTypeStocktake, constants.OperationTypeOutbound},
		},
	}

	for _, entry := range companies {
		var existing models.Company
		err := models.DB.Where("name = ? AND code = ?", entry.company.Name, entry.company.Code).
			First(&existing).Error
		if err != nil {
			existing = entry.company
			if err := models.DB.Create(&existing).Error; err != nil {
				stdLog.Printf("Failed to create company %s: %v", entry.company.Name, err)
				continue
			}
			stdLog.Printf("Created company: %s (%s)", existing.Name, existing.Code)
		} else {
			stdLog.Printf("Company already exists: %s (%s)", existing.Name, existing.Code)
		}

		var allowed []models.OperationType
		for _, name := range entry.allowed {
			allowed = append(allowed, typeByName[name])
		}
		if err := models.DB.Model(&existing).Association("AllowedTypes").Replace(allowed); err != nil {
			stdLog.Printf("Failed to bind operation types for %s: %v", existing.Name, err)
		}
	}

	// 添加示例目录条目，便于本地联调
	lot := func(s string) *string { return &s }
	expiry := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	// 产品代码长度要和 EPC 布局的产品段一致，扫描键才对得上
	catalogItems := []models.CatalogItem{
		{
			ProductCode:     "12345",
			ExpiryDate:      expiry(2027, 6, 30),
			LotNumber:       lot("LOT24A01"),
			Name:            "아세트아미노펜정 500mg",
			PackageSize:     "100정/병",
			StorageLocation: "A-01-03",
			Manufacturer:    "한빛약품",
		},
		{
			ProductCode:     "67890",
			ExpiryDate:      expiry(2026, 12, 31),
			LotNumber:       lot("LOT25B07"),
			Name:            "세파클러캡슐 250mg",
			PackageSize:     "30캡슐/박스",
			StorageLocation: "B-02-11",
			Manufacturer:    "대명팜",
		},
		{
			ProductCode:     "55555",
			ExpiryDate:      expiry(2027, 3, 15),
			LotNumber:       nil,
			Name:            "생리식염수 1L",
			PackageSize:     "1L/팩",
			StorageLocation: "C-05-01",
			Manufacturer:    "대명팜",
		},
	}

	// 批号登记哈希映射，演示用 EPC 的批号段才能反查
	lotHashSvc := service.NewLotHashService(
		repository.NewLotHashRepository(models.DB), cache.NewMemoryStore(),
		cfg.Cache.TTL(), cfg.EPC.LotHashLength, cfg.Scan.HashMaxAttempts)
	ctx := context.Background()
	for _, item := range catalogItems {
		if item.LotNumber == nil {
			continue
		}
		hash, err := lotHashSvc.HashLot(ctx, *item.LotNumber)
		if err != nil {
			stdLog.Printf("Failed to register lot hash for %s: %v", *item.LotNumber, err)
			continue
		}
		stdLog.Printf("Lot hash: %s -> %s", *item.LotNumber, hash)
	}

	for _, item := range catalogItems {
		query := models.DB.Where("product_code = ? AND expiry_date = ?", item.ProductCode, item.ExpiryDate)
		if item.LotNumber == nil {
			query = query.Where("lot_number IS NULL")
		} else {
			query = query.Where("lot_number = ?", *item.LotNumber)
		}
		var existing models.CatalogItem
		if err := query.First(&existing).Error; err != nil {
			if err := models.DB.Create(&item).Error; err != nil {
				stdLog.Printf("Failed to create catalog item %s: %v", item.ProductCode, err)
			} else {
				stdLog.Printf("Created catalog item: %s (%s)", item.ProductCode, item.Name)
			}
		} else {
			stdLog.Printf("Catalog item already exists: %s", item.ProductCode)
		}
	}

	stdLog.Printf("Seed completed")
}
