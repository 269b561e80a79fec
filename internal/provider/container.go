package provider

import (
	"github.com/pie-rfid/inventory-next/internal/cache"
	"github.com/pie-rfid/inventory-next/internal/config"
	"github.com/pie-rfid/inventory-next/internal/epc"
	"github.com/pie-rfid/inventory-next/internal/logger"
	"github.com/pie-rfid/inventory-next/internal/models"
	"github.com/pie-rfid/inventory-next/internal/queue"
	"github.com/pie-rfid/inventory-next/internal/repository"
	"github.com/pie-rfid/inventory-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	CacheStore  cache.Store

	// Repositories
	CompanyRepo       repository.CompanyRepository
	OperationTypeRepo repository.OperationTypeRepository
	DaySlotRepo       repository.DaySlotRepository
	CatalogItemRepo   repository.CatalogItemRepository
	ScanRepo          repository.ScanRepository
	LotHashRepo       repository.LotHashRepository
	SpecificationRepo repository.SpecificationRepository
	InventoryRepo     repository.InventoryRepository
	DiscrepancyRepo   repository.DiscrepancyRepository

	// Services
	LotHashService       *service.LotHashService
	ScanService          *service.ScanService
	SpecificationService *service.SpecificationService
	InventoryService     *service.InventoryService
	DiscrepancyService   *service.DiscrepancyService
	TransferService      *service.TransferService
	IngestService        *service.IngestService
	CatalogImportService *service.CatalogImportService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存：Redis 不可用时退回进程内缓存
	var store cache.Store
	if redisStore := cache.NewRedisStore(&cfg.Redis); redisStore != nil {
		store = redisStore
	} else {
		logger.Warnw("provider_redis_disabled_fallback_memory")
		store = cache.NewMemoryStore()
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}
	if queueClient == nil {
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		CacheStore:  store,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.CompanyRepo = repository.NewCompanyRepository(db)
	c.OperationTypeRepo = repository.NewOperationTypeRepository(db)
	c.DaySlotRepo = repository.NewDaySlotRepository(db)
	c.CatalogItemRepo = repository.NewCatalogItemRepository(db)
	c.ScanRepo = repository.NewScanRepository(db)
	c.LotHashRepo = repository.NewLotHashRepository(db)
	c.SpecificationRepo = repository.NewSpecificationRepository(db)
	c.InventoryRepo = repository.NewInventoryRepository(db)
	c.DiscrepancyRepo = repository.NewDiscrepancyRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config
	cacheTTL := cfg.Cache.TTL()

	minExpiry, maxExpiry := cfg.EPC.ExpiryWindow()
	decoder := epc.NewDecoder(epc.Layout{
		PrefixLength:      cfg.EPC.PrefixLength,
		ProductCodeLength: cfg.EPC.ProductCodeLength,
		ExpiryLength:      cfg.EPC.ExpiryLength,
		LotHashLength:     cfg.EPC.LotHashLength,
		MinExpiry:         minExpiry,
		MaxExpiry:         maxExpiry,
	})

	c.LotHashService = service.NewLotHashService(
		c.LotHashRepo, c.CacheStore, cacheTTL,
		cfg.EPC.LotHashLength, cfg.Scan.HashMaxAttempts)
	c.ScanService = service.NewScanService(
		c.ScanRepo, decoder, c.LotHashService, cfg.Scan.BatchSize)
	c.SpecificationService = service.NewSpecificationService(
		c.SpecificationRepo, c.CatalogItemRepo, c.CacheStore, cacheTTL,
		cfg.Scan.BatchSize, cfg.Scan.MaxQuantity)
	c.InventoryService = service.NewInventoryService(c.InventoryRepo)
	c.DiscrepancyService = service.NewDiscrepancyService(c.DiscrepancyRepo, c.InventoryRepo)
	c.TransferService = service.NewTransferService(
		c.CompanyRepo, c.OperationTypeRepo, c.DaySlotRepo, c.InventoryRepo,
		c.SpecificationService, c.InventoryService, c.DiscrepancyService)
	c.IngestService = service.NewIngestService(
		c.CompanyRepo, c.OperationTypeRepo, c.DaySlotRepo,
		c.ScanService, c.SpecificationService, c.InventoryService,
		c.DiscrepancyService, c.TransferService,
		cfg.Scan.DefaultReceiver, cfg.Scan.Location())
	c.CatalogImportService = service.NewCatalogImportService(c.CatalogItemRepo, c.LotHashService, cfg.Scan.BatchSize)
}
