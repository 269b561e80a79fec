package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pie-rfid/inventory-next/internal/cache"
	"github.com/pie-rfid/inventory-next/internal/constants"
	"github.com/pie-rfid/inventory-next/internal/logger"
	"github.com/pie-rfid/inventory-next/internal/models"
	"github.com/pie-rfid/inventory-next/internal/repository"

	"gorm.io/gorm"
)

// SpecificationService 作业明细引擎：把扫描聚合记录按作业类型归并成明细
type SpecificationService struct {
	repo        repository.SpecificationRepository
	catalogRepo repository.CatalogItemRepository
	store       cache.Store
	cacheTTL    time.Duration
	batchSize   int
	maxQuantity int
}

// NewSpecificationService 创建作业明细服务
func NewSpecificationService(
	repo repository.SpecificationRepository,
	catalogRepo repository.CatalogItemRepository,
	store cache.Store,
	cacheTTL time.Duration,
	batchSize, maxQuantity int,
) *SpecificationService {
	if batchSize <= 0 {
		batchSize = constants.DefaultBatchSize
	}
	if maxQuantity <= 0 {
		maxQuantity = constants.DefaultMaxQuantity
	}
	return &SpecificationService{
		repo:        repo,
		catalogRepo: catalogRepo,
		store:       store,
		cacheTTL:    cacheTTL,
		batchSize:   batchSize,
		maxQuantity: maxQuantity,
	}
}

// SpecApplyResult 明细归并统计
type SpecApplyResult struct {
	Processed int `json:"processed"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
}

// Apply 把一批扫描聚合记录归并到槽内明细，整体在一个事务里提交。
// 目录里不存在的键、数量越界的行跳过计数，不中断批次；
// 重复键按作业类型归并：盘点累加、出库递减、验收覆盖，未知类型按累加兜底
func (s *SpecificationService) Apply(ctx context.Context, slot *models.DaySlot, operationType string, scans []models.ScanRecord) (*SpecApplyResult, error) {
	if len(scans) == 0 {
		return nil, ErrNoScanData
	}

	keys := make([]models.ItemKey, 0, len(scans))
	for _, scan := range scans {
		keys = append(keys, scan.Key())
	}
	catalog, err := s.catalogRepo.MapByKeys(keys)
	if err != nil {
		return nil, err
	}

	existing, err := s.slotSpecMap(ctx, slot.ID)
	if err != nil {
		return nil, err
	}

	result := &SpecApplyResult{}
	var creates []models.Specification
	var updates []*models.Specification

	for i := range scans {
		scan := &scans[i]
		result.Processed++
		key := scan.Key()

		item, ok := catalog[key]
		if !ok {
			logger.Warnw("spec_catalog_missing",
				"slot_id", slot.ID, "product_code", key.ProductCode,
				"expiry_date", key.ExpiryDate.Format("2006-01-02"), "lot_number", key.LotNumber)
			result.Skipped++
			continue
		}
		if scan.ScannedQuantity < 0 || scan.ScannedQuantity > s.maxQuantity {
			logger.Warnw("spec_quantity_invalid",
				"slot_id", slot.ID, "product_code", key.ProductCode, "scanned", scan.ScannedQuantity)
			result.Skipped++
			continue
		}

		if current, ok := existing[key]; ok {
			merged, ok := s.mergeQuantity(current.Quantity, scan.ScannedQuantity, operationType)
			if !ok {
				logger.Warnw("spec_merge_out_of_bounds",
					"slot_id", slot.ID, "product_code", key.ProductCode,
					"current", current.Quantity, "scanned", scan.ScannedQuantity)
				result.Skipped++
				continue
			}
			current.Quantity = merged
			current.DaySlotID = slot.ID
			updates = append(updates, current)
			result.Updated++
			continue
		}

		quantity := scan.ScannedQuantity
		if operationType == constants.OperationTypeOutbound {
			quantity = -quantity
		}
		spec := models.Specification{
			DaySlotID:       slot.ID,
			ProductCode:     key.ProductCode,
			ExpiryDate:      key.ExpiryDate,
			LotNumber:       key.LotPtr(),
			Quantity:        quantity,
			Name:            item.Name,
			PackageSize:     item.PackageSize,
			StorageLocation: item.StorageLocation,
			Manufacturer:    item.Manufacturer,
		}
		specCopy := spec
		existing[key] = &specCopy
		creates = append(creates, spec)
		result.Created++
	}

	err = s.repo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		for start := 0; start < len(creates); start += s.batchSize {
			end := start + s.batchSize
			if end > len(creates) {
				end = len(creates)
			}
			inserted, err := txRepo.BulkCreate(creates[start:end])
			if err != nil {
				return err
			}
			if int(inserted) != end-start {
				logger.Warnw("spec_bulk_create_conflicts",
					"slot_id", slot.ID, "attempted", end-start, "inserted", inserted)
			}
		}
		for _, spec := range updates {
			if err := txRepo.Update(spec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSlotCache(ctx, slot.ID)
	return result, nil
}

// mergeQuantity 按作业类型归并数量，归并后幅值越界时拒绝
func (s *SpecificationService) mergeQuantity(current, scanned int, operationType string) (int, bool) {
	var merged int
	switch operationType {
	case constants.OperationTypeStocktake:
		merged = current + scanned
	case constants.OperationTypeOutbound:
		merged = current - scanned
	case constants.OperationTypeInspection:
		merged = scanned
	default:
		merged = current + scanned
	}
	magnitude := merged
	if magnitude < 0 {
		magnitude = -magnitude
	}
	if magnitude > s.maxQuantity {
		return 0, false
	}
	return merged, true
}

// ListBySlot 获取指定槽的明细
func (s *SpecificationService) ListBySlot(slotID uint) ([]models.Specification, error) {
	return s.repo.ListBySlot(slotID)
}

// slotSpecMap 槽内明细映射，缓存优先，缺失时落库重建
func (s *SpecificationService) slotSpecMap(ctx context.Context, slotID uint) (map[models.ItemKey]*models.Specification, error) {
	cacheKey := fmt.Sprintf(constants.CacheKeySpecMapFmt, slotID)

	var specs []models.Specification
	loaded := false
	if s.store != nil {
		hit, err := s.store.GetJSON(ctx, cacheKey, &specs)
		if err != nil {
			logger.Warnw("spec_cache_read_failed", "slot_id", slotID, "error", err)
		} else if hit {
			loaded = true
		}
	}
	if !loaded {
		var err error
		specs, err = s.repo.ListBySlot(slotID)
		if err != nil {
			return nil, err
		}
		if s.store != nil {
			if err := s.store.SetJSON(ctx, cacheKey, specs, s.cacheTTL); err != nil {
				logger.Warnw("spec_cache_write_failed", "slot_id", slotID, "error", err)
			}
		}
	}

	result := make(map[models.ItemKey]*models.Specification, len(specs))
	for i := range specs {
		result[specs[i].Key()] = &specs[i]
	}
	return result, nil
}

func (s *SpecificationService) invalidateSlotCache(ctx context.Context, slotID uint) {
	if s.store == nil {
		return
	}
	if err := s.store.Del(ctx, fmt.Sprintf(constants.CacheKeySpecMapFmt, slotID)); err != nil {
		logger.Warnw("spec_cache_invalidate_failed", "slot_id", slotID, "error", err)
	}
}
