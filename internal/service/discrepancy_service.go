package service

import (
	"github.com/pie-rfid/inventory-next/internal/constants"
	"github.com/pie-rfid/inventory-next/internal/models"
	"github.com/pie-rfid/inventory-next/internal/repository"

	"gorm.io/gorm"
)

// DiscrepancyService 差异对账服务：明细数量与当前库存逐键比对
type DiscrepancyService struct {
	repo          repository.DiscrepancyRepository
	inventoryRepo repository.InventoryRepository
}

// NewDiscrepancyService 创建差异对账服务
func NewDiscrepancyService(repo repository.DiscrepancyRepository, inventoryRepo repository.InventoryRepository) *DiscrepancyService {
	return &DiscrepancyService{repo: repo, inventoryRepo: inventoryRepo}
}

// DiscrepancyReport 差异对账统计
type DiscrepancyReport struct {
	Total     int            `json:"total"`
	ByReason  map[string]int `json:"by_reason"`
	DaySlotID uint           `json:"day_slot_id"`
}

// Run 对一批明细跑差异对账，整体在一个事务里提交。
// 先删掉该槽既有差异记录再全量重建，重复跑同一输入不会翻倍。
// 库存取各键的最新行（不限槽），极性与源系统保持一致：
// 库存多于明细记 모자람、少于记 초과、键不存在记 미존재
func (s *DiscrepancyService) Run(companyID uint, specs []models.Specification) (*DiscrepancyReport, error) {
	if len(specs) == 0 {
		return nil, ErrNoSpecData
	}

	slotID := specs[0].DaySlotID
	keys := make([]models.ItemKey, 0, len(specs))
	for i := range specs {
		keys = append(keys, specs[i].Key())
	}
	inventory, err := s.inventoryRepo.MapLatestByKeys(companyID, keys)
	if err != nil {
		return nil, err
	}

	report := &DiscrepancyReport{DaySlotID: slotID, ByReason: map[string]int{}}
	var records []models.DiscrepancyRecord
	for i := range specs {
		spec := &specs[i]
		key := spec.Key()

		record, found := inventory[key]
		var reason string
		var magnitude int
		if !found {
			reason = constants.DiscrepancyReasonMissing
			magnitude = spec.Quantity
		} else {
			diff := record.Quantity - spec.Quantity
			if diff == 0 {
				continue
			}
			if diff > 0 {
				reason = constants.DiscrepancyReasonShortage
				magnitude = diff
			} else {
				reason = constants.DiscrepancyReasonExcess
				magnitude = -diff
			}
		}

		records = append(records, models.DiscrepancyRecord{
			DaySlotID:   slotID,
			ProductCode: key.ProductCode,
			ExpiryDate:  key.ExpiryDate,
			LotNumber:   key.LotPtr(),
			Quantity:    magnitude,
			Reason:      reason,
			Name:        spec.Name,
		})
		report.Total++
		report.ByReason[reason]++
	}

	err = s.repo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.DeleteBySlot(slotID); err != nil {
			return err
		}
		return txRepo.BulkCreate(records)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// ListBySlot 获取指定槽的差异记录
func (s *DiscrepancyService) ListBySlot(slotID uint) ([]models.DiscrepancyRecord, error) {
	return s.repo.ListBySlot(slotID)
}
