package service

import (
	"github.com/pie-rfid/inventory-next/internal/constants"
	"github.com/pie-rfid/inventory-next/internal/logger"
	"github.com/pie-rfid/inventory-next/internal/models"
	"github.com/pie-rfid/inventory-next/internal/repository"

	"gorm.io/gorm"
)

// InventoryService 库存投影服务：把作业明细落到库存台帐
type InventoryService struct {
	repo repository.InventoryRepository
}

// NewInventoryService 创建库存服务
func NewInventoryService(repo repository.InventoryRepository) *InventoryService {
	return &InventoryService{repo: repo}
}

// ProjectionResult 投影统计
type ProjectionResult struct {
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
}

// Project 把明细投影到库存。
// 盘点对（键、当前槽）整行覆盖；出库对键的最新库存行做守护扣减，
// 扣成负数的行拒绝并计入错误，不改库存；验收不在这里动库存。
// 业务拒绝只计数，存储层错误才返回 error
func (s *InventoryService) Project(slot *models.DaySlot, operationType string, specs []models.Specification) (*ProjectionResult, error) {
	result := &ProjectionResult{}

	switch operationType {
	case constants.OperationTypeStocktake:
		for i := range specs {
			spec := &specs[i]
			if err := s.overwrite(slot.ID, spec); err != nil {
				return result, err
			}
			result.Updated++
		}
	case constants.OperationTypeOutbound:
		for i := range specs {
			spec := &specs[i]
			ok, err := s.subtract(slot.CompanyID, spec)
			if err != nil {
				return result, err
			}
			if ok {
				result.Updated++
			} else {
				result.Errors++
			}
		}
	case constants.OperationTypeInspection:
		// 验收走转移协调器，这里不动库存
	}

	return result, nil
}

// overwrite 盘点覆盖：键在当前槽内有行则整量覆盖，没有则新建
func (s *InventoryService) overwrite(slotID uint, spec *models.Specification) error {
	key := spec.Key()
	record, err := s.repo.GetByKeyAndSlot(slotID, key)
	if err != nil {
		return err
	}
	if record != nil {
		record.Quantity = spec.Quantity
		return s.repo.Update(record)
	}
	return s.repo.Create(&models.InventoryRecord{
		DaySlotID:       slotID,
		ProductCode:     key.ProductCode,
		ExpiryDate:      key.ExpiryDate,
		LotNumber:       key.LotPtr(),
		Quantity:        spec.Quantity,
		Name:            spec.Name,
		PackageSize:     spec.PackageSize,
		StorageLocation: spec.StorageLocation,
		Manufacturer:    spec.Manufacturer,
	})
}

// subtract 出库扣减：对公司范围内键的最新库存行扣掉明细幅值，余量不足时拒绝
func (s *InventoryService) subtract(companyID uint, spec *models.Specification) (bool, error) {
	key := spec.Key()
	amount := spec.Quantity
	if amount < 0 {
		amount = -amount
	}

	record, err := s.repo.GetLatestByKey(companyID, key)
	if err != nil {
		return false, err
	}
	if record == nil {
		logger.Warnw("inventory_outbound_missing",
			"product_code", key.ProductCode, "lot_number", key.LotNumber)
		return false, nil
	}
	if record.Quantity-amount < 0 {
		logger.Warnw("inventory_outbound_insufficient",
			"product_code", key.ProductCode, "lot_number", key.LotNumber,
			"on_hand", record.Quantity, "requested", amount)
		return false, nil
	}
	record.Quantity -= amount
	if err := s.repo.Update(record); err != nil {
		return false, err
	}
	return true, nil
}

// CarryOver 结转：把上一个槽的全部库存行复制到当前槽，按键去重覆盖。
// 给验收方一个当天基线，上一个槽不存在时为空操作
func (s *InventoryService) CarryOver(prevSlotID, currentSlotID uint) (int, error) {
	records, err := s.repo.ListBySlot(prevSlotID)
	if err != nil {
		return 0, err
	}

	copied := 0
	err = s.repo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		for i := range records {
			prev := &records[i]
			key := prev.Key()
			current, err := txRepo.GetByKeyAndSlot(currentSlotID, key)
			if err != nil {
				return err
			}
			if current != nil {
				current.Quantity = prev.Quantity
				if err := txRepo.Update(current); err != nil {
					return err
				}
			} else {
				clone := models.InventoryRecord{
					DaySlotID:       currentSlotID,
					ProductCode:     prev.ProductCode,
					ExpiryDate:      prev.ExpiryDate,
					LotNumber:       prev.LotNumber,
					Quantity:        prev.Quantity,
					Name:            prev.Name,
					PackageSize:     prev.PackageSize,
					StorageLocation: prev.StorageLocation,
					Manufacturer:    prev.Manufacturer,
				}
				if err := txRepo.Create(&clone); err != nil {
					return err
				}
			}
			copied++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return copied, nil
}

// ListBySlot 获取指定槽的库存行
func (s *InventoryService) ListBySlot(slotID uint) ([]models.InventoryRecord, error) {
	return s.repo.ListBySlot(slotID)
}
