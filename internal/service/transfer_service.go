package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pie-rfid/inventory-next/internal/constants"
	"github.com/pie-rfid/inventory-next/internal/logger"
	"github.com/pie-rfid/inventory-next/internal/models"
	"github.com/pie-rfid/inventory-next/internal/repository"

	"gorm.io/gorm"
)

// 单键转移结果状态
const (
	TransferStatusDone         = "transferred"
	TransferStatusInsufficient = "insufficient_stock"
	TransferStatusFailed       = "failed"
)

// TransferService 转移协调器：验收流程里计算出库与验收的匹配量，
// 并把匹配量从发货方库存原子转移到收货方库存
type TransferService struct {
	companyRepo   repository.CompanyRepository
	typeRepo      repository.OperationTypeRepository
	slotRepo      repository.DaySlotRepository
	inventoryRepo repository.InventoryRepository
	specSvc       *SpecificationService
	inventorySvc  *InventoryService
	discrepancy   *DiscrepancyService
}

// NewTransferService 创建转移协调器
func NewTransferService(
	companyRepo repository.CompanyRepository,
	typeRepo repository.OperationTypeRepository,
	slotRepo repository.DaySlotRepository,
	inventoryRepo repository.InventoryRepository,
	specSvc *SpecificationService,
	inventorySvc *InventoryService,
	discrepancy *DiscrepancyService,
) *TransferService {
	return &TransferService{
		companyRepo:   companyRepo,
		typeRepo:      typeRepo,
		slotRepo:      slotRepo,
		inventoryRepo: inventoryRepo,
		specSvc:       specSvc,
		inventorySvc:  inventorySvc,
		discrepancy:   discrepancy,
	}
}

// TransferOutcome 单键转移结果
type TransferOutcome struct {
	ProductCode string `json:"product_code"`
	ExpiryDate  string `json:"expiry_date"`
	LotNumber   string `json:"lot_number"`
	Matched     int    `json:"matched"`
	Status      string `json:"status"`
}

// TransferResult 验收转移汇总
type TransferResult struct {
	CarryOverRows  int                `json:"carry_over_rows"`
	Specification  *SpecApplyResult   `json:"specification"`
	Report         *DiscrepancyReport `json:"report"`
	MatchedKeys    int                `json:"matched_keys"`
	TotalMatched   int                `json:"total_matched"`
	Outcomes       []TransferOutcome  `json:"outcomes"`
	ReceiverSlotID uint               `json:"receiver_slot_id"`
}

// ProcessInspection 处理一次验收提交，步骤固定：
// 结转上一槽基线 → 归并验收明细 → 取当天出库明细 → 对出库跑差异报告 →
// 逐键计算匹配量 min(|出库|, |验收|) → 逐键事务转移。
// 单键转移失败只记录不回滚已完成的键
func (s *TransferService) ProcessInspection(
	ctx context.Context,
	sender *models.Company,
	receiverName string,
	slot *models.DaySlot,
	scans []models.ScanRecord,
	date time.Time,
) (*TransferResult, error) {
	result := &TransferResult{}

	// 1. 结转：上一个验收槽的库存复制进当前槽
	prev, err := s.slotRepo.GetPrevious(sender.ID, slot.OperationTypeID, date)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		copied, err := s.inventorySvc.CarryOver(prev.ID, slot.ID)
		if err != nil {
			return nil, err
		}
		result.CarryOverRows = copied
	}

	// 2. 验收明细归并
	specResult, err := s.specSvc.Apply(ctx, slot, constants.OperationTypeInspection, scans)
	if err != nil {
		return nil, err
	}
	result.Specification = specResult

	// 3. 比对集合：当天的出库明细与刚写入的验收明细
	outgoing, err := s.outgoingSpecs(sender.ID, date)
	if err != nil {
		return nil, err
	}
	inspected, err := s.specSvc.ListBySlot(slot.ID)
	if err != nil {
		return nil, err
	}

	// 4. 差异报告只看出库侧，纯信息性，不拦转移
	if len(outgoing) > 0 {
		report, err := s.discrepancy.Run(sender.ID, outgoing)
		if err != nil {
			return nil, err
		}
		result.Report = report
	}

	// 5. 匹配量：两侧都有的键取幅值较小者
	matched := matchQuantities(outgoing, inspected)
	if len(matched) == 0 {
		return result, nil
	}

	// 6. 逐键事务转移
	receiverSlot, err := s.receiverSlot(receiverName, date)
	if err != nil {
		return nil, err
	}
	result.ReceiverSlotID = receiverSlot.ID

	inspectedByKey := make(map[models.ItemKey]*models.Specification, len(inspected))
	for i := range inspected {
		inspectedByKey[inspected[i].Key()] = &inspected[i]
	}
	for key, quantity := range matched {
		if quantity <= 0 {
			continue
		}
		outcome := TransferOutcome{
			ProductCode: key.ProductCode,
			ExpiryDate:  key.ExpiryDate.Format("2006-01-02"),
			LotNumber:   key.LotNumber,
			Matched:     quantity,
		}
		if err := s.transferKey(sender.ID, key, quantity, receiverSlot.ID, inspectedByKey[key]); err != nil {
			logger.Errorw("transfer_key_failed",
				"product_code", key.ProductCode, "lot_number", key.LotNumber,
				"matched", quantity, "error", err)
			outcome.Status = TransferStatusFailed
			if errors.Is(err, ErrNegativeStock) {
				outcome.Status = TransferStatusInsufficient
			}
		} else {
			outcome.Status = TransferStatusDone
			result.MatchedKeys++
			result.TotalMatched += quantity
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result, nil
}

// outgoingSpecs 发货方当天出库槽的全部明细
func (s *TransferService) outgoingSpecs(companyID uint, date time.Time) ([]models.Specification, error) {
	outboundType, err := s.typeRepo.GetByName(constants.OperationTypeOutbound)
	if err != nil {
		return nil, err
	}
	if outboundType == nil {
		return nil, nil
	}
	outboundSlot, err := s.slotRepo.Get(companyID, outboundType.ID, date)
	if err != nil {
		return nil, err
	}
	if outboundSlot == nil {
		return nil, nil
	}
	return s.specSvc.ListBySlot(outboundSlot.ID)
}

// receiverSlot 收货方当天的盘点槽，不存在则建
func (s *TransferService) receiverSlot(receiverName string, date time.Time) (*models.DaySlot, error) {
	receiver, err := s.companyRepo.GetByName(receiverName)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, fmt.Errorf("%w: %s", ErrCompanyNotFound, receiverName)
	}
	stocktakeType, err := s.typeRepo.GetByName(constants.OperationTypeStocktake)
	if err != nil {
		return nil, err
	}
	if stocktakeType == nil {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, constants.OperationTypeStocktake)
	}
	return s.slotRepo.GetOrCreate(receiver.ID, stocktakeType.ID, date)
}

// matchQuantities 逐键取出库与验收幅值的较小者，只有两侧都出现的键参与
func matchQuantities(outgoing, inspected []models.Specification) map[models.ItemKey]int {
	outgoingByKey := make(map[models.ItemKey]int, len(outgoing))
	for i := range outgoing {
		quantity := outgoing[i].Quantity
		if quantity < 0 {
			quantity = -quantity
		}
		outgoingByKey[outgoing[i].Key()] = quantity
	}

	matched := make(map[models.ItemKey]int)
	for i := range inspected {
		key := inspected[i].Key()
		outQty, ok := outgoingByKey[key]
		if !ok {
			continue
		}
		inQty := inspected[i].Quantity
		if inQty < 0 {
			inQty = -inQty
		}
		if outQty < inQty {
			matched[key] = outQty
		} else {
			matched[key] = inQty
		}
	}
	return matched
}

// transferKey 单键转移：发货方最新库存行扣减、收货方槽内行增加，
// 两侧在同一个事务里成败一体
func (s *TransferService) transferKey(senderID uint, key models.ItemKey, quantity int, receiverSlotID uint, source *models.Specification) error {
	return s.inventoryRepo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.inventoryRepo.WithTx(tx)

		sender, err := txRepo.GetLatestByKey(senderID, key)
		if err != nil {
			return err
		}
		if sender == nil || sender.Quantity < quantity {
			return ErrNegativeStock
		}
		sender.Quantity -= quantity
		if err := txRepo.Update(sender); err != nil {
			return err
		}

		receiver, err := txRepo.GetByKeyAndSlot(receiverSlotID, key)
		if err != nil {
			return err
		}
		if receiver != nil {
			receiver.Quantity += quantity
			return txRepo.Update(receiver)
		}

		created := models.InventoryRecord{
			DaySlotID:   receiverSlotID,
			ProductCode: key.ProductCode,
			ExpiryDate:  key.ExpiryDate,
			LotNumber:   key.LotPtr(),
			Quantity:    quantity,
		}
		if source != nil {
			created.Name = source.Name
			created.PackageSize = source.PackageSize
			created.StorageLocation = source.StorageLocation
			created.Manufacturer = source.Manufacturer
		}
		return txRepo.Create(&created)
	})
}
