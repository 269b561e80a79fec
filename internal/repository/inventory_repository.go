package repository

import (
	"errors"

	"github.com/pie-rfid/inventory-next/internal/models"

	"gorm.io/gorm"
)

// InventoryRepository 库存台帐数据访问接口
type InventoryRepository interface {
	ListBySlot(slotID uint) ([]models.InventoryRecord, error)
	GetByKeyAndSlot(slotID uint, key models.ItemKey) (*models.InventoryRecord, error)
	GetLatestByKey(companyID uint, key models.ItemKey) (*models.InventoryRecord, error)
	MapLatestByKeys(companyID uint, keys []models.ItemKey) (map[models.ItemKey]models.InventoryRecord, error)
	Create(record *models.InventoryRecord) error
	BulkCreate(records []models.InventoryRecord) error
	Update(record *models.InventoryRecord) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) InventoryRepository
}

// GormInventoryRepository GORM 实现
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓库
func NewInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormInventoryRepository) WithTx(tx *gorm.DB) InventoryRepository {
	if tx == nil {
		return r
	}
	return &GormInventoryRepository{db: tx}
}

// Transaction 执行事务
func (r *GormInventoryRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// ListBySlot 获取指定槽的库存行
func (r *GormInventoryRepository) ListBySlot(slotID uint) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	if err := r.db.Where("day_slot_id = ?", slotID).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func applyKeyFilter(query *gorm.DB, key models.ItemKey) *gorm.DB {
	query = query.Where("product_code = ? AND expiry_date = ?", key.ProductCode, key.ExpiryDate)
	if key.LotNumber == "" {
		return query.Where("lot_number IS NULL OR lot_number = ''")
	}
	return query.Where("lot_number = ?", key.LotNumber)
}

// GetByKeyAndSlot 按库存键在指定槽内查找库存行
func (r *GormInventoryRepository) GetByKeyAndSlot(slotID uint, key models.ItemKey) (*models.InventoryRecord, error) {
	query := applyKeyFilter(r.db.Where("day_slot_id = ?", slotID), key)

	var record models.InventoryRecord
	if err := query.First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetLatestByKey 按库存键获取公司范围内最新一行（跨槽，按作业日期倒序），
// 即该公司当前有效库存
func (r *GormInventoryRepository) GetLatestByKey(companyID uint, key models.ItemKey) (*models.InventoryRecord, error) {
	query := applyKeyFilter(r.db.Model(&models.InventoryRecord{}), key).
		Joins("JOIN day_slots ON day_slots.id = inventory_records.day_slot_id").
		Where("day_slots.company_id = ?", companyID).
		Order("day_slots.slot_date DESC, inventory_records.id DESC")

	var record models.InventoryRecord
	if err := query.First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// MapLatestByKeys 批量获取公司范围内每个键的最新库存行。
// 按产品代码粗筛后在内存里归并，每个键只保留最新槽的一行
func (r *GormInventoryRepository) MapLatestByKeys(companyID uint, keys []models.ItemKey) (map[models.ItemKey]models.InventoryRecord, error) {
	result := make(map[models.ItemKey]models.InventoryRecord, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	codeSet := make(map[string]struct{}, len(keys))
	codes := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, seen := codeSet[key.ProductCode]; !seen {
			codeSet[key.ProductCode] = struct{}{}
			codes = append(codes, key.ProductCode)
		}
	}

	var records []models.InventoryRecord
	err := r.db.Model(&models.InventoryRecord{}).
		Joins("JOIN day_slots ON day_slots.id = inventory_records.day_slot_id").
		Where("day_slots.company_id = ?", companyID).
		Where("product_code IN ?", codes).
		Order("day_slots.slot_date ASC, inventory_records.id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	wanted := make(map[models.ItemKey]struct{}, len(keys))
	for _, key := range keys {
		wanted[key] = struct{}{}
	}
	// 升序遍历，后写的覆盖先写的，留下的就是每个键最新的一行
	for _, record := range records {
		key := record.Key()
		if _, ok := wanted[key]; ok {
			result[key] = record
		}
	}
	return result, nil
}

// Create 创建库存行
func (r *GormInventoryRepository) Create(record *models.InventoryRecord) error {
	return r.db.Create(record).Error
}

// BulkCreate 批量创建库存行
func (r *GormInventoryRepository) BulkCreate(records []models.InventoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.Create(&records).Error
}

// Update 更新库存行
func (r *GormInventoryRepository) Update(record *models.InventoryRecord) error {
	return r.db.Save(record).Error
}
