package repository

import (
	"github.com/pie-rfid/inventory-next/internal/models"

	"gorm.io/gorm"
)

// DiscrepancyRepository 差异记录数据访问接口
type DiscrepancyRepository interface {
	ListBySlot(slotID uint) ([]models.DiscrepancyRecord, error)
	BulkCreate(records []models.DiscrepancyRecord) error
	DeleteBySlot(slotID uint) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) DiscrepancyRepository
}

// GormDiscrepancyRepository GORM 实现
type GormDiscrepancyRepository struct {
	db *gorm.DB
}

// NewDiscrepancyRepository 创建差异记录仓库
func NewDiscrepancyRepository(db *gorm.DB) *GormDiscrepancyRepository {
	return &GormDiscrepancyRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDiscrepancyRepository) WithTx(tx *gorm.DB) DiscrepancyRepository {
	if tx == nil {
		return r
	}
	return &GormDiscrepancyRepository{db: tx}
}

// Transaction 执行事务
func (r *GormDiscrepancyRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// ListBySlot 获取指定槽的差异记录
func (r *GormDiscrepancyRepository) ListBySlot(slotID uint) ([]models.DiscrepancyRecord, error) {
	var records []models.DiscrepancyRecord
	if err := r.db.Where("day_slot_id = ?", slotID).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// BulkCreate 批量创建差异记录
func (r *GormDiscrepancyRepository) BulkCreate(records []models.DiscrepancyRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.Create(&records).Error
}

// DeleteBySlot 删除指定槽的全部差异记录
func (r *GormDiscrepancyRepository) DeleteBySlot(slotID uint) error {
	return r.db.Where("day_slot_id = ?", slotID).Delete(&models.DiscrepancyRecord{}).Error
}
