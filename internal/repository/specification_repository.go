package repository

import (
	"github.com/pie-rfid/inventory-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SpecificationRepository 作业明细数据访问接口
type SpecificationRepository interface {
	ListBySlot(slotID uint) ([]models.Specification, error)
	ListBySlots(slotIDs []uint) ([]models.Specification, error)
	Create(spec *models.Specification) error
	BulkCreate(specs []models.Specification) (int64, error)
	Update(spec *models.Specification) error
	DeleteBySlot(slotID uint) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) SpecificationRepository
}

// GormSpecificationRepository GORM 实现
type GormSpecificationRepository struct {
	db *gorm.DB
}

// NewSpecificationRepository 创建作业明细仓库
func NewSpecificationRepository(db *gorm.DB) *GormSpecificationRepository {
	return &GormSpecificationRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSpecificationRepository) WithTx(tx *gorm.DB) SpecificationRepository {
	if tx == nil {
		return r
	}
	return &GormSpecificationRepository{db: tx}
}

// Transaction 执行事务
func (r *GormSpecificationRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// ListBySlot 获取指定槽的明细
func (r *GormSpecificationRepository) ListBySlot(slotID uint) ([]models.Specification, error) {
	var specs []models.Specification
	if err := r.db.Where("day_slot_id = ?", slotID).Order("id ASC").Find(&specs).Error; err != nil {
		return nil, err
	}
	return specs, nil
}

// ListBySlots 批量获取多个槽的明细
func (r *GormSpecificationRepository) ListBySlots(slotIDs []uint) ([]models.Specification, error) {
	if len(slotIDs) == 0 {
		return []models.Specification{}, nil
	}
	var specs []models.Specification
	if err := r.db.Where("day_slot_id IN ?", slotIDs).Order("id ASC").Find(&specs).Error; err != nil {
		return nil, err
	}
	return specs, nil
}

// Create 创建明细
func (r *GormSpecificationRepository) Create(spec *models.Specification) error {
	return r.db.Create(spec).Error
}

// BulkCreate 批量创建明细。
// 并发写同一个槽时键冲突按竞态忽略，返回实际插入的行数
func (r *GormSpecificationRepository) BulkCreate(specs []models.Specification) (int64, error) {
	if len(specs) == 0 {
		return 0, nil
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&specs)
	return result.RowsAffected, result.Error
}

// Update 更新明细
func (r *GormSpecificationRepository) Update(spec *models.Specification) error {
	return r.db.Save(spec).Error
}

// DeleteBySlot 删除指定槽的全部明细
func (r *GormSpecificationRepository) DeleteBySlot(slotID uint) error {
	return r.db.Where("day_slot_id = ?", slotID).Delete(&models.Specification{}).Error
}
