package repository

import (
	"errors"
	"time"

	"github.com/pie-rfid/inventory-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DaySlotRepository 作业日槽数据访问接口
type DaySlotRepository interface {
	GetOrCreate(companyID, typeID uint, date time.Time) (*models.DaySlot, error)
	Get(companyID, typeID uint, date time.Time) (*models.DaySlot, error)
	GetByID(id uint) (*models.DaySlot, error)
	GetPrevious(companyID, typeID uint, before time.Time) (*models.DaySlot, error)
	GetLatest(companyID, typeID uint) (*models.DaySlot, error)
	WithTx(tx *gorm.DB) DaySlotRepository
}

// GormDaySlotRepository GORM 实现
type GormDaySlotRepository struct {
	db *gorm.DB
}

// NewDaySlotRepository 创建作业日槽仓库
func NewDaySlotRepository(db *gorm.DB) *GormDaySlotRepository {
	return &GormDaySlotRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDaySlotRepository) WithTx(tx *gorm.DB) DaySlotRepository {
	if tx == nil {
		return r
	}
	return &GormDaySlotRepository{db: tx}
}

// GetOrCreate 获取或创建指定公司、类型、日期的槽。
// 并发竞争时靠唯一索引兜底，冲突后重查一次
func (r *GormDaySlotRepository) GetOrCreate(companyID, typeID uint, date time.Time) (*models.DaySlot, error) {
	date = models.DateOnly(date)
	slot, err := r.Get(companyID, typeID, date)
	if err != nil {
		return nil, err
	}
	if slot != nil {
		return slot, nil
	}

	created := &models.DaySlot{CompanyID: companyID, OperationTypeID: typeID, SlotDate: date}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(created)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		return created, nil
	}
	return r.Get(companyID, typeID, date)
}

// Get 获取指定公司、类型、日期的槽
func (r *GormDaySlotRepository) Get(companyID, typeID uint, date time.Time) (*models.DaySlot, error) {
	var slot models.DaySlot
	err := r.db.Where("company_id = ? AND operation_type_id = ? AND slot_date = ?",
		companyID, typeID, models.DateOnly(date)).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

// GetByID 根据 ID 获取槽
func (r *GormDaySlotRepository) GetByID(id uint) (*models.DaySlot, error) {
	var slot models.DaySlot
	if err := r.db.Preload("Company").Preload("OperationType").First(&slot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

// GetPrevious 获取指定日期之前最近的一个槽
func (r *GormDaySlotRepository) GetPrevious(companyID, typeID uint, before time.Time) (*models.DaySlot, error) {
	var slot models.DaySlot
	err := r.db.Where("company_id = ? AND operation_type_id = ? AND slot_date < ?",
		companyID, typeID, models.DateOnly(before)).
		Order("slot_date DESC").First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

// GetLatest 获取指定公司、类型最近的一个槽
func (r *GormDaySlotRepository) GetLatest(companyID, typeID uint) (*models.DaySlot, error) {
	var slot models.DaySlot
	err := r.db.Where("company_id = ? AND operation_type_id = ?", companyID, typeID).
		Order("slot_date DESC").First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}
