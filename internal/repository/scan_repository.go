package repository

import (
	"github.com/pie-rfid/inventory-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScanRepository 扫描聚合记录与 EPC 台账数据访问接口
type ScanRepository interface {
	ListLedgeredEPCs(slotID uint, datalist []string) (map[string]struct{}, error)
	BulkCreateLedger(slotID uint, datalist []string) (int64, error)
	BulkCreateScans(scans []models.ScanRecord) error
	ListBySlot(slotID uint) ([]models.ScanRecord, error)
	CountLedgerBySlot(slotID uint) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ScanRepository
}

// GormScanRepository GORM 实现
type GormScanRepository struct {
	db *gorm.DB
}

// NewScanRepository 创建扫描记录仓库
func NewScanRepository(db *gorm.DB) *GormScanRepository {
	return &GormScanRepository{db: db}
}

// WithTx 绑定事务
func (r *GormScanRepository) WithTx(tx *gorm.DB) ScanRepository {
	if tx == nil {
		return r
	}
	return &GormScanRepository{db: tx}
}

// Transaction 执行事务
func (r *GormScanRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// ListLedgeredEPCs 查询一批原始 EPC 中已入台账的部分
func (r *GormScanRepository) ListLedgeredEPCs(slotID uint, datalist []string) (map[string]struct{}, error) {
	result := make(map[string]struct{})
	if len(datalist) == 0 {
		return result, nil
	}
	var entries []models.EpcLedgerEntry
	err := r.db.Where("day_slot_id = ? AND data IN ?", slotID, datalist).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		result[entry.Data] = struct{}{}
	}
	return result, nil
}

// BulkCreateLedger 批量登记原始 EPC。
// 唯一索引冲突按重复处理直接忽略，返回实际新登记的条数
func (r *GormScanRepository) BulkCreateLedger(slotID uint, datalist []string) (int64, error) {
	if len(datalist) == 0 {
		return 0, nil
	}
	entries := make([]models.EpcLedgerEntry, 0, len(datalist))
	for _, data := range datalist {
		entries = append(entries, models.EpcLedgerEntry{DaySlotID: slotID, Data: data})
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&entries)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// BulkCreateScans 批量写入扫描聚合记录
func (r *GormScanRepository) BulkCreateScans(scans []models.ScanRecord) error {
	if len(scans) == 0 {
		return nil
	}
	return r.db.Create(&scans).Error
}

// ListBySlot 获取指定槽的扫描聚合记录
func (r *GormScanRepository) ListBySlot(slotID uint) ([]models.ScanRecord, error) {
	var scans []models.ScanRecord
	if err := r.db.Where("day_slot_id = ?", slotID).Order("id ASC").Find(&scans).Error; err != nil {
		return nil, err
	}
	return scans, nil
}

// CountLedgerBySlot 统计指定槽的台账条数
func (r *GormScanRepository) CountLedgerBySlot(slotID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.EpcLedgerEntry{}).Where("day_slot_id = ?", slotID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
