package repository

import (
	"errors"

	"github.com/pie-rfid/inventory-next/internal/models"

	"gorm.io/gorm"
)

// LotHashRepository 批号哈希映射数据访问接口
type LotHashRepository interface {
	GetByOriginal(originalCode string) (*models.LotHashEntry, error)
	GetByHashed(hashedCode string) (*models.LotHashEntry, error)
	MapByHashedCodes(hashedCodes []string) (map[string]string, error)
	Create(entry *models.LotHashEntry) error
	ListAll() ([]models.LotHashEntry, error)
	WithTx(tx *gorm.DB) LotHashRepository
}

// GormLotHashRepository GORM 实现
type GormLotHashRepository struct {
	db *gorm.DB
}

// NewLotHashRepository 创建批号哈希仓库
func NewLotHashRepository(db *gorm.DB) *GormLotHashRepository {
	return &GormLotHashRepository{db: db}
}

// WithTx 绑定事务
func (r *GormLotHashRepository) WithTx(tx *gorm.DB) LotHashRepository {
	if tx == nil {
		return r
	}
	return &GormLotHashRepository{db: tx}
}

// GetByOriginal 根据原始批号获取映射
func (r *GormLotHashRepository) GetByOriginal(originalCode string) (*models.LotHashEntry, error) {
	var entry models.LotHashEntry
	if err := r.db.Where("original_code = ?", originalCode).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// GetByHashed 根据哈希码获取映射
func (r *GormLotHashRepository) GetByHashed(hashedCode string) (*models.LotHashEntry, error) {
	var entry models.LotHashEntry
	if err := r.db.Where("hashed_code = ?", hashedCode).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// MapByHashedCodes 批量获取映射，哈希码 -> 原始批号
func (r *GormLotHashRepository) MapByHashedCodes(hashedCodes []string) (map[string]string, error) {
	result := make(map[string]string, len(hashedCodes))
	if len(hashedCodes) == 0 {
		return result, nil
	}
	var entries []models.LotHashEntry
	if err := r.db.Where("hashed_code IN ?", hashedCodes).Find(&entries).Error; err != nil {
		return nil, err
	}
	for _, entry := range entries {
		result[entry.HashedCode] = entry.OriginalCode
	}
	return result, nil
}

// Create 创建映射
func (r *GormLotHashRepository) Create(entry *models.LotHashEntry) error {
	return r.db.Create(entry).Error
}

// ListAll 全量映射列表
func (r *GormLotHashRepository) ListAll() ([]models.LotHashEntry, error) {
	var entries []models.LotHashEntry
	if err := r.db.Order("id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
