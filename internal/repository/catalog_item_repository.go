package repository

import (
	"github.com/pie-rfid/inventory-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogItemRepository 药品目录数据访问接口
type CatalogItemRepository interface {
	MapByKeys(keys []models.ItemKey) (map[models.ItemKey]models.CatalogItem, error)
	List(productCode string) ([]models.CatalogItem, error)
	BulkUpsert(items []models.CatalogItem) (int64, error)
	Count() (int64, error)
	WithTx(tx *gorm.DB) CatalogItemRepository
}

// GormCatalogItemRepository GORM 实现
type GormCatalogItemRepository struct {
	db *gorm.DB
}

// NewCatalogItemRepository 创建药品目录仓库
func NewCatalogItemRepository(db *gorm.DB) *GormCatalogItemRepository {
	return &GormCatalogItemRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCatalogItemRepository) WithTx(tx *gorm.DB) CatalogItemRepository {
	if tx == nil {
		return r
	}
	return &GormCatalogItemRepository{db: tx}
}

// MapByKeys 批量获取目录条目，按库存键索引。
// 先按产品代码粗筛，再在内存里按完整三元组过滤
func (r *GormCatalogItemRepository) MapByKeys(keys []models.ItemKey) (map[models.ItemKey]models.CatalogItem, error) {
	result := make(map[models.ItemKey]models.CatalogItem, len(keys))
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

	var items []models.CatalogItem
	if err := r.db.Where("product_code IN ?", codes).Find(&items).Error; err != nil {
		return nil, err
	}

	wanted := make(map[models.ItemKey]struct{}, len(keys))
	for _, key := range keys {
		wanted[key] = struct{}{}
	}
	for _, item := range items {
		key := item.Key()
		if _, ok := wanted[key]; ok {
			result[key] = item
		}
	}
	return result, nil
}

// List 目录条目列表，可按产品代码过滤
func (r *GormCatalogItemRepository) List(productCode string) ([]models.CatalogItem, error) {
	query := r.db.Order("product_code ASC, expiry_date ASC")
	if productCode != "" {
		query = query.Where("product_code = ?", productCode)
	}
	var items []models.CatalogItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// BulkUpsert 批量写入目录条目，键冲突时更新元数据
func (r *GormCatalogItemRepository) BulkUpsert(items []models.CatalogItem) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_code"}, {Name: "expiry_date"}, {Name: "lot_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "package_size", "storage_location", "manufacturer", "updated_at"}),
	}).Create(&items)
	return result.RowsAffected, result.Error
}

// Count 目录条目总数
func (r *GormCatalogItemRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.CatalogItem{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
