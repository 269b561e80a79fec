package models

import "time"

// CatalogItem 药品目录条目：按（产品代码、有效期、批号）三元组提供展示元数据。
// 只读查询表，数据由外部导入；目录中不存在的键不允许生成作业明细
type CatalogItem struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	ProductCode     string    `gorm:"size:32;not null;uniqueIndex:idx_catalog_key" json:"product_code"`
	ExpiryDate      time.Time `gorm:"not null;uniqueIndex:idx_catalog_key" json:"expiry_date"`
	LotNumber       *string   `gorm:"size:100;uniqueIndex:idx_catalog_key" json:"lot_number"`
	Name            string    `gorm:"size:255;not null" json:"name"`    // 药品名称
	PackageSize     string    `gorm:"size:100" json:"package_size"`     // 包装规格
	StorageLocation string    `gorm:"size:100" json:"storage_location"` // 存放位置
	Manufacturer    string    `gorm:"size:255" json:"manufacturer"`     // 生产厂家
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (CatalogItem) TableName() string {
	return "catalog_items"
}

// Key 目录条目的库存键
func (c CatalogItem) Key() ItemKey {
	return KeyOf(c.ProductCode, c.ExpiryDate, c.LotNumber)
}
