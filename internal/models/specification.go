package models

import "time"

// Specification 作业明细：某个槽内、某个（产品、有效期、批号）键的计划数量。
// 出库槽内数量为负数，表示应扣减的库存
type Specification struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	DaySlotID       uint      `gorm:"not null;uniqueIndex:idx_spec_slot_key" json:"day_slot_id"`
	ProductCode     string    `gorm:"size:32;not null;uniqueIndex:idx_spec_slot_key" json:"product_code"`
	ExpiryDate      time.Time `gorm:"not null;uniqueIndex:idx_spec_slot_key" json:"expiry_date"`
	LotNumber       *string   `gorm:"size:100;uniqueIndex:idx_spec_slot_key" json:"lot_number"` // 原始批号，可空
	Quantity        int       `gorm:"not null" json:"quantity"`
	Name            string    `gorm:"size:255" json:"name"`             // 药品名称（来自目录）
	PackageSize     string    `gorm:"size:100" json:"package_size"`     // 包装规格
	StorageLocation string    `gorm:"size:100" json:"storage_location"` // 存放位置
	Manufacturer    string    `gorm:"size:255" json:"manufacturer"`     // 生产厂家
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	DaySlot *DaySlot `gorm:"foreignKey:DaySlotID" json:"day_slot,omitempty"`
}

func (Specification) TableName() string {
	return "specifications"
}

// Key 明细的库存键
func (s Specification) Key() ItemKey {
	return KeyOf(s.ProductCode, s.ExpiryDate, s.LotNumber)
}
