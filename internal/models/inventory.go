package models

import "time"

// InventoryRecord 库存台帐：按（槽、产品、有效期、批号）落盘的实际数量。
// 每个键在每个槽内至多一行，最新槽的行即当前库存
type InventoryRecord struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	DaySlotID       uint      `gorm:"not null;uniqueIndex:idx_inv_slot_key" json:"day_slot_id"`
	ProductCode     string    `gorm:"size:32;not null;uniqueIndex:idx_inv_slot_key;index" json:"product_code"`
	ExpiryDate      time.Time `gorm:"not null;uniqueIndex:idx_inv_slot_key" json:"expiry_date"`
	LotNumber       *string   `gorm:"size:100;uniqueIndex:idx_inv_slot_key" json:"lot_number"`
	Quantity        int       `gorm:"not null" json:"quantity"`
	Name            string    `gorm:"size:255" json:"name"`
	PackageSize     string    `gorm:"size:100" json:"package_size"`
	StorageLocation string    `gorm:"size:100" json:"storage_location"`
	Manufacturer    string    `gorm:"size:255" json:"manufacturer"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	DaySlot *DaySlot `gorm:"foreignKey:DaySlotID" json:"day_slot,omitempty"`
}

func (InventoryRecord) TableName() string {
	return "inventory_records"
}

// Key 库存行的库存键
func (i InventoryRecord) Key() ItemKey {
	return KeyOf(i.ProductCode, i.ExpiryDate, i.LotNumber)
}
