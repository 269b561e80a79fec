package models

import "time"

// DiscrepancyRecord 差异记录：某个槽内库存与作业明细对账后的差异行
type DiscrepancyRecord struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	DaySlotID   uint      `gorm:"not null;index" json:"day_slot_id"`
	ProductCode string    `gorm:"size:32;not null" json:"product_code"`
	ExpiryDate  time.Time `gorm:"not null" json:"expiry_date"`
	LotNumber   *string   `gorm:"size:100" json:"lot_number"`
	Quantity    int       `gorm:"not null" json:"quantity"` // 差异数量（取绝对值）
	Reason      string    `gorm:"size:50;not null" json:"reason"` // 미존재 / 초과 / 모자람
	Name        string    `gorm:"size:255" json:"name"`
	CreatedAt   time.Time `json:"created_at"`

	DaySlot *DaySlot `gorm:"foreignKey:DaySlotID" json:"day_slot,omitempty"`
}

func (DiscrepancyRecord) TableName() string {
	return "discrepancy_records"
}
