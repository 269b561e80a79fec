package models

import "time"

// EpcLedgerEntry EPC 台账：同一个槽内的同一条原始 EPC 只允许入账一次，
// 先插台账再解析，唯一索引冲突即视为重复提交
type EpcLedgerEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	DaySlotID uint      `gorm:"not null;uniqueIndex:idx_ledger_slot_data" json:"day_slot_id"`
	Data      string    `gorm:"size:64;not null;uniqueIndex:idx_ledger_slot_data" json:"data"` // 原始 EPC 字符串
	CreatedAt time.Time `json:"created_at"`
}

func (EpcLedgerEntry) TableName() string {
	return "epc_ledger_entries"
}

// ScanRecord 扫描聚合记录：同槽内同一（产品、有效期、批号）键的扫描计数。
// 批量生成后不就地更新，新的一次入账产生新行
type ScanRecord struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	DaySlotID       uint      `gorm:"not null;index" json:"day_slot_id"`
	ProductCode     string    `gorm:"size:32;not null;index" json:"product_code"`
	ExpiryDate      time.Time `gorm:"not null" json:"expiry_date"`
	LotNumber       *string   `gorm:"size:100" json:"lot_number"` // 解析回来的原始批号，可空
	ScannedQuantity int       `gorm:"not null" json:"scanned_quantity"`
	CreatedAt       time.Time `json:"created_at"`

	DaySlot *DaySlot `gorm:"foreignKey:DaySlotID" json:"day_slot,omitempty"`
}

func (ScanRecord) TableName() string {
	return "scan_records"
}

// Key 聚合记录的库存键
func (s ScanRecord) Key() ItemKey {
	return KeyOf(s.ProductCode, s.ExpiryDate, s.LotNumber)
}
