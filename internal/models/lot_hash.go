package models

import "time"

// LotHashEntry 批号哈希映射：原始批号 <-> 9 位哈希码，双向唯一
type LotHashEntry struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	OriginalCode string    `gorm:"size:100;not null;uniqueIndex" json:"original_code"` // 原始批号
	HashedCode   string    `gorm:"size:16;not null;uniqueIndex" json:"hashed_code"`    // 9 位大写十六进制哈希
	CreatedAt    time.Time `json:"created_at"`
}

func (LotHashEntry) TableName() string {
	return "lot_hash_entries"
}
