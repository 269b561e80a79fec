package models

import "time"

// OperationType 作业类型（재고=盘点、출고=出库、검수=验收）
type OperationType struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:50;not null;uniqueIndex" json:"name"` // 类型名称（韩文原文）
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (OperationType) TableName() string {
	return "operation_types"
}
