package models

import "time"

// DaySlot 作业日槽：同一公司、同一类型、同一天的提交归并到同一个槽
type DaySlot struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	CompanyID       uint      `gorm:"not null;uniqueIndex:idx_slot_company_type_date" json:"company_id"`
	OperationTypeID uint      `gorm:"not null;uniqueIndex:idx_slot_company_type_date" json:"operation_type_id"`
	SlotDate        time.Time `gorm:"not null;uniqueIndex:idx_slot_company_type_date" json:"slot_date"` // 作业日期（只取日期部分）
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Company       *Company       `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	OperationType *OperationType `gorm:"foreignKey:OperationTypeID" json:"operation_type,omitempty"`
}

func (DaySlot) TableName() string {
	return "day_slots"
}
