package models

import "time"

// Company 参与方（医院 / 供应商）
type Company struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:idx_company_name_code" json:"name"` // 公司名称
	Code      string    `gorm:"size:50;not null;uniqueIndex:idx_company_name_code" json:"code"`  // 公司代码
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AllowedTypes []OperationType `gorm:"many2many:company_operation_types;" json:"allowed_types,omitempty"` // 允许提交的作业类型
}

func (Company) TableName() string {
	return "companies"
}
