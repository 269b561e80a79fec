package repository

import (
	"errors"

	"github.com/pie-rfid/inventory-next/internal/models"

	"gorm.io/gorm"
)

// OperationTypeRepository 作业类型数据访问接口
type OperationTypeRepository interface {
	GetByName(name string) (*models.OperationType, error)
	List() ([]models.OperationType, error)
	Create(operationType *models.OperationType) error
}

// GormOperationTypeRepository GORM 实现
type GormOperationTypeRepository struct {
	db *gorm.DB
}

// NewOperationTypeRepository 创建作业类型仓库
func NewOperationTypeRepository(db *gorm.DB) *GormOperationTypeRepository {
	return &GormOperationTypeRepository{db: db}
}

// GetByName 根据名称获取作业类型
func (r *GormOperationTypeRepository) GetByName(name string) (*models.OperationType, error) {
	var operationType models.OperationType
	if err := r.db.Where("name = ?", name).First(&operationType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &operationType, nil
}

// List 作业类型列表
func (r *GormOperationTypeRepository) List() ([]models.OperationType, error) {
	var types []models.OperationType
	if err := r.db.Order("id ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

// Create 创建作业类型
func (r *GormOperationTypeRepository) Create(operationType *models.OperationType) error {
	return r.db.Create(operationType).Error
}
