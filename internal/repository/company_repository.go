package repository

import (
	"errors"

	"github.com/pie-rfid/inventory-next/internal/models"

	"gorm.io/gorm"
)

// CompanyRepository 公司数据访问接口
type CompanyRepository interface {
	GetByName(name string) (*models.Company, error)
	GetByNameAndCode(name, code string) (*models.Company, error)
	GetByID(id uint) (*models.Company, error)
	List() ([]models.Company, error)
	Create(company *models.Company) error
	IsTypeAllowed(companyID, typeID uint) (bool, error)
	WithTx(tx *gorm.DB) CompanyRepository
}

// GormCompanyRepository GORM 实现
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository 创建公司仓库
func NewCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCompanyRepository) WithTx(tx *gorm.DB) CompanyRepository {
	if tx == nil {
		return r
	}
	return &GormCompanyRepository{db: tx}
}

// GetByName 根据名称获取公司
func (r *GormCompanyRepository) GetByName(name string) (*models.Company, error) {
	var company models.Company
	if err := r.db.Preload("AllowedTypes").Where("name = ?", name).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

// GetByNameAndCode 根据名称与代码获取公司
func (r *GormCompanyRepository) GetByNameAndCode(name, code string) (*models.Company, error) {
	var company models.Company
	err := r.db.Preload("AllowedTypes").
		Where("name = ? AND code = ?", name, code).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

// GetByID 根据 ID 获取公司
func (r *GormCompanyRepository) GetByID(id uint) (*models.Company, error) {
	var company models.Company
	if err := r.db.Preload("AllowedTypes").First(&company, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

// List 公司列表
func (r *GormCompanyRepository) List() ([]models.Company, error) {
	var companies []models.Company
	if err := r.db.Preload("AllowedTypes").Order("name ASC").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// Create 创建公司
func (r *GormCompanyRepository) Create(company *models.Company) error {
	return r.db.Create(company).Error
}

// IsTypeAllowed 判断公司是否允许提交指定作业类型
func (r *GormCompanyRepository) IsTypeAllowed(companyID, typeID uint) (bool, error) {
	var count int64
	err := r.db.Table("company_operation_types").
		Where("company_id = ? AND operation_type_id = ?", companyID, typeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
