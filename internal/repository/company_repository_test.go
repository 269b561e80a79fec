package repository

import (
	"testing"

	"github.com/pie-rfid/inventory-next/internal/models"
)

func TestIsTypeAllowed(t *testing.T) {
	db := openTestDB(t)
	repo := NewCompanyRepository(db)

	stocktake := &models.OperationType{Name: "재고"}
	inspection := &models.OperationType{Name: "검수"}
	mustCreate(t, db, stocktake)
	mustCreate(t, db, inspection)

	company := &models.Company{Name: "한빛약품", Code: "HB01", AllowedTypes: []models.OperationType{*stocktake}}
	if err := repo.Create(company); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	allowed, err := repo.IsTypeAllowed(company.ID, stocktake.ID)
	if err != nil {
		t.Fatalf("IsTypeAllowed() error = %v", err)
	}
	if !allowed {
		t.Errorf("stocktake should be allowed")
	}

	allowed, err = repo.IsTypeAllowed(company.ID, inspection.ID)
	if err != nil {
		t.Fatalf("IsTypeAllowed() error = %v", err)
	}
	if allowed {
		t.Errorf("inspection should not be allowed")
	}
}

func TestGetByNameAndCode(t *testing.T) {
	db := openTestDB(t)
	repo := NewCompanyRepository(db)

	mustCreate(t, db, &models.Company{Name: "남양주백병원", Code: "NYB"})

	company, err := repo.GetByNameAndCode("남양주백병원", "NYB")
	if err != nil {
		t.Fatalf("GetByNameAndCode() error = %v", err)
	}
	if company == nil {
		t.Fatalf("company not found")
	}

	company, err = repo.GetByNameAndCode("남양주백병원", "WRONG")
	if err != nil {
		t.Fatalf("GetByNameAndCode() error = %v", err)
	}
	if company != nil {
		t.Errorf("mismatched code must not resolve, got %+v", company)
	}
}
