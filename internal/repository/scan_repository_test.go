package repository

import (
	"testing"

	"github.com/pie-rfid/inventory-next/internal/models"
)

func TestBulkCreateLedgerConflictTolerant(t *testing.T) {
	db := openTestDB(t)
	repo := NewScanRepository(db)

	operationType := &models.OperationType{Name: "재고"}
	mustCreate(t, db, operationType)
	company := &models.Company{Name: "남양주백병원", Code: "NYB"}
	mustCreate(t, db, company)
	slot := &models.DaySlot{CompanyID: company.ID, OperationTypeID: operationType.ID, SlotDate: day(2026, 1, 10)}
	mustCreate(t, db, slot)

	inserted, err := repo.BulkCreateLedger(slot.ID, []string{"EPC-A", "EPC-B"})
	if err != nil {
		t.Fatalf("BulkCreateLedger() error = %v", err)
	}
	if inserted != 2 {
		t.Fatalf("inserted = %d, want 2", inserted)
	}

	// 冲突静默忽略，只统计真正新入账的行
	inserted, err = repo.BulkCreateLedger(slot.ID, []string{"EPC-B", "EPC-C"})
	if err != nil {
		t.Fatalf("second BulkCreateLedger() error = %v", err)
	}
	if inserted != 1 {
		t.Errorf("inserted = %d, want 1", inserted)
	}

	count, err := repo.CountLedgerBySlot(slot.ID)
	if err != nil {
		t.Fatalf("CountLedgerBySlot() error = %v", err)
	}
	if count != 3 {
		t.Errorf("ledger rows = %d, want 3", count)
	}
}

func TestListLedgeredEPCs(t *testing.T) {
	db := openTestDB(t)
	repo := NewScanRepository(db)

	operationType := &models.OperationType{Name: "출고"}
	mustCreate(t, db, operationType)
	company := &models.Company{Name: "한빛약품", Code: "HB01"}
	mustCreate(t, db, company)
	slot := &models.DaySlot{CompanyID: company.ID, OperationTypeID: operationType.ID, SlotDate: day(2026, 1, 10)}
	mustCreate(t, db, slot)
	other := &models.DaySlot{CompanyID: company.ID, OperationTypeID: operationType.ID, SlotDate: day(2026, 1, 11)}
	mustCreate(t, db, other)

	if _, err := repo.BulkCreateLedger(slot.ID, []string{"EPC-A"}); err != nil {
		t.Fatalf("BulkCreateLedger() error = %v", err)
	}
	if _, err := repo.BulkCreateLedger(other.ID, []string{"EPC-B"}); err != nil {
		t.Fatalf("BulkCreateLedger() error = %v", err)
	}

	ledgered, err := repo.ListLedgeredEPCs(slot.ID, []string{"EPC-A", "EPC-B", "EPC-C"})
	if err != nil {
		t.Fatalf("ListLedgeredEPCs() error = %v", err)
	}
	if _, ok := ledgered["EPC-A"]; !ok {
		t.Errorf("EPC-A should be ledgered in slot")
	}
	// 别的槽的台账不算，台账幂等以槽为界
	if _, ok := ledgered["EPC-B"]; ok {
		t.Errorf("EPC-B belongs to another slot")
	}
	if _, ok := ledgered["EPC-C"]; ok {
		t.Errorf("EPC-C was never ledgered")
	}
}
