package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pie-rfid/inventory-next/internal/constants"
	"github.com/pie-rfid/inventory-next/internal/models"
)

func TestApplyStocktakeAccumulates(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	expiry := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)
	env.createCatalogItem(t, "12345", expiry, strPtr("LOT24A01"), "아세트아미노펜정 500mg")

	stocktake := env.createType(t, constants.OperationTypeStocktake)
	hospital := env.createCompany(t, "남양주백병원", "NYB", stocktake)
	slot := env.createSlot(t, hospital.ID, stocktake.ID, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	first, err := env.specs.Apply(ctx, slot, constants.OperationTypeStocktake,
		[]models.ScanRecord{scanRecord(slot.ID, "12345", expiry, strPtr("LOT24A01"), 10)})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if first.Created != 1 {
		t.Fatalf("first apply created = %d, want 1", first.Created)
	}

	second, err := env.specs.Apply(ctx, slot, constants.OperationTypeStocktake,
		[]models.ScanRecord{scanRecord(slot.ID, "12345", expiry, strPtr("LOT24A01"), 15)})
	if err != nil {
		t.Fatalf("second Apply() error = %v", err)
	}
	if second.Updated != 1 {
		t.Fatalf("second apply updated = %d, want 1", second.Updated)
	}

	specs, err := env.specs.ListBySlot(slot.ID)
	if err != nil {
		t.Fatalf("ListBySlot() error = %v", err)
	}
	if len(specs) != 1 {
		t.Fatalf("spec rows = %d, want 1", len(specs))
	}
	if specs[0].Quantity != 25 {
		t.Errorf("quantity = %d, want 25", specs[0].Quantity)
	}
	if specs[0].Name != "아세트아미노펜정 500mg" {
		t.Errorf("name not lifted from catalog: %q", specs[0].Name)
	}
}

func TestApplyOutboundAccumulatesNegative(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	expiry := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)
	env.createCatalogItem(t, "12345", expiry, strPtr("LOT24A01"), "아세트아미노펜정 500mg")

	outbound := env.createType(t, constants.OperationTypeOutbound)
	vendor := env.createCompany(t, "한빛약품", "HB01", outbound)
	slot := env.createSlot(t, vendor.ID, outbound.ID, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	if _, err := env.specs.Apply(ctx, slot, constants.OperationTypeOutbound,
		[]models.ScanRecord{scanRecord(slot.ID, "12345", expiry, strPtr("LOT24A01"), 20)}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if _, err := env.specs.Apply(ctx, slot, constants.OperationTypeOutbound,
		[]models.ScanRecord{scanRecord(slot.ID, "12345", expiry, strPtr("LOT24A01"), 30)}); err != nil {
		t.Fatalf("second Apply() error = %v", err)
	}

	specs, err := env.specs.ListBySlot(slot.ID)
	if err != nil {
		t.Fatalf("ListBySlot() error = %v", err)
	}
	if len(specs) != 1 {
		t.Fatalf("spec rows = %d, want 1", len(specs))
	}
	if specs[0].Quantity != -50 {
		t.Errorf("quantity = %d, want -50", specs[0].Quantity)
	}
}

func TestApplyInspectionOverwrites(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	expiry := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)
	env.createCatalogItem(t, "12345", expiry, strPtr("LOT24A01"), "아세트아미노펜정 500mg")

	inspection := env.createType(t, constants.OperationTypeInspection)
	hospital := env.createCompany(t, "남양주백병원", "NYB", inspection)
	slot := env.createSlot(t, hospital.ID, inspection.ID, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	if _, err := env.specs.Apply(ctx, slot, constants.OperationTypeInspection,
		[]models.ScanRecord{scanRecord(slot.ID, "12345", expiry, strPtr("LOT24A01"), 10)}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if _, err := env.specs.Apply(ctx, slot, constants.OperationTypeInspection,
		[]models.ScanRecord{scanRecord(slot.ID, "12345", expiry, strPtr("LOT24A01"), 4)}); err != nil {
		t.Fatalf("second Apply() error = %v", err)
	}

	specs, err := env.specs.ListBySlot(slot.ID)
	if err != nil {
		t.Fatalf("ListBySlot() error = %v", err)
	}
	if len(specs) != 1 || specs[0].Quantity != 4 {
		t.Errorf("inspection should overwrite, got %+v", specs)
	}
}

func TestApplySkipsKeysMissingFromCatalog(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	expiry := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)

	stocktake := env.createType(t, constants.OperationTypeStocktake)
	hospital := env.createCompany(t, "남양주백병원", "NYB", stocktake)
	slot := env.createSlot(t, hospital.ID, stocktake.ID, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	result, err := env.specs.Apply(ctx, slot, constants.OperationTypeStocktake,
		[]models.ScanRecord{scanRecord(slot.ID, "99999", expiry, strPtr("LOTX"), 5)})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if result.Skipped != 1 || result.Created != 0 {
		t.Fatalf("result = %+v, want 1 skipped / 0 created", result)
	}

	specs, err := env.specs.ListBySlot(slot.ID)
	if err != nil {
		t.Fatalf("ListBySlot() error = %v", err)
	}
	if len(specs) != 0 {
		t.Errorf("spec rows = %d, want 0", len(specs))
	}
}

func TestApplyRejectsEmptyScans(t *testing.T) {
	env := setupServiceTest(t)

	stocktake := env.createType(t, constants.OperationTypeStocktake)
	hospital := env.createCompany(t, "남양주백병원", "NYB", stocktake)
	slot := env.createSlot(t, hospital.ID, stocktake.ID, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	if _, err := env.specs.Apply(context.Background(), slot, constants.OperationTypeStocktake, nil); !errors.Is(err, ErrNoScanData) {
		t.Errorf("Apply(empty) error = %v, want ErrNoScanData", err)
	}
}

func TestApplyQuantityBounds(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	expiry := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)
	env.createCatalogItem(t, "12345", expiry, strPtr("LOT24A01"), "아세트아미노펜정 500mg")

	stocktake := env.createType(t, constants.OperationTypeStocktake)
	hospital := env.createCompany(t, "남양주백병원", "NYB", stocktake)
	slot := env.createSlot(t, hospital.ID, stocktake.ID, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	bounded := NewSpecificationService(env.specRepo, env.catalogRepo, nil, time.Minute, 100, 50)
	result, err := bounded.Apply(ctx, slot, constants.OperationTypeStocktake,
		[]models.ScanRecord{scanRecord(slot.ID, "12345", expiry, strPtr("LOT24A01"), 60)})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if result.Skipped != 1 || result.Created != 0 {
		t.Fatalf("result = %+v, want out-of-range row skipped", result)
	}

	// 归并后越界同样拒绝，已有行保持原值
	if _, err := bounded.Apply(ctx, slot, constants.OperationTypeStocktake,
		[]models.ScanRecord{scanRecord(slot.ID, "12345", expiry, strPtr("LOT24A01"), 30)}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	merged, err := bounded.Apply(ctx, slot, constants.OperationTypeStocktake,
		[]models.ScanRecord{scanRecord(slot.ID, "12345", expiry, strPtr("LOT24A01"), 30)})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if merged.Skipped != 1 {
		t.Fatalf("merge past bound should skip, got %+v", merged)
	}
	specs, err := env.specs.ListBySlot(slot.ID)
	if err != nil {
		t.Fatalf("ListBySlot() error = %v", err)
	}
	if len(specs) != 1 || specs[0].Quantity != 30 {
		t.Errorf("quantity = %+v, want single row of 30", specs)
	}
}
