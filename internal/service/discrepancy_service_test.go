package service

import (
	"errors"
	"testing"
	"time"

	"github.com/pie-rfid/inventory-next/internal/constants"
	"github.com/pie-rfid/inventory-next/internal/models"
)

func TestDiscrepancyPolarity(t *testing.T) {
	env := setupServiceTest(t)

	expiry := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)
	stocktake := env.createType(t, constants.OperationTypeStocktake)
	hospital := env.createCompany(t, "남양주백병원", "NYB", stocktake)

	invSlot := env.createSlot(t, hospital.ID, stocktake.ID, time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC))
	seedInventory(t, env, invSlot.ID, "11111", expiry, strPtr("LOT-A"), 50) // 库存 50 / 明细 30
	seedInventory(t, env, invSlot.ID, "22222", expiry, strPtr("LOT-B"), 30) // 库存 30 / 明细 50
	seedInventory(t, env, invSlot.ID, "44444", expiry, strPtr("LOT-D"), 10) // 持平

	specSlot := env.createSlot(t, hospital.ID, stocktake.ID, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	specs := []models.Specification{
		specRow(specSlot.ID, "11111", expiry, strPtr("LOT-A"), 30),
		specRow(specSlot.ID, "22222", expiry, strPtr("LOT-B"), 50),
		specRow(specSlot.ID, "33333", expiry, strPtr("LOT-C"), 12), // 库存不存在
		specRow(specSlot.ID, "44444", expiry, strPtr("LOT-D"), 10),
	}

	report, err := env.discrepancy.Run(hospital.ID, specs)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Total != 3 {
		t.Fatalf("total = %d, want 3 (matched key excluded)", report.Total)
	}

	records, err := env.discrepancy.ListBySlot(specSlot.ID)
	if err != nil {
		t.Fatalf("ListBySlot() error = %v", err)
	}
	byCode := map[string]models.DiscrepancyRecord{}
	for _, record := range records {
		byCode[record.ProductCode] = record
	}

	if record := byCode["11111"]; record.Reason != constants.DiscrepancyReasonShortage || record.Quantity != 20 {
		t.Errorf("inventory above spec: got %s/%d, want %s/20", record.Reason, record.Quantity, constants.DiscrepancyReasonShortage)
	}
	if record := byCode["22222"]; record.Reason != constants.DiscrepancyReasonExcess || record.Quantity != 20 {
		t.Errorf("inventory below spec: got %s/%d, want %s/20", record.Reason, record.Quantity, constants.DiscrepancyReasonExcess)
	}
	if record := byCode["33333"]; record.Reason != constants.DiscrepancyReasonMissing || record.Quantity != 12 {
		t.Errorf("missing key: got %s/%d, want %s/12", record.Reason, record.Quantity, constants.DiscrepancyReasonMissing)
	}
	if _, ok := byCode["44444"]; ok {
		t.Errorf("matched key should not produce a record")
	}
}

func TestDiscrepancyRerunReplacesPrevious(t *testing.T) {
	env := setupServiceTest(t)

	expiry := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)
	stocktake := env.createType(t, constants.OperationTypeStocktake)
	hospital := env.createCompany(t, "남양주백병원", "NYB", stocktake)
	specSlot := env.createSlot(t, hospital.ID, stocktake.ID, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	specs := []models.Specification{specRow(specSlot.ID, "11111", expiry, strPtr("LOT-A"), 30)}
	if _, err := env.discrepancy.Run(hospital.ID, specs); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, err := env.discrepancy.Run(hospital.ID, specs); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	records, err := env.discrepancy.ListBySlot(specSlot.ID)
	if err != nil {
		t.Fatalf("ListBySlot() error = %v", err)
	}
	if len(records) != 1 {
		t.Errorf("records = %d, want 1 after rerun", len(records))
	}
}

func TestDiscrepancyScopedToCompany(t *testing.T) {
	env := setupServiceTest(t)

	expiry := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)
	stocktake := env.createType(t, constants.OperationTypeStocktake)
	hospital := env.createCompany(t, "남양주백병원", "NYB", stocktake)
	vendor := env.createCompany(t, "한빛약품", "HB01", stocktake)

	// 只有别家公司持有该键的库存
	otherSlot := env.createSlot(t, vendor.ID, stocktake.ID, time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC))
	seedInventory(t, env, otherSlot.ID, "11111", expiry, strPtr("LOT-A"), 30)

	specSlot := env.createSlot(t, hospital.ID, stocktake.ID, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	specs := []models.Specification{specRow(specSlot.ID, "11111", expiry, strPtr("LOT-A"), 30)}

	report, err := env.discrepancy.Run(hospital.ID, specs)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.ByReason[constants.DiscrepancyReasonMissing] != 1 {
		t.Errorf("foreign inventory must not count, report = %+v", report)
	}
}

func TestDiscrepancyRejectsEmptySpecs(t *testing.T) {
	env := setupServiceTest(t)
	if _, err := env.discrepancy.Run(1, nil); !errors.Is(err, ErrNoSpecData) {
		t.Errorf("Run(empty) error = %v, want ErrNoSpecData", err)
	}
}
