package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pie-rfid/inventory-next/internal/constants"

	"github.com/xuri/excelize/v2"
)

func writeCatalogFixture(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []interface{}{"제품코드", "유효기간", "로트번호", "제품명", "포장단위", "보관위치", "제조사"}
	for col, value := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			t.Fatalf("set header cell failed: %v", err)
		}
	}
	for i, row := range rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set cell failed: %v", err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save fixture failed: %v", err)
	}
	return path
}

func TestImportFile(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	importer := NewCatalogImportService(env.catalogRepo, env.lotHash, 100)

	path := writeCatalogFixture(t, [][]interface{}{
		{"880112345", "2027-06-30", "LOT24A01", "아세트아미노펜정 500mg", "100정/병", "A-01-03", "한빛약품"},
		{"880155555", "2027/03/15", "", "생리식염수 1L", "1L/팩", "C-05-01", "대명팜"},
		{"", "2027-06-30", "LOT-X", "코드 없는 행", "", "", ""},
		{"880167890", "만료일아님", "LOT-Y", "날짜가 깨진 행", "", "", ""},
	})

	result, err := importer.ImportFile(ctx, path)
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if result.Rows != 4 {
		t.Errorf("rows = %d, want 4", result.Rows)
	}
	if result.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", result.Skipped)
	}

	count, err := env.catalogRepo.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Fatalf("catalog rows = %d, want 2", count)
	}

	items, err := env.catalogRepo.List("880155555")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].LotNumber != nil {
		t.Errorf("empty lot cell should import as null lot")
	}
}

func TestImportFileHeaderOnly(t *testing.T) {
	env := setupServiceTest(t)
	importer := NewCatalogImportService(env.catalogRepo, env.lotHash, 100)

	path := writeCatalogFixture(t, nil)
	if _, err := importer.ImportFile(context.Background(), path); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("ImportFile(header only) error = %v, want ErrEmptyCatalog", err)
	}
}

func TestImportFileRegistersLotHashes(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	importer := NewCatalogImportService(env.catalogRepo, env.lotHash, 100)

	path := writeCatalogFixture(t, [][]interface{}{
		{"12345", "2027-06-30", "LOT24A01", "아세트아미노펜정 500mg", "100정/병", "A-01-03", "한빛약품"},
	})
	if _, err := importer.ImportFile(ctx, path); err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}

	// 导入时已登记的批号，扫描哈希段要能直接反查出原始批号
	entry, err := env.lotHashRepo.GetByOriginal("LOT24A01")
	if err != nil {
		t.Fatalf("GetByOriginal() error = %v", err)
	}
	if entry == nil {
		t.Fatalf("lot hash not registered during import")
	}

	stocktake := env.createType(t, constants.OperationTypeStocktake)
	hospital := env.createCompany(t, "남양주백병원", "NYB", stocktake)
	slot := env.createSlot(t, hospital.ID, stocktake.ID, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	scans, _, err := env.scans.Ingest(ctx, slot.ID, []string{buildEPC("12345", "270630", entry.HashedCode)})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if len(scans) != 1 {
		t.Fatalf("aggregated records = %d, want 1", len(scans))
	}
	if scans[0].LotNumber == nil || *scans[0].LotNumber != "LOT24A01" {
		t.Errorf("lot number = %v, want LOT24A01", scans[0].LotNumber)
	}
}
