package service

import (
	"context"
	"strings"
	"time"

	"github.com/pie-rfid/inventory-next/internal/constants"
	"github.com/pie-rfid/inventory-next/internal/logger"
	"github.com/pie-rfid/inventory-next/internal/models"
	"github.com/pie-rfid/inventory-next/internal/repository"

	"github.com/xuri/excelize/v2"
)

// CatalogImportService 目录导入：外部电子表格批量灌入药品目录，
// 同时为每个批号登记哈希映射，扫描到的 EPC 批号段才反查得到
type CatalogImportService struct {
	repo      repository.CatalogItemRepository
	lotHash   *LotHashService
	batchSize int
}

// NewCatalogImportService 创建目录导入服务
func NewCatalogImportService(repo repository.CatalogItemRepository, lotHash *LotHashService, batchSize int) *CatalogImportService {
	if batchSize <= 0 {
		batchSize = constants.DefaultBatchSize
	}
	return &CatalogImportService{repo: repo, lotHash: lotHash, batchSize: batchSize}
}

// CatalogImportResult 导入统计
type CatalogImportResult struct {
	Rows     int `json:"rows"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportFile 导入一个 xlsx 文件的第一个工作表。
// 列顺序固定：产品代码、有效期、批号、名称、包装规格、存放位置、生产厂家。
// 首行表头跳过；产品代码或有效期缺失、日期不可解析的行跳过计数
func (s *CatalogImportService) ImportFile(ctx context.Context, path string) (*CatalogImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warnw("catalog_file_close_failed", "path", path, "error", err)
		}
	}()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, ErrEmptyCatalog
	}

	result := &CatalogImportResult{}
	var pending []models.CatalogItem
	hashed := make(map[string]struct{})
	for _, row := range rows[1:] {
		result.Rows++

		item, ok := s.parseRow(row)
		if !ok {
			result.Skipped++
			continue
		}
		if item.LotNumber != nil {
			if _, done := hashed[*item.LotNumber]; !done {
				if _, err := s.lotHash.HashLot(ctx, *item.LotNumber); err != nil {
					return nil, err
				}
				hashed[*item.LotNumber] = struct{}{}
			}
		}
		pending = append(pending, item)

		if len(pending) >= s.batchSize {
			imported, err := s.repo.BulkUpsert(pending)
			if err != nil {
				return nil, err
			}
			result.Imported += int(imported)
			pending = pending[:0]
		}
	}
	imported, err := s.repo.BulkUpsert(pending)
	if err != nil {
		return nil, err
	}
	result.Imported += int(imported)

	logger.Infow("catalog_imported",
		"path", path, "rows", result.Rows, "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

func (s *CatalogImportService) parseRow(row []string) (models.CatalogItem, bool) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	productCode := cell(0)
	rawExpiry := cell(1)
	if productCode == "" || rawExpiry == "" {
		return models.CatalogItem{}, false
	}
	expiry, ok := parseCatalogDate(rawExpiry)
	if !ok {
		return models.CatalogItem{}, false
	}

	item := models.CatalogItem{
		ProductCode:     productCode,
		ExpiryDate:      expiry,
		Name:            cell(3),
		PackageSize:     cell(4),
		StorageLocation: cell(5),
		Manufacturer:    cell(6),
	}
	if lot := cell(2); lot != "" {
		item.LotNumber = &lot
	}
	return item, true
}

func parseCatalogDate(raw string) (time.Time, bool) {
	for _, layout := range []string{constants.DateFormatDash, constants.DateFormatSlash, constants.DateFormatCompact} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return models.DateOnly(parsed), true
		}
	}
	return time.Time{}, false
}
