package service

import (
	"context"

	"github.com/pie-rfid/inventory-next/internal/epc"
	"github.com/pie-rfid/inventory-next/internal/logger"
	"github.com/pie-rfid/inventory-next/internal/models"
	"github.com/pie-rfid/inventory-next/internal/repository"
)

// ScanService 扫描聚合服务：原始 EPC 去重入台账，解析后按库存键聚合计数
type ScanService struct {
	repo      repository.ScanRepository
	decoder   *epc.Decoder
	lotHash   *LotHashService
	batchSize int
}

// NewScanService 创建扫描聚合服务
func NewScanService(repo repository.ScanRepository, decoder *epc.Decoder, lotHash *LotHashService, batchSize int) *ScanService {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &ScanService{repo: repo, decoder: decoder, lotHash: lotHash, batchSize: batchSize}
}

// IngestResult EPC 入账统计
type IngestResult struct {
	Received   int `json:"received"`
	Accepted   int `json:"accepted"`
	Duplicates int `json:"duplicates"`
	Errors     int `json:"errors"`
}

// Ingest 把一批原始 EPC 聚合到指定槽。
// 台账先于解析落库，是幂等提交点：只有往期提交已入台账的 EPC 算重复，
// 同一次提交里的重复串按出现次数全部计入聚合，台账只记一行。
// 解析失败只计数不中断。返回聚合后的扫描记录（尚未落库，由调用方批量写入）
func (s *ScanService) Ingest(ctx context.Context, slotID uint, datalist []string) ([]models.ScanRecord, IngestResult, error) {
	result := IngestResult{Received: len(datalist)}

	ledgered, err := s.repo.ListLedgeredEPCs(slotID, datalist)
	if err != nil {
		return nil, result, err
	}

	var fresh []string
	uniq := make(map[string]struct{}, len(datalist))
	var toLedger []string
	for _, raw := range datalist {
		if _, dup := ledgered[raw]; dup {
			result.Duplicates++
			continue
		}
		fresh = append(fresh, raw)
		if _, ok := uniq[raw]; !ok {
			uniq[raw] = struct{}{}
			toLedger = append(toLedger, raw)
		}
	}

	for start := 0; start < len(toLedger); start += s.batchSize {
		end := start + s.batchSize
		if end > len(toLedger) {
			end = len(toLedger)
		}
		if _, err := s.repo.BulkCreateLedger(slotID, toLedger[start:end]); err != nil {
			return nil, result, err
		}
	}

	type group struct {
		lotHash string
		count   int
	}
	groups := make(map[models.ItemKey]*group)
	var order []models.ItemKey
	hashSet := make(map[string]struct{})
	var hashes []string
	for _, raw := range fresh {
		tag, err := s.decoder.Decode(raw)
		if err != nil {
			logger.Warnw("epc_decode_failed", "slot_id", slotID, "data", raw, "error", err)
			result.Errors++
			continue
		}
		result.Accepted++

		// 先按哈希段分组，批号统一反查后再换成原始批号
		key := models.ItemKey{ProductCode: tag.ProductCode, ExpiryDate: models.DateOnly(tag.ExpiryDate), LotNumber: tag.LotHash}
		if g, ok := groups[key]; ok {
			g.count++
			continue
		}
		groups[key] = &group{lotHash: tag.LotHash, count: 1}
		order = append(order, key)
		if _, ok := hashSet[tag.LotHash]; !ok {
			hashSet[tag.LotHash] = struct{}{}
			hashes = append(hashes, tag.LotHash)
		}
	}

	resolved, err := s.lotHash.ResolveHashes(ctx, hashes)
	if err != nil {
		return nil, result, err
	}

	merged := make(map[models.ItemKey]*models.ScanRecord)
	var records []*models.ScanRecord
	for _, hashKey := range order {
		g := groups[hashKey]
		var lot *string
		if original, ok := resolved[g.lotHash]; ok {
			lot = &original
		} else {
			// 没有映射按批号未知处理，仍然参与聚合
			logger.Warnw("lot_hash_unresolved", "slot_id", slotID, "lot_hash", g.lotHash)
		}

		key := models.KeyOf(hashKey.ProductCode, hashKey.ExpiryDate, lot)
		if record, ok := merged[key]; ok {
			record.ScannedQuantity += g.count
			continue
		}
		record := &models.ScanRecord{
			DaySlotID:       slotID,
			ProductCode:     key.ProductCode,
			ExpiryDate:      key.ExpiryDate,
			LotNumber:       key.LotPtr(),
			ScannedQuantity: g.count,
		}
		merged[key] = record
		records = append(records, record)
	}

	out := make([]models.ScanRecord, 0, len(records))
	for _, record := range records {
		out = append(out, *record)
	}
	return out, result, nil
}

// Persist 批量落库聚合记录
func (s *ScanService) Persist(scans []models.ScanRecord) error {
	for start := 0; start < len(scans); start += s.batchSize {
		end := start + s.batchSize
		if end > len(scans) {
			end = len(scans)
		}
		if err := s.repo.BulkCreateScans(scans[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// ListBySlot 获取指定槽的扫描聚合记录
func (s *ScanService) ListBySlot(slotID uint) ([]models.ScanRecord, error) {
	return s.repo.ListBySlot(slotID)
}
