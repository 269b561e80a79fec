package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pie-rfid/inventory-next/internal/constants"
	"github.com/pie-rfid/inventory-next/internal/logger"
	"github.com/pie-rfid/inventory-next/internal/models"
	"github.com/pie-rfid/inventory-next/internal/repository"
)

// ErrInvalidDate 日期字符串不是支持的格式
var ErrInvalidDate = errors.New("invalid date format")

// IngestService 入账编排：校验请求方，按作业类型串起
// 扫描聚合、明细归并、库存投影、差异对账与验收转移
type IngestService struct {
	companyRepo     repository.CompanyRepository
	typeRepo        repository.OperationTypeRepository
	slotRepo        repository.DaySlotRepository
	scanSvc         *ScanService
	specSvc         *SpecificationService
	inventorySvc    *InventoryService
	discrepancySvc  *DiscrepancyService
	transferSvc     *TransferService
	defaultReceiver string
	location        *time.Location
}

// NewIngestService 创建入账编排服务
func NewIngestService(
	companyRepo repository.CompanyRepository,
	typeRepo repository.OperationTypeRepository,
	slotRepo repository.DaySlotRepository,
	scanSvc *ScanService,
	specSvc *SpecificationService,
	inventorySvc *InventoryService,
	discrepancySvc *DiscrepancyService,
	transferSvc *TransferService,
	defaultReceiver string,
	location *time.Location,
) *IngestService {
	if location == nil {
		location = time.UTC
	}
	return &IngestService{
		companyRepo:     companyRepo,
		typeRepo:        typeRepo,
		slotRepo:        slotRepo,
		scanSvc:         scanSvc,
		specSvc:         specSvc,
		inventorySvc:    inventorySvc,
		discrepancySvc:  discrepancySvc,
		transferSvc:     transferSvc,
		defaultReceiver: defaultReceiver,
		location:        location,
	}
}

// BulkCreateInput 一次批量提交
type BulkCreateInput struct {
	Datalist     []string
	Company      string
	Code         string
	TypeName     string
	OtherCompany string
	Date         string
}

// BulkCreateResult 批量提交结果，边界层按作业类型挑选要回给调用方的字段
type BulkCreateResult struct {
	OperationType string             `json:"operation_type"`
	DaySlotID     uint               `json:"day_slot_id"`
	Ingest        IngestResult       `json:"ingest"`
	Spec          *SpecApplyResult   `json:"spec,omitempty"`
	Inventory     *ProjectionResult  `json:"inventory,omitempty"`
	Discrepancy   *DiscrepancyReport `json:"discrepancy,omitempty"`
	Transfer      *TransferResult    `json:"transfer,omitempty"`
}

// Process 处理一次批量提交。
// 校验顺序固定：数据为空 → 类型不存在 → 公司不存在 → 类型未授权
func (s *IngestService) Process(ctx context.Context, input BulkCreateInput) (*BulkCreateResult, error) {
	started := time.Now()

	if len(input.Datalist) == 0 {
		return nil, ErrNoScanData
	}

	typeName := strings.TrimSpace(input.TypeName)
	operationType, err := s.typeRepo.GetByName(typeName)
	if err != nil {
		return nil, err
	}
	if operationType == nil {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, typeName)
	}

	company, err := s.companyRepo.GetByNameAndCode(strings.TrimSpace(input.Company), strings.TrimSpace(input.Code))
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: %s", ErrCompanyNotFound, input.Company)
	}

	allowed, err := s.companyRepo.IsTypeAllowed(company.ID, operationType.ID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s / %s", ErrTypeNotAllowed, company.Name, typeName)
	}

	date, err := s.parseWorkDate(input.Date)
	if err != nil {
		return nil, err
	}

	slot, err := s.slotRepo.GetOrCreate(company.ID, operationType.ID, date)
	if err != nil {
		return nil, err
	}

	scans, ingestResult, err := s.scanSvc.Ingest(ctx, slot.ID, input.Datalist)
	if err != nil {
		return nil, err
	}
	if err := s.scanSvc.Persist(scans); err != nil {
		return nil, err
	}

	result := &BulkCreateResult{
		OperationType: operationType.Name,
		DaySlotID:     slot.ID,
		Ingest:        ingestResult,
	}

	switch operationType.Name {
	case constants.OperationTypeInspection:
		receiver := strings.TrimSpace(input.OtherCompany)
		if receiver == "" {
			receiver = s.defaultReceiver
		}
		transfer, err := s.transferSvc.ProcessInspection(ctx, company, receiver, slot, scans, date)
		if err != nil {
			return nil, err
		}
		result.Transfer = transfer
		result.Spec = transfer.Specification
		result.Discrepancy = transfer.Report
	case constants.OperationTypeOutbound:
		// 出库提交只累计明细，不动库存；
		// 实际的发货方→收货方移动在验收时由转移协调器执行
		specResult, err := s.specSvc.Apply(ctx, slot, operationType.Name, scans)
		if err != nil {
			return nil, err
		}
		result.Spec = specResult
	default:
		// 盘点与自定义类型：归并、投影、对账全跑
		specResult, err := s.specSvc.Apply(ctx, slot, operationType.Name, scans)
		if err != nil {
			return nil, err
		}
		result.Spec = specResult

		specs, err := s.specSvc.ListBySlot(slot.ID)
		if err != nil {
			return nil, err
		}
		projection, err := s.inventorySvc.Project(slot, operationType.Name, specs)
		if err != nil {
			return nil, err
		}
		result.Inventory = projection

		report, err := s.discrepancySvc.Run(company.ID, specs)
		if err != nil {
			return nil, err
		}
		result.Discrepancy = report
	}

	logger.Infow("bulk_create_processed",
		"company", company.Name,
		"type", operationType.Name,
		"slot_id", slot.ID,
		"received", ingestResult.Received,
		"accepted", ingestResult.Accepted,
		"duplicates", ingestResult.Duplicates,
		"errors", ingestResult.Errors,
		"duration_ms", time.Since(started).Milliseconds())
	return result, nil
}

// ResolveSlot 定位查询目标槽：公司、类型、日期三段都按提交时的语义解析。
// 公司代码为空时只按名称匹配
func (s *IngestService) ResolveSlot(companyName, code, typeName, rawDate string) (*models.DaySlot, error) {
	operationType, err := s.typeRepo.GetByName(strings.TrimSpace(typeName))
	if err != nil {
		return nil, err
	}
	if operationType == nil {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, typeName)
	}

	var company *models.Company
	if strings.TrimSpace(code) == "" {
		company, err = s.companyRepo.GetByName(strings.TrimSpace(companyName))
	} else {
		company, err = s.companyRepo.GetByNameAndCode(strings.TrimSpace(companyName), strings.TrimSpace(code))
	}
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: %s", ErrCompanyNotFound, companyName)
	}

	date, err := s.parseWorkDate(rawDate)
	if err != nil {
		return nil, err
	}

	slot, err := s.slotRepo.Get(company.ID, operationType.ID, date)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, ErrNotFound
	}
	return slot, nil
}

// ListCompanies 公司列表
func (s *IngestService) ListCompanies() ([]models.Company, error) {
	return s.companyRepo.List()
}

// parseWorkDate 解析作业日期，缺省取配置时区的今天。
// 兼容 YYYYMMDD、YYYY-MM-DD、YYYY/MM/DD 三种写法
func (s *IngestService) parseWorkDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		now := time.Now().In(s.location)
		return models.DateOnly(now), nil
	}
	for _, layout := range []string{constants.DateFormatCompact, constants.DateFormatDash, constants.DateFormatSlash} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return models.DateOnly(parsed), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}
