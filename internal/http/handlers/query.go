package handlers

import (
	"github.com/pie-rfid/inventory-next/internal/http/response"
	"github.com/pie-rfid/inventory-next/internal/models"

	"github.com/gin-gonic/gin"
)

// resolveSlot 从查询参数定位槽，失败时直接写响应
func (h *Handler) resolveSlot(c *gin.Context) (*models.DaySlot, bool) {
	slot, err := h.IngestService.ResolveSlot(
		c.Query("company"),
		c.Query("code"),
		c.Query("type"),
		c.Query("date"),
	)
	if err != nil {
		respondWithMappedError(c, err, ingestErrorRules, response.CodeInternal, "slot lookup failed")
		return nil, false
	}
	return slot, true
}

// GetInventory 查询指定槽的库存
func (h *Handler) GetInventory(c *gin.Context) {
	slot, ok := h.resolveSlot(c)
	if !ok {
		return
	}
	records, err := h.InventoryService.ListBySlot(slot.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "inventory fetch failed", err)
		return
	}
	response.Success(c, gin.H{"day_slot_id": slot.ID, "records": records})
}

// GetSpecifications 查询指定槽的作业明细
func (h *Handler) GetSpecifications(c *gin.Context) {
	slot, ok := h.resolveSlot(c)
	if !ok {
		return
	}
	specs, err := h.SpecificationService.ListBySlot(slot.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "specification fetch failed", err)
		return
	}
	response.Success(c, gin.H{"day_slot_id": slot.ID, "records": specs})
}

// GetDiscrepancies 查询指定槽的差异记录
func (h *Handler) GetDiscrepancies(c *gin.Context) {
	slot, ok := h.resolveSlot(c)
	if !ok {
		return
	}
	records, err := h.DiscrepancyService.ListBySlot(slot.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "discrepancy fetch failed", err)
		return
	}
	response.Success(c, gin.H{"day_slot_id": slot.ID, "records": records})
}

// GetScans 查询指定槽的扫描聚合记录
func (h *Handler) GetScans(c *gin.Context) {
	slot, ok := h.resolveSlot(c)
	if !ok {
		return
	}
	scans, err := h.ScanService.ListBySlot(slot.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "scan fetch failed", err)
		return
	}
	response.Success(c, gin.H{"day_slot_id": slot.ID, "records": scans})
}

// GetCompanies 公司列表
func (h *Handler) GetCompanies(c *gin.Context) {
	companies, err := h.IngestService.ListCompanies()
	if err != nil {
		respondError(c, response.CodeInternal, "company fetch failed", err)
		return
	}
	response.Success(c, companies)
}
