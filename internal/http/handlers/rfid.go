package handlers

import (
	"encoding/json"
	"strings"

	"github.com/pie-rfid/inventory-next/internal/constants"
	"github.com/pie-rfid/inventory-next/internal/http/response"
	"github.com/pie-rfid/inventory-next/internal/service"

	"github.com/gin-gonic/gin"
)

// Datalist 原始 EPC 列表。
// 兼容两种提交写法：JSON 数组，或 "[A,B,C]" 形式的方括号逗号串
type Datalist []string

// UnmarshalJSON 实现两种写法的解析
func (d *Datalist) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*d = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	joined = strings.TrimSpace(joined)
	joined = strings.TrimPrefix(joined, "[")
	joined = strings.TrimSuffix(joined, "]")

	var result []string
	for _, part := range strings.Split(joined, ",") {
		part = strings.Trim(strings.TrimSpace(part), `"'`)
		if part != "" {
			result = append(result, part)
		}
	}
	*d = result
	return nil
}

// bulkCreateRequest 批量提交请求体，字段名与扫描端约定保持一致
type bulkCreateRequest struct {
	Datalist     Datalist `json:"a"`
	Company      string   `json:"company"`
	Code         string   `json:"code"`
	TypeName     string   `json:"type"`
	OtherCompany string   `json:"other_company"`
	Date         string   `json:"date"`
}

// BulkCreate 批量提交 EPC 扫描
func (h *Handler) BulkCreate(c *gin.Context) {
	var req bulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	result, err := h.IngestService.Process(c.Request.Context(), service.BulkCreateInput{
		Datalist:     req.Datalist,
		Company:      req.Company,
		Code:         req.Code,
		TypeName:     req.TypeName,
		OtherCompany: req.OtherCompany,
		Date:         req.Date,
	})
	if err != nil {
		respondWithMappedError(c, err, ingestErrorRules, response.CodeInternal, err.Error())
		return
	}

	response.Success(c, shapeBulkCreate(result))
}

// shapeBulkCreate 按作业类型挑选响应字段：
// 盘点回明细/库存/差异，出库只回明细，验收回报告与转移结果
func shapeBulkCreate(result *service.BulkCreateResult) gin.H {
	body := gin.H{
		"status": "success",
		"ingest": result.Ingest,
	}
	switch result.OperationType {
	case constants.OperationTypeOutbound:
		body["spec"] = result.Spec
	case constants.OperationTypeInspection:
		body["inspection_report"] = result.Discrepancy
		body["transfer_result"] = result.Transfer
	default:
		body["spec"] = result.Spec
		body["inventory"] = result.Inventory
		body["discrepancy"] = result.Discrepancy
	}
	return body
}
