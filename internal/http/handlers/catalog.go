package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pie-rfid/inventory-next/internal/http/response"
	"github.com/pie-rfid/inventory-next/internal/queue"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ImportCatalog 上传目录文件并触发导入。
// 队列可用时异步处理，否则当场同步导入
func (h *Handler) ImportCatalog(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "file is required", err)
		return
	}
	if h.Config.Upload.MaxSize > 0 && file.Size > h.Config.Upload.MaxSize {
		respondError(c, response.CodeBadRequest, "file too large", nil)
		return
	}
	if ext := strings.ToLower(filepath.Ext(file.Filename)); ext != ".xlsx" {
		respondError(c, response.CodeBadRequest, "only xlsx files are accepted", nil)
		return
	}

	dir := h.Config.Upload.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		respondError(c, response.CodeInternal, "upload dir unavailable", err)
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("catalog_%s_%s.xlsx", time.Now().Format("20060102150405"), uuid.NewString()[:8]))
	if err := c.SaveUploadedFile(file, path); err != nil {
		respondError(c, response.CodeInternal, "file save failed", err)
		return
	}

	if h.QueueClient.Enabled() {
		if err := h.QueueClient.EnqueueCatalogImport(queue.CatalogImportPayload{FilePath: path}); err != nil {
			respondError(c, response.CodeInternal, "enqueue failed", err)
			return
		}
		response.SuccessWithMsg(c, "import queued", gin.H{"file": filepath.Base(path)})
		return
	}

	result, err := h.CatalogImportService.ImportFile(c.Request.Context(), path)
	if err != nil {
		respondError(c, response.CodeInternal, "catalog import failed", err)
		return
	}
	response.Success(c, result)
}

// GetCatalog 目录条目查询，可按产品代码过滤
func (h *Handler) GetCatalog(c *gin.Context) {
	items, err := h.CatalogItemRepo.List(c.Query("product_code"))
	if err != nil {
		respondError(c, response.CodeInternal, "catalog fetch failed", err)
		return
	}
	response.Success(c, items)
}
