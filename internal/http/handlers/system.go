package handlers

import (
	"github.com/pie-rfid/inventory-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetCacheStats 缓存运行指标
func (h *Handler) GetCacheStats(c *gin.Context) {
	if h.CacheStore == nil {
		respondError(c, response.CodeInternal, "cache disabled", nil)
		return
	}
	response.Success(c, h.CacheStore.Stats(c.Request.Context()))
}
