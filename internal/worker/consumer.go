package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pie-rfid/inventory-next/internal/logger"
	"github.com/pie-rfid/inventory-next/internal/provider"
	"github.com/pie-rfid/inventory-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCatalogImport, c.handleCatalogImport)
}

func (c *Consumer) handleCatalogImport(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_catalog_import_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CatalogImportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_catalog_import_unmarshal_failed", "error", err)
		return err
	}
	path := strings.TrimSpace(payload.FilePath)
	if path == "" {
		logger.Debugw("worker_catalog_import_skip_empty_path")
		return nil
	}
	if c.CatalogImportService == nil {
		logger.Warnw("worker_catalog_import_skip_service_nil", "path", path)
		return nil
	}
	result, err := c.CatalogImportService.ImportFile(ctx, path)
	if err != nil {
		logger.Warnw("worker_catalog_import_failed", "path", path, "error", err)
		return err
	}
	logger.Infow("worker_catalog_import_done",
		"path", path, "rows", result.Rows, "imported", result.Imported, "skipped", result.Skipped)
	return nil
}
