package queue

import (
	"encoding/json"

	"github.com/pie-rfid/inventory-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCatalogImport 目录导入任务
	TaskCatalogImport = constants.TaskCatalogImport
)

// CatalogImportPayload 目录导入任务载荷
type CatalogImportPayload struct {
	FilePath string `json:"file_path"`
}

// NewCatalogImportTask 创建目录导入任务
func NewCatalogImportTask(payload CatalogImportPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogImport, body), nil
}
