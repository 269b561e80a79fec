package cache

import (
	"context"
	"time"
)

// Store 缓存抽象，组件通过构造函数注入，失效调用是显式副作用
type Store interface {
	// GetJSON 读取 JSON 缓存，返回是否命中
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	// SetJSON 写入 JSON 缓存
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Del 删除缓存
	Del(ctx context.Context, key string) error
	// Flush 清空全部缓存（演示/定时重置用途）
	Flush(ctx context.Context) error
	// Stats 返回缓存状态描述
	Stats(ctx context.Context) map[string]interface{}
}
