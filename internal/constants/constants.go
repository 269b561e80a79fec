package constants

// 作业类型常量（韩方系统原始标签，下游按原文匹配，不做翻译）
const (
	OperationTypeStocktake  = "재고" // 盘点
	OperationTypeOutbound   = "출고" // 出库
	OperationTypeInspection = "검수" // 验收
)

// 不一致原因常量（极性与源系统保持一致）
const (
	DiscrepancyReasonMissing  = "미존재" // 库存不存在
	DiscrepancyReasonExcess   = "초과"  // 库存少于规格
	DiscrepancyReasonShortage = "모자람" // 库存多于规格
)

// 缓存键常量
const (
	CacheKeyLotHashMap = "lot_hash_map"
	CacheKeySpecMapFmt = "spec_map_%d" // 按 DaySlot ID 区分
)

// 队列与任务常量
const (
	QueueDefault      = "default"
	TaskCatalogImport = "catalog:import"
)

// 批处理与校验默认值
const (
	DefaultBatchSize       = 100
	DefaultMaxQuantity     = 999999
	DefaultHashMaxAttempts = 10000
	DefaultLotHashLength   = 9
)

// 日期格式常量
const (
	DateFormatCompact = "20060102"
	DateFormatDash    = "2006-01-02"
	DateFormatSlash   = "2006/01/02"
)
