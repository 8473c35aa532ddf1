package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldAction 操作类型字段
	FieldAction = "action"

	// FieldIP 客户端地址字段
	FieldIP = "ip"

	// FieldRecordID 历史记录 ID 字段
	FieldRecordID = "recordId"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldError 错误信息字段
	FieldError = "error"

	// FieldSize 请求体大小字段
	FieldSize = "size"

	// FieldCount 记录数量字段
	FieldCount = "count"
)
