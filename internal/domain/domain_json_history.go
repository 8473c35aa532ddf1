// Package domain 定义领域模型和接口
package domain

import (
	"errors"
	"time"
)

// ErrInvalidJSONData is returned by Create when a record field does not parse as JSON.
// ErrInvalidJSONData 写入前 JSON 校验失败时返回
var ErrInvalidJSONData = errors.New("invalid JSON data")

// JSONHistory 一次 JSON 格式化操作的历史记录
type JSONHistory struct {
	ID             string
	OriginalJSON   string
	FormattedJSON  string
	OriginAddress  string
	ClientAgent    string
	ProcessingTime int64 // 毫秒
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HistoryStats 历史记录统计
type HistoryStats struct {
	TotalRecords      int64
	TodayRecords      int64
	UniqueIPs         int64
	AvgProcessingTime float64
}
