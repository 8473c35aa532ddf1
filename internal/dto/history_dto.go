package dto

import (
	"time"

	pkgapp "github.com/haierkeys/dev-toolbox-service/pkg/app"
)

// HistoryRecord JSON format history record as rendered to clients
// HistoryRecord 返回给客户端的历史记录
type HistoryRecord struct {
	ID             string    `json:"id"`
	OriginalJSON   string    `json:"originalJson"`
	FormattedJSON  string    `json:"formattedJson"`
	OriginAddress  string    `json:"ipAddress"`
	ClientAgent    string    `json:"userAgent"`
	ProcessingTime int64     `json:"processingTime"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	FormattedDate  string    `json:"formattedDate"` // Server-local createdAt // 服务器本地时间的创建时间
}

// HistoryStats aggregate statistics of the history log
// HistoryStats 历史记录统计
type HistoryStats struct {
	TotalRecords      int64   `json:"totalRecords"`
	TodayRecords      int64   `json:"todayRecords"`
	UniqueIPs         int64   `json:"uniqueIPs"`
	AvgProcessingTime float64 `json:"avgProcessingTime"`
}

// HistoryListRequest query parameters of GET /api/history
// Page and Limit stay strings so that non-numeric values fall back to defaults.
// IP is matched as opaque text; an unknown value simply matches nothing.
// HistoryListRequest 历史列表查询参数，Page/Limit 保持字符串以便非法值回落到默认值
type HistoryListRequest struct {
	Page  string `form:"page"`
	Limit string `form:"limit"`
	IP    string `form:"ip"`
}

// HistoryIDRequest path parameter of /api/history/:id
// HistoryIDRequest 历史记录 ID 路径参数
type HistoryIDRequest struct {
	ID string `uri:"id" form:"-" binding:"required,uuid"`
}

// HistoryListResponse response of GET /api/history
type HistoryListResponse struct {
	pkgapp.Res
	History    []*HistoryRecord  `json:"history"`
	Pagination pkgapp.Pagination `json:"pagination"`
}

// HistoryStatsResponse response of GET /api/history/stats
type HistoryStatsResponse struct {
	pkgapp.Res
	Stats HistoryStats `json:"stats"`
}

// HistoryRecordResponse response of GET /api/history/:id
type HistoryRecordResponse struct {
	pkgapp.Res
	Record *HistoryRecord `json:"record"`
}

// HistoryCleanupResponse response of DELETE /api/history/cleanup
type HistoryCleanupResponse struct {
	pkgapp.Res
	DeletedCount int64 `json:"deletedCount"`
}
