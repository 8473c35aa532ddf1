package app

import (
	"math"

	"github.com/haierkeys/dev-toolbox-service/pkg/convert"
)

// PaginationConfig pagination configuration // 分页配置
type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultPaginationConfig default pagination configuration // 默认分页配置
var DefaultPaginationConfig = PaginationConfig{
	DefaultPageSize: 50,
	MaxPageSize:     100,
}

// Pagination is the pager block of list responses.
// Pagination 列表响应中的分页信息
type Pagination struct {
	Page  int   `json:"page"`  // Page number // 页码
	Limit int   `json:"limit"` // Page size // 每页数量
	Total int64 `json:"total"` // Total rows // 总行数
	Pages int   `json:"pages"` // Total pages // 总页数
}

// NewPagination computes pages = ceil(total/limit).
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// NormalizePage coerces a non-numeric or non-positive page to 1.
func NormalizePage(s string) int {
	page := convert.StrTo(s).MustInt()
	if page <= 0 {
		return 1
	}
	return page
}

// NormalizePageSize coerces to the default and clamps to the maximum.
// NormalizePageSize 非法值回落到默认值，超出上限时截断
func NormalizePageSize(s string, cfg PaginationConfig) int {
	pageSize := convert.StrTo(s).MustInt()
	if pageSize <= 0 {
		return cfg.DefaultPageSize
	}
	if pageSize > cfg.MaxPageSize {
		return cfg.MaxPageSize
	}
	return pageSize
}

// GetPageOffset returns (page-1)*pageSize, saturating at math.MaxInt so a huge page
// yields an empty result instead of wrapping around to the first rows.
// GetPageOffset 计算偏移量，溢出时截断为 math.MaxInt
func GetPageOffset(page, pageSize int) int {
	if page <= 1 || pageSize <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}
