// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

import (
	"time"

	pkgapp "github.com/haierkeys/dev-toolbox-service/pkg/app"
	"github.com/haierkeys/dev-toolbox-service/pkg/util"
)

// DefaultHistoryRetention records older than this are removed by cleanup
// DefaultHistoryRetention 历史记录默认保留时长
const DefaultHistoryRetention = 30 * 24 * time.Hour

// DefaultStatsTimeout bounds one shared statistics computation
const DefaultStatsTimeout = 30 * time.Second

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	App AppServiceConfig // App related config // 应用相关配置
}

// AppServiceConfig app service configuration
// AppServiceConfig 应用服务配置
type AppServiceConfig struct {
	HistoryRetention string        // Retention window (e.g., 30d, 720h, default 30d) // 历史记录保留时长（支持格式：30d、720h，默认 30d）
	DefaultPageSize  int           // Default page size // 默认分页大小
	MaxPageSize      int           // Max page size // 最大分页大小
	StatsTimeout     time.Duration // Shared stats computation timeout // 统计计算超时
}

// Retention parses HistoryRetention, falling back to the default on empty or invalid input.
// Retention 解析保留时长，空值或非法值使用默认值
func (c AppServiceConfig) Retention() time.Duration {
	if c.HistoryRetention == "" {
		return DefaultHistoryRetention
	}
	d, err := util.ParseDuration(c.HistoryRetention)
	if err != nil || d <= 0 {
		return DefaultHistoryRetention
	}
	return d
}

// StatsDeadline returns StatsTimeout, or the default when unset.
func (c AppServiceConfig) StatsDeadline() time.Duration {
	if c.StatsTimeout > 0 {
		return c.StatsTimeout
	}
	return DefaultStatsTimeout
}

// Pagination returns the page size limits
// Pagination 返回分页配置
func (c AppServiceConfig) Pagination() pkgapp.PaginationConfig {
	cfg := pkgapp.DefaultPaginationConfig
	if c.DefaultPageSize > 0 {
		cfg.DefaultPageSize = c.DefaultPageSize
	}
	if c.MaxPageSize > 0 {
		cfg.MaxPageSize = c.MaxPageSize
	}
	if cfg.DefaultPageSize > cfg.MaxPageSize {
		cfg.DefaultPageSize = cfg.MaxPageSize
	}
	return cfg
}
