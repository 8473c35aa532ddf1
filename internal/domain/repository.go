// Package domain 定义领域模型和接口
package domain

import (
	"context"
	"time"
)

// JSONHistoryRepository JSON 格式化历史仓储接口
// All list methods return newest records first.
// 所有列表方法按创建时间倒序返回
type JSONHistoryRepository interface {
	// Create 校验两个 JSON 字段后写入，分配 ID 与时间戳
	Create(ctx context.Context, h *JSONHistory) (*JSONHistory, error)

	// GetByID 根据ID获取记录，不存在时返回 nil, nil
	GetByID(ctx context.Context, id string) (*JSONHistory, error)

	// ListRecent 获取最近的记录
	ListRecent(ctx context.Context, limit int) ([]*JSONHistory, error)

	// ListByOrigin 获取某个来源地址最近的记录
	ListByOrigin(ctx context.Context, origin string, limit int) ([]*JSONHistory, error)

	// List 分页获取记录，origin 为空时不过滤
	List(ctx context.Context, origin string, offset, limit int) ([]*JSONHistory, error)

	// Count 获取记录数量，origin 为空时不过滤
	Count(ctx context.Context, origin string) (int64, error)

	// CountSince 获取 t 之后（含）创建的记录数量
	CountSince(ctx context.Context, t time.Time) (int64, error)

	// CountDistinctOrigins 获取不同来源地址的数量
	CountDistinctOrigins(ctx context.Context) (int64, error)

	// AvgProcessingTime 平均处理耗时，没有记录时 ok 为 false
	AvgProcessingTime(ctx context.Context) (avg float64, ok bool, err error)

	// DeleteOlderThan 删除创建时间严格早于 cutoff 的记录，返回删除数量
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Delete 删除指定记录，返回是否存在
	Delete(ctx context.Context, id string) (bool, error)
}
