package dao

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/haierkeys/dev-toolbox-service/internal/domain"
	"github.com/haierkeys/dev-toolbox-service/internal/model"
	"github.com/haierkeys/dev-toolbox-service/pkg/transform"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// writeKeyJSONHistory 历史表写队列键
const writeKeyJSONHistory = "json_history"

// RepoOption 仓储可选配置
type RepoOption func(*repoOptions)

type repoOptions struct {
	now func() time.Time
}

// WithClock 替换时间来源，用于测试
func WithClock(now func() time.Time) RepoOption {
	return func(o *repoOptions) { o.now = now }
}

func newRepoOptions(opts []RepoOption) repoOptions {
	o := repoOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// checkIntegrity verifies both JSON fields before anything is written.
// checkIntegrity 写入前校验两个 JSON 字段
func checkIntegrity(h *domain.JSONHistory) error {
	if strings.TrimSpace(h.OriginalJSON) == "" || !transform.IsJSON(h.OriginalJSON) {
		return fmt.Errorf("%w: originalJson", domain.ErrInvalidJSONData)
	}
	if strings.TrimSpace(h.FormattedJSON) == "" || !transform.IsJSON(h.FormattedJSON) {
		return fmt.Errorf("%w: formattedJson", domain.ErrInvalidJSONData)
	}
	if strings.TrimSpace(h.OriginAddress) == "" {
		return fmt.Errorf("%w: ipAddress is required", domain.ErrInvalidJSONData)
	}
	if h.ProcessingTime < 0 {
		return fmt.Errorf("%w: processingTime must be non-negative", domain.ErrInvalidJSONData)
	}
	return nil
}

type jsonHistoryRepository struct {
	dao  *Dao
	opts repoOptions
}

// NewJSONHistoryRepository 创建基于 gorm 的 JSONHistoryRepository 实例
func NewJSONHistoryRepository(dao *Dao, opts ...RepoOption) domain.JSONHistoryRepository {
	return &jsonHistoryRepository{dao: dao, opts: newRepoOptions(opts)}
}

func (r *jsonHistoryRepository) db(ctx context.Context) (*gorm.DB, error) {
	if err := r.dao.MigrateOnce(writeKeyJSONHistory, func(g *gorm.DB) error {
		return model.AutoMigrate(g, "JSONHistory")
	}); err != nil {
		return nil, errors.Wrap(err, "migrate json_history")
	}
	return r.dao.DB().WithContext(ctx).Model(&model.JSONHistory{}), nil
}

func historyToDomain(m *model.JSONHistory) *domain.JSONHistory {
	if m == nil {
		return nil
	}
	return &domain.JSONHistory{
		ID:             m.ID,
		OriginalJSON:   m.OriginalJSON,
		FormattedJSON:  m.FormattedJSON,
		OriginAddress:  m.IPAddress,
		ClientAgent:    m.UserAgent,
		ProcessingTime: m.ProcessingTime,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func historyToModel(d *domain.JSONHistory) *model.JSONHistory {
	if d == nil {
		return nil
	}
	return &model.JSONHistory{
		ID:             d.ID,
		OriginalJSON:   d.OriginalJSON,
		FormattedJSON:  d.FormattedJSON,
		IPAddress:      d.OriginAddress,
		UserAgent:      d.ClientAgent,
		ProcessingTime: d.ProcessingTime,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func historyToDomainList(ms []*model.JSONHistory) []*domain.JSONHistory {
	list := make([]*domain.JSONHistory, 0, len(ms))
	for _, m := range ms {
		list = append(list, historyToDomain(m))
	}
	return list
}

// Create 创建历史记录
func (r *jsonHistoryRepository) Create(ctx context.Context, h *domain.JSONHistory) (*domain.JSONHistory, error) {
	if err := checkIntegrity(h); err != nil {
		return nil, err
	}

	if _, err := r.db(ctx); err != nil {
		return nil, err
	}

	now := r.opts.now().UTC()
	rec := *h
	rec.ID = uuid.NewString()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	m := historyToModel(&rec)

	err := r.dao.ExecuteWrite(ctx, writeKeyJSONHistory, func(db *gorm.DB) error {
		return db.Create(m).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "create json history")
	}
	return historyToDomain(m), nil
}

// GetByID 根据ID获取记录
func (r *jsonHistoryRepository) GetByID(ctx context.Context, id string) (*domain.JSONHistory, error) {
	q, err := r.db(ctx)
	if err != nil {
		return nil, err
	}

	var m model.JSONHistory
	if err := q.Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return historyToDomain(&m), nil
}

// ListRecent 获取最近的记录
func (r *jsonHistoryRepository) ListRecent(ctx context.Context, limit int) ([]*domain.JSONHistory, error) {
	return r.List(ctx, "", 0, limit)
}

// ListByOrigin 获取某个来源地址最近的记录
func (r *jsonHistoryRepository) ListByOrigin(ctx context.Context, origin string, limit int) ([]*domain.JSONHistory, error) {
	return r.List(ctx, origin, 0, limit)
}

// List 分页获取记录
func (r *jsonHistoryRepository) List(ctx context.Context, origin string, offset, limit int) ([]*domain.JSONHistory, error) {
	q, err := r.db(ctx)
	if err != nil {
		return nil, err
	}
	if origin != "" {
		q = q.Where("ip_address = ?", origin)
	}

	var ms []*model.JSONHistory
	err = q.Order("created_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return historyToDomainList(ms), nil
}

// Count 获取记录数量
func (r *jsonHistoryRepository) Count(ctx context.Context, origin string) (int64, error) {
	q, err := r.db(ctx)
	if err != nil {
		return 0, err
	}
	if origin != "" {
		q = q.Where("ip_address = ?", origin)
	}

	var n int64
	err = q.Count(&n).Error
	return n, err
}

// CountSince 获取 t 之后创建的记录数量
func (r *jsonHistoryRepository) CountSince(ctx context.Context, t time.Time) (int64, error) {
	q, err := r.db(ctx)
	if err != nil {
		return 0, err
	}

	var n int64
	err = q.Where("created_at >= ?", t.UTC()).Count(&n).Error
	return n, err
}

// CountDistinctOrigins 获取不同来源地址的数量
func (r *jsonHistoryRepository) CountDistinctOrigins(ctx context.Context) (int64, error) {
	q, err := r.db(ctx)
	if err != nil {
		return 0, err
	}

	var n int64
	err = q.Distinct("ip_address").Count(&n).Error
	return n, err
}

// AvgProcessingTime 平均处理耗时
func (r *jsonHistoryRepository) AvgProcessingTime(ctx context.Context) (float64, bool, error) {
	q, err := r.db(ctx)
	if err != nil {
		return 0, false, err
	}

	var avg sql.NullFloat64
	if err := q.Select("AVG(processing_time)").Scan(&avg).Error; err != nil {
		return 0, false, err
	}
	return avg.Float64, avg.Valid, nil
}

// DeleteOlderThan 删除创建时间严格早于 cutoff 的记录
func (r *jsonHistoryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if _, err := r.db(ctx); err != nil {
		return 0, err
	}

	var deleted int64
	err := r.dao.ExecuteWrite(ctx, writeKeyJSONHistory, func(db *gorm.DB) error {
		res := db.Where("created_at < ?", cutoff.UTC()).Delete(&model.JSONHistory{})
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, errors.Wrap(err, "delete old json history")
	}
	return deleted, nil
}

// Delete 删除指定记录
func (r *jsonHistoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := r.db(ctx); err != nil {
		return false, err
	}

	var deleted int64
	err := r.dao.ExecuteWrite(ctx, writeKeyJSONHistory, func(db *gorm.DB) error {
		res := db.Where("id = ?", id).Delete(&model.JSONHistory{})
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, errors.Wrap(err, "delete json history")
	}
	return deleted > 0, nil
}
