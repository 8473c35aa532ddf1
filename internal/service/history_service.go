package service

import (
	"context"
	"time"

	"github.com/haierkeys/dev-toolbox-service/internal/domain"
	"github.com/haierkeys/dev-toolbox-service/internal/dto"
	pkgapp "github.com/haierkeys/dev-toolbox-service/pkg/app"
	"github.com/haierkeys/dev-toolbox-service/pkg/code"
	apperrors "github.com/haierkeys/dev-toolbox-service/pkg/errors"
	pkglogger "github.com/haierkeys/dev-toolbox-service/pkg/logger"
	"github.com/haierkeys/dev-toolbox-service/pkg/util"

	"github.com/jinzhu/copier"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// HistoryService defines the JSON format history query service interface
// HistoryService 定义 JSON 格式化历史查询服务接口
type HistoryService interface {
	// List returns one page of records, newest first
	// List 分页获取历史记录，按创建时间倒序
	List(ctx context.Context, params *dto.HistoryListRequest) ([]*dto.HistoryRecord, pkgapp.Pagination, error)

	// Stats returns the aggregate statistics
	// Stats 获取统计信息
	Stats(ctx context.Context) (*dto.HistoryStats, error)

	// Cleanup deletes records older than the retention window
	// Cleanup 删除超过保留时长的记录，返回删除数量
	Cleanup(ctx context.Context) (int64, error)

	// Get returns one record by id
	// Get 获取单条记录
	Get(ctx context.Context, id string) (*dto.HistoryRecord, error)

	// Delete removes one record by id
	// Delete 删除单条记录
	Delete(ctx context.Context, id string) error
}

// HistoryOption optional settings of the history service
type HistoryOption func(*historyService)

// WithHistoryClock replaces the time source
// WithHistoryClock 替换时间来源，用于测试
func WithHistoryClock(now func() time.Time) HistoryOption {
	return func(s *historyService) { s.now = now }
}

// WithHistoryMetrics records deletions on m
func WithHistoryMetrics(m *Metrics) HistoryOption {
	return func(s *historyService) { s.metrics = m }
}

// historyService implementation of HistoryService interface
// historyService 实现 HistoryService 接口
type historyService struct {
	repo    domain.JSONHistoryRepository // History repository // 历史记录仓库
	sf      *singleflight.Group          // Singleflight group // 并发请求合并组
	logger  *zap.Logger                  // Logger // 日志对象
	config  *AppServiceConfig            // Service configuration // 服务配置
	metrics *Metrics
	now     func() time.Time
}

// NewHistoryService creates HistoryService instance
// NewHistoryService 创建 HistoryService 实例
func NewHistoryService(repo domain.JSONHistoryRepository, logger *zap.Logger, config *AppServiceConfig, opts ...HistoryOption) HistoryService {
	if config == nil {
		config = &AppServiceConfig{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &historyService{
		repo:   repo,
		sf:     &singleflight.Group{},
		logger: logger,
		config: config,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ToHistoryRecord converts a domain record to its response shape
// ToHistoryRecord 将领域记录转换为响应结构
func ToHistoryRecord(h *domain.JSONHistory) *dto.HistoryRecord {
	if h == nil {
		return nil
	}
	r := &dto.HistoryRecord{}
	_ = copier.Copy(r, h)
	r.FormattedDate = util.FormatLocal(h.CreatedAt)
	return r
}

func toHistoryRecords(list []*domain.JSONHistory) []*dto.HistoryRecord {
	records := make([]*dto.HistoryRecord, 0, len(list))
	for _, h := range list {
		records = append(records, ToHistoryRecord(h))
	}
	return records
}

// List 分页获取历史记录
func (s *historyService) List(ctx context.Context, params *dto.HistoryListRequest) ([]*dto.HistoryRecord, pkgapp.Pagination, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "HistoryService.List")
	defer span.Finish()

	if params == nil {
		params = &dto.HistoryListRequest{}
	}
	page := pkgapp.NormalizePage(params.Page)
	limit := pkgapp.NormalizePageSize(params.Limit, s.config.Pagination())
	offset := pkgapp.GetPageOffset(page, limit)

	var (
		list  []*domain.JSONHistory
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = s.repo.List(gctx, params.IP, offset, limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, params.IP)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, pkgapp.Pagination{}, storeError(s.logger, "history.list", err)
	}

	return toHistoryRecords(list), pkgapp.NewPagination(page, limit, total), nil
}

// Stats runs the four aggregates concurrently; concurrent callers share one computation.
// The shared computation is detached from any single caller and bounded by its own timeout,
// so one caller going away does not fail the others.
// Stats 四个聚合并发执行，并发调用共享同一次计算；计算不受单个调用方取消影响
func (s *historyService) Stats(ctx context.Context) (*dto.HistoryStats, error) {
	ch := s.sf.DoChan("history.stats", func() (interface{}, error) {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.StatsDeadline())
		defer cancel()
		return s.computeStats(sctx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		stats := *res.Val.(*dto.HistoryStats)
		return &stats, nil
	}
}

func (s *historyService) computeStats(ctx context.Context) (*dto.HistoryStats, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "HistoryService.Stats")
	defer span.Finish()

	midnight := util.GetZeroTime(s.now().In(time.Local))
	stats := &dto.HistoryStats{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.TotalRecords, err = s.repo.Count(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		stats.TodayRecords, err = s.repo.CountSince(gctx, midnight)
		return err
	})
	g.Go(func() error {
		var err error
		stats.UniqueIPs, err = s.repo.CountDistinctOrigins(gctx)
		return err
	})
	g.Go(func() error {
		avg, ok, err := s.repo.AvgProcessingTime(gctx)
		if err != nil {
			return err
		}
		if ok {
			stats.AvgProcessingTime = avg
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, storeError(s.logger, "history.stats", err)
	}
	return stats, nil
}

// Cleanup 删除超过保留时长的记录
func (s *historyService) Cleanup(ctx context.Context) (int64, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "HistoryService.Cleanup")
	defer span.Finish()

	cutoff := s.now().Add(-s.config.Retention())
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, storeError(s.logger, "history.cleanup", err)
	}
	s.metrics.addDeleted(deleted)

	s.logger.Info("history cleanup finished",
		zap.Int64(pkglogger.FieldCount, deleted),
		zap.Time("cutoff", cutoff))
	return deleted, nil
}

// Get 获取单条记录
func (s *historyService) Get(ctx context.Context, id string) (*dto.HistoryRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "HistoryService.Get")
	defer span.Finish()

	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, "history.get", err)
	}
	if h == nil {
		return nil, apperrors.NewAppError(code.ErrorHistoryNotFound, nil)
	}
	return ToHistoryRecord(h), nil
}

// Delete 删除单条记录
func (s *historyService) Delete(ctx context.Context, id string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "HistoryService.Delete")
	defer span.Finish()

	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storeError(s.logger, "history.delete", err)
	}
	if !ok {
		return apperrors.NewAppError(code.ErrorHistoryNotFound, nil)
	}
	s.metrics.addDeleted(1)
	s.logger.Info("history record deleted", zap.String(pkglogger.FieldRecordID, id))
	return nil
}
