package task

import (
	"context"

	"github.com/haierkeys/dev-toolbox-service/internal/app"
	"github.com/haierkeys/dev-toolbox-service/internal/service"
	pkglogger "github.com/haierkeys/dev-toolbox-service/pkg/logger"

	"go.uber.org/zap"
)

// init 自动注册历史清理任务
func init() {
	Register(NewHistoryCleanupTask)
}

// HistoryCleanupTask deletes history records past the retention window
// HistoryCleanupTask 定时删除超过保留时长的历史记录
type HistoryCleanupTask struct {
	svc    service.HistoryService
	logger *zap.Logger
	spec   string
}

// NewHistoryCleanupTask 创建历史清理任务，未配置 cron 表达式时禁用
func NewHistoryCleanupTask(a *app.App) (Task, error) {
	spec := a.Config().App.HistoryCleanupCron
	if spec == "" {
		a.Logger().Info("history cleanup task is disabled (history-cleanup-cron not configured)")
		return nil, nil
	}
	if _, err := ParseSpec(spec); err != nil {
		return nil, err
	}

	return &HistoryCleanupTask{
		svc:    a.HistoryService,
		logger: a.Logger(),
		spec:   spec,
	}, nil
}

// Name 返回任务名称
func (t *HistoryCleanupTask) Name() string {
	return "HistoryCleanupTask"
}

// Run 执行清理任务
func (t *HistoryCleanupTask) Run(ctx context.Context) error {
	deleted, err := t.svc.Cleanup(ctx)
	if err != nil {
		return err
	}
	t.logger.Info(t.Name()+" completed successfully", zap.Int64(pkglogger.FieldCount, deleted))
	return nil
}

// Spec 返回 cron 表达式
func (t *HistoryCleanupTask) Spec() string {
	return t.spec
}

// IsStartupRun 是否立即执行一次
func (t *HistoryCleanupTask) IsStartupRun() bool {
	return true
}
