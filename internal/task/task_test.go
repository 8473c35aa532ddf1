package task

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haierkeys/dev-toolbox-service/internal/app"
	"github.com/haierkeys/dev-toolbox-service/internal/domain"
	"github.com/haierkeys/dev-toolbox-service/internal/service"
	"github.com/haierkeys/dev-toolbox-service/pkg/safe_close"

	"github.com/creasty/defaults"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingTask struct {
	spec    string
	startup bool
	runs    atomic.Int32
	fail    bool
}

func (t *countingTask) Name() string { return "countingTask" }

func (t *countingTask) Run(ctx context.Context) error {
	t.runs.Add(1)
	if t.fail {
		panic("boom")
	}
	return nil
}

func (t *countingTask) Spec() string { return t.spec }

func (t *countingTask) IsStartupRun() bool { return t.startup }

func TestSchedulerRunsOnSchedule(t *testing.T) {
	sc := safe_close.NewSafeClose()
	s := NewScheduler(zap.NewNop(), sc, nil)

	// cron 的 @every 最小粒度为 1 秒
	task := &countingTask{spec: "@every 1s", startup: true}
	s.AddTask(task)
	require.NoError(t, s.Start())

	assert.Eventually(t, func() bool { return task.runs.Load() >= 2 }, 3*time.Second, 10*time.Millisecond)

	sc.SendCloseSignal(nil)
	require.NoError(t, sc.WaitClosed())

	stopped := task.runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, task.runs.Load())
}

func TestSchedulerSurvivesPanic(t *testing.T) {
	sc := safe_close.NewSafeClose()
	s := NewScheduler(zap.NewNop(), sc, nil)

	task := &countingTask{spec: "@every 1s", startup: true, fail: true}
	s.AddTask(task)
	require.NoError(t, s.Start())

	assert.Eventually(t, func() bool { return task.runs.Load() >= 2 }, 3*time.Second, 10*time.Millisecond)

	sc.SendCloseSignal(nil)
	require.NoError(t, sc.WaitClosed())
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	sc := safe_close.NewSafeClose()
	s := NewScheduler(zap.NewNop(), sc, nil)
	s.AddTask(&countingTask{spec: "every now and then"})
	assert.Error(t, s.Start())
}

func TestSchedulerUsesRunner(t *testing.T) {
	sc := safe_close.NewSafeClose()
	var submitted atomic.Int32
	errDown := errors.New("pool closed")
	s := NewScheduler(zap.NewNop(), sc, func(ctx context.Context, fn func(context.Context) error) error {
		submitted.Add(1)
		return errDown
	})

	task := &countingTask{spec: "@daily", startup: true}
	s.AddTask(task)
	require.NoError(t, s.Start())

	assert.Eventually(t, func() bool { return submitted.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, task.runs.Load())

	sc.SendCloseSignal(nil)
	require.NoError(t, sc.WaitClosed())
}

func newTestApp(t *testing.T, cron string, opts ...app.Option) *app.App {
	t.Helper()
	cfg := new(app.AppConfig)
	require.NoError(t, defaults.Set(cfg))
	cfg.Database.Path = filepath.Join(t.TempDir(), "toolbox.sqlite3")
	cfg.App.HistoryCleanupCron = cron

	a, err := app.NewApp(cfg, zap.NewNop(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a
}

func TestHistoryCleanupTask(t *testing.T) {
	// 服务时钟前移 31 天，刚写入的记录即超过保留时长
	future := func() time.Time { return time.Now().Add(31 * 24 * time.Hour) }
	a := newTestApp(t, "@daily", app.WithServiceOptions(service.WithHistoryClock(future)))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := a.HistoryRepo.Create(ctx, &domain.JSONHistory{
			OriginalJSON:  `{"a":1}`,
			FormattedJSON: "{\n  \"a\": 1\n}",
			OriginAddress: "127.0.0.1",
		})
		require.NoError(t, err)
	}

	sc := safe_close.NewSafeClose()
	m := NewManager(zap.NewNop(), sc, a)
	require.NoError(t, m.RegisterTasks())
	require.NoError(t, m.Start())

	assert.Eventually(t, func() bool {
		n, err := a.HistoryRepo.Count(ctx, "")
		return err == nil && n == 0
	}, 2*time.Second, 10*time.Millisecond)

	sc.SendCloseSignal(nil)
	require.NoError(t, sc.WaitClosed())
}

func TestHistoryCleanupTaskDisabled(t *testing.T) {
	a := newTestApp(t, "")
	task, err := NewHistoryCleanupTask(a)
	require.NoError(t, err)
	assert.Nil(t, task)

	a = newTestApp(t, "not a cron")
	_, err = NewHistoryCleanupTask(a)
	assert.Error(t, err)
}
