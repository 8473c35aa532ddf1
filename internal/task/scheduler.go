package task

import (
	"context"
	"time"

	"github.com/haierkeys/dev-toolbox-service/pkg/safe_close"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Run(ctx context.Context) error // 执行任务
	Spec() string                  // cron 表达式，支持 @daily、@every 1h 等描述符
	IsStartupRun() bool            // 是否立即执行一次
}

// Runner executes one task run, typically on the worker pool.
// Runner 执行一次任务，通常提交到 Worker Pool
type Runner func(ctx context.Context, fn func(context.Context) error) error

var specParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSpec 解析 cron 表达式
func ParseSpec(spec string) (cron.Schedule, error) {
	return specParser.Parse(spec)
}

// Scheduler 任务调度器
type Scheduler struct {
	logger *zap.Logger
	tasks  []Task
	sc     *safe_close.SafeClose
	run    Runner
	now    func() time.Time
}

// NewScheduler 创建任务调度器；run 为空时在调度协程中直接执行
func NewScheduler(logger *zap.Logger, sc *safe_close.SafeClose, run Runner) *Scheduler {
	if run == nil {
		run = func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }
	}
	return &Scheduler{
		logger: logger,
		tasks:  make([]Task, 0),
		sc:     sc,
		run:    run,
		now:    time.Now,
	}
}

// AddTask 添加任务
func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)
}

// Start 启动所有任务
func (s *Scheduler) Start() error {
	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return nil
	}

	// 先解析全部表达式，避免部分任务已启动
	schedules := make([]cron.Schedule, len(s.tasks))
	for i, task := range s.tasks {
		schedule, err := ParseSpec(task.Spec())
		if err != nil {
			s.logger.Error("Failed to parse cron expression", zap.String("name", task.Name()), zap.String("expr", task.Spec()), zap.Error(err))
			return err
		}
		schedules[i] = schedule
	}

	s.logger.Info("tasks starting ", zap.Int("count", len(s.tasks)))

	for i, task := range s.tasks {
		s.startTask(task, schedules[i])
	}
	return nil
}

// startTask 启动单个任务
func (s *Scheduler) startTask(task Task, schedule cron.Schedule) {

	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()

		// 如果任务需要立即执行
		if task.IsStartupRun() {
			s.execute(task, "startupRun")
		}

		for {
			next := schedule.Next(s.now())
			if next.IsZero() {
				return
			}
			timer := time.NewTimer(next.Sub(s.now()))

			select {
			case <-timer.C:
				s.execute(task, "loopRun")
			case <-closeSignal:
				timer.Stop()
				s.logger.Info("task stopped", zap.String("name", task.Name()))
				return
			}
		}
	})
}

func (s *Scheduler) execute(task Task, mode string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panic",
				zap.String("name", task.Name()),
				zap.String("mode", mode),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()

	s.logger.Info("task running", zap.String("name", task.Name()), zap.String("mode", mode))
	if err := s.run(context.Background(), task.Run); err != nil {
		s.logger.Error("task running error",
			zap.String("name", task.Name()),
			zap.String("mode", mode),
			zap.Error(err))
	}
}
