package cmd

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	internalApp "github.com/haierkeys/dev-toolbox-service/internal/app"
	"github.com/haierkeys/dev-toolbox-service/pkg/fileurl"

	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runFlags struct {
	dir     string // Project root directory // 项目根目录
	port    string // Startup port // 启动端口
	runMode string // Startup mode // 启动模式
	config  string // Specified configuration file path // 指定要使用的配置文件路径
}

// current holds the running server; the config watcher swaps it on reload.
type current struct {
	mu sync.Mutex
	s  *Server
}

func (c *current) get() *Server {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s
}

func (c *current) set(s *Server) {
	c.mu.Lock()
	c.s = s
	c.mu.Unlock()
}

func init() {
	runEnv := new(runFlags)

	var runCommand = &cobra.Command{
		Use:   "run [-c config_file] [-d working_dir] [-p port] [-m mode]",
		Short: "Run service",
		Run: func(cmd *cobra.Command, args []string) {
			if len(runEnv.dir) > 0 {
				err := os.Chdir(runEnv.dir)
				if err != nil {
					bootstrapLogger.Error("failed to change the current working directory", zap.Error(err))
				}
				bootstrapLogger.Info("working directory changed", zap.String("dir", runEnv.dir))
			}

			if len(runEnv.config) <= 0 {
				if fileurl.IsExist("config/config-dev.yaml") {
					runEnv.config = "config/config-dev.yaml"
				} else if fileurl.IsExist("config.yaml") {
					runEnv.config = "config.yaml"
				} else if fileurl.IsExist("config/config.yaml") {
					runEnv.config = "config/config.yaml"
				} else {
					bootstrapLogger.Warn("config file not found, creating default config")
					runEnv.config = "config/config.yaml"
					if err := writeDefaultConfig(runEnv.config); err != nil {
						bootstrapLogger.Error("config file auto create error", zap.Error(err))
						return
					}
					bootstrapLogger.Info("config file auto create successfully", zap.String("path", runEnv.config))
				}
			}

			s, err := NewServer(runEnv)
			if err != nil {
				bootstrapLogger.Error("api service start err", zap.Error(err))
				return
			}
			srv := &current{s: s}

			go watchConfig(runEnv, srv)

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			restart := make(chan os.Signal, 1)
			signal.Notify(restart, syscall.SIGHUP)

			select {
			case <-quit:
				srv.get().logger.Info("Received shutdown signal, initiating graceful shutdown...")
				srv.get().sc.SendCloseSignal(nil)
			case <-restart:
				s := srv.get()
				s.logger.Info("Received SIGHUP, restarting process...")

				// 先优雅关闭（关闭服务、释放端口），再原地重启
				s.sc.SendCloseSignal(nil)
				if err := s.sc.WaitClosed(); err != nil {
					s.logger.Error("Shutdown failed before restart", zap.Error(err))
				}

				currentBinary, err := os.Executable()
				if err != nil {
					s.logger.Error("Failed to resolve executable", zap.Error(err))
					return
				}
				if err := internalApp.RestartProcess(currentBinary, os.Args, os.Environ()); err != nil {
					s.logger.Error("Failed to restart process", zap.Error(err))
				}
				return
			}

			// 等待所有关闭处理器完成（包括 App Container 的优雅关闭）
			s = srv.get()
			if err := s.sc.WaitClosed(); err != nil {
				s.logger.Error("Shutdown completed with error", zap.Error(err))
			} else {
				s.logger.Info("Service has been shut down gracefully.")
			}
		},
	}

	rootCmd.AddCommand(runCommand)
	fs := runCommand.Flags()
	fs.StringVarP(&runEnv.dir, "dir", "d", "", "run dir")
	fs.StringVarP(&runEnv.port, "port", "p", "", "run port")
	fs.StringVarP(&runEnv.runMode, "mode", "m", "", "run mode")
	fs.StringVarP(&runEnv.config, "config", "c", "", "config file")
}

// writeDefaultConfig writes the embedded default config to path.
// writeDefaultConfig 将内置默认配置写入 path
func writeDefaultConfig(path string) error {
	if err := fileurl.CreatePath(path, os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(configDefault), 0644)
}

// watchConfig rebuilds the server whenever the config file is written.
// watchConfig 配置文件写入时重建服务
func watchConfig(runEnv *runFlags, srv *current) {
	w := watcher.New()

	// 将 SetMaxEvents 设置为 1，以便在每个监听周期中至多接收 1 个事件
	w.SetMaxEvents(1)

	// 只通知写入事件。
	w.FilterOps(watcher.Write)

	go func() {
		for {
			select {
			case event := <-w.Event:
				old := srv.get()
				old.logger.Info("config watcher change", zap.String("event", event.Op.String()), zap.String("file", event.Path))

				// 旧服务完全退出、端口释放后再启动新服务
				old.sc.SendCloseSignal(nil)
				if err := old.sc.WaitClosed(); err != nil {
					old.logger.Warn("previous server closed with error", zap.Error(err))
				}

				s, err := NewServer(runEnv)
				if err != nil {
					bootstrapLogger.Error("service start err", zap.Error(err))
					continue
				}
				srv.set(s)

			case err := <-w.Error:
				srv.get().logger.Error("config watcher error", zap.Error(err))
			case <-w.Closed:
				bootstrapLogger.Info("config watcher closed")
				return
			}
		}
	}()

	// 监听配置文件
	if err := w.Add(runEnv.config); err != nil {
		srv.get().logger.Error("config watcher file error", zap.Error(err))
		return
	}

	// 启动监听
	if err := w.Start(time.Second * 5); err != nil {
		srv.get().logger.Error("config watcher start error", zap.Error(err))
	}
}
