//go:build !windows

package app

import (
	"syscall"
)

// RestartProcess replaces the current process image in place (SIGHUP restart).
// RestartProcess 原地替换当前进程映像，用于 SIGHUP 重启
func RestartProcess(argv0 string, args []string, env []string) error {
	return syscall.Exec(argv0, args, env)
}
