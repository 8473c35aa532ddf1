package util

import (
	"bufio"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// SystemInfo host and runtime snapshot
// SystemInfo 主机与运行时快照
type SystemInfo struct {
	StartTime time.Time   `json:"startTime"`
	Uptime    string      `json:"uptime"`
	Runtime   RuntimeInfo `json:"runtime"`
	CPU       CPUInfo     `json:"cpu"`
	Memory    MemoryInfo  `json:"memory"`
	Host      HostInfo    `json:"host"`
	Process   ProcessInfo `json:"process"`
}

type RuntimeInfo struct {
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
	HeapAlloc    string `json:"heapAlloc"`
	HeapSys      string `json:"heapSys"`
	NumGC        uint32 `json:"numGC"`
}

type CPUInfo struct {
	ModelName    string  `json:"modelName"`
	LogicalCores int     `json:"logicalCores"`
	Load1        float64 `json:"load1"`
	Load5        float64 `json:"load5"`
	Load15       float64 `json:"load15"`
}

type MemoryInfo struct {
	Total       string  `json:"total"`
	Available   string  `json:"available"`
	UsedPercent float64 `json:"usedPercent"`
}

type HostInfo struct {
	Hostname      string `json:"hostname"`
	OSPretty      string `json:"osPretty"`
	Platform      string `json:"platform"`
	KernelVersion string `json:"kernelVersion"`
	TimeZone      string `json:"timeZone"`
}

type ProcessInfo struct {
	PID           int32   `json:"pid"`
	CPUPercent    float64 `json:"cpuPercent"`
	MemoryPercent float32 `json:"memoryPercent"`
}

// CollectSystemInfo gathers the snapshot; probes that fail leave their fields zero.
// CollectSystemInfo 采集系统信息，采集失败的字段保持零值
func CollectSystemInfo(startTime time.Time) SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	info := SystemInfo{
		StartTime: startTime,
		Uptime:    humanize.RelTime(startTime, time.Now(), "", ""),
		Runtime: RuntimeInfo{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			HeapAlloc:    humanize.IBytes(m.HeapAlloc),
			HeapSys:      humanize.IBytes(m.HeapSys),
			NumGC:        m.NumGC,
		},
		Host: HostInfo{
			OSPretty: GetOSPrettyName(),
			TimeZone: time.Now().Location().String(),
		},
	}

	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 {
		info.CPU.ModelName = cpus[0].ModelName
	}
	info.CPU.LogicalCores, _ = cpu.Counts(true)
	if l, err := load.Avg(); err == nil {
		info.CPU.Load1, info.CPU.Load5, info.CPU.Load15 = l.Load1, l.Load5, l.Load15
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		info.Memory = MemoryInfo{
			Total:       humanize.IBytes(vm.Total),
			Available:   humanize.IBytes(vm.Available),
			UsedPercent: vm.UsedPercent,
		}
	}

	if h, err := host.Info(); err == nil {
		info.Host.Hostname = h.Hostname
		info.Host.Platform = h.Platform
		info.Host.KernelVersion = h.KernelVersion
	}

	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		info.Process.PID = p.Pid
		info.Process.CPUPercent, _ = p.CPUPercent()
		info.Process.MemoryPercent, _ = p.MemoryPercent()
	}

	return info
}

// GetOSPrettyName gets a more readable OS name
// GetOSPrettyName 获取更具可读性的操作系统名称
func GetOSPrettyName() string {
	if runtime.GOOS != "linux" {
		return runtime.GOOS
	}

	file, err := os.Open("/etc/os-release")
	if err != nil {
		return "Linux"
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "PRETTY_NAME=") {
			return strings.Trim(strings.TrimPrefix(line, "PRETTY_NAME="), "\"")
		}
	}
	return "Linux"
}
