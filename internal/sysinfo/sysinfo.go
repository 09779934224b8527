package sysinfo

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

var startTime = time.Now()

// Summary reports process health for the /status command.
func Summary() string {
	var b strings.Builder

	uptime := time.Since(startTime).Round(time.Second)
	fmt.Fprintf(&b, "Uptime: %s\n", uptime)
	fmt.Fprintf(&b, "Goroutines: %d\n", runtime.NumGoroutine())

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfo(); err == nil {
			fmt.Fprintf(&b, "Process memory: %.1f MB\n", float64(info.RSS)/1024/1024)
		}
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		fmt.Fprintf(&b, "System memory: %.1f%% used\n", vm.UsedPercent)
	}

	return strings.TrimRight(b.String(), "\n")
}
