// Package sysinfo reports controller-host resource usage shown alongside
// network statistics.
package sysinfo

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

type HostStatus struct {
	Hostname       string
	Uptime         uint64
	CPUPercent     float64
	MemUsedPercent float64
	MemTotal       uint64
	MemUsed        uint64
}

// Collect samples host CPU and memory usage. CPU usage is averaged over a
// short interval.
func Collect() (*HostStatus, error) {
	status := &HostStatus{}

	hostInfo, err := host.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to get host info: %w", err)
	}
	status.Hostname = hostInfo.Hostname
	status.Uptime = hostInfo.Uptime

	percents, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get cpu usage: %w", err)
	}
	if len(percents) > 0 {
		status.CPUPercent = percents[0]
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to get memory usage: %w", err)
	}
	status.MemUsedPercent = memInfo.UsedPercent
	status.MemTotal = memInfo.Total
	status.MemUsed = memInfo.Used

	return status, nil
}
