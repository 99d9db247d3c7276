package benchmarks

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostInfo describes the machine a benchmark ran on.
type HostInfo struct {
	Hostname      string  `json:"hostname"`
	CPUCount      int     `json:"cpu_count"`
	CPUModel      string  `json:"cpu_model"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
}

// CollectHostInfo gathers hostname, CPU and memory details.
func CollectHostInfo() (*HostInfo, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	count, err := cpu.Counts(true)
	if err != nil {
		return nil, fmt.Errorf("failed to count CPUs: %w", err)
	}

	model := ""
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		model = infos[0].ModelName
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to read memory info: %w", err)
	}

	return &HostInfo{
		Hostname:      hostname,
		CPUCount:      count,
		CPUModel:      model,
		MemoryTotalMB: float64(vm.Total) / (1024 * 1024),
	}, nil
}
