// Package system inspects the host machine to pick sensible defaults
// for concurrent work.
package system

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	// workerMemoryBudget is the memory headroom assumed per decoder
	// worker. Decoding a large screenshot holds the full pixel buffer.
	workerMemoryBudget = 64 << 20

	// maxAutoWorkers caps the automatically chosen worker count.
	maxAutoWorkers = 8
)

// Workers returns the number of concurrent workers to use. A positive
// configured value wins; otherwise the count is derived from the
// logical CPU count and available memory, capped at maxAutoWorkers.
func Workers(configured int) int {
	if configured > 0 {
		return configured
	}

	workers := maxAutoWorkers

	count, err := cpu.Counts(true)
	if err != nil {
		count = runtime.NumCPU()
	}
	if count < workers {
		workers = count
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		byMemory := int(vm.Available / workerMemoryBudget)
		if byMemory < workers {
			workers = byMemory
		}
	}

	if workers < 1 {
		workers = 1
	}
	return workers
}
