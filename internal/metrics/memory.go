package metrics

import "runtime"

// MemorySnapshot is the sampler's own memory footprint, reported once at
// shutdown next to the tick counters.
type MemorySnapshot struct {
	HeapAlloc uint64 // bytes in use
	Sys       uint64 // bytes obtained from the OS
	NumGC     uint32
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc: m.HeapAlloc,
		Sys:       m.Sys,
		NumGC:     m.NumGC,
	}
}
