package sim

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks simulation counters across runs
// Engines stay pure; callers feed finished results into Record* methods
type Metrics struct {
	// Page Replacement Metrics
	pageRuns atomic.Uint64
	referencesProcessed atomic.Uint64
	pageHits atomic.Uint64
	pageFaults atomic.Uint64
	evictions atomic.Uint64

	// Fragmentation Metrics
	fragRuns atomic.Uint64
	allocationsMade atomic.Uint64
	allocationsDenied atomic.Uint64
	deallocationsMade atomic.Uint64
	unitsAllocated atomic.Uint64
	unitsFreed atomic.Uint64

	// Timing Metrics
	startTime time.Time
	mu sync.RWMutex
}

// NewMetrics creates a new metrics tracker
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

// RecordPageRun accumulates counters from a finished page replacement
// run. Evictions are the faults that occurred after every frame was
// occupied, which for a trace of numFrames frames is every fault past
// the first numFrames.
func (m *Metrics) RecordPageRun(trace []StepRecord, numFrames int) {
	m.pageRuns.Add(1)
	m.referencesProcessed.Add(uint64(len(trace)))

	faults := 0
	for _, step := range trace {
		if step.Fault {
			faults++
		} else {
			m.pageHits.Add(1)
		}
	}
	m.pageFaults.Add(uint64(faults))

	if faults > numFrames {
		m.evictions.Add(uint64(faults - numFrames))
	}
}

// RecordFragmentationRun accumulates counters from a finished
// fragmentation run. requested is the number of allocations asked for.
func (m *Metrics) RecordFragmentationRun(result *FragmentationResult, requested int) {
	m.fragRuns.Add(1)

	made := len(result.Allocations)
	m.allocationsMade.Add(uint64(made))
	if requested > made {
		m.allocationsDenied.Add(uint64(requested - made))
	}
	m.deallocationsMade.Add(uint64(len(result.Deallocated)))

	for _, alloc := range result.Allocations {
		units := uint64(alloc.End - alloc.Start + 1)
		m.unitsAllocated.Add(units)
		if result.Deallocated[alloc.ID] {
			m.unitsFreed.Add(units)
		}
	}
}

// Page replacement getters

func (m *Metrics) GetPageRuns() uint64 {
	return m.pageRuns.Load()
}

func (m *Metrics) GetReferencesProcessed() uint64 {
	return m.referencesProcessed.Load()
}

func (m *Metrics) GetPageHits() uint64 {
	return m.pageHits.Load()
}

func (m *Metrics) GetPageFaults() uint64 {
	return m.pageFaults.Load()
}

func (m *Metrics) GetEvictions() uint64 {
	return m.evictions.Load()
}

// GetFaultRate returns the fraction of references that faulted
func (m *Metrics) GetFaultRate() float64 {
	refs := m.referencesProcessed.Load()
	if refs == 0 {
		return 0.0
	}
	return float64(m.pageFaults.Load()) / float64(refs)
}

// Fragmentation getters

func (m *Metrics) GetFragmentationRuns() uint64 {
	return m.fragRuns.Load()
}

func (m *Metrics) GetAllocationsMade() uint64 {
	return m.allocationsMade.Load()
}

func (m *Metrics) GetAllocationsDenied() uint64 {
	return m.allocationsDenied.Load()
}

func (m *Metrics) GetDeallocationsMade() uint64 {
	return m.deallocationsMade.Load()
}

func (m *Metrics) GetUnitsAllocated() uint64 {
	return m.unitsAllocated.Load()
}

func (m *Metrics) GetUnitsFreed() uint64 {
	return m.unitsFreed.Load()
}

// GetUptime returns time since metrics tracking started
func (m *Metrics) GetUptime() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return time.Since(m.startTime)
}

// Reset clears all counters and restarts the uptime clock
func (m *Metrics) Reset() {
	m.pageRuns.Store(0)
	m.referencesProcessed.Store(0)
	m.pageHits.Store(0)
	m.pageFaults.Store(0)
	m.evictions.Store(0)
	m.fragRuns.Store(0)
	m.allocationsMade.Store(0)
	m.allocationsDenied.Store(0)
	m.deallocationsMade.Store(0)
	m.unitsAllocated.Store(0)
	m.unitsFreed.Store(0)

	m.mu.Lock()
	m.startTime = time.Now()
	m.mu.Unlock()
}

// LogMetrics logs all metrics using structured logging
func (m *Metrics) LogMetrics(logger *slog.Logger) {
	logger.Info("Simulation Metrics",
		slog.Group("page_replacement",
			slog.Uint64("runs", m.GetPageRuns()),
			slog.Uint64("references", m.GetReferencesProcessed()),
			slog.Uint64("hits", m.GetPageHits()),
			slog.Uint64("faults", m.GetPageFaults()),
			slog.Uint64("evictions", m.GetEvictions()),
			slog.Float64("fault_rate", m.GetFaultRate()),
		),
		slog.Group("fragmentation",
			slog.Uint64("runs", m.GetFragmentationRuns()),
			slog.Uint64("allocations", m.GetAllocationsMade()),
			slog.Uint64("allocations_denied", m.GetAllocationsDenied()),
			slog.Uint64("deallocations", m.GetDeallocationsMade()),
			slog.Uint64("units_allocated", m.GetUnitsAllocated()),
			slog.Uint64("units_freed", m.GetUnitsFreed()),
		),
		slog.Duration("uptime", m.GetUptime()),
	)
}
