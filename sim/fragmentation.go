package sim

import (
	"math/rand"
)

// FreeUnit marks an unallocated memory unit
const FreeUnit = 0

// Allocation records the contiguous unit range owned by one allocation
type Allocation struct {
	ID int `json:"id"`
	Start int `json:"start"`
	End int `json:"end"`
}

// FragmentationResult holds the final state of a fragmentation run
type FragmentationResult struct {
	// Memory maps each unit to the allocation id occupying it, or
	// FreeUnit where free
	Memory []int `json:"memory"`

	// Allocations contains every allocation ever made, keyed by id.
	// Freed allocations keep their entry; freed status is tracked only
	// through Deallocated.
	Allocations map[int]Allocation `json:"allocations"`

	// Deallocated holds the ids released in the deallocation phase
	Deallocated map[int]bool `json:"deallocated"`
}

// RunFragmentation simulates contiguous first-fit allocation followed by
// random deallocation over a fixed address range of totalMemory units.
// Up to numAllocs blocks of blockSize units are placed at the lowest
// free run; the allocation phase stops early once no free run remains.
// Then min(numDeallocs, allocations made) ids are sampled uniformly
// without replacement from rng and their ranges are freed. Allocation
// ids start at 1 and are never reused. rng is the only entropy source,
// consumed by a single sampling draw, so a seeded source makes the run
// reproducible.
func RunFragmentation(totalMemory, blockSize, numAllocs, numDeallocs int, rng *rand.Rand) (*FragmentationResult, error) {
	if totalMemory < 1 {
		return nil, ErrInvalidMemorySize("RunFragmentation", totalMemory)
	}
	if blockSize < 1 {
		return nil, ErrInvalidBlockSize("RunFragmentation", blockSize)
	}
	if numAllocs < 0 {
		return nil, ErrNegativeCount("RunFragmentation", "num_allocs", numAllocs)
	}
	if numDeallocs < 0 {
		return nil, ErrNegativeCount("RunFragmentation", "num_deallocs", numDeallocs)
	}
	if rng == nil {
		return nil, ErrNilRandSource("RunFragmentation")
	}

	memory := make([]int, totalMemory)
	allocations := make(map[int]Allocation, numAllocs)
	order := make([]int, 0, numAllocs) // ids in creation order, for sampling
	nextID := 1

	// Allocation phase: place blocks first-fit until done or memory has
	// no free run left
	for n := 0; n < numAllocs; n++ {
		start := firstFit(memory, blockSize)
		if start < 0 {
			break
		}

		for j := start; j < start+blockSize; j++ {
			memory[j] = nextID
		}
		allocations[nextID] = Allocation{ID: nextID, Start: start, End: start + blockSize - 1}
		order = append(order, nextID)
		nextID++
	}

	// Deallocation phase: one sampling draw without replacement
	count := numDeallocs
	if count > len(order) {
		count = len(order)
	}

	deallocated := make(map[int]bool, count)
	perm := rng.Perm(len(order))
	for _, k := range perm[:count] {
		id := order[k]
		deallocated[id] = true

		alloc := allocations[id]
		for j := alloc.Start; j <= alloc.End; j++ {
			memory[j] = FreeUnit
		}
	}

	return &FragmentationResult{
		Memory: memory,
		Allocations: allocations,
		Deallocated: deallocated,
	}, nil
}

// firstFit returns the lowest start index of a run of size consecutive
// free units, or -1 when no such run exists
func firstFit(memory []int, size int) int {
	for i := 0; i+size <= len(memory); i++ {
		free := true
		for j := i; j < i+size; j++ {
			if memory[j] != FreeUnit {
				free = false
				break
			}
		}
		if free {
			return i
		}
	}
	return -1
}

// FreeRun describes one maximal run of free units
type FreeRun struct {
	Start int `json:"start"`
	Length int `json:"length"`
}

// FreeRuns returns the maximal free runs of the final memory layout in
// address order
func (r *FragmentationResult) FreeRuns() []FreeRun {
	runs := []FreeRun{}
	start := -1

	for i, unit := range r.Memory {
		if unit == FreeUnit {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, FreeRun{Start: start, Length: i - start})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, FreeRun{Start: start, Length: len(r.Memory) - start})
	}
	return runs
}

// LargestFreeRun returns the length of the largest free run, or 0 when
// memory is fully occupied
func (r *FragmentationResult) LargestFreeRun() int {
	largest := 0
	for _, run := range r.FreeRuns() {
		if run.Length > largest {
			largest = run.Length
		}
	}
	return largest
}

// FreeUnits returns the total number of free units
func (r *FragmentationResult) FreeUnits() int {
	total := 0
	for _, run := range r.FreeRuns() {
		total += run.Length
	}
	return total
}
