package sim

import (
	"math"
)

// OptimalReplacer implements Belady's optimal replacement policy
// Evicts the resident page whose next reference is farthest in the
// future; pages never referenced again are evicted first
type OptimalReplacer struct{}

// NewOptimalReplacer creates a new optimal replacer
func NewOptimalReplacer() *OptimalReplacer {
	return &OptimalReplacer{}
}

// Touch is a no-op: the optimal policy keeps no recency state
func (opt *OptimalReplacer) Touch(page int) {}

// Admit is a no-op: the optimal policy keeps no recency state
func (opt *OptimalReplacer) Admit(page int) {}

// Victim returns the frame whose page has the largest distance to its
// next use in refs[next:]. Distances must be recomputed at every fault
// since they depend on the current position. Ties go to the lowest
// frame index.
func (opt *OptimalReplacer) Victim(frames []int, refs []int, next int) int {
	victim := 0
	farthest := -1

	for i, page := range frames {
		distance := nextUse(refs, next, page)
		if distance > farthest {
			farthest = distance
			victim = i
		}
	}
	return victim
}

// nextUse returns the offset of the first reference to page at or after
// pos, or math.MaxInt when the page is never referenced again
func nextUse(refs []int, pos int, page int) int {
	for i := pos; i < len(refs); i++ {
		if refs[i] == page {
			return i - pos
		}
	}
	return math.MaxInt
}
