package sim

import (
	"math"
	"testing"
)

// TestOptimalVictimFarthest tests that the page with the farthest next
// use is evicted
func TestOptimalVictimFarthest(t *testing.T) {
	replacer := NewOptimalReplacer()

	// Upcoming suffix: 2 first, then 3, then 1
	refs := []int{1, 2, 3, 2, 3, 1}
	frames := []int{1, 2, 3}

	idx := replacer.Victim(frames, refs, 3)
	if idx != 0 {
		t.Errorf("Expected victim frame 0 (page 1 used farthest), got %d", idx)
	}
}

// TestOptimalVictimNeverUsed tests that a page with no future use beats
// every page that is still referenced
func TestOptimalVictimNeverUsed(t *testing.T) {
	replacer := NewOptimalReplacer()

	refs := []int{1, 2, 3, 1, 3}
	frames := []int{1, 2, 3}

	// Page 2 never appears in refs[3:]
	idx := replacer.Victim(frames, refs, 3)
	if idx != 1 {
		t.Errorf("Expected victim frame 1 (page 2 never used again), got %d", idx)
	}
}

// TestOptimalTieBreakLowestFrame tests that ties between maximal
// distances resolve to the lowest frame index
func TestOptimalTieBreakLowestFrame(t *testing.T) {
	replacer := NewOptimalReplacer()

	refs := []int{1, 2, 3, 1}
	frames := []int{1, 2, 3}

	// Pages 2 and 3 are both never used again; frame 1 must win
	idx := replacer.Victim(frames, refs, 3)
	if idx != 1 {
		t.Errorf("Expected victim frame 1 on tie, got %d", idx)
	}
}

// TestNextUse tests distance computation including the never-again case
func TestNextUse(t *testing.T) {
	refs := []int{5, 1, 2, 1, 3}

	tests := []struct {
		page int
		pos int
		expected int
	}{
		{page: 1, pos: 0, expected: 1},
		{page: 1, pos: 2, expected: 1},
		{page: 2, pos: 0, expected: 2},
		{page: 5, pos: 1, expected: math.MaxInt},
		{page: 3, pos: 4, expected: 0},
		{page: 9, pos: 0, expected: math.MaxInt},
		{page: 1, pos: 5, expected: math.MaxInt},
	}

	for _, tt := range tests {
		got := nextUse(refs, tt.pos, tt.page)
		if got != tt.expected {
			t.Errorf("nextUse(refs, %d, %d): expected %d, got %d", tt.pos, tt.page, tt.expected, got)
		}
	}
}
