package sim

import (
	"container/list"
)

// lruNode represents a node in the recency list
type lruNode struct {
	page int
}

// LRUReplacer implements LRU (Least Recently Used) replacement policy
// The front of the recency list is the least recently used page and
// therefore the next eviction candidate
type LRUReplacer struct {
	recency *list.List
	index map[int]*list.Element
}

// NewLRUReplacer creates a new LRU replacer
func NewLRUReplacer() *LRUReplacer {
	return &LRUReplacer{
		recency: list.New(),
		index: make(map[int]*list.Element),
	}
}

// Touch moves a resident page to the most recently used position
func (lru *LRUReplacer) Touch(page int) {
	if elem, exists := lru.index[page]; exists {
		lru.recency.MoveToBack(elem)
	}
}

// Admit registers a newly placed page as most recently used
// If the page is somehow still tracked it is repositioned instead
func (lru *LRUReplacer) Admit(page int) {
	if elem, exists := lru.index[page]; exists {
		lru.recency.MoveToBack(elem)
		return
	}

	node := &lruNode{page: page}
	elem := lru.recency.PushBack(node)
	lru.index[page] = elem
}

// Victim evicts the least recently used page and returns the index of
// the frame holding it, or -1 if nothing is tracked
func (lru *LRUReplacer) Victim(frames []int, refs []int, next int) int {
	oldest := lru.recency.Front()
	if oldest == nil {
		return -1
	}

	node := oldest.Value.(*lruNode)

	// Remove from both list and map
	lru.recency.Remove(oldest)
	delete(lru.index, node.page)

	for i, page := range frames {
		if page == node.page {
			return i
		}
	}
	return -1
}

// Size returns the number of tracked resident pages
func (lru *LRUReplacer) Size() int {
	return lru.recency.Len()
}
