package sim

// Supported replacement policies
const (
	PolicyLRU = "LRU"
	PolicyOptimal = "Optimal"
)

// Replacer interface for page replacement policies
// Allows different algorithms (LRU, Optimal, etc.)
type Replacer interface {
	// Touch records a hit on a page that is already resident
	Touch(page int)

	// Admit records a page that was just placed into a frame
	Admit(page int)

	// Victim selects the frame index to evict
	// frames is the current frame contents, refs the full reference
	// sequence and next the position of the first unprocessed reference
	Victim(frames []int, refs []int, next int) int
}

// NewReplacer creates a replacer for the specified policy
func NewReplacer(policy string) (Replacer, error) {
	switch policy {
	case PolicyLRU:
		return NewLRUReplacer(), nil
	case PolicyOptimal:
		return NewOptimalReplacer(), nil
	default:
		return nil, ErrUnknownPolicy("NewReplacer", policy)
	}
}
