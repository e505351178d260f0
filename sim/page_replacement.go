package sim

// EmptyFrame marks an unoccupied frame slot
const EmptyFrame = -1

// StepRecord captures the engine state after processing one reference
type StepRecord struct {
	Reference int `json:"reference"`
	Fault bool `json:"fault"`
	Frames []int `json:"frames"` // snapshot copy, EmptyFrame where unoccupied
}

// RunPageReplacement simulates page replacement over a bounded frame
// pool. It processes refs in order against numFrames frames using the
// given policy (PolicyLRU or PolicyOptimal) and returns the total fault
// count plus one StepRecord per reference. The engine holds no state
// after returning; an empty refs produces zero faults and an empty
// trace.
func RunPageReplacement(refs []int, numFrames int, policy string) (int, []StepRecord, error) {
	if numFrames < 1 {
		return 0, nil, ErrInvalidFrameCount("RunPageReplacement", numFrames)
	}

	replacer, err := NewReplacer(policy)
	if err != nil {
		return 0, nil, err
	}

	frames := make([]int, numFrames)
	for i := range frames {
		frames[i] = EmptyFrame
	}

	faults := 0
	trace := make([]StepRecord, 0, len(refs))

	for i, page := range refs {
		fault := false
		if frameOf(frames, page) >= 0 {
			replacer.Touch(page)
		} else {
			fault = true
			faults++

			// Fill the lowest empty slot before evicting anything
			idx := frameOf(frames, EmptyFrame)
			if idx < 0 {
				idx = replacer.Victim(frames, refs, i+1)
			}
			frames[idx] = page
			replacer.Admit(page)
		}

		snapshot := make([]int, numFrames)
		copy(snapshot, frames)
		trace = append(trace, StepRecord{
			Reference: page,
			Fault: fault,
			Frames: snapshot,
		})
	}

	return faults, trace, nil
}

// frameOf returns the lowest frame index holding page, or -1
func frameOf(frames []int, page int) int {
	for i, p := range frames {
		if p == page {
			return i
		}
	}
	return -1
}
