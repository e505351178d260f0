package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/sibexico/MemSim/sim"
)

const unitsPerRow = 64

// RenderTrace writes the step-by-step frame table. Faulting steps carry
// a '*' marker, empty frame slots render as '-'.
func RenderTrace(w io.Writer, trace []sim.StepRecord, faults int) {
	numFrames := 0
	if len(trace) > 0 {
		numFrames = len(trace[0].Frames)
	}

	tw := tabwriter.NewWriter(w, 4, 4, 2, ' ', 0)

	fmt.Fprint(tw, "Step\tRef\tFault")
	for i := 1; i <= numFrames; i++ {
		fmt.Fprintf(tw, "\tFrame %d", i)
	}
	fmt.Fprintln(tw)

	for i, step := range trace {
		mark := ""
		if step.Fault {
			mark = "*"
		}
		fmt.Fprintf(tw, "%d\t%d\t%s", i+1, step.Reference, mark)
		for _, page := range step.Frames {
			if page == sim.EmptyFrame {
				fmt.Fprint(tw, "\t-")
			} else {
				fmt.Fprintf(tw, "\t%d", page)
			}
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nTotal page faults: %d/%d\n", faults, len(trace))
}

// RenderMemory writes an ASCII unit map of the final layout followed by
// an allocation legend and a free run summary. Allocations cycle
// through letters A-Z, free units render as '.'.
func RenderMemory(w io.Writer, result *sim.FragmentationResult) {
	fmt.Fprintln(w, "Memory layout:")
	for start := 0; start < len(result.Memory); start += unitsPerRow {
		end := start + unitsPerRow
		if end > len(result.Memory) {
			end = len(result.Memory)
		}

		var row strings.Builder
		for _, unit := range result.Memory[start:end] {
			row.WriteByte(unitGlyph(unit))
		}
		fmt.Fprintf(w, "%4d  %s\n", start, row.String())
	}

	ids := make([]int, 0, len(result.Allocations))
	for id := range result.Allocations {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	fmt.Fprintln(w, "\nAllocations:")
	for _, id := range ids {
		alloc := result.Allocations[id]
		status := "live"
		if result.Deallocated[id] {
			status = "freed"
		}
		fmt.Fprintf(w, "  %c  #%d  [%d-%d]  %s\n", unitGlyph(id), id, alloc.Start, alloc.End, status)
	}

	runs := result.FreeRuns()
	fmt.Fprintf(w, "\nFree: %d/%d units in %d runs (largest %d)\n",
		result.FreeUnits(), len(result.Memory), len(runs), result.LargestFreeRun())
}

// unitGlyph maps a memory unit to its display character
func unitGlyph(unit int) byte {
	if unit == sim.FreeUnit {
		return '.'
	}
	return byte('A' + (unit-1)%26)
}
