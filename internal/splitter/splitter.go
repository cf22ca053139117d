// Package splitter divides one filled, terminator-trimmed chunk into K
// contiguous, non-overlapping sub-slices, each ending immediately after a
// row terminator (spec §4.7). The caller (the converter driver) has
// already trimmed the chunk to end on its own last complete terminator;
// the splitter only has to find K-1 interior cut points.
package splitter

import (
	"github.com/firelink-data/fwfconv/internal/fwferr"
	"github.com/firelink-data/fwfconv/internal/newline"
)

// Region is a half-open byte range [Start, End) within a chunk, ending
// immediately after a row terminator.
type Region struct {
	Start int
	End   int
}

// Split divides buf (whose length must already end on a row terminator)
// into k contiguous regions. It computes nominal boundaries at ⌊L/K⌋
// strides, then for each boundary searches backward within that stride's
// window for the last terminator, moving the boundary to one byte past
// it. Any leftover bytes a boundary search had to trim off are credited
// to the following region's start, so the regions remain contiguous and
// non-overlapping end to end.
//
// k <= 1 collapses to a single region spanning the whole buffer. Split
// returns ChunkTooSmall if any stride's window contains no terminator at
// all — the caller may retry with a larger read_buffer_size.
func Split(buf []byte, k int) ([]Region, error) {
	l := len(buf)
	if l == 0 {
		return nil, nil
	}
	if k <= 1 {
		return []Region{{Start: 0, End: l}}, nil
	}

	perThread := l / k
	remaining := l - perThread*k

	bounds := make([]Region, k)
	prev := 0
	for t := 0; t < k-1; t++ {
		next := prev + perThread
		bounds[t] = Region{Start: prev, End: next}
		prev = next
	}
	bounds[k-1] = Region{Start: prev, End: prev + perThread + remaining}

	offsetStart := 0
	for t := 0; t < k; t++ {
		start := bounds[t].Start - offsetStart
		end := bounds[t].End
		if start < 0 || start > end || end > l {
			return nil, fwferr.New(fwferr.KindChunkTooSmall, "workload boundary fell outside the chunk")
		}

		window := buf[start:end]
		idx := newline.FindLast(window)
		if idx < 0 {
			return nil, fwferr.New(fwferr.KindChunkTooSmall, "no row terminator found within a worker's stride; increase read_buffer_size").WithOffset(int64(start))
		}

		newEnd := start + idx + newline.Len
		offsetEnd := end - newEnd
		bounds[t] = Region{Start: start, End: newEnd}
		offsetStart = offsetEnd
	}

	return bounds, nil
}
