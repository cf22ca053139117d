// Package writer implements the ordered writer loop (spec §4.9): a
// single consumer goroutine that drains a channel of out-of-order
// record batches and forwards them to a BatchSink in strict ordinal
// order, buffering at most K-1 batches that arrived ahead of their
// turn. Grounded on the container/heap-based reordering queue in
// SnellerInc-sneller's sorting.AsyncConsumer.
package writer

import (
	"container/heap"

	"github.com/apache/arrow/go/v18/arrow"

	"github.com/firelink-data/fwfconv/internal/dispatch"
	"github.com/firelink-data/fwfconv/internal/fwferr"
)

// BatchSink receives finished record batches in file order and is told
// when the run is complete so it can flush and close.
type BatchSink interface {
	Write(rec arrow.Record) error
	Finish() error
}

// pendingHeap orders dispatch.Batch values by ascending Ordinal so the
// smallest not-yet-written ordinal is always at the root.
type pendingHeap []dispatch.Batch

func (h pendingHeap) Len() int            { return len(h) }
func (h pendingHeap) Less(i, j int) bool  { return h[i].Ordinal < h[j].Ordinal }
func (h pendingHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *pendingHeap) Push(x interface{}) { *h = append(*h, x.(dispatch.Batch)) }
func (h *pendingHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Drain consumes in from ordinal 0 upward, writing each batch to sink as
// soon as its ordinal is next in line and releasing batches that arrive
// out of order into a bounded min-heap until their turn comes. It
// returns once in is closed and every buffered batch has been written,
// or as soon as sink returns an error, along with the total row count
// actually written (valid even on error, for partial-progress logging).
//
// Drain does not call sink.Finish on error — the caller decides whether
// a partial output is worth keeping.
func Drain(in <-chan dispatch.Batch, sink BatchSink) (int64, error) {
	pending := &pendingHeap{}
	heap.Init(pending)
	var next, rows int64

	flushReady := func() error {
		for pending.Len() > 0 && (*pending)[0].Ordinal == next {
			b := heap.Pop(pending).(dispatch.Batch)
			n := b.Record.NumRows()
			err := sink.Write(b.Record)
			b.Record.Release()
			if err != nil {
				return fwferr.Wrap(fwferr.KindSink, "writing record batch", err)
			}
			rows += n
			next++
		}
		return nil
	}

	for b := range in {
		heap.Push(pending, b)
		if err := flushReady(); err != nil {
			return rows, err
		}
	}

	if pending.Len() > 0 {
		return rows, fwferr.New(fwferr.KindInconsistentColumns, "writer loop drained with batches still pending; an ordinal was never produced").WithRow(next)
	}

	if err := sink.Finish(); err != nil {
		return rows, fwferr.Wrap(fwferr.KindSink, "finishing sink", err)
	}
	return rows, nil
}
