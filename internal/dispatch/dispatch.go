// Package dispatch runs the parallel per-chunk conversion pass (spec
// §4.8): it allocates K fresh row-batch builders, hands one contiguous
// workload region to each, and collects the finished record batches
// tagged with a monotonic ordinal so the writer loop can restore file
// order. Grounded on the errgroup worker-pool pattern used throughout
// the pack (e.g. joechenrh-data-writer's streaming writer) and the
// teacher's own worker/result channel wiring in tsv_parser.go.
package dispatch

import (
	"context"

	"github.com/apache/arrow/go/v18/arrow"
	"golang.org/x/sync/errgroup"

	"github.com/firelink-data/fwfconv/internal/rowbatch"
	"github.com/firelink-data/fwfconv/internal/splitter"
)

// Batch pairs a finished record with the ordinal of the workload region
// it was built from, so the writer loop can reassemble file order.
type Batch struct {
	Ordinal int64
	Record  arrow.Record
}

// Dispatch builds one record batch per region of chunk (regions as
// computed by splitter.Split) concurrently, and sends each to
// out tagged with its ordinal (firstOrdinal + region index). It blocks
// until every worker has finished or one has failed; on failure the
// remaining workers are cancelled and the first error is returned. out
// is never closed by Dispatch — the caller owns its lifetime since it
// typically spans many chunks.
func Dispatch(ctx context.Context, factory *rowbatch.Factory, chunk []byte, regions []splitter.Region, firstOrdinal int64, out chan<- Batch) error {
	group, ctx := errgroup.WithContext(ctx)

	for i, region := range regions {
		i, region := i, region
		group.Go(func() error {
			builder, err := factory.New()
			if err != nil {
				return err
			}
			defer builder.Release()

			if err := builder.TryBuildFrom(chunk[region.Start:region.End]); err != nil {
				return err
			}
			rec, err := builder.TryFinish()
			if err != nil {
				return err
			}

			select {
			case out <- Batch{Ordinal: firstOrdinal + int64(i), Record: rec}:
				return nil
			case <-ctx.Done():
				rec.Release()
				return ctx.Err()
			}
		})
	}

	return group.Wait()
}
