// Package parallel partitions row-major grids into scanline bands and
// processes them concurrently.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// bandsPerWorker is how many bands each worker gets on average, so a slow
// band does not leave the other workers idle.
const bandsPerWorker = 4

// Workers resolves a requested worker count. Zero or negative means GOMAXPROCS.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// BandRows returns the number of rows per band for the given grid height.
func BandRows(rows, workers int) int {
	bands := Workers(workers) * bandsPerWorker
	size := (rows + bands - 1) / bands
	if size < 1 {
		size = 1
	}
	return size
}

// Rows calls fn for disjoint [start, end) row ranges covering [0, rows),
// running at most workers calls at once. fn must only write rows in its range.
// The first error cancels the remaining bands and is returned.
func Rows(ctx context.Context, rows, workers int, fn func(start, end int) error) error {
	if rows <= 0 {
		return nil
	}

	workers = Workers(workers)
	size := BandRows(rows, workers)

	// Single band, run inline
	if workers == 1 || size >= rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(0, rows)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < rows; start += size {
		start := start
		end := min(start+size, rows)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(start, end)
		})
	}

	return g.Wait()
}
