package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits the half-open range [0, items) into per-worker chunks
// and runs fn(start, end) for each chunk on its own goroutine. It returns
// once every chunk has been processed.
//
// fn must only write to locations owned by its range; callers in this
// module use it to fill disjoint rows of a matrix, so the result is
// deterministic regardless of scheduling.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > items {
		workers = items
	}
	// Ceiling division so the last worker picks up the remainder.
	chunk := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunk {
		end := start + chunk
		if end > items {
			end = items
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially over the whole range when
// items is at or below threshold, and falls back to Parallelize above it.
// Small covariance matrices are cheaper to fill on one goroutine than to
// fan out.
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}
