package main

import (
	"context"
	"sync"

	tabwrap "github.com/alnah/go-tabwrap"
)

// compileBatch processes files concurrently using the service pool.
// Results land at their input index, so the report preserves discovery
// order regardless of per-item execution order. A worker's failure
// never cancels its siblings; cancellation is only honored between
// items, and canceled items are still recorded so the report stays
// complete.
func compileBatch(ctx context.Context, pool *tabwrap.ServicePool, files []string, base tabwrap.Input) *tabwrap.BatchReport {
	if len(files) == 0 {
		return &tabwrap.BatchReport{}
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	// Stems are assigned up front so files sharing a base name never
	// target the same artifact while workers run in parallel.
	stems := tabwrap.UniqueStems(files)

	entries := make([]tabwrap.Outcome, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			svc := pool.Acquire()
			defer pool.Release(svc)

			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					entries[idx] = tabwrap.Outcome{
						Source: files[idx],
						Err: &tabwrap.CompileError{
							Reason:  tabwrap.ReasonCanceled,
							Message: err.Error(),
						},
					}
					continue
				}
				in := base
				in.Source = files[idx]
				in.Stem = stems[idx]
				entries[idx] = svc.CompileFile(ctx, files[idx], in)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return &tabwrap.BatchReport{Entries: entries}
}
