package digest

import (
	"runtime"
	"sync"

	"github.com/inodb/vibe-digest/internal/fragment"
	"github.com/inodb/vibe-digest/internal/plan"
)

// WorkItem is one plan queued for digestion. Seq orders the output;
// Document is the plan's position in its source file, for diagnostics.
type WorkItem struct {
	Seq      int
	Document int
	Plan     *plan.Plan
}

// WorkResult is the outcome of digesting one WorkItem.
type WorkResult struct {
	WorkItem
	Fragments *fragment.Fragments
	Err       error
}

// ParallelDigest digests plans from items on a pool of workers (runtime.NumCPU()
// when workers <= 0). Results arrive in completion order; pass them through
// OrderedCollect to restore Seq order.
func (d *Digester) ParallelDigest(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range items {
				frags, err := d.Digest(item.Plan)
				results <- WorkResult{WorkItem: item, Fragments: frags, Err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}

// OrderedCollect hands results to fn in Seq order, holding early arrivals
// back until the gap before them is filled. It returns fn's first error,
// draining the channel so workers can exit.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	held := make(map[int]WorkResult)
	next := 0

	for r := range results {
		held[r.Seq] = r
		for {
			ready, ok := held[next]
			if !ok {
				break
			}
			delete(held, next)
			next++
			if err := fn(ready); err != nil {
				for range results {
				}
				return err
			}
		}
	}
	return nil
}
