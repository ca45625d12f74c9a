package convert

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"filekit/pkg/merge"
)

// convertFiles converts entries with up to maxWorkers goroutines and returns
// the outcomes indexed like entries. With a single worker pages are handled
// strictly in scan order, so colliding titles resolve deterministically.
// Cancellation stops new pages from being picked up.
func convertFiles(ctx context.Context, c *converter, entries []merge.FileEntry, maxWorkers int, logger *zap.Logger) ([]outcome, error) {
	outcomes := make([]outcome, len(entries))

	if maxWorkers <= 1 {
		for i, entry := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcomes[i] = c.convert(entry)
		}
		return outcomes, nil
	}

	if maxWorkers > len(entries) {
		maxWorkers = len(entries)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	logger.Debug("Initializing converter pool", zap.Int("workers", maxWorkers))
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = c.convert(entries[i])
			}
			logger.Debug("Worker finished", zap.Int("workerID", id))
		}(w)
	}

	var cancelled error
feed:
	for i := range entries {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}
	return outcomes, nil
}
