// File: pkg/merge/worker.go
package merge

import (
	"sync"

	"go.uber.org/zap"
)

// fileLines is the outcome of reading one entry.
type fileLines struct {
	lines []string
	err   error
}

// readFilesConcurrently reads every entry with a pool of workers. Results are
// stored by entry index so the caller can write them in scan order; the first
// failure in that order is returned.
func readFilesConcurrently(entries []FileEntry, maxWorkers int, logger *zap.Logger) ([][]string, error) {
	if maxWorkers > len(entries) {
		maxWorkers = len(entries)
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	jobs := make(chan int, len(entries))
	results := make([]fileLines, len(entries))
	var wg sync.WaitGroup

	logger.Debug("Initializing reader pool", zap.Int("workers", maxWorkers))
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go worker(w, entries, jobs, results, &wg, logger.With(zap.Int("workerID", w)))
	}

	for i := range entries {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	contents := make([][]string, len(entries))
	for i, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		contents[i] = r.lines
	}
	logger.Debug("All files read", zap.Int("files", len(contents)))
	return contents, nil
}

// worker reads the entries whose indexes arrive on jobs. Each index is
// written by exactly one worker, so results needs no locking.
func worker(id int, entries []FileEntry, jobs <-chan int, results []fileLines, wg *sync.WaitGroup, logger *zap.Logger) {
	defer wg.Done()

	for i := range jobs {
		lines, err := readTextLines(entries[i].Path)
		if err != nil {
			logger.Error("Worker failed to read file", zap.String("filePath", entries[i].Path), zap.Error(err))
		}
		results[i] = fileLines{lines: lines, err: err}
	}

	logger.Debug("Worker finished", zap.Int("workerID", id))
}
