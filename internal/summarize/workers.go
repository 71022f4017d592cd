package summarize

import (
	"log/slog"
	"sync"

	"github.com/nrminor/alpine-explorer/models"
	"github.com/nrminor/alpine-explorer/pkg/stats"
)

// Job is one geography's row to build.
type Job struct {
	Index  int
	Branch models.SearchBranch
}

// Result pairs a built row with its position in the search tree, so the
// table keeps tree order no matter which worker finished first.
type Result struct {
	Index int
	Row   models.StatsRow
}

// buildRows fans the per-geography readers out over a bounded worker pool.
// The readers are pure functions of a path with no shared state, so this
// is safe; everything downstream of it stays single-pass and ordered.
func buildRows(logger *slog.Logger, tree *models.SearchTree, workerCount int) []models.StatsRow {
	if workerCount < 1 {
		workerCount = 1
	}
	logger.Info("Starting statistics phase", "geographies", tree.Len(), "workers", workerCount)

	var wg sync.WaitGroup
	jobs := make(chan Job, tree.Len())
	results := make(chan Result, tree.Len())

	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go worker(w, logger, &wg, jobs, results)
	}

	for i, branch := range tree.Branches {
		jobs <- Job{Index: i, Branch: branch}
	}
	close(jobs)

	wg.Wait()
	close(results)

	rows := make([]models.StatsRow, tree.Len())
	for result := range results {
		rows[result.Index] = result.Row
	}
	logger.Info("All statistics workers finished")
	return rows
}

func worker(id int, logger *slog.Logger, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		logger.Info("Worker started geography", "worker_id", id, "geography", job.Branch.Geography)
		results <- Result{
			Index: job.Index,
			Row:   stats.BuildRow(logger, job.Branch),
		}
	}
}
