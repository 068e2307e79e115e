package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency bounds parallel requests in multi-id commands.
const DefaultConcurrency = 5

// BulkResult is the outcome of one id in a bulk operation.
type BulkResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type progressLine struct {
	mu    sync.Mutex
	w     io.Writer
	done  int
	total int
}

func (p *progressLine) tick() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	_, _ = fmt.Fprintf(p.w, "\rProcessed %d/%d", p.done, p.total)
}

func (p *progressLine) finish() {
	if p != nil && p.total > 0 {
		_, _ = fmt.Fprintln(p.w)
	}
}

// runBulkOperation calls op for every id, at most concurrency at a time.
// A failing id never cancels the others; results keep the order of ids.
func runBulkOperation(
	ctx context.Context,
	ids []string,
	concurrency int64,
	progress bool,
	errOut io.Writer,
	op func(ctx context.Context, id string) error,
) []BulkResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	var bar *progressLine
	if progress && errOut != nil {
		bar = &progressLine{w: errOut, total: len(ids)}
	}

	sem := semaphore.NewWeighted(concurrency)
	results := make([]BulkResult, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		i, id := i, id
		results[i].ID = id
		g.Go(func() error {
			err := sem.Acquire(ctx, 1)
			if err == nil {
				err = op(ctx, id)
				sem.Release(1)
			}
			if err != nil {
				results[i].Error = err.Error()
			} else {
				results[i].Success = true
			}
			bar.tick()
			return nil
		})
	}
	_ = g.Wait()
	bar.finish()
	return results
}

func countResults(results []BulkResult) (success, failure int) {
	for _, r := range results {
		if r.Success {
			success++
		}
	}
	return success, len(results) - success
}

// writeBulkResults reports a bulk run and fails when any item failed.
func writeBulkResults(cmd *cobra.Command, action, resource string, results []BulkResult) error {
	success, failure := countResults(results)
	if isStructured(cmd) {
		if err := printJSON(cmd, map[string]any{
			"results":   results,
			"succeeded": success,
			"failed":    failure,
		}); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if !r.Success {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s %s %s: %s\n", red("Failed"), resource, r.ID, r.Error)
			}
		}
		printAction(cmd, action, fmt.Sprintf("%d %s(s)", success, resource), "", "")
	}
	if failure > 0 {
		return fmt.Errorf("%d of %d %s operations failed", failure, len(results), resource)
	}
	return nil
}
