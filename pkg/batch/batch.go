// Package batch partitions many input files concurrently. Each input is
// an independent engine run (the engine itself is single-threaded), so
// runs are fanned out over a bounded worker group.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/hypercut/pkg/debug"
	"github.com/vanderheijden86/hypercut/pkg/loader"
	"github.com/vanderheijden86/hypercut/pkg/partition"
)

// Item is the outcome for one input file.
type Item struct {
	Path    string            `json:"path"`
	Result  *partition.Result `json:"result,omitempty"`
	Err     string            `json:"error,omitempty"`
	Elapsed time.Duration     `json:"-"`
}

// Options configures a batch run.
type Options struct {
	// Ratio is forwarded to every engine; 0 means the default.
	Ratio float64
	// Concurrency bounds parallel runs; <= 0 means GOMAXPROCS.
	Concurrency int
}

// Run partitions every input and returns one item per path, in input
// order regardless of completion order. Individual failures are recorded
// on their item and do not abort the rest; the returned error is only
// for context cancellation.
func Run(ctx context.Context, paths []string, opts Options) ([]Item, error) {
	items := make([]Item, len(paths))

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		items[i].Path = path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			items[i] = runOne(path, opts.Ratio)
			items[i].Elapsed = time.Since(start)
			debug.Log("batch: %s done in %v", path, items[i].Elapsed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return items, fmt.Errorf("batch: %w", err)
	}
	return items, nil
}

func runOne(path string, ratio float64) Item {
	item := Item{Path: path}
	m, err := loader.Load(path)
	if err != nil {
		item.Err = err.Error()
		return item
	}
	res, err := partition.Bipartition(m, &partition.Options{Ratio: ratio})
	if err != nil {
		item.Err = err.Error()
		return item
	}
	item.Result = res
	return item
}
