package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"spinet/internal/diag"
)

// ParseAll parses several decks in parallel. Results line up with paths by
// index, so output order is deterministic regardless of scheduling. A file
// that fails to load occupies its slot with an IO diagnostic instead of
// failing the whole batch; only context cancellation aborts the run.
func ParseAll(ctx context.Context, paths []string, opts Options) ([]*Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			res, err := ParseFile(path, opts)
			if err != nil {
				bag := opts.newBag()
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load file: " + err.Error(),
				})
				results[i] = &Result{Path: path, Bag: bag}
				return nil
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
