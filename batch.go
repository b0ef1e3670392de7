package puregate

import (
	"context"
	"runtime"

	"github.com/deepnoodle-ai/puregate/internal/cache"
	"golang.org/x/sync/errgroup"
)

// NewFileCache returns a Cache that stores reports as msgpack files under
// dir. An empty dir selects the per-user cache directory.
func NewFileCache(dir string) (Cache, error) {
	s, err := cache.Open(dir)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ValidateBatch validates inputs one at a time, in order. Like Validate it
// always completes.
func (v *Validator) ValidateBatch(ctx context.Context, inputs []Input) []*Report {
	reports := make([]*Report, len(inputs))
	for i, in := range inputs {
		reports[i] = v.Validate(ctx, in.Source, in.Options...)
	}
	return reports
}

// ValidateConcurrent validates inputs on up to jobs goroutines and returns
// the reports in input order. Values of jobs below one select GOMAXPROCS.
// Cancelling ctx stops new inputs from starting; inputs already started run
// to completion. The error is the context error in that case, and reports
// for inputs that never started are nil.
func (v *Validator) ValidateConcurrent(ctx context.Context, inputs []Input, jobs int) ([]*Report, error) {
	if jobs < 1 {
		jobs = runtime.GOMAXPROCS(0)
	}
	reports := make([]*Report, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = v.Validate(gctx, in.Source, in.Options...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return reports, err
	}
	return reports, nil
}
