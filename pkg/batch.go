package lambdakernel

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Batch runs independent requests concurrently, at most
// Config.BatchParallelism at a time, and returns their responses in request
// order. A failing request only fails its own response; Batch itself fails
// on an invalid batch or a cancelled context.
func (s *Service) Batch(ctx context.Context, reqs []*Request) ([]*Response, error) {
	if len(reqs) > s.config.MaxBatch {
		return nil, &validationError{
			error: fmt.Errorf("batch of %d requests exceeds limit %d", len(reqs), s.config.MaxBatch),
		}
	}
	for idx, req := range reqs {
		if req.Op == OpBatch {
			return nil, &validationError{error: fmt.Errorf("request %d: batches don't nest", idx)}
		}
	}

	responses := make([]*Response, len(reqs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.BatchParallelism)
	for idx, req := range reqs {
		idx, req := idx, req
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			responses[idx] = s.Handle(gCtx, req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return responses, nil
}
