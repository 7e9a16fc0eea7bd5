package source

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Multi loads several sources concurrently and concatenates their records
// in declaration order. Any failure fails the whole load.
type Multi []Source

func (m Multi) Name() string {
	names := make([]string, len(m))
	for i, s := range m {
		names[i] = s.Name()
	}
	return strings.Join(names, "+")
}

func (m Multi) Load(ctx context.Context) (Batch, error) {
	batches := make([]Batch, len(m))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range m {
		g.Go(func() error {
			b, err := s.Load(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", s.Name(), err)
			}
			batches[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Batch{}, err
	}

	var out Batch
	for _, b := range batches {
		out.Records = append(out.Records, b.Records...)
		out.Skipped += b.Skipped
	}
	return out, nil
}
