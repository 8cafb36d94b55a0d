// Package workerpool fans work out across a fixed number of goroutines,
// each given its own Position to walk independently (e.g. a parallel perft
// or move-ordering probe), grounded on
// ChizhovVadim-CounterGo/engine/searchserviceparallel.go's ParallelDo, with
// golang.org/x/sync/errgroup standing in for that file's hand-rolled
// sync.WaitGroup + panic-recover pair.
package workerpool

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ChizhovVadim/XiangqiGo/xiangqi"
)

// Pool runs a fixed degree of parallelism, handing each worker its own
// scratch Position cloned from a seed FEN so workers never share mutable
// board state (unlike ParallelDo's shared ss.Position, which relies on the
// caller serializing the first ply before fanning out).
type Pool struct {
	Workers int
}

// New returns a Pool sized to n workers; n <= 0 is treated as 1.
func New(n int) *Pool {
	if n <= 0 {
		n = 1
	}
	return &Pool{Workers: n}
}

// Task receives its worker index and a private Position positioned at fen.
type Task func(ctx context.Context, workerID int, pos *xiangqi.Position) error

// Run spins up p.Workers goroutines, each parsing fen into its own
// Position and invoking fn, and waits for all of them via errgroup.Group
// (the first non-nil error cancels ctx and is returned).
func (p *Pool) Run(ctx context.Context, fen string, fn Task) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.Workers; i++ {
		workerID := i
		g.Go(func() error {
			var pos xiangqi.Position
			var st xiangqi.StateInfo
			if err := pos.Set(fen, &st); err != nil {
				return err
			}
			return fn(ctx, workerID, &pos)
		})
	}
	return g.Wait()
}

// Distribute splits n independent units of work (e.g. the n root moves of
// a perft split) across the pool, calling fn once per unit with the
// worker's private Position already set up at fen; fn is responsible for
// making/unmaking whatever move corresponds to index.
func (p *Pool) Distribute(ctx context.Context, fen string, n int, fn func(ctx context.Context, workerID, index int, pos *xiangqi.Position) error) error {
	g, ctx := errgroup.WithContext(ctx)
	indexes := make(chan int)

	g.Go(func() error {
		defer close(indexes)
		for i := 0; i < n; i++ {
			select {
			case indexes <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < p.Workers; w++ {
		workerID := w
		g.Go(func() error {
			var pos xiangqi.Position
			var st xiangqi.StateInfo
			if err := pos.Set(fen, &st); err != nil {
				return err
			}
			for idx := range indexes {
				if err := fn(ctx, workerID, idx, &pos); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}
