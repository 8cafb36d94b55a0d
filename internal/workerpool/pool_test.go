package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/ChizhovVadim/XiangqiGo/xiangqi"
)

var errBoom = errors.New("boom")

func TestRunInvokesEveryWorker(t *testing.T) {
	p := New(4)
	var seen int64
	err := p.Run(context.Background(), xiangqi.StartFEN, func(_ context.Context, _ int, pos *xiangqi.Position) error {
		atomic.AddInt64(&seen, 1)
		if pos.SideToMove() != xiangqi.White {
			t.Errorf("expected the start position to have White to move")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if seen != 4 {
		t.Fatalf("ran %d workers, want 4", seen)
	}
}

func TestDistributeCoversEveryIndex(t *testing.T) {
	p := New(3)
	const n = 20
	seen := make([]int32, n)
	err := p.Distribute(context.Background(), xiangqi.StartFEN, n,
		func(_ context.Context, _, index int, pos *xiangqi.Position) error {
			atomic.AddInt32(&seen[index], 1)
			return nil
		})
	if err != nil {
		t.Fatalf("Distribute returned an error: %v", err)
	}
	for i, c := range seen {
		if c != 1 {
			t.Fatalf("index %d processed %d times, want exactly 1", i, c)
		}
	}
}

func TestRunPropagatesError(t *testing.T) {
	p := New(2)
	wantErr := errBoom
	err := p.Run(context.Background(), xiangqi.StartFEN, func(_ context.Context, workerID int, _ *xiangqi.Position) error {
		if workerID == 0 {
			return wantErr
		}
		return nil
	})
	if err != wantErr {
		t.Fatalf("Run error = %v, want %v", err, wantErr)
	}
}
