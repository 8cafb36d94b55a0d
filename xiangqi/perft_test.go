package xiangqi

import "testing"

// perft counts leaf nodes reached by playing every legal move depth plies
// deep, grounded on common/perft_test.go's Perft.
func perft(p *Position, depth int) uint64 {
	var list MoveList
	Generate(p, Legal, &list)

	if depth == 1 {
		return uint64(list.Len())
	}

	var nodes uint64
	var st StateInfo
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		p.DoMove(m, &st)
		nodes += perft(p, depth-1)
		p.UndoMove(m)
	}
	return nodes
}

func TestPerftInitialPosition(t *testing.T) {
	var tests = []struct {
		depth int
		nodes uint64
	}{
		{1, 44},
		{2, 1920},
		{3, 79666},
	}
	for _, tt := range tests {
		p, _ := mustSet(t, StartFEN)
		if got := perft(p, tt.depth); got != tt.nodes {
			t.Errorf("perft(%d) = %d, want %d", tt.depth, got, tt.nodes)
		}
	}
}
