package xiangqi

import "testing"

func TestSquareBBRoundTrip(t *testing.T) {
	for s := Square(0); s < NumSquares; s++ {
		b := SquareBB(s)
		if b.PopCount() != 1 {
			t.Fatalf("SquareBB(%d) has popcount %d", s, b.PopCount())
		}
		if !b.Has(s) {
			t.Fatalf("SquareBB(%d) does not report Has(%d)", s, s)
		}
		if b.LSB() != s || b.MSB() != s {
			t.Fatalf("SquareBB(%d): LSB=%d MSB=%d", s, b.LSB(), b.MSB())
		}
	}
}

func TestShiftRoundTrip(t *testing.T) {
	for s := Square(0); s < NumSquares; s++ {
		b := SquareBB(s)
		north := ShiftNorth(b)
		if s.Rank() < NumRanks-1 {
			want := MakeSquare(s.File(), s.Rank()+1)
			if !north.Has(want) || north.PopCount() != 1 {
				t.Fatalf("ShiftNorth(%d) = %+v, want single bit at %d", s, north, want)
			}
		} else if !north.IsEmpty() {
			t.Fatalf("ShiftNorth(%d) should fall off the board, got %+v", s, north)
		}
	}
}

func TestShiftEastWestNeverWraps(t *testing.T) {
	for rank := 0; rank < NumRanks; rank++ {
		s := MakeSquare(NumFiles-1, rank)
		if !ShiftEast(SquareBB(s)).IsEmpty() {
			t.Fatalf("ShiftEast wrapped from file I at rank %d", rank)
		}
		s = MakeSquare(0, rank)
		if !ShiftWest(SquareBB(s)).IsEmpty() {
			t.Fatalf("ShiftWest wrapped from file A at rank %d", rank)
		}
	}
}

func TestNextSubsetEnumeratesEveryBit(t *testing.T) {
	mask := SquareBB(10).Union(SquareBB(20)).Union(SquareBB(70))
	seen := map[Bitboard]bool{}
	var subset Bitboard
	for {
		seen[subset] = true
		subset = NextSubset(subset, mask)
		if subset.IsEmpty() {
			break
		}
	}
	if len(seen) != 1<<uint(mask.PopCount()) {
		t.Fatalf("got %d distinct subsets, want %d", len(seen), 1<<uint(mask.PopCount()))
	}
	for b := range seen {
		if !b.AndNot(mask).IsEmpty() {
			t.Fatalf("subset %+v escapes mask %+v", b, mask)
		}
	}
}

func TestPEXTCompaction(t *testing.T) {
	mask := SquareBB(3).Union(SquareBB(66)).Union(SquareBB(80))
	value := SquareBB(3).Union(SquareBB(80))
	idx := PEXT(value, mask)
	// 3 bits in mask order low-to-high: square3, square66, square80.
	if idx != 0b101 {
		t.Fatalf("PEXT = %b, want 0b101", idx)
	}
}

func TestPopLSBDrainsBitboard(t *testing.T) {
	b := SquareBB(5).Union(SquareBB(64)).Union(SquareBB(89))
	count := 0
	for !b.IsEmpty() {
		_, b = b.PopLSB()
		count++
	}
	if count != 3 {
		t.Fatalf("PopLSB drained %d squares, want 3", count)
	}
}

func TestMoreThanOne(t *testing.T) {
	if SquareBB(4).MoreThanOne() {
		t.Fatal("single square reported MoreThanOne")
	}
	if !SquareBB(4).Union(SquareBB(5)).MoreThanOne() {
		t.Fatal("two squares did not report MoreThanOne")
	}
}
