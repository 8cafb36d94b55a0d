package xiangqi

import "testing"

func TestChariotAttacksEmptyBoard(t *testing.T) {
	// A chariot at the center of an empty board reaches every square along
	// its file and rank.
	s := MakeSquare(4, 4)
	b := AttacksBB(Chariot, s, emptyBB)
	want := (NumFiles - 1) + (NumRanks - 1)
	if b.PopCount() != want {
		t.Fatalf("chariot attacks from center on empty board = %d squares, want %d", b.PopCount(), want)
	}
}

func TestChariotAttacksStopAtBlocker(t *testing.T) {
	s := MakeSquare(0, 0)
	blocker := MakeSquare(3, 0)
	occ := SquareBB(blocker)
	b := AttacksBB(Chariot, s, occ)
	if !b.Has(blocker) {
		t.Fatal("chariot should be able to capture the blocker")
	}
	if b.Has(MakeSquare(4, 0)) {
		t.Fatal("chariot attack leaked past the blocker")
	}
}

func TestCannonNeedsScreenToCapture(t *testing.T) {
	s := MakeSquare(0, 0)
	target := MakeSquare(3, 0)
	// No screen: cannon cannot reach target as a capture, nor any square
	// beyond it (non-capturing cannon moves are handled by movegen via the
	// chariot ray, not AttacksBB).
	b := AttacksBB(Cannon, s, SquareBB(target))
	if !b.IsEmpty() {
		t.Fatalf("cannon captured without a screen: %+v", b)
	}
}

func TestCannonCapturesBehindScreen(t *testing.T) {
	s := MakeSquare(0, 0)
	screen := MakeSquare(2, 0)
	target := MakeSquare(5, 0)
	occ := SquareBB(screen).Union(SquareBB(target))
	b := AttacksBB(Cannon, s, occ)
	if !b.Has(target) {
		t.Fatalf("cannon failed to capture target behind its screen: %+v", b)
	}
	if b.PopCount() != 1 {
		t.Fatalf("cannon attack set should have exactly one square (the far capture), got %+v", b)
	}
}

func TestHorseBlockedByLeg(t *testing.T) {
	s := MakeSquare(4, 4)
	leg := MakeSquare(4, 5) // north leg
	unblocked := AttacksBB(Horse, s, emptyBB)
	blocked := AttacksBB(Horse, s, SquareBB(leg))
	if blocked.PopCount() >= unblocked.PopCount() {
		t.Fatalf("blocking a leg should remove destinations: unblocked=%d blocked=%d",
			unblocked.PopCount(), blocked.PopCount())
	}
	for _, dest := range []Square{MakeSquare(3, 6), MakeSquare(5, 6)} {
		if blocked.Has(dest) {
			t.Fatalf("horse jump over blocked north leg should not reach %d", dest)
		}
	}
}

func TestElephantConfinedToOwnHalf(t *testing.T) {
	// An elephant just below the river cannot jump across it.
	s := MakeSquare(4, riverRank)
	b := AttacksBB(Elephant, s, emptyBB)
	for _, dest := range b2Squares(b) {
		if !sameHalf(s.Rank(), dest.Rank()) {
			t.Fatalf("elephant jump from %d landed at %d, crossing the river", s, dest)
		}
	}
}

func TestElephantBlockedByEye(t *testing.T) {
	s := MakeSquare(4, 0)
	eye := MakeSquare(5, 1) // north-east eye
	dest := MakeSquare(6, 2)
	unblocked := AttacksBB(Elephant, s, emptyBB)
	if !unblocked.Has(dest) {
		t.Fatalf("expected elephant at %d to reach %d on an empty board", s, dest)
	}
	blocked := AttacksBB(Elephant, s, SquareBB(eye))
	if blocked.Has(dest) {
		t.Fatal("elephant jumped over an occupied eye square")
	}
}

func TestAdvisorConfinedToPalace(t *testing.T) {
	for s := Square(0); s < NumSquares; s++ {
		b := AttacksFromStep(MakePiece(White, Advisor), s)
		for _, dest := range b2Squares(b) {
			if !inPalace(dest) {
				t.Fatalf("advisor at %d attacks %d outside the palace", s, dest)
			}
		}
	}
}

func TestGeneralConfinedToPalace(t *testing.T) {
	for s := Square(0); s < NumSquares; s++ {
		b := AttacksFromStep(MakePiece(White, General), s)
		for _, dest := range b2Squares(b) {
			if !inPalace(dest) {
				t.Fatalf("general at %d attacks %d outside the palace", s, dest)
			}
		}
	}
}

func TestSoldierSidewaysOnlyAfterRiver(t *testing.T) {
	beforeRiver := MakeSquare(4, 3)
	b := AttacksFromStep(MakePiece(White, Soldier), beforeRiver)
	if b.Has(MakeSquare(3, 3)) || b.Has(MakeSquare(5, 3)) {
		t.Fatal("white soldier moved sideways before crossing the river")
	}
	afterRiver := MakeSquare(4, 5)
	b = AttacksFromStep(MakePiece(White, Soldier), afterRiver)
	if !b.Has(MakeSquare(3, 5)) || !b.Has(MakeSquare(5, 5)) {
		t.Fatal("white soldier should move sideways after crossing the river")
	}
}

func b2Squares(b Bitboard) []Square {
	var out []Square
	for !b.IsEmpty() {
		var s Square
		s, b = b.PopLSB()
		out = append(out, s)
	}
	return out
}
