package xiangqi

import "testing"

func TestInitialPositionLegalMoveCount(t *testing.T) {
	p, _ := mustSet(t, StartFEN)
	var list MoveList
	Generate(p, Legal, &list)
	if list.Len() != 44 {
		t.Fatalf("initial position has %d legal moves, want 44", list.Len())
	}
}

func TestCapturesSubsetOfLegal(t *testing.T) {
	p, _ := mustSet(t, StartFEN)
	var legal, captures MoveList
	Generate(p, Legal, &legal)
	Generate(p, Captures, &captures)
	for i := 0; i < captures.Len(); i++ {
		m := captures.At(i)
		if !legal.Contains(m) {
			// Pseudo-legal captures need not all be legal, but in the
			// initial (no-pin, no-check) position they always are.
			t.Fatalf("capture %s missing from legal move list in the initial position", m)
		}
	}
}

func TestQuietsAndCapturesPartitionNonEvasions(t *testing.T) {
	p, _ := mustSet(t, StartFEN)
	var quiets, captures, nonEvasions MoveList
	Generate(p, Quiets, &quiets)
	Generate(p, Captures, &captures)
	Generate(p, NonEvasions, &nonEvasions)
	if quiets.Len()+captures.Len() != nonEvasions.Len() {
		t.Fatalf("quiets(%d)+captures(%d) != nonEvasions(%d)",
			quiets.Len(), captures.Len(), nonEvasions.Len())
	}
}

func TestEvasionsInCheckLeaveGeneralSafe(t *testing.T) {
	// A position where black is in check from a chariot on an open file:
	// the only evasions should all leave the general safe.
	fen := "4k4/9/9/9/9/4R4/9/9/9/4K4 b - - 0 1"
	p, _ := mustSet(t, fen)
	if p.Checkers().IsEmpty() {
		t.Fatal("test setup expects black in check")
	}
	var list MoveList
	Generate(p, Legal, &list)
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		var st StateInfo
		p.DoMove(m, &st)
		us := p.sideToMove.Other()
		ksq := p.SquareOf(us, General)
		stillInCheck := !p.attackersTo(ksq, p.Pieces()).Intersect(p.PiecesByColor(p.sideToMove)).IsEmpty()
		p.UndoMove(m)
		if stillInCheck {
			t.Fatalf("evasion %s left the general in check", m)
		}
	}
	if list.Len() == 0 {
		t.Fatal("expected at least one legal evasion")
	}
}

func TestChariotPinAlongFileForbidsNonAlignedMoves(t *testing.T) {
	// White horse on the only square that blocks a black chariot's file
	// from the white general: it cannot move off that file.
	fen := "4k4/9/9/9/9/9/4r4/4N4/9/4K4 w - - 0 1"
	p, _ := mustSet(t, fen)
	horseSq := p.SquareOf(White, Horse)
	if horseSq == SquareNone {
		t.Fatal("test setup expects a white horse on the board")
	}
	var list MoveList
	Generate(p, Legal, &list)
	for i := 0; i < list.Len(); i++ {
		if list.At(i).From() == horseSq {
			t.Fatalf("chariot-pinned horse produced a legal move: %s", list.At(i))
		}
	}
}

func TestHorseLegFixedPinCannotMove(t *testing.T) {
	// The white advisor at d2 sits on the leg square a black horse at c2
	// needs clear to jump onto the white general; it may not move at all,
	// regardless of destination, since no reachable square keeps the leg
	// blocked (SPEC_FULL's horse fixed-pin rule, unlike a chariot pin which
	// still allows aligned moves).
	fen := "4k4/9/9/9/9/9/9/9/2nA5/4K4 w - - 0 1"
	p, _ := mustSet(t, fen)
	advisorSq := p.SquareOf(White, Advisor)
	if advisorSq == SquareNone {
		t.Fatal("test setup expects a white advisor on the board")
	}
	if p.FixedPinnedPieces(White).IsEmpty() || !p.FixedPinnedPieces(White).Has(advisorSq) {
		t.Fatalf("expected %s to be fixed-pinned", SquareName(advisorSq))
	}
	var list MoveList
	Generate(p, Legal, &list)
	for i := 0; i < list.Len(); i++ {
		if list.At(i).From() == advisorSq {
			t.Fatalf("fixed-pinned advisor produced a legal move: %s", list.At(i))
		}
	}
}

func TestCannonCannotCaptureWithoutScreen(t *testing.T) {
	fen := "4k4/9/9/9/9/9/9/9/9/1C2K4 w - - 0 1"
	p, _ := mustSet(t, fen)
	var list MoveList
	Generate(p, Captures, &list)
	if list.Len() != 0 {
		t.Fatalf("cannon with no screen should have no captures, got %d", list.Len())
	}
}
