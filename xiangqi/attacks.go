package xiangqi

// Attack tables are built once at process start, grounded on
// original_source/src/bitboard.cpp's Bitboards::init() (Carry-Rippler mask
// enumeration, ray-walking) and common/bitboard.go's precompute-at-init
// idiom (magicify/computeSlideAttacks), generalized to the 90-square
// two-lane Bitboard and to xiangqi's piece set.

var chariotMasks [NumSquares]Bitboard
var chariotAttacks [NumSquares][]Bitboard

var cannonMasks [NumSquares]Bitboard
var cannonAttacks [NumSquares][]Bitboard

var horseMasks [NumSquares]Bitboard
var horseAttacks [NumSquares][]Bitboard

var elephantMasks [NumSquares]Bitboard
var elephantAttacks [NumSquares][]Bitboard

// pseudoAttacks[pt][s] is the attack set on an empty board; used to find
// "snipers" for pin/blocker analysis and to gate the QUIET_CHECKS
// generator without a full attacks_bb lookup.
var pseudoAttacks [PieceTypeNB][NumSquares]Bitboard

// stepAttacks[piece][s] covers Soldier (color-dependent), Advisor and
// General: none of these are ever blocked by an intervening piece, so a
// flat per-square table suffices (SPEC_FULL §4.C).
var stepAttacks [PieceNB][NumSquares]Bitboard

type rayDir struct{ df, dr int }

var orthogonalDirs = [4]rayDir{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// rayWalk appends to squares every board square along direction d starting
// one step from (f,r), in order, until the edge.
func rayWalk(f, r int, d rayDir) []Square {
	var squares []Square
	for {
		f += d.df
		r += d.dr
		if !onBoard(f, r) {
			return squares
		}
		squares = append(squares, MakeSquare(f, r))
	}
}

func buildChariotTable() {
	for s := Square(0); s < NumSquares; s++ {
		f, r := s.File(), s.Rank()
		var mask Bitboard
		var rays [4][]Square
		for i, d := range orthogonalDirs {
			rays[i] = rayWalk(f, r, d)
			if len(rays[i]) > 0 {
				for _, sq := range rays[i][:len(rays[i])-1] {
					mask = mask.Union(SquareBB(sq))
				}
			}
		}
		chariotMasks[s] = mask
		pseudoAttacks[Chariot][s] = chariotRayAttack(rays, emptyBB)

		n := 1 << uint(mask.PopCount())
		chariotAttacks[s] = make([]Bitboard, n)
		var subset Bitboard
		for {
			idx := PEXT(subset, mask)
			chariotAttacks[s][idx] = chariotRayAttack(rays, subset)
			subset = NextSubset(subset, mask)
			if subset.IsEmpty() {
				break
			}
		}
	}
}

// chariotRayAttack walks each precomputed ray, stopping at (and including)
// the first occupied square.
func chariotRayAttack(rays [4][]Square, occupied Bitboard) Bitboard {
	var b Bitboard
	for _, ray := range rays {
		for _, sq := range ray {
			b = b.Union(SquareBB(sq))
			if occupied.Has(sq) {
				break
			}
		}
	}
	return b
}

func buildCannonTable() {
	for s := Square(0); s < NumSquares; s++ {
		f, r := s.File(), s.Rank()
		var rays [4][]Square
		for i, d := range orthogonalDirs {
			rays[i] = rayWalk(f, r, d)
		}
		mask := chariotMasks[s] // cannon shares chariot's relevance mask
		n := 1 << uint(mask.PopCount())
		cannonAttacks[s] = make([]Bitboard, n)
		cannonMasks[s] = mask

		var subset Bitboard
		for {
			idx := PEXT(subset, mask)
			cannonAttacks[s][idx] = cannonRayAttack(rays, subset)
			subset = NextSubset(subset, mask)
			if subset.IsEmpty() {
				break
			}
		}
		pseudoAttacks[Cannon][s] = emptyBB // no screen possible with zero pieces
	}
}

// cannonRayAttack walks each ray: the first occupied square is the screen
// (not itself a legal capture target); the next occupied square beyond it
// is the sole capture target along that ray. The last square of each ray
// lies outside the relevance mask, so it is treated as occupied here and
// AttacksBB drops it again when the real occupancy leaves it empty.
func cannonRayAttack(rays [4][]Square, occupied Bitboard) Bitboard {
	var b Bitboard
	for _, ray := range rays {
		screened := false
		for i, sq := range ray {
			if !occupied.Has(sq) && i != len(ray)-1 {
				continue
			}
			if !screened {
				screened = true
				continue
			}
			b = b.Union(SquareBB(sq))
			break
		}
	}
	return b
}

type horseJump struct{ df, dr, legdf, legdr int }

var horseJumps = [8]horseJump{
	{1, 2, 0, 1}, {-1, 2, 0, 1}, {1, -2, 0, -1}, {-1, -2, 0, -1},
	{2, 1, 1, 0}, {2, -1, 1, 0}, {-2, 1, -1, 0}, {-2, -1, -1, 0},
}

func buildHorseTable() {
	for s := Square(0); s < NumSquares; s++ {
		f, r := s.File(), s.Rank()
		var mask Bitboard
		var legs [8]Square
		var dests [8]Square
		var valid [8]bool
		for i, j := range horseJumps {
			lf, lr := f+j.legdf, r+j.legdr
			df, dr := f+j.df, r+j.dr
			if !onBoard(df, dr) {
				continue
			}
			valid[i] = true
			legs[i] = MakeSquare(lf, lr)
			dests[i] = MakeSquare(df, dr)
			mask = mask.Union(SquareBB(legs[i]))
		}
		horseMasks[s] = mask
		n := 1 << uint(mask.PopCount())
		horseAttacks[s] = make([]Bitboard, n)

		var subset Bitboard
		for {
			idx := PEXT(subset, mask)
			var b Bitboard
			for i := range horseJumps {
				if valid[i] && !subset.Has(legs[i]) {
					b = b.Union(SquareBB(dests[i]))
				}
			}
			horseAttacks[s][idx] = b
			subset = NextSubset(subset, mask)
			if subset.IsEmpty() {
				break
			}
		}
		pseudoAttacks[Horse][s] = horseAttacks[s][0]
	}
}

type elephantJump struct{ df, dr, eyedf, eyedr int }

var elephantJumps = [4]elephantJump{
	{2, 2, 1, 1}, {-2, 2, -1, 1}, {2, -2, 1, -1}, {-2, -2, -1, -1},
}

func buildElephantTable() {
	for s := Square(0); s < NumSquares; s++ {
		f, r := s.File(), s.Rank()
		var mask Bitboard
		var eyes [4]Square
		var dests [4]Square
		var valid [4]bool
		for i, j := range elephantJumps {
			df, dr := f+j.df, r+j.dr
			ef, er := f+j.eyedf, r+j.eyedr
			if !onBoard(df, dr) || !sameHalf(r, dr) {
				continue
			}
			valid[i] = true
			eyes[i] = MakeSquare(ef, er)
			dests[i] = MakeSquare(df, dr)
			mask = mask.Union(SquareBB(eyes[i]))
		}
		elephantMasks[s] = mask
		n := 1 << uint(mask.PopCount())
		elephantAttacks[s] = make([]Bitboard, n)

		var subset Bitboard
		for {
			idx := PEXT(subset, mask)
			var b Bitboard
			for i := range elephantJumps {
				if valid[i] && !subset.Has(eyes[i]) {
					b = b.Union(SquareBB(dests[i]))
				}
			}
			elephantAttacks[s][idx] = b
			subset = NextSubset(subset, mask)
			if subset.IsEmpty() {
				break
			}
		}
		pseudoAttacks[Elephant][s] = elephantAttacks[s][0]
	}
}

var advisorDeltas = [4]rayDir{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
var generalDeltas = [4]rayDir{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

func buildStepTables() {
	for s := Square(0); s < NumSquares; s++ {
		f, r := s.File(), s.Rank()

		// Advisor: diagonal step confined to the palace.
		var advisorAttack Bitboard
		for _, d := range advisorDeltas {
			nf, nr := f+d.df, r+d.dr
			if onBoard(nf, nr) {
				dest := MakeSquare(nf, nr)
				if inPalace(dest) {
					advisorAttack = advisorAttack.Union(SquareBB(dest))
				}
			}
		}
		stepAttacks[MakePiece(White, Advisor)][s] = advisorAttack
		stepAttacks[MakePiece(Black, Advisor)][s] = advisorAttack
		pseudoAttacks[Advisor][s] = advisorAttack

		// General: orthogonal step confined to the palace.
		var generalAttack Bitboard
		for _, d := range generalDeltas {
			nf, nr := f+d.df, r+d.dr
			if onBoard(nf, nr) {
				dest := MakeSquare(nf, nr)
				if inPalace(dest) {
					generalAttack = generalAttack.Union(SquareBB(dest))
				}
			}
		}
		stepAttacks[MakePiece(White, General)][s] = generalAttack
		stepAttacks[MakePiece(Black, General)][s] = generalAttack
		pseudoAttacks[General][s] = generalAttack

		// Soldier: one step forward always; after crossing the river, also
		// one step sideways. Color-dependent.
		for _, c := range [2]Color{White, Black} {
			dr := 1
			if c == Black {
				dr = -1
			}
			var b Bitboard
			if onBoard(f, r+dr) {
				b = b.Union(SquareBB(MakeSquare(f, r+dr)))
			}
			if RelativeRank(c, r) > riverRank {
				if onBoard(f-1, r) {
					b = b.Union(SquareBB(MakeSquare(f-1, r)))
				}
				if onBoard(f+1, r) {
					b = b.Union(SquareBB(MakeSquare(f+1, r)))
				}
			}
			stepAttacks[MakePiece(c, Soldier)][s] = b
		}
	}
}

// AttacksBB returns the attack bitboard of a slider/leaper piece type under
// the given occupancy. Not valid for Soldier/Advisor/General; use
// AttacksFromStep for those.
func AttacksBB(pt PieceType, s Square, occupied Bitboard) Bitboard {
	switch pt {
	case Chariot:
		return chariotAttacks[s][PEXT(occupied, chariotMasks[s])]
	case Cannon:
		return cannonAttacks[s][PEXT(occupied, cannonMasks[s])].Intersect(occupied)
	case Horse:
		return horseAttacks[s][PEXT(occupied, horseMasks[s])]
	case Elephant:
		return elephantAttacks[s][PEXT(occupied, elephantMasks[s])]
	default:
		return emptyBB
	}
}

// AttacksFromStep returns the (occupancy-independent) attack set of a
// Soldier/Advisor/General piece.
func AttacksFromStep(piece Piece, s Square) Bitboard {
	return stepAttacks[piece][s]
}

// AttacksFrom dispatches on piece type, matching original_source's
// attacks_from<Pt> template family; colorForSoldier is required only when
// pt == Soldier.
func AttacksFrom(pt PieceType, s Square, occupied Bitboard, colorForSoldier Color) Bitboard {
	switch pt {
	case Soldier:
		return stepAttacks[MakePiece(colorForSoldier, Soldier)][s]
	case Advisor:
		return stepAttacks[MakePiece(White, Advisor)][s]
	case General:
		return stepAttacks[MakePiece(White, General)][s]
	default:
		return AttacksBB(pt, s, occupied)
	}
}

func initLines() {
	for s1 := Square(0); s1 < NumSquares; s1++ {
		for s2 := Square(0); s2 < NumSquares; s2++ {
			if s1 == s2 {
				continue
			}
			if !pseudoAttacks[Chariot][s1].Has(s2) {
				continue
			}
			between := chariotRayBetween(s1, s2)
			betweenBB[s1][s2] = between
			lineBB[s1][s2] = between.Union(SquareBB(s1)).Union(SquareBB(s2)).Union(chariotFarSide(s1, s2))
		}
	}
}

// chariotRayBetween returns the open squares strictly between two aligned
// squares (s1, s2 must share a file or rank).
func chariotRayBetween(s1, s2 Square) Bitboard {
	var b Bitboard
	f1, r1 := s1.File(), s1.Rank()
	f2, r2 := s2.File(), s2.Rank()
	df, dr := sign(f2-f1), sign(r2-r1)
	f, r := f1+df, r1+dr
	for f != f2 || r != r2 {
		b = b.Union(SquareBB(MakeSquare(f, r)))
		f += df
		r += dr
	}
	return b
}

// chariotFarSide extends the s1-s2 line beyond both ends to the board
// edge, completing LineBB into a full line (used by Aligned/evasion logic).
func chariotFarSide(s1, s2 Square) Bitboard {
	var b Bitboard
	f1, r1 := s1.File(), s1.Rank()
	f2, r2 := s2.File(), s2.Rank()
	df, dr := sign(f2-f1), sign(r2-r1)
	for _, end := range [2]struct{ f, r, df, dr int }{{f1, r1, -df, -dr}, {f2, r2, df, dr}} {
		f, r := end.f+end.df, end.r+end.dr
		for onBoard(f, r) {
			b = b.Union(SquareBB(MakeSquare(f, r)))
			f += end.df
			r += end.dr
		}
	}
	return b
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

func init() {
	buildChariotTable()
	buildCannonTable()
	buildHorseTable()
	buildElephantTable()
	buildStepTables()
	initLines()
}
