package xiangqi

import "math/bits"

// Bitboard represents a subset of the 90 board squares as two 64-bit lanes:
// squares 0..63 in Lo, squares 64..89 in Hi. It is the Go analog of
// original_source's __m128i-backed Bitboard class, expressed with named
// methods instead of operator overloads.
type Bitboard struct {
	Lo, Hi uint64
}

var emptyBB = Bitboard{}

// fullBB has every one of the 90 valid squares set; used to build ~b within
// the valid universe.
var fullBB = Bitboard{Lo: ^uint64(0), Hi: (1 << (NumSquares - 64)) - 1}

func SquareBB(s Square) Bitboard {
	if s < 64 {
		return Bitboard{Lo: 1 << uint(s)}
	}
	return Bitboard{Hi: 1 << uint(s-64)}
}

func (b Bitboard) Union(o Bitboard) Bitboard     { return Bitboard{b.Lo | o.Lo, b.Hi | o.Hi} }
func (b Bitboard) Intersect(o Bitboard) Bitboard { return Bitboard{b.Lo & o.Lo, b.Hi & o.Hi} }
func (b Bitboard) Xor(o Bitboard) Bitboard       { return Bitboard{b.Lo ^ o.Lo, b.Hi ^ o.Hi} }
func (b Bitboard) Not() Bitboard                 { return Bitboard{^b.Lo & fullBB.Lo, ^b.Hi & fullBB.Hi} }
func (b Bitboard) AndNot(o Bitboard) Bitboard    { return Bitboard{b.Lo &^ o.Lo, b.Hi &^ o.Hi} }

func (b Bitboard) IsEmpty() bool { return b.Lo == 0 && b.Hi == 0 }

func (b Bitboard) Has(s Square) bool {
	return !b.Intersect(SquareBB(s)).IsEmpty()
}

func (b Bitboard) PopCount() int {
	return bits.OnesCount64(b.Lo) + bits.OnesCount64(b.Hi)
}

func (b Bitboard) MoreThanOne() bool {
	// Clears the lowest set bit across the 128-bit value and checks for
	// any bit remaining.
	lo, hi := b.Lo, b.Hi
	if lo != 0 {
		lo &= lo - 1
	} else {
		hi &= hi - 1
	}
	return lo != 0 || hi != 0
}

// LSB returns the lowest-indexed set square; lane 0 is preferred.
func (b Bitboard) LSB() Square {
	if b.Lo != 0 {
		return Square(bits.TrailingZeros64(b.Lo))
	}
	return Square(64 + bits.TrailingZeros64(b.Hi))
}

// MSB returns the highest-indexed set square; lane 1 is preferred.
func (b Bitboard) MSB() Square {
	if b.Hi != 0 {
		return Square(64 + bits.Len64(b.Hi) - 1)
	}
	return Square(bits.Len64(b.Lo) - 1)
}

// PopLSB returns the lowest-indexed square and a copy of b with that square
// cleared.
func (b Bitboard) PopLSB() (Square, Bitboard) {
	s := b.LSB()
	return s, b.AndNot(SquareBB(s))
}

// shiftLeft performs a 128-bit logical left shift by n bits (0 <= n < 128),
// carrying bits from Lo into Hi.
func shiftLeft(lo, hi uint64, n uint) (uint64, uint64) {
	if n == 0 {
		return lo, hi
	}
	if n >= 64 {
		return 0, lo << (n - 64)
	}
	return lo << n, (hi << n) | (lo >> (64 - n))
}

// shiftRight performs a 128-bit logical right shift by n bits, carrying
// bits from Hi into Lo.
func shiftRight(lo, hi uint64, n uint) (uint64, uint64) {
	if n == 0 {
		return lo, hi
	}
	if n >= 64 {
		return hi >> (n - 64), 0
	}
	return (lo >> n) | (hi << (64 - n)), hi >> n
}

// shiftBy translates every bit by n squares (positive = toward higher
// square indices). Used internally; callers that cross files (E/W) must
// pre-mask the source file per SPEC_FULL §4.A.
func (b Bitboard) shiftBy(n int) Bitboard {
	if n >= 0 {
		lo, hi := shiftLeft(b.Lo, b.Hi, uint(n))
		return Bitboard{lo, hi}
	}
	lo, hi := shiftRight(b.Lo, b.Hi, uint(-n))
	return Bitboard{lo, hi}
}

var fileBB [NumFiles]Bitboard
var rankBB [NumRanks]Bitboard

func init() {
	for s := Square(0); s < NumSquares; s++ {
		fileBB[s.File()] = fileBB[s.File()].Union(SquareBB(s))
		rankBB[s.Rank()] = rankBB[s.Rank()].Union(SquareBB(s))
	}
}

func FileBB(file int) Bitboard { return fileBB[file] }
func RankBB(rank int) Bitboard { return rankBB[rank] }

// ShiftNorth/ShiftSouth never cross a file boundary so need no file
// masking; ShiftNorth drops squares pushed past rank 10.
func ShiftNorth(b Bitboard) Bitboard { return b.shiftBy(int(North)).Intersect(fullBB) }
func ShiftSouth(b Bitboard) Bitboard { return b.shiftBy(int(South)) }

// ShiftEast/ShiftWest and the diagonals pre-mask the source file that would
// wrap around the board edge, per SPEC_FULL §4.A; the northward diagonals
// also drop squares pushed past rank 10.
func ShiftEast(b Bitboard) Bitboard {
	return b.AndNot(fileBB[NumFiles-1]).shiftBy(int(East))
}

func ShiftWest(b Bitboard) Bitboard {
	return b.AndNot(fileBB[0]).shiftBy(int(West))
}

func ShiftNorthEast(b Bitboard) Bitboard {
	return b.AndNot(fileBB[NumFiles-1]).shiftBy(int(NorthEast)).Intersect(fullBB)
}

func ShiftNorthWest(b Bitboard) Bitboard {
	return b.AndNot(fileBB[0]).shiftBy(int(NorthWest)).Intersect(fullBB)
}

func ShiftSouthEast(b Bitboard) Bitboard {
	return b.AndNot(fileBB[NumFiles-1]).shiftBy(int(SouthEast))
}

func ShiftSouthWest(b Bitboard) Bitboard {
	return b.AndNot(fileBB[0]).shiftBy(int(SouthWest))
}

// Shift translates b by an arbitrary single-step Direction, masking file
// wraparound when the direction has an East/West component.
func Shift(b Bitboard, d Direction) Bitboard {
	switch d {
	case North:
		return ShiftNorth(b)
	case South:
		return ShiftSouth(b)
	case East:
		return ShiftEast(b)
	case West:
		return ShiftWest(b)
	case NorthEast:
		return ShiftNorthEast(b)
	case NorthWest:
		return ShiftNorthWest(b)
	case SouthEast:
		return ShiftSouthEast(b)
	case SouthWest:
		return ShiftSouthWest(b)
	default:
		return b.shiftBy(int(d))
	}
}

// Sub performs 128-bit integer subtraction b - mask with borrow propagation
// from Lo to Hi; used only to drive Carry-Rippler subset enumeration,
// b = (b - mask) & mask.
func (b Bitboard) Sub(mask Bitboard) Bitboard {
	lo, borrow := bits.Sub64(b.Lo, mask.Lo, 0)
	hi, _ := bits.Sub64(b.Hi, mask.Hi, borrow)
	return Bitboard{lo, hi}
}

// NextSubset advances the Carry-Rippler subset enumeration of mask: starting
// from the empty set, repeated calls visit every subset of mask exactly
// once before returning to the empty set (SPEC_FULL §8 property 3).
func NextSubset(subset, mask Bitboard) Bitboard {
	return subset.Sub(mask).Intersect(mask)
}

// pext64 is a portable software parallel-extract: the bits of x selected by
// mask are compacted into the low bits of the result, in mask-bit order.
// No cgo/assembly is available from pure Go, and nothing in the retrieved
// corpus uses cgo, so a bit-loop is the idiom-consistent fallback (SPEC_FULL
// §9).
func pext64(x, mask uint64) uint64 {
	var result uint64
	var bitPos uint
	for mask != 0 {
		lowest := mask & (-mask)
		if x&lowest != 0 {
			result |= 1 << bitPos
		}
		mask &= mask - 1
		bitPos++
	}
	return result
}

// PEXT combines two 64-bit PEXT operations into a single index, per
// SPEC_FULL §4.A: pext(lo, lo_mask) in the low bits, pext(hi, hi_mask)
// shifted up by popcount(lo_mask).
func PEXT(value, mask Bitboard) uint32 {
	lo := pext64(value.Lo, mask.Lo)
	hi := pext64(value.Hi, mask.Hi)
	return uint32(lo) | uint32(hi)<<uint(bits.OnesCount64(mask.Lo))
}

// BetweenBB and LineBB are filled in by initLines (attacks.go) once the
// sliding attack tables exist.
var betweenBB [NumSquares][NumSquares]Bitboard
var lineBB [NumSquares][NumSquares]Bitboard

func BetweenBB(s1, s2 Square) Bitboard { return betweenBB[s1][s2] }
func LineBB(s1, s2 Square) Bitboard    { return lineBB[s1][s2] }

// Aligned reports whether s1, s2, s3 lie on a common chariot line.
func Aligned(s1, s2, s3 Square) bool {
	return lineBB[s1][s2].Has(s3)
}
