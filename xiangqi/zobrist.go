package xiangqi

// Zobrist keys are built once at process start from a deterministic PRNG,
// grounded on common/position.go's initKeys()/computeKey() table shape and
// original_source/src/position.cpp's Position::init() (PRNG rng(1070372)).
// No third-party PRNG library appears anywhere in the retrieved corpus for
// this purpose, and the teacher itself hand-rolls a small generator rather
// than reaching for math/rand, so this module does the same.

type prng struct{ state uint64 }

func newPRNG(seed uint64) *prng { return &prng{state: seed} }

// rand64 is a xorshift64* step, the same generator family as
// original_source's PRNG.
func (p *prng) rand64() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 2685821657736338717
}

var zobristPieceSquare [PieceNB][NumSquares]uint64
var zobristSide uint64

func init() {
	rng := newPRNG(1070372)
	for pc := Piece(0); pc < PieceNB; pc++ {
		for s := Square(0); s < NumSquares; s++ {
			zobristPieceSquare[pc][s] = rng.rand64()
		}
	}
	zobristSide = rng.rand64()
}
