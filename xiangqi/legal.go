package xiangqi

// Legal reports whether a pseudo-legal move m is actually legal: it must
// not leave the mover's own general in check, respecting pins, fixed horse
// pins and the flying-general rule, grounded on
// original_source/src/position.cpp's Position::legal.
func (p *Position) Legal(m Move) bool {
	us := p.sideToMove
	from, to := m.From(), m.To()
	moved := p.board[from]

	if moved.Type() == General {
		return p.generalMoveIsLegal(us, to)
	}

	ksq := p.SquareOf(us, General)
	theirKsq := p.SquareOf(us.Other(), General)

	// Moving a piece off the file separating the two generals, with nothing
	// else left between them, exposes our own general to the flying-general
	// rule exactly as if it had stepped there itself (original_source's
	// Position::legal non-king branch).
	if ksq.File() == theirKsq.File() {
		occ := p.Pieces().AndNot(SquareBB(from)).Union(SquareBB(to))
		if BetweenBB(ksq, theirKsq).Intersect(occ).IsEmpty() {
			return false
		}
	}

	// A fixed-pinned horse may never move at all: any move removes the
	// leg block that fixes it, always exposing the general (SPEC_FULL
	// §4.F's horse-leg-pin rule has no "moves along the pin line" escape
	// the way a chariot slider pin does).
	if p.FixedPinnedPieces(us).Has(from) {
		return false
	}

	// An ordinarily pinned piece (chariot/cannon line pin) may move only
	// while staying aligned with the king and the pinning sniper.
	if p.PinnedPieces(us).Has(from) && !Aligned(from, to, ksq) {
		return false
	}

	return !p.receivesCannonCheckAfterMove(us, from, to)
}

// receivesCannonCheckAfterMove reports whether, after from is vacated and to
// is occupied, an enemy cannon attacks our own general — covering both
// moving a piece into a gap that newly screens a facing cannon and
// translating an existing screen to another square still on the same
// segment, matching original_source's Position::receives_canon_check.
func (p *Position) receivesCannonCheckAfterMove(us Color, from, to Square) bool {
	ksq := p.SquareOf(us, General)
	occ := p.Pieces().AndNot(SquareBB(from)).Union(SquareBB(to))
	attackers := AttacksBB(Cannon, ksq, occ)
	cannons := p.PiecesOf(us.Other(), Cannon)
	if p.board[to].Type() == Cannon {
		cannons = cannons.AndNot(SquareBB(to))
	}
	return !attackers.Intersect(cannons).IsEmpty()
}

// generalMoveIsLegal additionally enforces that the general never leaves
// the palace (already guaranteed by AttacksFromStep's confinement), never
// steps onto a square an enemy piece attacks once the general stands there,
// and never ends a move facing the enemy general across an empty file with
// nothing between them (flying general).
func (p *Position) generalMoveIsLegal(us Color, to Square) bool {
	them := us.Other()
	occ := p.Pieces().AndNot(SquareBB(p.SquareOf(us, General))).Union(SquareBB(to))
	if !p.attackersTo(to, occ).Intersect(p.byColorBB[them]).AndNot(SquareBB(to)).IsEmpty() {
		return false
	}
	enemyKsq := p.SquareOf(them, General)
	if to.File() != enemyKsq.File() {
		return true
	}
	return !BetweenBB(to, enemyKsq).Intersect(occ).IsEmpty()
}

// GivesCheck reports whether playing m (pseudo-legal, not yet applied)
// delivers check to the opponent, via direct attack, discovered attack, or
// the flying-general rule. Cannon and chariot moves are checked under the
// post-move occupancy, so a cannon landing behind exactly one screen counts
// as a direct check.
func (p *Position) GivesCheck(m Move) bool {
	us := p.sideToMove
	from, to := m.From(), m.To()
	moved := p.board[from]

	if !p.CheckSquares(moved.Type()).IsEmpty() && p.CheckSquares(moved.Type()).Has(to) {
		// Quick accept for non-sliders / non-screen-sensitive pieces; for
		// Cannon and Chariot this still needs occupancy-after-move
		// confirmation below since CheckSquares was computed pre-move.
		if moved.Type() != Cannon && moved.Type() != Chariot {
			return true
		}
	}

	if p.DiscoveredCheckCandidates().Has(from) && !Aligned(from, to, p.SquareOf(us.Other(), General)) {
		return true
	}

	if moved.Type() == General && p.givesFlyingGeneralCheck(us, to) {
		return true
	}

	return p.directCheckAfterOccupancyChange(us, moved, from, to)
}

func (p *Position) givesFlyingGeneralCheck(us Color, to Square) bool {
	them := us.Other()
	enemyKsq := p.SquareOf(them, General)
	if to.File() != enemyKsq.File() {
		return false
	}
	between := BetweenBB(to, enemyKsq).Intersect(p.Pieces().AndNot(SquareBB(p.SquareOf(us, General))))
	return between.IsEmpty()
}

// directCheckAfterOccupancyChange resolves the Cannon/Chariot case exactly,
// simulating the occupancy the board would have after the move (from
// vacated, to occupied) without mutating the position.
func (p *Position) directCheckAfterOccupancyChange(us Color, moved Piece, from, to Square) bool {
	if moved.Type() != Cannon && moved.Type() != Chariot {
		return false
	}
	occ := p.Pieces().AndNot(SquareBB(from)).Union(SquareBB(to))
	enemyKsq := p.SquareOf(us.Other(), General)
	return AttacksBB(moved.Type(), to, occ).Has(enemyKsq)
}
