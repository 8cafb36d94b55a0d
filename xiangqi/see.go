package xiangqi

// seeValue is a compact exchange-only piece value scale, distinct from
// PieceValue (positional search wants the finer material scale; SEE only
// needs ordering to be consistent), grounded on
// pkg/engine/see.go's pieceValuesSEE idea, rescaled to xiangqi's piece set.
var seeValue = [PieceTypeNB]int{
	NoPieceType: 0,
	Soldier:     1,
	Elephant:    2,
	Advisor:     2,
	Horse:       4,
	Cannon:      4,
	Chariot:     6,
	General:     120,
}

// SeeGE reports whether playing m and fully resolving the capture sequence
// on its destination square nets a material balance of at least threshold,
// grounded on pkg/engine/see.go's SeeGE (itself "based on Ethereal") and
// reworked so that re-discovering attackers after each removal accounts for
// xiangqi's occupancy-dependent pieces (chariot/cannon rays AND horse legs,
// unlike chess where only sliders need re-discovery).
func (p *Position) SeeGE(m Move, threshold int) bool {
	from, to := m.From(), m.To()
	moved := p.board[from]
	captured := p.board[to]

	nextVictim := moved.Type()

	balance := seeValue[captured.Type()] - threshold
	if balance < 0 {
		return false
	}

	balance -= seeValue[nextVictim]
	if balance >= 0 {
		return true
	}

	occupied := p.Pieces().AndNot(SquareBB(from)).Union(SquareBB(to))
	side := p.sideToMove.Other()

	for {
		myAttackers := p.attackersTo(to, occupied).Intersect(occupied).Intersect(p.PiecesByColor(side))

		// A pinned piece may not leave its pin line to recapture unless its
		// pinner has already been removed from the board, matching
		// original_source's Position::see_ge pinnersForKing/blockersForKing
		// guard (SPEC_FULL §4.I).
		if p.st.PinnersForKing[side].AndNot(occupied).IsEmpty() {
			myAttackers = myAttackers.AndNot(p.st.BlockersForKing[side])
		}

		if myAttackers.IsEmpty() {
			break
		}

		attackerType, attackerFrom := p.leastValuableAttacker(myAttackers)
		occupied = occupied.AndNot(SquareBB(attackerFrom))

		side = side.Other()

		balance = -balance - 1 - seeValue[attackerType]
		if balance >= 0 {
			if attackerType == General && !p.attackersTo(to, occupied).Intersect(occupied).Intersect(p.PiecesByColor(side)).IsEmpty() {
				side = side.Other()
			}
			break
		}
	}

	return side != p.sideToMove
}

// leastValuableAttacker picks, among attackers, the weakest piece type and
// returns one occupying square of it (ties broken arbitrarily by bitboard
// scan order, matching the reference's FirstOne).
func (p *Position) leastValuableAttacker(attackers Bitboard) (PieceType, Square) {
	order := [7]PieceType{Soldier, Elephant, Advisor, Horse, Cannon, Chariot, General}
	for _, pt := range order {
		b := attackers.Intersect(p.byTypeBB[pt])
		if !b.IsEmpty() {
			return pt, b.LSB()
		}
	}
	return NoPieceType, SquareNone
}
