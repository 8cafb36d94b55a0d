package xiangqi

// GenType selects which subset of moves Generate produces, grounded on
// original_source/src/movegen.h's GenType enum (SPEC_FULL §4.G).
type GenType int

const (
	Captures GenType = iota
	Quiets
	QuietChecks
	Evasions
	NonEvasions
	Legal
)

// MaxMoves bounds a single position's pseudo-legal move count generously;
// used to size a caller's move buffer, matching original_source's
// MAX_MOVES.
const MaxMoves = 128

// ExtMove pairs a Move with a sort key a search layer can fill in; the
// core generator itself never scores moves.
type ExtMove struct {
	Move  Move
	Value int
}

// MoveList collects the moves produced by Generate, reusing its backing
// array across calls when Reset is used by a caller.
type MoveList struct {
	moves []ExtMove
}

func (l *MoveList) Reset() { l.moves = l.moves[:0] }
func (l *MoveList) Len() int { return len(l.moves) }
func (l *MoveList) At(i int) Move { return l.moves[i].Move }

func (l *MoveList) add(m Move) {
	l.moves = append(l.moves, ExtMove{Move: m})
}

func (l *MoveList) Contains(m Move) bool {
	for _, e := range l.moves {
		if e.Move == m {
			return true
		}
	}
	return false
}

// Generate appends every move of the requested kind to list, grounded on
// original_source/src/movegen.cpp's generate<Type> family.
func Generate(p *Position, typ GenType, list *MoveList) {
	us := p.sideToMove

	switch typ {
	case Captures:
		generateAll(p, us, false, list, p.PiecesByColor(us.Other()), true)
	case Quiets:
		generateAll(p, us, false, list, p.Pieces().Not(), true)
	case NonEvasions:
		generateAll(p, us, false, list, p.PiecesByColor(us).Not(), true)
	case QuietChecks:
		generateQuietChecks(p, us, list)
	case Evasions:
		generateEvasions(p, us, list)
	case Legal:
		generateLegal(p, list)
	}
}

// generateMoves emits moves for one non-general piece type, optionally
// filtered to only those that give check (checks == true, used by
// QUIET_CHECKS' generateAll pass over discovered-check-incapable pieces).
func generateMoves(p *Position, pt PieceType, us Color, target Bitboard, checks bool, list *MoveList) {
	occ := p.Pieces()
	for _, from := range p.Squares(us, pt) {
		if checks {
			if (pt == Horse || pt == Chariot || pt == Cannon) &&
				pseudoAttacks[pt][from].Intersect(target).Intersect(p.CheckSquares(pt)).IsEmpty() {
				continue
			}
			if p.DiscoveredCheckCandidates().Has(from) {
				continue
			}
		}

		var b Bitboard
		switch pt {
		case Cannon:
			b = AttacksBB(Cannon, from, occ).Intersect(target).Intersect(p.PiecesByColor(us.Other()))
			b = b.Union(AttacksBB(Chariot, from, occ).Intersect(target).Intersect(occ.Not()))
		case Soldier:
			b = AttacksFromStep(MakePiece(us, Soldier), from).Intersect(target)
		case Advisor:
			b = AttacksFromStep(MakePiece(us, Advisor), from).Intersect(target)
		default:
			b = AttacksBB(pt, from, occ).Intersect(target)
		}

		if checks {
			b = b.Intersect(p.CheckSquares(pt))
		}

		for b.PopCount() > 0 {
			var to Square
			to, b = b.PopLSB()
			list.add(MakeMove(from, to))
		}
	}
}

// generateAll emits every piece type's moves into target, adding the
// general's own step moves only when general is set (QUIET_CHECKS/EVASIONS
// pass false: they handle the general separately or not at all per the
// original dispatch).
func generateAll(p *Position, us Color, checks bool, list *MoveList, target Bitboard, general bool) {
	generateMoves(p, Soldier, us, target, checks, list)
	generateMoves(p, Elephant, us, target, checks, list)
	generateMoves(p, Advisor, us, target, checks, list)
	generateMoves(p, Horse, us, target, checks, list)
	generateMoves(p, Cannon, us, target, checks, list)
	generateMoves(p, Chariot, us, target, checks, list)

	if general {
		ksq := p.SquareOf(us, General)
		b := AttacksFromStep(MakePiece(us, General), ksq).Intersect(target)
		for b.PopCount() > 0 {
			var to Square
			to, b = b.PopLSB()
			list.add(MakeMove(ksq, to))
		}
	}
}

// generateQuietChecks first emits the moves of pieces sitting on a
// discovered-check line to any empty square off that line (any such move
// checks, since it unmasks the piece behind it), then lets generateAll
// filter every other piece type down to moves landing on that type's
// CheckSquares.
func generateQuietChecks(p *Position, us Color, list *MoveList) {
	occ := p.Pieces()
	enemyKsq := p.SquareOf(us.Other(), General)
	dc := p.DiscoveredCheckCandidates()
	for dc.PopCount() > 0 {
		var from Square
		from, dc = dc.PopLSB()
		pc := p.PieceOn(from)
		pt := pc.Type()

		var b Bitboard
		switch pt {
		case Soldier:
			b = AttacksFromStep(pc, from).Intersect(occ.Not())
		case Advisor, General:
			b = AttacksFromStep(pc, from).Intersect(occ.Not())
		default:
			b = AttacksBB(pt, from, occ).Intersect(occ.Not())
			if pt == Cannon {
				b = b.Union(AttacksBB(Chariot, from, occ).Intersect(occ.Not()))
			}
		}
		b = b.AndNot(LineBB(from, enemyKsq))

		for b.PopCount() > 0 {
			var to Square
			to, b = b.PopLSB()
			list.add(MakeMove(from, to))
		}
	}

	generateAll(p, us, true, list, occ.Not(), false)
}

// generateEvasions handles check response: the general's own step moves
// (excluding squares a slider checker would still rake after the general
// steps along its own attack line; an enemy cannon screen stays available
// to capture), then, absent a double check, every move that blocks or
// captures the sole checker, blocks a checking horse's leg, or moves our
// own cannon screen off the checking line.
func generateEvasions(p *Position, us Color, list *MoveList) {
	ksq := p.SquareOf(us, General)
	checkers := p.Checkers()

	var sliderAttacks Bitboard
	sliders := checkers.AndNot(p.PiecesByType(Horse)).AndNot(p.PiecesByType(Soldier))
	for sliders.PopCount() > 0 {
		var checkSq Square
		checkSq, sliders = sliders.PopLSB()
		ray := LineBB(checkSq, ksq).AndNot(SquareBB(checkSq))
		if p.PieceOn(checkSq).Type() == Cannon {
			ray = ray.AndNot(BetweenBB(checkSq, ksq).Intersect(p.PiecesByColor(us.Other())))
		}
		sliderAttacks = sliderAttacks.Union(ray)
	}

	b := AttacksFromStep(MakePiece(us, General), ksq).AndNot(p.PiecesByColor(us)).AndNot(sliderAttacks)
	for b.PopCount() > 0 {
		var to Square
		to, b = b.PopLSB()
		list.add(MakeMove(ksq, to))
	}

	if checkers.MoreThanOne() {
		return
	}

	checkSq := checkers.LSB()
	target := BetweenBB(checkSq, ksq).Union(SquareBB(checkSq)).AndNot(p.PiecesByColor(us))
	checker := p.PieceOn(checkSq).Type()
	if leg, ok := horseLegSquare(checkSq, ksq); ok && checker == Horse {
		target = target.Union(SquareBB(leg))
	}
	generateAll(p, us, false, list, target, false)

	if screen := BetweenBB(checkSq, ksq).Intersect(p.PiecesByColor(us)); checker == Cannon && !screen.IsEmpty() {
		var off MoveList
		generateAll(p, us, false, &off, p.PiecesByColor(us).Not().AndNot(LineBB(checkSq, ksq)), false)
		for _, e := range off.moves {
			if screen.Has(e.Move.From()) {
				list.add(e.Move)
			}
		}
	}
}

// generateLegal generates NON_EVASIONS or EVASIONS and strips any move
// that legal() rejects, skipping the legal() check entirely for moves that
// provably cannot be illegal (no pin, not a king move, no facing cannon,
// generals not on a shared file, not already in check), matching
// original_source's generate<LEGAL> gate.
func generateLegal(p *Position, list *MoveList) {
	us := p.sideToMove
	pinned := p.PinnedPieces(us).Union(p.FixedPinnedPieces(us))
	ksq := p.SquareOf(us, General)
	kingFacedCannons := AttacksBB(Chariot, ksq, p.Pieces()).Intersect(p.PiecesOf(us.Other(), Cannon))
	generalsShareFile := ksq.File() == p.SquareOf(us.Other(), General).File()

	start := len(list.moves)
	if !p.Checkers().IsEmpty() {
		generateEvasions(p, us, list)
	} else {
		generateAll(p, us, false, list, p.PiecesByColor(us).Not(), true)
	}

	i := start
	for i < len(list.moves) {
		m := list.moves[i].Move
		needsCheck := !pinned.IsEmpty() || m.From() == ksq || !kingFacedCannons.IsEmpty() || generalsShareFile || !p.Checkers().IsEmpty()
		if needsCheck && !p.Legal(m) {
			last := len(list.moves) - 1
			list.moves[i] = list.moves[last]
			list.moves = list.moves[:last]
			continue
		}
		i++
	}
}
