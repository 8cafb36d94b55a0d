package xiangqi

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard Xiangqi opening array.
const StartFEN = "rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RNBAKABNR w - - 0 1"

// StateInfo holds everything about a Position that changes per ply and
// must be restorable on undo, grounded on original_source/src/position.h's
// StateInfo and chained via Previous exactly like that design (not
// CounterGo's copy-make style, which has no equivalent chain).
type StateInfo struct {
	// Copied verbatim from the previous StateInfo by do_move; updated
	// incrementally thereafter.
	PawnKey         uint64
	MaterialKey     uint64
	NonPawnMaterial [ColorNB]int
	PliesFromNull   int
	Psq             int

	// Recomputed by do_move / set_state every ply.
	Key                 uint64
	CheckersBB          Bitboard
	CapturedPiece       Piece
	Previous            *StateInfo
	BlockersForKing     [ColorNB]Bitboard
	PinnersForKing      [ColorNB]Bitboard
	FixedPinnersForKing [ColorNB]Bitboard
	CheckSquares        [PieceTypeNB]Bitboard

	// Internal bookkeeping making piece-list removal exactly reversible on
	// undo (SPEC_FULL §4.H resolves the original's documented
	// non-reversibility as a bug, not a target behavior).
	capturedIdx         int
	capturedLastSquare  Square
	capturedCountBefore int
}

// Position is the xiangqi board and derived state, mutated exclusively
// through Set / DoMove / UndoMove / DoNullMove / UndoNullMove.
type Position struct {
	board      [NumSquares]Piece
	byTypeBB   [PieceTypeNB]Bitboard
	byColorBB  [ColorNB]Bitboard
	pieceCount [PieceNB]int
	pieceList  [PieceNB][16]Square
	index      [NumSquares]int

	sideToMove Color
	gamePly    int
	nodes      uint64

	st *StateInfo
}

func (p *Position) SideToMove() Color { return p.sideToMove }
func (p *Position) GamePly() int      { return p.gamePly }
func (p *Position) State() *StateInfo { return p.st }

func (p *Position) Pieces() Bitboard                  { return p.byTypeBB[AllPieces] }
func (p *Position) PiecesByType(pt PieceType) Bitboard { return p.byTypeBB[pt] }
func (p *Position) PiecesByColor(c Color) Bitboard     { return p.byColorBB[c] }
func (p *Position) PiecesOf(c Color, pt PieceType) Bitboard {
	return p.byColorBB[c].Intersect(p.byTypeBB[pt])
}

func (p *Position) PieceOn(s Square) Piece { return p.board[s] }
func (p *Position) IsEmpty(s Square) bool  { return p.board[s] == NoPiece }

func (p *Position) Count(c Color, pt PieceType) int {
	return p.pieceCount[MakePiece(c, pt)]
}

// Squares returns the (stable, O(1)-removal) piece list for (c, pt).
func (p *Position) Squares(c Color, pt PieceType) []Square {
	pc := MakePiece(c, pt)
	return p.pieceList[pc][:p.pieceCount[pc]]
}

func (p *Position) SquareOf(c Color, pt PieceType) Square {
	pc := MakePiece(c, pt)
	if p.pieceCount[pc] == 0 {
		return SquareNone
	}
	return p.pieceList[pc][0]
}

func (p *Position) Checkers() Bitboard { return p.st.CheckersBB }
func (p *Position) Key() uint64        { return p.st.Key }

// DiscoveredCheckCandidates is blockersForKing[enemy] & our pieces: moving
// one of these off its line opens a check on the enemy general.
func (p *Position) DiscoveredCheckCandidates() Bitboard {
	us := p.sideToMove
	return p.st.BlockersForKing[us.Other()].Intersect(p.byColorBB[us])
}

func (p *Position) PinnedPieces(c Color) Bitboard {
	return p.st.BlockersForKing[c].Intersect(p.byColorBB[c])
}

func (p *Position) FixedPinnedPieces(c Color) Bitboard {
	return p.st.FixedPinnersForKing[c]
}

func (p *Position) CheckSquares(pt PieceType) Bitboard { return p.st.CheckSquares[pt] }

// --- piece placement primitives -------------------------------------------------

func (p *Position) putPieceAt(pc Piece, s Square, idx int) {
	bb := SquareBB(s)
	p.byTypeBB[pc.Type()] = p.byTypeBB[pc.Type()].Union(bb)
	p.byTypeBB[AllPieces] = p.byTypeBB[AllPieces].Union(bb)
	p.byColorBB[pc.Color()] = p.byColorBB[pc.Color()].Union(bb)
	p.board[s] = pc
	p.pieceList[pc][idx] = s
	p.index[s] = idx
	if idx >= p.pieceCount[pc] {
		p.pieceCount[pc] = idx + 1
	}
}

func (p *Position) putPiece(pc Piece, s Square) {
	p.putPieceAt(pc, s, p.pieceCount[pc])
}

// removePiece takes a piece off the board via swap-with-last, returning
// everything needed to invert the operation exactly (SPEC_FULL §4.H).
func (p *Position) removePiece(s Square) (pc Piece, idx int, lastSquare Square, countBefore int) {
	pc = p.board[s]
	bb := SquareBB(s)
	p.byTypeBB[pc.Type()] = p.byTypeBB[pc.Type()].AndNot(bb)
	p.byTypeBB[AllPieces] = p.byTypeBB[AllPieces].AndNot(bb)
	p.byColorBB[pc.Color()] = p.byColorBB[pc.Color()].AndNot(bb)

	idx = p.index[s]
	countBefore = p.pieceCount[pc]
	lastSquare = p.pieceList[pc][countBefore-1]
	p.pieceList[pc][idx] = lastSquare
	p.index[lastSquare] = idx
	p.pieceCount[pc] = countBefore - 1
	p.board[s] = NoPiece
	return
}

// restorePiece is the exact inverse of removePiece, given the values it
// returned.
func (p *Position) restorePiece(pc Piece, s Square, idx int, lastSquare Square, countBefore int) {
	bb := SquareBB(s)
	p.byTypeBB[pc.Type()] = p.byTypeBB[pc.Type()].Union(bb)
	p.byTypeBB[AllPieces] = p.byTypeBB[AllPieces].Union(bb)
	p.byColorBB[pc.Color()] = p.byColorBB[pc.Color()].Union(bb)
	p.board[s] = pc

	p.pieceList[pc][idx] = s
	p.index[s] = idx
	p.pieceList[pc][countBefore-1] = lastSquare
	p.index[lastSquare] = countBefore - 1
	p.pieceCount[pc] = countBefore
}

// movePiece relocates an already-placed piece from a to b; calling it again
// as movePiece(pc, b, a) is an exact inverse (index[a] is left stale after
// the first call but still holds the correct list slot, matching
// original_source's move_piece contract).
func (p *Position) movePiece(pc Piece, a, b Square) {
	bb := SquareBB(a).Union(SquareBB(b))
	p.byTypeBB[pc.Type()] = p.byTypeBB[pc.Type()].Xor(bb)
	p.byTypeBB[AllPieces] = p.byTypeBB[AllPieces].Xor(bb)
	p.byColorBB[pc.Color()] = p.byColorBB[pc.Color()].Xor(bb)
	p.board[a] = NoPiece
	p.board[b] = pc
	idx := p.index[a]
	p.pieceList[pc][idx] = b
	p.index[b] = idx
}

// --- FEN -------------------------------------------------------------------

// Set installs the position described by fen, computes all derived state
// and anchors st as the current StateInfo. st.Previous is cleared.
func (p *Position) Set(fen string, st *StateInfo) error {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return fmt.Errorf("%w: too few fields in %q", ErrInvalidFEN, fen)
	}

	*p = Position{}
	for i := range p.index {
		p.index[i] = 0
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != NumRanks {
		return fmt.Errorf("%w: expected %d ranks, got %d", ErrInvalidFEN, NumRanks, len(ranks))
	}

	for i, rankStr := range ranks {
		rank := NumRanks - 1 - i
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '9' {
				file += int(ch - '0')
				continue
			}
			var c Color
			var upper byte
			if ch >= 'a' && ch <= 'z' {
				c = Black
				upper = byte(ch) - 'a' + 'A'
			} else if ch >= 'A' && ch <= 'Z' {
				c = White
				upper = byte(ch)
			} else {
				return fmt.Errorf("%w: unexpected rune %q", ErrInvalidFEN, ch)
			}
			pt := charToPieceType(upper)
			if pt == NoPieceType {
				return fmt.Errorf("%w: unknown piece letter %q", ErrInvalidFEN, ch)
			}
			if file >= NumFiles {
				return fmt.Errorf("%w: rank %q overflows the board", ErrInvalidFEN, rankStr)
			}
			p.putPiece(MakePiece(c, pt), MakeSquare(file, rank))
			file++
		}
		if file != NumFiles {
			return fmt.Errorf("%w: rank %q does not sum to %d files", ErrInvalidFEN, rankStr, NumFiles)
		}
	}

	switch fields[1] {
	case "w":
		p.sideToMove = White
	case "b":
		p.sideToMove = Black
	default:
		return fmt.Errorf("%w: bad side to move %q", ErrInvalidFEN, fields[1])
	}

	p.gamePly = 1
	if len(fields) >= 6 {
		if n, err := strconv.Atoi(fields[5]); err == nil && n > 0 {
			p.gamePly = 2*(n-1) + boolToInt(p.sideToMove == Black) + 1
		}
	}

	if err := p.validatePieceCounts(); err != nil {
		return err
	}

	*st = StateInfo{}
	p.st = st
	p.setState()
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (p *Position) validatePieceCounts() error {
	for _, c := range [2]Color{White, Black} {
		if p.Count(c, General) != 1 {
			return fmt.Errorf("%w: color %d has %d generals", ErrInvalidFEN, c, p.Count(c, General))
		}
		if p.Count(c, Soldier) > 5 {
			return fmt.Errorf("%w: color %d has %d soldiers", ErrInvalidFEN, c, p.Count(c, Soldier))
		}
		for _, pt := range [5]PieceType{Advisor, Elephant, Horse, Chariot, Cannon} {
			if p.Count(c, pt) > 2 {
				return fmt.Errorf("%w: color %d has %d of piece type %d", ErrInvalidFEN, c, p.Count(c, pt), pt)
			}
		}
		for _, s := range p.Squares(c, Soldier) {
			if RelativeRankOf(c, s) == 0 {
				return fmt.Errorf("%w: color %d has a soldier on its own back rank", ErrInvalidFEN, c)
			}
		}
	}
	return nil
}

// Fen reconstructs a FEN string for the current position.
func (p *Position) Fen() string {
	var sb strings.Builder
	for i := 0; i < NumRanks; i++ {
		rank := NumRanks - 1 - i
		empty := 0
		for file := 0; file < NumFiles; file++ {
			pc := p.board[MakeSquare(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			ch := pieceTypeToChar(pc.Type())
			if pc.Color() == Black {
				ch = ch - 'A' + 'a'
			}
			sb.WriteByte(ch)
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if i != NumRanks-1 {
			sb.WriteByte('/')
		}
	}
	if p.sideToMove == White {
		sb.WriteString(" w")
	} else {
		sb.WriteString(" b")
	}
	return sb.String()
}

// --- derived state -----------------------------------------------------------

// setState rebuilds st's Key, PawnKey, MaterialKey, NonPawnMaterial, Psq,
// CheckersBB and check info from scratch, per SPEC_FULL §4.E.
func (p *Position) setState() {
	st := p.st
	st.Key = 0
	st.PawnKey = 0
	st.MaterialKey = 0
	st.Psq = 0
	st.NonPawnMaterial = [ColorNB]int{}

	for s := Square(0); s < NumSquares; s++ {
		pc := p.board[s]
		if pc == NoPiece {
			continue
		}
		st.Key ^= zobristPieceSquare[pc][s]
		st.Psq += pieceSquareValue(pc, s)
		if pc.Type() != Soldier && pc.Type() != General {
			st.NonPawnMaterial[pc.Color()] += PieceValue[pc.Type()]
		}
	}
	if p.sideToMove == Black {
		st.Key ^= zobristSide
	}

	for _, c := range [2]Color{White, Black} {
		for _, s := range p.Squares(c, Soldier) {
			st.PawnKey ^= zobristPieceSquare[MakePiece(c, Soldier)][s]
		}
		for pt := PieceType(1); pt < PieceTypeNB; pt++ {
			st.MaterialKey ^= zobristPieceSquare[MakePiece(c, pt)][p.Count(c, pt)]
		}
	}

	us := p.sideToMove
	ourKsq := p.SquareOf(us, General)
	st.CheckersBB = p.attackersTo(ourKsq, p.Pieces()).Intersect(p.byColorBB[us.Other()])

	p.setCheckInfo()
}

// pieceSquareValue is a minimal incremental piece-square term (material
// only); a full PST is an evaluation concern and explicitly out of scope.
func pieceSquareValue(pc Piece, s Square) int {
	v := PieceValue[pc.Type()]
	if pc.Color() == Black {
		return -v
	}
	return v
}

// setCheckInfo refreshes blockers/pinners/fixed-pinners for both colors and
// checkSquares for the side NOT to move's general (the square the side to
// move would need to land on/attack from to deliver check), grounded on
// original_source/src/position.cpp's Position::set_check_info.
func (p *Position) setCheckInfo() {
	st := p.st
	for _, c := range [2]Color{White, Black} {
		ksq := p.SquareOf(c, General)
		enemy := c.Other()
		var pinners Bitboard
		blockers := p.sliderBlockers(p.PiecesOf(enemy, Chariot), ksq, &pinners)
		blockers = blockers.Union(p.cannonBlockers(p.PiecesOf(enemy, Cannon), ksq, &pinners))
		var fixedPinners Bitboard
		blockers = blockers.Union(p.horseBlockers(p.PiecesOf(enemy, Horse), ksq, &fixedPinners))
		st.BlockersForKing[c] = blockers
		st.PinnersForKing[c] = pinners
		st.FixedPinnersForKing[c] = fixedPinners
	}

	us := p.sideToMove
	enemy := us.Other()
	enemyKsq := p.SquareOf(enemy, General)
	occ := p.Pieces()
	st.CheckSquares[Soldier] = p.soldierAttackersTo(enemyKsq, us)
	st.CheckSquares[Horse] = p.horsesTo(enemyKsq, occ)
	st.CheckSquares[Cannon] = AttacksBB(Cannon, enemyKsq, occ)
	st.CheckSquares[Chariot] = AttacksBB(Chariot, enemyKsq, occ)
	st.CheckSquares[Elephant] = emptyBB
	st.CheckSquares[Advisor] = emptyBB
	st.CheckSquares[General] = emptyBB
}

// soldierAttackersTo returns the squares from which a side-us soldier would
// attack s (used both for attackers_to and for checkSquares[SOLDIER]).
func (p *Position) soldierAttackersTo(s Square, us Color) Bitboard {
	f, r := s.File(), s.Rank()
	var b Bitboard
	// Forward attacker: the soldier steps toward increasing relative rank,
	// so the attacker sits one step further back.
	back := -1
	if us == Black {
		back = 1
	}
	if onBoard(f, r+back) {
		b = b.Union(SquareBB(MakeSquare(f, r+back)))
	}
	if RelativeRank(us, r) > riverRank {
		if onBoard(f-1, r) {
			b = b.Union(SquareBB(MakeSquare(f-1, r)))
		}
		if onBoard(f+1, r) {
			b = b.Union(SquareBB(MakeSquare(f+1, r)))
		}
	}
	return b
}

// horsesTo returns, for target square s, the squares occupied by horses
// (of either color — callers mask by color) that attack s given occupied.
func (p *Position) horsesTo(s Square, occupied Bitboard) Bitboard {
	f, r := s.File(), s.Rank()
	var b Bitboard
	for _, j := range horseJumps {
		// A horse at (f-df, r-dr) jumping (df, dr) lands on s; its leg is
		// the mirrored leg offset relative to the source square.
		sf, sr := f-j.df, r-j.dr
		if !onBoard(sf, sr) {
			continue
		}
		legf, legr := sf+j.legdf, sr+j.legdr
		if !onBoard(legf, legr) || occupied.Has(MakeSquare(legf, legr)) {
			continue
		}
		b = b.Union(SquareBB(MakeSquare(sf, sr)))
	}
	return b
}

// attackersTo returns every piece (either color) attacking s given an
// arbitrary occupancy, per SPEC_FULL §4.F; must be re-entrant for SEE.
func (p *Position) attackersTo(s Square, occupied Bitboard) Bitboard {
	var b Bitboard
	b = b.Union(p.soldierAttackersTo(s, White).Intersect(p.PiecesOf(White, Soldier)))
	b = b.Union(p.soldierAttackersTo(s, Black).Intersect(p.PiecesOf(Black, Soldier)))
	b = b.Union(p.horsesTo(s, occupied).Intersect(p.byTypeBB[Horse]))
	b = b.Union(AttacksBB(Chariot, s, occupied).Intersect(p.byTypeBB[Chariot]))
	b = b.Union(AttacksBB(Cannon, s, occupied).Intersect(p.byTypeBB[Cannon]))
	b = b.Union(AttacksBB(Elephant, s, occupied).Intersect(p.byTypeBB[Elephant]))
	b = b.Union(stepAttacks[MakePiece(White, Advisor)][s].Intersect(p.byTypeBB[Advisor]))
	b = b.Union(stepAttacks[MakePiece(White, General)][s].Intersect(p.byTypeBB[General]))
	return b
}

// sliderBlockers finds, among sliders (chariots), the pieces whose removal
// would expose ksq to a sniper; *pinners accumulates the snipers found.
func (p *Position) sliderBlockers(sliders Bitboard, ksq Square, pinners *Bitboard) Bitboard {
	var result Bitboard
	snipers := pseudoAttacks[Chariot][ksq].Intersect(sliders)
	for snipers.PopCount() > 0 {
		var sniperSq Square
		sniperSq, snipers = snipers.PopLSB()
		between := BetweenBB(ksq, sniperSq).Intersect(p.Pieces())
		if !between.MoreThanOne() && !between.IsEmpty() {
			result = result.Union(between)
			if !between.Intersect(p.PiecesByColor(p.board[ksq].Color())).IsEmpty() {
				*pinners = pinners.Union(SquareBB(sniperSq))
			}
		}
	}
	return result
}

// cannonBlockers requires exactly two pieces between ksq and the cannon
// sniper: the screen, plus the genuinely pinned piece.
func (p *Position) cannonBlockers(cannons Bitboard, ksq Square, pinners *Bitboard) Bitboard {
	var result Bitboard
	snipers := pseudoAttacks[Chariot][ksq].Intersect(cannons)
	for snipers.PopCount() > 0 {
		var sniperSq Square
		sniperSq, snipers = snipers.PopLSB()
		between := BetweenBB(ksq, sniperSq).Intersect(p.Pieces())
		if between.PopCount() == 2 {
			result = result.Union(between)
			if !between.Intersect(p.PiecesByColor(p.board[ksq].Color())).IsEmpty() {
				*pinners = pinners.Union(SquareBB(sniperSq))
			}
		}
	}
	return result
}

// horseBlockers finds horse snipers whose leg square is occupied by exactly
// one piece, which is then both a blocker and (if friendly to ksq's owner)
// a fixed pin.
func (p *Position) horseBlockers(horses Bitboard, ksq Square, fixedPinners *Bitboard) Bitboard {
	var result Bitboard
	for i := horses; i.PopCount() > 0; {
		var sniperSq Square
		sniperSq, i = i.PopLSB()
		legSq, ok := horseLegSquare(sniperSq, ksq)
		if !ok {
			continue
		}
		if !p.Pieces().Has(legSq) {
			continue
		}
		result = result.Union(SquareBB(legSq))
		if p.board[legSq].Color() == p.board[ksq].Color() {
			*fixedPinners = fixedPinners.Union(SquareBB(legSq))
		}
	}
	return result
}

// horseLegSquare returns the leg square a horse sitting at from would need
// clear in order to attack ksq, if from's offset to ksq is a valid jump.
func horseLegSquare(from, ksq Square) (Square, bool) {
	df := ksq.File() - from.File()
	dr := ksq.Rank() - from.Rank()
	for _, j := range horseJumps {
		if j.df == df && j.dr == dr {
			lf, lr := from.File()+j.legdf, from.Rank()+j.legdr
			if !onBoard(lf, lr) {
				return SquareNone, false
			}
			return MakeSquare(lf, lr), true
		}
	}
	return SquareNone, false
}

// --- pretty print ------------------------------------------------------------

// String renders a diagnostic ASCII board: river divider between ranks 5
// and 6, palace diagonals, matching SPEC_FULL §6.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString(" +---+---+---+---+---+---+---+---+---+\n")
	for i := 0; i < NumRanks; i++ {
		rank := NumRanks - 1 - i
		sb.WriteString(" |")
		for file := 0; file < NumFiles; file++ {
			s := MakeSquare(file, rank)
			pc := p.board[s]
			sep := byte(' ')
			if isPalaceDiagonal(file, rank) {
				sep = palaceDiagonalChar(file, rank)
			}
			if pc == NoPiece {
				fmt.Fprintf(&sb, " %c |", sep)
			} else {
				ch := pieceTypeToChar(pc.Type())
				if pc.Color() == Black {
					ch = ch - 'A' + 'a'
				}
				fmt.Fprintf(&sb, " %c |", ch)
			}
		}
		fmt.Fprintf(&sb, " %d\n", rank+1)
		if rank == riverRank+1 {
			sb.WriteString(" |............river............|\n")
		} else {
			sb.WriteString(" +---+---+---+---+---+---+---+---+---+\n")
		}
	}
	sb.WriteString("   a   b   c   d   e   f   g   h   i\n")
	return sb.String()
}

func isPalaceDiagonal(file, rank int) bool {
	if file < palaceFileMin || file > palaceFileMax {
		return false
	}
	return rank == 0 || rank == 2 || rank == NumRanks-1 || rank == NumRanks-3
}

func palaceDiagonalChar(file, rank int) byte {
	// Corners closer to file D / rank 1 or 10 slope one way, the others
	// the other way; purely cosmetic.
	topHalf := rank >= NumRanks-3
	leftHalf := file <= 4
	if topHalf == leftHalf {
		return '\\'
	}
	return '/'
}
