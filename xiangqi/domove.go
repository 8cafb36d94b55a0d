package xiangqi

// DoMove plays m, chaining st onto the position's current StateInfo. The
// caller owns st's storage (typically a per-ply array on its search stack),
// matching original_source's Position::do_move(Move, StateInfo&) contract;
// there is no copy-make here, only incremental updates (SPEC_FULL §4.H).
func (p *Position) DoMove(m Move, st *StateInfo) {
	us := p.sideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	moved := p.board[from]

	*st = *p.st
	st.Previous = p.st
	p.st = st

	st.PliesFromNull++

	captured := p.board[to]
	if captured != NoPiece {
		capPc, capIdx, capLast, capCount := p.removePiece(to)
		st.CapturedPiece = capPc
		st.capturedIdx = capIdx
		st.capturedLastSquare = capLast
		st.capturedCountBefore = capCount

		st.Key ^= zobristPieceSquare[capPc][to]
		st.Psq -= pieceSquareValue(capPc, to)
		if capPc.Type() != Soldier && capPc.Type() != General {
			st.NonPawnMaterial[them] -= PieceValue[capPc.Type()]
		} else if capPc.Type() == Soldier {
			st.PawnKey ^= zobristPieceSquare[capPc][to]
		}
		st.MaterialKey ^= zobristPieceSquare[capPc][capCount] ^ zobristPieceSquare[capPc][capCount-1]
		st.PliesFromNull = 0
	} else {
		st.CapturedPiece = NoPiece
	}

	p.movePiece(moved, from, to)

	st.Key ^= zobristPieceSquare[moved][from] ^ zobristPieceSquare[moved][to]
	st.Psq += pieceSquareValue(moved, to) - pieceSquareValue(moved, from)
	if moved.Type() == Soldier {
		st.PawnKey ^= zobristPieceSquare[moved][from] ^ zobristPieceSquare[moved][to]
	}

	st.Key ^= zobristSide
	p.sideToMove = them
	p.gamePly++
	p.nodes++

	p.setCheckInfoAfterMove()
}

// setCheckInfoAfterMove recomputes CheckersBB for the side now to move and
// refreshes pin/blocker/checkSquares, split out from setState since a FEN
// load must rebuild everything while a make-move only needs this tail.
func (p *Position) setCheckInfoAfterMove() {
	st := p.st
	us := p.sideToMove
	ourKsq := p.SquareOf(us, General)
	st.CheckersBB = p.attackersTo(ourKsq, p.Pieces()).Intersect(p.byColorBB[us.Other()])
	p.setCheckInfo()
}

// UndoMove reverses the most recent DoMove, restoring sideToMove, piece
// placement and the StateInfo chain to exactly their prior values.
func (p *Position) UndoMove(m Move) {
	p.sideToMove = p.sideToMove.Other()
	from, to := m.From(), m.To()
	moved := p.board[to]

	p.movePiece(moved, to, from)

	st := p.st
	if st.CapturedPiece != NoPiece {
		p.restorePiece(st.CapturedPiece, to, st.capturedIdx, st.capturedLastSquare, st.capturedCountBefore)
	}

	p.gamePly--
	p.st = st.Previous
}

// DoNullMove flips the side to move without touching the board, used by
// null-move pruning in a search layer built on this package.
func (p *Position) DoNullMove(st *StateInfo) {
	*st = *p.st
	st.Previous = p.st
	p.st = st

	st.Key ^= zobristSide
	st.PliesFromNull = 0
	st.CapturedPiece = NoPiece

	p.sideToMove = p.sideToMove.Other()
	p.gamePly++

	p.setCheckInfoAfterMove()
}

func (p *Position) UndoNullMove() {
	p.sideToMove = p.sideToMove.Other()
	p.gamePly--
	p.st = p.st.Previous
}
