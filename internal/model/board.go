package model

import "fmt"

type cell struct {
	piece    Piece
	occupied bool
}

// Board is an 8x8 grid of optional pieces tagged with the side to move.
// It is a value: every transformation returns a new Board and the receiver
// is never modified.
type Board struct {
	grid   [boardSize][boardSize]cell
	toMove Team
}

const startingPosition = "" +
	"wR,wN,wB,wQ,wK,wB,wN,wR\n" +
	"wP,wP,wP,wP,wP,wP,wP,wP\n" +
	"  ,  ,  ,  ,  ,  ,  ,  \n" +
	"  ,  ,  ,  ,  ,  ,  ,  \n" +
	"  ,  ,  ,  ,  ,  ,  ,  \n" +
	"  ,  ,  ,  ,  ,  ,  ,  \n" +
	"bP,bP,bP,bP,bP,bP,bP,bP\n" +
	"bR,bN,bB,bQ,bK,bB,bN,bR"

// NewBoard returns the standard starting position with White to move.
func NewBoard() Board {
	b, err := ParseBoard(startingPosition, TeamWhite)
	if err != nil {
		panic(fmt.Sprintf("starting position: %v", err))
	}
	return b
}

func emptyBoard(toMove Team) Board {
	return Board{toMove: toMove}
}

// At returns the piece on pos, if any.
func (b Board) At(pos Position) (Piece, bool) {
	c := b.grid[pos.rank][pos.file]
	return c.piece, c.occupied
}

// Team is the side whose move it is.
func (b Board) Team() Team {
	return b.toMove
}

// Square snapshots pos together with its content.
func (b Board) Square(pos Position) Square {
	piece, occupied := b.At(pos)
	return Square{pos: pos, piece: piece, occupied: occupied}
}

func (b *Board) set(pos Position, piece Piece, occupied bool) {
	b.grid[pos.rank][pos.file] = cell{piece: piece, occupied: occupied}
}

func (b *Board) clear(pos Position) {
	b.grid[pos.rank][pos.file] = cell{}
}

// Equal compares the observable state of two boards. HasMoved only matters
// for pawns, so it is ignored for every other piece type.
func (b Board) Equal(other Board) bool {
	if b.toMove != other.toMove {
		return false
	}
	for rank := 0; rank < boardSize; rank++ {
		for file := 0; file < boardSize; file++ {
			x, y := b.grid[rank][file], other.grid[rank][file]
			if x.occupied != y.occupied {
				return false
			}
			if !x.occupied {
				continue
			}
			if x.piece.Type != y.piece.Type || x.piece.Team != y.piece.Team {
				return false
			}
			if x.piece.Type == Pawn && x.piece.HasMoved != y.piece.HasMoved {
				return false
			}
		}
	}
	return true
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// IsEmptyBetween reports whether every cell strictly between from and to is
// empty. from and to must share a rank, a file or a diagonal.
func (b Board) IsEmptyBetween(from, to Position) bool {
	dRank := to.rank - from.rank
	dFile := to.file - from.file
	if dRank != 0 && dFile != 0 && abs(dRank) != abs(dFile) {
		panic(fmt.Sprintf("IsEmptyBetween: %s and %s are not on a line", from, to))
	}
	stepRank, stepFile := sign(dRank), sign(dFile)

	pos, ok := from.Add(stepRank, stepFile)
	if !ok {
		return false
	}
	for pos != to {
		if _, occupied := b.At(pos); occupied {
			return false
		}
		if pos, ok = pos.Add(stepRank, stepFile); !ok {
			return false
		}
	}
	return true
}

// PossibleMoves returns the pseudo-legal moves of the piece on sq. The
// snapshot in sq is trusted; an empty square has no moves.
func (b Board) PossibleMoves(sq Square) []Move {
	piece, ok := sq.Content()
	if !ok {
		return nil
	}

	var moves []Move
	for _, raw := range piece.RawMoves(sq.pos) {
		target, occupied := b.At(raw.To)
		if occupied && target.Team == piece.Team {
			continue
		}
		switch {
		case piece.Type.slides():
			if !b.IsEmptyBetween(raw.From, raw.To) {
				continue
			}
		case piece.Type == Pawn:
			if raw.From.file == raw.To.file {
				// forward pushes need an empty target, and the double
				// push must not jump over a piece
				if occupied || !b.IsEmptyBetween(raw.From, raw.To) {
					continue
				}
			} else if !occupied {
				continue
			}
		}

		kind := MoveSimple
		if occupied {
			kind = MoveCapture
		}
		moves = append(moves, Move{Kind: kind, From: sq, To: b.Square(raw.To)})
	}
	return moves
}

// EnumeratePieces snapshots every square holding a piece of team, scanning
// rank by rank from a1.
func (b Board) EnumeratePieces(team Team) []Square {
	var squares []Square
	for rank := 0; rank < boardSize; rank++ {
		for file := 0; file < boardSize; file++ {
			c := b.grid[rank][file]
			if c.occupied && c.piece.Team == team {
				squares = append(squares, Square{pos: Position{rank: rank, file: file}, piece: c.piece, occupied: true})
			}
		}
	}
	return squares
}

// AttackedSquares is the set of squares team could move a piece onto if it
// were team's turn, with blocking taken into account.
func (b Board) AttackedSquares(team Team) []Square {
	seen := make(map[Position]bool)
	var attacked []Square
	for _, sq := range b.EnumeratePieces(team) {
		for _, mv := range b.PossibleMoves(sq) {
			if seen[mv.To.pos] {
				continue
			}
			seen[mv.To.pos] = true
			attacked = append(attacked, mv.To)
		}
	}
	return attacked
}
