package model

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrWrongSide is returned when a move is applied to a board where the
	// move's team is not the side to move.
	ErrWrongSide = errors.New("move belongs to the other side")
	// ErrStaleMove is returned when a move was generated from a different
	// position than the one it is applied to.
	ErrStaleMove = errors.New("move does not match the board")
)

// IsLegal plays mv on a scratch copy and reports whether the mover's king
// survives: no square the enemy could move onto next may hold a king.
func (b Board) IsLegal(mv Move) bool {
	piece, ok := mv.From.Content()
	if !ok {
		return false
	}

	scratch := b
	scratch.clear(mv.From.pos)
	scratch.set(mv.To.pos, piece, true)

	for _, sq := range scratch.AttackedSquares(piece.Team.Enemy()) {
		if target, occupied := sq.Content(); occupied && target.Type == King {
			return false
		}
	}
	return true
}

// LegalMovesFrom returns the legal moves of the piece on sq. Squares that do
// not hold a piece of the side to move have none.
func (b Board) LegalMovesFrom(sq Square) []LegalMove {
	piece, ok := sq.Content()
	if !ok || piece.Team != b.toMove {
		return nil
	}

	var legal []LegalMove
	for _, mv := range b.PossibleMoves(sq) {
		if b.IsLegal(mv) {
			legal = append(legal, LegalMove{move: mv, team: b.toMove})
		}
	}
	return legal
}

// LegalMovesAt is LegalMovesFrom for a freshly taken snapshot of pos.
func (b Board) LegalMovesAt(pos Position) []LegalMove {
	return b.LegalMovesFrom(b.Square(pos))
}

// TeamLegalMoves returns every legal move of the side to move. An empty
// result means the game is over.
func (b Board) TeamLegalMoves() []LegalMove {
	var legal []LegalMove
	for _, sq := range b.EnumeratePieces(b.toMove) {
		legal = append(legal, b.LegalMovesFrom(sq)...)
	}
	return legal
}

// ParallelTeamLegalMoves computes the same moves as TeamLegalMoves, in the
// same order, checking each piece on its own goroutine.
func (b Board) ParallelTeamLegalMoves(ctx context.Context) ([]LegalMove, error) {
	pieces := b.EnumeratePieces(b.toMove)
	perPiece := make([][]LegalMove, len(pieces))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, sq := range pieces {
		i, sq := i, sq
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			perPiece[i] = b.LegalMovesFrom(sq)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var legal []LegalMove
	for _, moves := range perPiece {
		legal = append(legal, moves...)
	}
	return legal, nil
}

// InCheck reports whether the king of the side to move is attacked.
func (b Board) InCheck() bool {
	for _, sq := range b.AttackedSquares(b.toMove.Enemy()) {
		if target, ok := sq.Content(); ok && target.Type == King && target.Team == b.toMove {
			return true
		}
	}
	return false
}

// ApplyMove plays mv and returns the resulting board, now with the other
// side to move. mv must come from this board's legal moves.
func (b Board) ApplyMove(mv LegalMove) (Board, error) {
	if mv.team == "" || mv.team != b.toMove {
		return Board{}, fmt.Errorf("%w: %s to move", ErrWrongSide, b.toMove)
	}
	if b.Square(mv.From()) != mv.move.From || b.Square(mv.To()) != mv.move.To {
		return Board{}, fmt.Errorf("%w: %s", ErrStaleMove, mv)
	}

	next := b
	next.clear(mv.From())
	next.set(mv.To(), mv.Piece().Touch(), true)
	next.toMove = b.toMove.Enemy()
	return next, nil
}
