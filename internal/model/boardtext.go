package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const emptyToken = "  "

// ErrMalformedBoard wraps every error returned by ParseBoard.
var ErrMalformedBoard = errors.New("malformed board")

// ParseBoard reads the text form written by Board.Text: eight lines, rank 1
// first, each holding eight comma-separated two-character tokens. A token is
// either two spaces or a team letter (w, b) followed by a piece letter.
// Pawns standing off their home rank are marked as moved.
func ParseBoard(text string, toMove Team) (Board, error) {
	if toMove != TeamWhite && toMove != TeamBlack {
		return Board{}, fmt.Errorf("%w: unknown side to move %q", ErrMalformedBoard, toMove)
	}
	b := emptyBoard(toMove)

	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var lines []string
	if text != "" {
		lines = strings.Split(text, "\n")
	}
	for rank := 0; rank < boardSize; rank++ {
		if rank >= len(lines) {
			return Board{}, fmt.Errorf("%w: missing rank %d", ErrMalformedBoard, rank+1)
		}
		tokens := strings.Split(lines[rank], ",")
		for file := 0; file < boardSize; file++ {
			if file >= len(tokens) {
				return Board{}, fmt.Errorf("%w: missing square in rank %d file %d", ErrMalformedBoard, rank+1, file+1)
			}
			if tokens[file] == emptyToken {
				continue
			}
			piece, err := ParsePiece(tokens[file])
			if err != nil {
				return Board{}, fmt.Errorf("%w: rank %d file %d: %v", ErrMalformedBoard, rank+1, file+1, err)
			}
			if piece.Type == Pawn && rank != piece.Team.pawnHomeRank() {
				piece.HasMoved = true
			}
			b.grid[rank][file] = cell{piece: piece, occupied: true}
		}
		if len(tokens) > boardSize {
			return Board{}, fmt.Errorf("%w: too many squares in rank %d", ErrMalformedBoard, rank+1)
		}
	}
	if len(lines) > boardSize {
		return Board{}, fmt.Errorf("%w: too many ranks", ErrMalformedBoard)
	}
	return b, nil
}

// Text writes the board in the form read by ParseBoard.
func (b Board) Text() string {
	var sb strings.Builder
	for rank := 0; rank < boardSize; rank++ {
		for file := 0; file < boardSize; file++ {
			if file > 0 {
				sb.WriteByte(',')
			}
			c := b.grid[rank][file]
			if c.occupied {
				sb.WriteString(c.piece.String())
			} else {
				sb.WriteString(emptyToken)
			}
		}
		if rank < boardSize-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// String draws the board for a terminal, rank 8 at the top.
func (b Board) String() string {
	var sb strings.Builder
	for rank := boardSize - 1; rank >= 0; rank-- {
		sb.WriteString(strconv.Itoa(rank + 1))
		sb.WriteByte('|')
		for file := 0; file < boardSize; file++ {
			c := b.grid[rank][file]
			if c.occupied {
				sb.WriteString(c.piece.String())
			} else {
				sb.WriteString(emptyToken)
			}
			sb.WriteByte('|')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a  b  c  d  e  f  g  h")
	return sb.String()
}

// Grid returns the board as rows of optional pieces, rank 1 first.
func (b Board) Grid() [][]*Piece {
	rows := make([][]*Piece, boardSize)
	for rank := 0; rank < boardSize; rank++ {
		rows[rank] = make([]*Piece, boardSize)
		for file := 0; file < boardSize; file++ {
			if c := b.grid[rank][file]; c.occupied {
				piece := c.piece
				rows[rank][file] = &piece
			}
		}
	}
	return rows
}
