package model

import "fmt"

// Team is one of the two sides. White always has the first move.
type Team string

const (
	TeamWhite Team = "white"
	TeamBlack Team = "black"
)

// Enemy returns the opposing side.
func (t Team) Enemy() Team {
	if t == TeamWhite {
		return TeamBlack
	}
	return TeamWhite
}

// Direction is the rank step of a forward pawn move.
func (t Team) Direction() int {
	if t == TeamWhite {
		return 1
	}
	return -1
}

func (t Team) pawnHomeRank() int {
	if t == TeamWhite {
		return 1
	}
	return 6
}

func (t Team) code() byte {
	if t == TeamWhite {
		return 'w'
	}
	return 'b'
}

func teamFromCode(c byte) (Team, error) {
	switch c {
	case 'w':
		return TeamWhite, nil
	case 'b':
		return TeamBlack, nil
	}
	return "", fmt.Errorf("unknown team %q", c)
}

// ParseTeam accepts "white"/"black" as well as the single-letter codes.
func ParseTeam(s string) (Team, error) {
	switch s {
	case "white", "w":
		return TeamWhite, nil
	case "black", "b":
		return TeamBlack, nil
	}
	return "", fmt.Errorf("unknown team %q", s)
}

// PieceType names a kind of chessman.
type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// Code is the single-character letter used in board text and move notation.
func (p PieceType) Code() byte {
	switch p {
	case King:
		return 'K'
	case Queen:
		return 'Q'
	case Rook:
		return 'R'
	case Bishop:
		return 'B'
	case Knight:
		return 'N'
	case Pawn:
		return 'P'
	}
	return '?'
}

// PieceTypeFromCode is the inverse of Code.
func PieceTypeFromCode(c byte) (PieceType, error) {
	switch c {
	case 'K':
		return King, nil
	case 'Q':
		return Queen, nil
	case 'R':
		return Rook, nil
	case 'B':
		return Bishop, nil
	case 'N':
		return Knight, nil
	case 'P':
		return Pawn, nil
	}
	return "", fmt.Errorf("unknown piece type %q", c)
}

func (p PieceType) slides() bool {
	return p == Rook || p == Bishop || p == Queen
}
