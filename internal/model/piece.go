package model

import "fmt"

type Piece struct {
	Type     PieceType `json:"type"`
	Team     Team      `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

type offset struct {
	rank int
	file int
}

var (
	rookDirs   = []offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = []offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs  = append(append([]offset{}, rookDirs...), bishopDirs...)
	knightDirs = []offset{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
)

// RawMoves lists every destination the piece could reach from an empty
// board, ignoring occupancy. Offsets that would leave the board are dropped.
func (p Piece) RawMoves(from Position) []RawMove {
	var offsets []offset
	switch p.Type {
	case King:
		offsets = queenDirs
	case Queen:
		offsets = rays(queenDirs)
	case Rook:
		offsets = rays(rookDirs)
	case Bishop:
		offsets = rays(bishopDirs)
	case Knight:
		offsets = knightDirs
	case Pawn:
		dir := p.Team.Direction()
		offsets = []offset{{dir, 0}, {dir, -1}, {dir, 1}}
		if !p.HasMoved {
			offsets = append(offsets, offset{2 * dir, 0})
		}
	}

	moves := make([]RawMove, 0, len(offsets))
	for _, o := range offsets {
		if to, ok := from.Add(o.rank, o.file); ok {
			moves = append(moves, RawMove{From: from, To: to})
		}
	}
	return moves
}

// rays expands unit directions to every distance from 1 to 7.
func rays(dirs []offset) []offset {
	out := make([]offset, 0, len(dirs)*(boardSize-1))
	for _, d := range dirs {
		for i := 1; i < boardSize; i++ {
			out = append(out, offset{d.rank * i, d.file * i})
		}
	}
	return out
}

// Touch marks the piece as having been the origin of an applied move.
func (p Piece) Touch() Piece {
	p.HasMoved = true
	return p
}

// String is the board text token, team letter first.
func (p Piece) String() string {
	return string([]byte{p.Team.code(), p.Type.Code()})
}

// ParsePiece reads a two-character token such as "wK" or "bP".
func ParsePiece(s string) (Piece, error) {
	if len(s) != 2 {
		return Piece{}, fmt.Errorf("piece token %q must be two characters", s)
	}
	team, err := teamFromCode(s[0])
	if err != nil {
		return Piece{}, err
	}
	pieceType, err := PieceTypeFromCode(s[1])
	if err != nil {
		return Piece{}, err
	}
	return Piece{Type: pieceType, Team: team}, nil
}
