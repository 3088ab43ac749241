package model

import "fmt"

// RawMove is a geometric from/to pair with no occupancy semantics.
type RawMove struct {
	From Position
	To   Position
}

// Square is a snapshot of one board cell taken when a move was generated.
type Square struct {
	pos      Position
	piece    Piece
	occupied bool
}

func (s Square) Pos() Position { return s.pos }

func (s Square) Content() (Piece, bool) {
	return s.piece, s.occupied
}

func (s Square) String() string { return s.pos.String() }

type MoveKind string

const (
	MoveSimple  MoveKind = "simple"
	MoveCapture MoveKind = "capture"
)

// Move is a pseudo-legal candidate: it respects piece geometry and
// occupancy but has not been checked for king safety.
type Move struct {
	Kind MoveKind
	From Square
	To   Square
}

func (m Move) IsCapture() bool { return m.Kind == MoveCapture }

func (m Move) String() string {
	piece, _ := m.From.Content()
	sep := "-"
	if m.IsCapture() {
		sep = "x"
	}
	return fmt.Sprintf("%c%s%s%s", piece.Type.Code(), m.From.pos, sep, m.To.pos)
}

// LegalMove is a Move that passed check filtering on a board where team was
// to move. Only Board can create one.
type LegalMove struct {
	move Move
	team Team
}

func (m LegalMove) Move() Move { return m.move }
func (m LegalMove) Team() Team { return m.team }
func (m LegalMove) From() Position { return m.move.From.pos }
func (m LegalMove) To() Position { return m.move.To.pos }
func (m LegalMove) IsCapture() bool { return m.move.IsCapture() }
func (m LegalMove) Piece() Piece { return m.move.From.piece }
func (m LegalMove) String() string { return m.move.String() }
func (m LegalMove) Captured() (Piece, bool) { return m.move.To.Content() }

// MoveView is the transport form of a legal move.
type MoveView struct {
	From    Position `json:"from"`
	To      Position `json:"to"`
	Piece   Piece    `json:"piece"`
	Capture bool     `json:"capture"`
	Text    string   `json:"notation"`
}

func (m LegalMove) View() MoveView {
	return MoveView{
		From:    m.From(),
		To:      m.To(),
		Piece:   m.Piece(),
		Capture: m.IsCapture(),
		Text:    m.String(),
	}
}
