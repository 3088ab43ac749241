// Package notation turns typed moves into one of the legal moves of a board.
//
// Accepted forms are an optional piece letter, the origin square, an optional
// separator and the destination square: "e2e4", "e2-e4", "Ng1-f3", "Bc4xf7".
// A '-' separator promises a quiet move and an 'x' promises a capture.
package notation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benbeisheim/chessrules-backend/internal/model"
)

var (
	ErrSyntax          = errors.New("invalid move notation")
	ErrNoSuchMove      = errors.New("no legal move matches")
	ErrCaptureMismatch = errors.New("capture flag does not match the move")
	ErrPieceMismatch   = errors.New("piece letter does not match the moving piece")
)

// Command is a parsed move request.
type Command struct {
	Piece model.PieceType // empty when no letter was given
	From  model.Position
	To    model.Position
	// Separated is set when the text used '-' or 'x'; Capture is then the
	// promised move kind.
	Separated bool
	Capture   bool
}

func (c Command) String() string {
	var sb strings.Builder
	if c.Piece != "" {
		sb.WriteByte(c.Piece.Code())
	}
	sb.WriteString(c.From.String())
	if c.Separated {
		if c.Capture {
			sb.WriteByte('x')
		} else {
			sb.WriteByte('-')
		}
	}
	sb.WriteString(c.To.String())
	return sb.String()
}

// Parse reads one move request. Surrounding whitespace is ignored.
func Parse(text string) (Command, error) {
	s := strings.TrimSpace(text)
	var cmd Command

	if s != "" && strings.IndexByte("KQRNBP", s[0]) >= 0 {
		pieceType, err := model.PieceTypeFromCode(s[0])
		if err != nil {
			return Command{}, fmt.Errorf("%w: %q: %v", ErrSyntax, text, err)
		}
		cmd.Piece = pieceType
		s = s[1:]
	}

	switch len(s) {
	case 4:
	case 5:
		switch s[2] {
		case '-':
		case 'x':
			cmd.Capture = true
		default:
			return Command{}, fmt.Errorf("%w: %q: unknown separator %q", ErrSyntax, text, s[2])
		}
		cmd.Separated = true
		s = s[:2] + s[3:]
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrSyntax, text)
	}

	var err error
	if cmd.From, err = model.ParsePosition(s[:2]); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if cmd.To, err = model.ParsePosition(s[2:]); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return cmd, nil
}

// Match finds the legal move cmd describes.
func Match(cmd Command, moves []model.LegalMove) (model.LegalMove, error) {
	for _, m := range moves {
		if m.From() != cmd.From || m.To() != cmd.To {
			continue
		}
		if cmd.Piece != "" && m.Piece().Type != cmd.Piece {
			return model.LegalMove{}, fmt.Errorf("%w: %s moves a %s", ErrPieceMismatch, cmd, m.Piece().Type)
		}
		if cmd.Separated && cmd.Capture != m.IsCapture() {
			return model.LegalMove{}, fmt.Errorf("%w: %s", ErrCaptureMismatch, cmd)
		}
		return m, nil
	}
	return model.LegalMove{}, fmt.Errorf("%w: %s", ErrNoSuchMove, cmd)
}

// Chooser adapts a parsed command to model.MoveChooser.
func Chooser(cmd Command) model.MoveChooser {
	return func(moves []model.LegalMove) (model.LegalMove, error) {
		return Match(cmd, moves)
	}
}
