package notation

import (
	"testing"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		text      string
		piece     model.PieceType
		from, to  string
		separated bool
		capture   bool
	}{
		{"e2e4", "", "e2", "e4", false, false},
		{" e2-e4 ", "", "e2", "e4", true, false},
		{"Ng1-f3", model.Knight, "g1", "f3", true, false},
		{"Bc4xf7", model.Bishop, "c4", "f7", true, true},
		{"Ka1b2", model.King, "a1", "b2", false, false},
		{"b1c3", "", "b1", "c3", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			cmd, err := Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.piece, cmd.Piece)
			assert.Equal(t, tt.from, cmd.From.String())
			assert.Equal(t, tt.to, cmd.To.String())
			assert.Equal(t, tt.separated, cmd.Separated)
			assert.Equal(t, tt.capture, cmd.Capture)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, text := range []string{"", "e2", "e2e", "e2+e4", "e9e4", "i2e4", "Xe2e4", "Qe2e4e5", "O-O"} {
		_, err := Parse(text)
		assert.ErrorIs(t, err, ErrSyntax, "Parse(%q)", text)
	}
}

func TestCommandString(t *testing.T) {
	for _, text := range []string{"e2e4", "e2-e4", "Ng1-f3", "Bc4xf7"} {
		cmd, err := Parse(text)
		require.NoError(t, err)
		assert.Equal(t, text, cmd.String())
	}
}

func TestMatch(t *testing.T) {
	b := model.NewBoard()
	moves := b.TeamLegalMoves()

	cmd, err := Parse("Ng1-f3")
	require.NoError(t, err)
	m, err := Match(cmd, moves)
	require.NoError(t, err)
	assert.Equal(t, "g1", m.From().String())
	assert.Equal(t, "f3", m.To().String())

	cmd, _ = Parse("e2xe4")
	_, err = Match(cmd, moves)
	assert.ErrorIs(t, err, ErrCaptureMismatch)

	cmd, _ = Parse("Be2-e4")
	_, err = Match(cmd, moves)
	assert.ErrorIs(t, err, ErrPieceMismatch)

	cmd, _ = Parse("e2e5")
	_, err = Match(cmd, moves)
	assert.ErrorIs(t, err, ErrNoSuchMove)

	// black's moves are not offered on white's turn
	cmd, _ = Parse("e7e5")
	_, err = Match(cmd, moves)
	assert.ErrorIs(t, err, ErrNoSuchMove)
}

func TestMatchCapture(t *testing.T) {
	b, err := model.ParseBoard(""+
		"  ,  ,  ,  ,wK,  ,  ,  \n"+
		"  ,  ,  ,  ,  ,  ,  ,  \n"+
		"  ,  ,  ,  ,  ,  ,  ,  \n"+
		"  ,  ,  ,  ,wP,  ,  ,  \n"+
		"  ,  ,  ,bP,  ,  ,  ,  \n"+
		"  ,  ,  ,  ,  ,  ,  ,  \n"+
		"  ,  ,  ,  ,  ,  ,  ,  \n"+
		"  ,  ,  ,  ,bK,  ,  ,  ", model.TeamWhite)
	require.NoError(t, err)

	cmd, err := Parse("e4xd5")
	require.NoError(t, err)
	m, err := Chooser(cmd)(b.TeamLegalMoves())
	require.NoError(t, err)
	assert.True(t, m.IsCapture())

	cmd, _ = Parse("e4d5")
	m, err = Match(cmd, b.TeamLegalMoves())
	require.NoError(t, err, "compact form does not check the capture flag")
	assert.True(t, m.IsCapture())

	cmd, _ = Parse("e4-d5")
	_, err = Match(cmd, b.TeamLegalMoves())
	assert.ErrorIs(t, err, ErrCaptureMismatch)
}
