package model

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fenBoard builds a board from the placement and side fields of a FEN string.
func fenBoard(t *testing.T, fen string) Board {
	t.Helper()
	fields := strings.Fields(fen)
	require.GreaterOrEqual(t, len(fields), 2, "fen %q", fen)

	rows := strings.Split(fields[0], "/")
	require.Len(t, rows, 8)
	lines := make([]string, 8)
	for i, row := range rows {
		var tokens []string
		for _, c := range row {
			if c >= '1' && c <= '8' {
				for n := 0; n < int(c-'0'); n++ {
					tokens = append(tokens, emptyToken)
				}
				continue
			}
			team := "w"
			if c >= 'a' && c <= 'z' {
				team = "b"
			}
			tokens = append(tokens, team+strings.ToUpper(string(c)))
		}
		require.Len(t, tokens, 8, "fen row %q", row)
		lines[7-i] = strings.Join(tokens, ",")
	}

	team, err := ParseTeam(fields[1])
	require.NoError(t, err)
	b, err := ParseBoard(strings.Join(lines, "\n"), team)
	require.NoError(t, err)
	return b
}

func sq(b Board, name string) Square {
	pos, err := ParsePosition(name)
	if err != nil {
		panic(err)
	}
	return b.Square(pos)
}

func targets[M interface{ String() string }](moves []M) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}
	return out
}

func TestNewBoard(t *testing.T) {
	b := NewBoard()
	assert.Equal(t, TeamWhite, b.Team())

	piece, ok := b.At(mustPosition(0, 4))
	require.True(t, ok)
	assert.Equal(t, Piece{Type: King, Team: TeamWhite}, piece)

	piece, ok = b.At(mustPosition(7, 3))
	require.True(t, ok)
	assert.Equal(t, Piece{Type: Queen, Team: TeamBlack}, piece)

	_, ok = b.At(mustPosition(4, 4))
	assert.False(t, ok)

	assert.Len(t, b.EnumeratePieces(TeamWhite), 16)
	assert.Len(t, b.EnumeratePieces(TeamBlack), 16)
	assert.False(t, b.Equal(emptyBoard(TeamWhite)))
}

func TestStartingPositionHasTwentyMoves(t *testing.T) {
	moves := NewBoard().TeamLegalMoves()
	require.Len(t, moves, 20)

	var pawns, knights int
	for _, m := range moves {
		assert.Equal(t, TeamWhite, m.Team())
		assert.False(t, m.IsCapture())
		switch m.Piece().Type {
		case Pawn:
			pawns++
		case Knight:
			knights++
		default:
			t.Errorf("unexpected mover %s", m)
		}
	}
	assert.Equal(t, 16, pawns)
	assert.Equal(t, 4, knights)
}

func TestIsEmptyBetween(t *testing.T) {
	b := NewBoard()
	tests := []struct {
		from, to string
		want     bool
	}{
		{"b2", "b7", true},
		{"b2", "b8", false},
		{"b2", "d4", true},
		{"f2", "b6", true},
		{"a1", "a3", false},
		{"a1", "a2", true},
		{"h1", "a8", false},
	}
	for _, tt := range tests {
		from, _ := ParsePosition(tt.from)
		to, _ := ParsePosition(tt.to)
		assert.Equal(t, tt.want, b.IsEmptyBetween(from, to), "%s..%s", tt.from, tt.to)
	}
}

func TestIsEmptyBetweenRejectsOffLine(t *testing.T) {
	b := NewBoard()
	assert.Panics(t, func() { b.IsEmptyBetween(mustPosition(0, 1), mustPosition(2, 2)) })
}

func TestSlidersBlockedByOwnPawns(t *testing.T) {
	b := NewBoard()
	corner := sq(b, "a1")
	assert.Empty(t, b.PossibleMoves(corner))
	assert.Empty(t, b.LegalMovesFrom(corner))

	// a2-a4 then a7-a6 opens the a-file for the rook
	b = play(t, b, "a2", "a4")
	b = play(t, b, "a7", "a6")
	got := targets(b.LegalMovesFrom(sq(b, "a1")))
	assert.Equal(t, []string{"Ra1-a2", "Ra1-a3"}, got)
}

func TestPawnCannotCaptureForwardOrMoveDiagonally(t *testing.T) {
	b := fenBoard(t, "4k3/8/8/8/3p4/3P4/8/4K3 w - - 0 1")
	assert.Empty(t, b.PossibleMoves(sq(b, "d3")))

	b = fenBoard(t, "4k3/8/8/8/2p1p3/3P4/8/4K3 w - - 0 1")
	got := targets(b.PossibleMoves(sq(b, "d3")))
	assert.ElementsMatch(t, []string{"Pd3-d4", "Pd3xc4", "Pd3xe4"}, got)
}

func TestPawnDoubleAdvanceBlockedByPiece(t *testing.T) {
	b := fenBoard(t, "4k3/8/8/8/8/4n3/4P3/4K3 w - - 0 1")
	assert.Empty(t, b.PossibleMoves(sq(b, "e2")))
}

func TestEmptySquareHasNoMoves(t *testing.T) {
	b := NewBoard()
	assert.Empty(t, b.PossibleMoves(sq(b, "e4")))
	assert.Empty(t, b.LegalMovesFrom(sq(b, "e4")))
}

func TestLegalMovesOnlyForSideToMove(t *testing.T) {
	b := NewBoard()
	assert.Empty(t, b.LegalMovesFrom(sq(b, "b8")))
	assert.Len(t, b.PossibleMoves(sq(b, "b8")), 2)
}

func TestAttackedSquares(t *testing.T) {
	b := NewBoard()
	got := targets(b.AttackedSquares(TeamWhite))
	// 16 pawn pushes land on 16 distinct squares; knight jumps reuse a3, c3, f3, h3
	assert.Len(t, got, 16)

	b = fenBoard(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	attacked := make(map[string]bool)
	for _, s := range b.AttackedSquares(TeamWhite) {
		attacked[s.Pos().String()] = true
	}
	assert.True(t, attacked["a8"])
	assert.True(t, attacked["d1"])
	assert.False(t, attacked["e1"], "own pieces are never attacked")
	assert.True(t, attacked["f1"], "the king covers its neighbours")
	assert.False(t, attacked["g1"], "rook is blocked by its own king")
	assert.False(t, attacked["h1"], "rook is blocked by its own king")
}

func TestReadOnlyOperationsAreRepeatable(t *testing.T) {
	b := fenBoard(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w - - 0 1")
	before := b

	opts := cmp.Comparer(func(x, y Board) bool { return x.Equal(y) })
	assert.Equal(t, targets(b.PossibleMoves(sq(b, "f3"))), targets(b.PossibleMoves(sq(b, "f3"))))
	assert.Equal(t, targets(b.AttackedSquares(TeamBlack)), targets(b.AttackedSquares(TeamBlack)))
	assert.Equal(t, targets(b.TeamLegalMoves()), targets(b.TeamLegalMoves()))
	if diff := cmp.Diff(before, b, opts); diff != "" {
		t.Errorf("board changed (-before +after):\n%s", diff)
	}
	assert.Equal(t, before.Text(), b.Text())
}
