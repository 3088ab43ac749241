package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbeisheim/chessrules-backend/internal/model"
)

func TestPlayFoolsMate(t *testing.T) {
	in := strings.NewReader("f2f3\ne7-e5\nbogus\ng2g4\nQd8xh4\nQd8-h4\n")
	var out strings.Builder

	final := play(model.NewBoard(), in, &out)

	text := out.String()
	assert.Contains(t, text, "invalid move notation")
	assert.Contains(t, text, "capture flag does not match")
	assert.Contains(t, text, "white is in check")
	assert.True(t, strings.HasSuffix(text, "white has no legal moves\n"))
	assert.Equal(t, model.TeamWhite, final.Team())
}

func TestPlayStopsAtEndOfInput(t *testing.T) {
	var out strings.Builder
	final := play(model.NewBoard(), strings.NewReader("e2e4\n"), &out)

	assert.Equal(t, model.TeamBlack, final.Team())
	assert.Contains(t, out.String(), "played Pe2-e4")
}

func TestLoadBoard(t *testing.T) {
	start := model.NewBoard()
	path := filepath.Join(t.TempDir(), "board.txt")
	require.NoError(t, os.WriteFile(path, []byte(start.Text()), 0o600))

	b, err := loadBoard(path, true)
	require.NoError(t, err)
	assert.Equal(t, model.TeamBlack, b.Team())

	b, err = loadBoard("", false)
	require.NoError(t, err)
	assert.True(t, b.Equal(start))

	_, err = loadBoard(filepath.Join(t.TempDir(), "missing"), false)
	assert.Error(t, err)
}
