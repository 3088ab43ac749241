// Command chess plays a two-sided game on the terminal.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/notation"
)

var logger = log.New(os.Stderr, "[chess] ", log.LstdFlags)

// play reads one move per line from in until the side to move has no legal
// moves, the input ends, or "quit" is entered. It returns the final board.
func play(board model.Board, in io.Reader, out io.Writer) model.Board {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintln(out, board)

		if board.InCheck() {
			fmt.Fprintf(out, "%s is in check\n", board.Team())
		}
		moves := board.TeamLegalMoves()
		if len(moves) == 0 {
			fmt.Fprintf(out, "%s has no legal moves\n", board.Team())
			return board
		}
		fmt.Fprintf(out, "%s to move: ", board.Team())

		if !scanner.Scan() {
			fmt.Fprintln(out)
			return board
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			return board
		}

		cmd, err := notation.Parse(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		move, err := notation.Match(cmd, moves)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		next, err := board.ApplyMove(move)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		fmt.Fprintf(out, "played %s\n", move)
		board = next
	}
}

func loadBoard(path string, black bool) (model.Board, error) {
	if path == "" {
		return model.NewBoard(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Board{}, err
	}
	toMove := model.TeamWhite
	if black {
		toMove = model.TeamBlack
	}
	return model.ParseBoard(string(data), toMove)
}

func main() {
	boardFile := flag.String("board", "", "start from the board in this file instead of the initial position")
	black := flag.Bool("black", false, "black moves first when -board is given")
	flag.Parse()

	board, err := loadBoard(*boardFile, *black)
	if err != nil {
		logger.Fatalf("loading board: %v", err)
	}
	play(board, os.Stdin, os.Stdout)
}
