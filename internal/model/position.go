package model

import (
	"encoding/json"
	"fmt"
)

const boardSize = 8

// Position addresses one cell of the board. Both components are always in
// [0,8); the only constructors are NewPosition, Add and ParsePosition.
type Position struct {
	rank int
	file int
}

func NewPosition(rank, file int) (Position, bool) {
	if rank < 0 || rank >= boardSize || file < 0 || file >= boardSize {
		return Position{}, false
	}
	return Position{rank: rank, file: file}, true
}

// mustPosition is NewPosition for constants known to be on the board.
func mustPosition(rank, file int) Position {
	p, ok := NewPosition(rank, file)
	if !ok {
		panic(fmt.Sprintf("position (%d,%d) is off the board", rank, file))
	}
	return p
}

func (p Position) Rank() int { return p.rank }
func (p Position) File() int { return p.file }

// Add offsets p and re-validates bounds in one step.
func (p Position) Add(dRank, dFile int) (Position, bool) {
	return NewPosition(p.rank+dRank, p.file+dFile)
}

// ParsePosition reads algebraic square names: files a-h, ranks 1-8.
func ParsePosition(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	p, ok := NewPosition(int(s[1])-'1', int(s[0])-'a')
	if !ok {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	return p, nil
}

func (p Position) String() string {
	return fmt.Sprintf("%c%d", p.file+'a', p.rank+1)
}

type jsonPosition struct {
	Rank int `json:"rank"`
	File int `json:"file"`
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonPosition{Rank: p.rank, File: p.file})
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var raw jsonPosition
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	pos, ok := NewPosition(raw.Rank, raw.File)
	if !ok {
		return fmt.Errorf("position (%d,%d) is off the board", raw.Rank, raw.File)
	}
	*p = pos
	return nil
}
