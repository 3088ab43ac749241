package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

var (
	ErrGameFull    = errors.New("game is full")
	ErrNotInGame   = errors.New("player not in game")
	ErrNotYourTurn = errors.New("not your turn")
	ErrGameOver    = errors.New("game is over")
	ErrWaiting     = errors.New("waiting for an opponent")
)

var logger = log.New(os.Stderr, "[game] ", log.LstdFlags)

// Connection is the part of a websocket connection a game writes to.
type Connection interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// LockedConn serializes writes to a Connection. A websocket allows one
// writer at a time, and a player's socket is written both by game
// broadcasts and by its own read loop.
type LockedConn struct {
	conn Connection
	mu   sync.Mutex
}

func NewLockedConn(conn Connection) *LockedConn {
	if locked, ok := conn.(*LockedConn); ok {
		return locked
	}
	return &LockedConn{conn: conn}
}

func (c *LockedConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *LockedConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

func (c *LockedConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

func (c *LockedConn) wraps(conn Connection) bool {
	return c == conn || c.conn == conn
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]*LockedConn // playerID -> connection
	mu          sync.RWMutex
}

// Game wraps the current board of one match together with its seats and
// observers. All board changes go through MakeMove.
type Game struct {
	ID          string
	mu          sync.Mutex
	board       Board
	white       string
	black       string
	lastMove    *MoveView
	connections *GameConnections
}

type GameStatus string

const (
	StatusWaiting GameStatus = "waiting"
	StatusActive  GameStatus = "active"
	// StatusOver means the side to move has no legal move. Checkmate and
	// stalemate are not told apart.
	StatusOver GameStatus = "over"
)

type GameState struct {
	ID         string      `json:"id"`
	Board      [][]*Piece  `json:"board"`
	ToMove     Team        `json:"toMove"`
	LegalMoves []MoveView  `json:"legalMoves"`
	InCheck    bool        `json:"isCheck"`
	Status     GameStatus  `json:"status"`
	LastMove   *MoveView   `json:"lastMove"`
	Players    GamePlayers `json:"players"`
}

type GamePlayers struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// MoveChooser picks one of the legal moves of the side to move.
type MoveChooser func(moves []LegalMove) (LegalMove, error)

func NewGame(id string) *Game {
	return RestoreGame(id, NewBoard(), "", "")
}

// RestoreGame rebuilds a game from a saved board and seating.
func RestoreGame(id string, board Board, white, black string) *Game {
	return &Game{
		ID:          id,
		board:       board,
		white:       white,
		black:       black,
		connections: NewGameConnections(),
	}
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*LockedConn),
	}
}

// AddPlayer seats playerID as white, then black. A player already seated
// gets their existing color back.
func (g *Game) AddPlayer(playerID string) (Team, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.colorOf(playerID); ok {
		return color, nil
	}
	if g.white == "" {
		g.white = playerID
		return TeamWhite, nil
	}
	if g.black == "" {
		g.black = playerID
		return TeamBlack, nil
	}
	return "", ErrGameFull
}

// ColorOf reports the side playerID is seated on.
func (g *Game) ColorOf(playerID string) (Team, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.colorOf(playerID)
}

func (g *Game) colorOf(playerID string) (Team, bool) {
	switch {
	case playerID == "":
		return "", false
	case playerID == g.white:
		return TeamWhite, true
	case playerID == g.black:
		return TeamBlack, true
	}
	return "", false
}

func (g *Game) canSpectate() bool {
	return g.white == "" || g.black == ""
}

// Board returns the current position.
func (g *Game) Board() Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board
}

// Seats returns the player IDs of white and black; empty means open.
func (g *Game) Seats() (white, black string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.white, g.black
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state()
}

// legalMoves lists the moves of the side to move. Callers hold g.mu.
func (g *Game) legalMoves() []LegalMove {
	moves, err := g.board.ParallelTeamLegalMoves(context.Background())
	if err != nil {
		logger.Printf("game %s: parallel move generation: %v", g.ID, err)
		return g.board.TeamLegalMoves()
	}
	return moves
}

func (g *Game) state() GameState {
	moves := g.legalMoves()
	views := make([]MoveView, 0, len(moves))
	for _, m := range moves {
		views = append(views, m.View())
	}

	status := StatusActive
	switch {
	case len(moves) == 0:
		status = StatusOver
	case g.white == "" || g.black == "":
		status = StatusWaiting
	}

	return GameState{
		ID:         g.ID,
		Board:      g.board.Grid(),
		ToMove:     g.board.Team(),
		LegalMoves: views,
		InCheck:    g.board.InCheck(),
		Status:     status,
		LastMove:   g.lastMove,
		Players: GamePlayers{
			White: ClientPlayer{ID: g.white, Color: TeamWhite},
			Black: ClientPlayer{ID: g.black, Color: TeamBlack},
		},
	}
}

// LegalMovesAt lists the moves playerID may make from pos right now.
func (g *Game) LegalMovesAt(playerID string, pos Position) ([]LegalMove, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, ok := g.colorOf(playerID)
	if !ok {
		return nil, ErrNotInGame
	}
	if color != g.board.Team() {
		return nil, nil
	}
	return g.board.LegalMovesAt(pos), nil
}

// MakeMove lets choose pick among the legal moves of playerID's side and
// plays it. The resulting state is broadcast to every connection.
func (g *Game) MakeMove(playerID string, choose MoveChooser) (LegalMove, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, ok := g.colorOf(playerID)
	if !ok {
		return LegalMove{}, ErrNotInGame
	}
	if g.white == "" || g.black == "" {
		return LegalMove{}, ErrWaiting
	}
	if color != g.board.Team() {
		return LegalMove{}, ErrNotYourTurn
	}

	moves := g.legalMoves()
	if len(moves) == 0 {
		return LegalMove{}, ErrGameOver
	}
	move, err := choose(moves)
	if err != nil {
		return LegalMove{}, err
	}

	next, err := g.board.ApplyMove(move)
	if err != nil {
		return LegalMove{}, fmt.Errorf("apply %s: %w", move, err)
	}
	g.board = next
	view := move.View()
	g.lastMove = &view
	logger.Printf("game %s: %s played %s", g.ID, color, move)

	g.broadcast(g.state())
	return move, nil
}

// RegisterConnection subscribes conn to the game's state updates. Writes
// through conn are serialized; callers that also write to it should pass a
// LockedConn and write through that.
func (g *Game) RegisterConnection(playerID string, conn Connection) error {
	connID := fmt.Sprintf("%p", conn)
	logger.Printf("starting RegisterConnection for player %s, conn %s", playerID, connID)

	g.mu.Lock()
	_, seated := g.colorOf(playerID)
	isAuthorized := seated || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return errors.New("not authorized to join this game")
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// If we already have a healthy connection, keep it and reject the new one
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil // Not really an error, just rejecting duplicate connection
	}

	g.connections.connections[playerID] = NewLockedConn(conn)
	g.connections.mu.Unlock()
	logger.Printf("registered connection %s for player %s", connID, playerID)

	// Send initial state
	g.mu.Lock()
	state := g.state()
	g.mu.Unlock()
	g.broadcast(state)
	return nil
}

func (g *Game) UnregisterConnection(playerID string, conn Connection) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	current, exists := g.connections.connections[playerID]
	if !exists {
		return
	}
	// Only unregister if this is still the current connection
	if conn != nil && !current.wraps(conn) {
		logger.Printf("ignoring unregister for old connection of player %s", playerID)
		return
	}
	delete(g.connections.connections, playerID)
}

func (g *Game) connectionCount() int {
	g.connections.mu.RLock()
	defer g.connections.mu.RUnlock()
	return len(g.connections.connections)
}

// broadcast writes state to every registered connection, dropping the ones
// that fail.
func (g *Game) broadcast(state GameState) {
	payload, err := json.Marshal(state)
	if err != nil {
		logger.Printf("failed to marshal state of game %s: %v", g.ID, err)
		return
	}

	// Get a snapshot of connections under the connections mutex
	g.connections.mu.RLock()
	activeConnections := make(map[string]*LockedConn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		activeConnections[playerID] = conn
	}
	g.connections.mu.RUnlock()

	for playerID, conn := range activeConnections {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			logger.Printf("failed to send state to player %s: %v", playerID, err)
			g.UnregisterConnection(playerID, conn)
		}
	}
}
