package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/notation"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Team, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) DeleteGame(gameID string, playerID string) error {
	return gs.gameManager.DeleteGame(gameID, playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

// LegalMoves lists what playerID may play from the named square.
func (gs *GameService) LegalMoves(gameID string, playerID string, square string) ([]model.MoveView, error) {
	pos, err := model.ParsePosition(square)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", notation.ErrSyntax, err)
	}
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	moves, err := game.LegalMovesAt(playerID, pos)
	if err != nil {
		return nil, err
	}
	views := make([]model.MoveView, 0, len(moves))
	for _, m := range moves {
		views = append(views, m.View())
	}
	return views, nil
}

// HandleMove parses the request and plays it for playerID.
func (gs *GameService) HandleMove(gameID string, playerID string, req ws.MovePayload) (model.MoveView, error) {
	cmd, err := parseMoveRequest(req)
	if err != nil {
		return model.MoveView{}, err
	}

	move, err := gs.gameManager.MakeMove(gameID, playerID, notation.Chooser(cmd))
	if err != nil {
		return model.MoveView{}, err
	}
	return move.View(), nil
}

func parseMoveRequest(req ws.MovePayload) (notation.Command, error) {
	if req.Notation != "" {
		return notation.Parse(req.Notation)
	}
	return notation.Parse(req.From + req.To)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Connection) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Connection) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	return gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}
