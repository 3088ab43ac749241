// service/game_manager.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/storage"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
)

var ErrGameNotFound = errors.New("game not found")

var logger = log.New(os.Stderr, "[manager] ", log.LstdFlags)

// GameStore is the persistence the manager needs; *storage.Store implements it.
type GameStore interface {
	SaveGame(r storage.Record) error
	LoadAll() ([]storage.Record, error)
	DeleteGame(id string) error
}

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	store            GameStore
	mu               sync.RWMutex
	// persistMu orders snapshots and saves so a slower save cannot
	// overwrite a newer board
	persistMu sync.Mutex
}

// NewGameManager restores every stored game. A nil store keeps games in
// memory only.
func NewGameManager(store GameStore) (*GameManager, error) {
	gm := &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		store:            store,
	}
	if store == nil {
		return gm, nil
	}

	records, err := store.LoadAll()
	var errs error
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	for _, r := range records {
		game, err := r.Game()
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		gm.games[game.ID] = game
	}
	logger.Printf("restored %d games", len(gm.games))
	return gm, errs
}

// RunMatchmaking pairs queued players once per interval until ctx is done.
func (gm *GameManager) RunMatchmaking(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.matchQueued()
		}
	}
}

// matchQueued creates a game for every pair of waiting players and notifies
// both through their registered channels.
func (gm *GameManager) matchQueued() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for {
		player1, player2, ok := gm.queue.GetNextPair()
		if !ok {
			return
		}

		gameID := uuid.New().String()
		game := model.NewGame(gameID)
		p1Color, err := game.AddPlayer(player1.ID)
		if err != nil {
			logger.Println("error adding player to game", err)
			continue
		}
		p2Color, err := game.AddPlayer(player2.ID)
		if err != nil {
			logger.Println("error adding player to game", err)
			continue
		}
		gm.games[gameID] = game
		gm.persist(game)

		sentBoth := gm.sendMatchFound(player1.ID, ws.MatchFoundEvent{GameID: gameID, Color: string(p1Color)})
		sentBoth = gm.sendMatchFound(player2.ID, ws.MatchFoundEvent{GameID: gameID, Color: string(p2Color)}) && sentBoth
		if !sentBoth {
			logger.Printf("failed to notify all players of match %s", gameID)
		}
	}
}

// sendMatchFound delivers event and closes the player's channel. Callers hold gm.mu.
func (gm *GameManager) sendMatchFound(playerID string, event ws.MatchFoundEvent) bool {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		return false
	}
	delete(gm.matchingChannels, playerID)
	defer close(ch)

	select {
	case ch <- mustJSON(event):
		logger.Printf("sent match found event to player %s", playerID)
		return true
	default:
		logger.Printf("failed to send event to player %s", playerID)
		return false
	}
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	// Replace an existing channel; its reader sees it closed
	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}

	gm.matchingChannels[playerID] = ch
	return nil
}

// UnregisterMatchmakingChannel forgets ch if it is still the player's channel
// and takes the player out of the queue. The channel is not closed here.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, ok := gm.matchingChannels[playerID]; ok && current == ch {
		delete(gm.matchingChannels, playerID)
		gm.queue.RemovePlayer(playerID)
	}
}

func mustJSON(v interface{}) string {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

func (gm *GameManager) persist(game *model.Game) {
	if gm.store == nil {
		return
	}
	gm.persistMu.Lock()
	defer gm.persistMu.Unlock()
	if err := gm.store.SaveGame(storage.RecordOf(game)); err != nil {
		logger.Printf("failed to save game %s: %v", game.ID, err)
	}
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return errors.New("game already exists")
	}

	game := model.NewGame(gameID)
	gm.games[gameID] = game
	gm.persist(game)
	return nil
}

// DeleteGame drops a game and its stored record. Only a seated player may
// delete it.
func (gm *GameManager) DeleteGame(gameID string, playerID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	if _, ok := game.ColorOf(playerID); !ok {
		return model.ErrNotInGame
	}

	gm.mu.Lock()
	delete(gm.games, gameID)
	gm.mu.Unlock()

	if gm.store == nil {
		return nil
	}
	gm.persistMu.Lock()
	defer gm.persistMu.Unlock()
	if err := gm.store.DeleteGame(gameID); err != nil {
		return fmt.Errorf("delete game %s: %w", gameID, err)
	}
	logger.Printf("game %s deleted by %s", gameID, playerID)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Team, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}

	color, err := game.AddPlayer(playerID)
	if err != nil {
		return "", err
	}
	gm.persist(game)
	return color, nil
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if err := gm.queue.AddPlayer(model.Player{ID: playerID}); err != nil {
		return fmt.Errorf("join matchmaking: %w", err)
	}
	return nil
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, choose model.MoveChooser) (model.LegalMove, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.LegalMove{}, err
	}

	move, err := game.MakeMove(playerID, choose)
	if err != nil {
		return model.LegalMove{}, err
	}
	gm.persist(game)
	return move, nil
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn model.Connection) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn model.Connection) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}
