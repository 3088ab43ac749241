// Package storage persists games in BadgerDB so a restarted server picks up
// where it left off.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/hashicorp/go-multierror"

	"github.com/benbeisheim/chessrules-backend/internal/model"
)

const gamePrefix = "game/"

var ErrNotFound = errors.New("game not stored")

// Record is the stored form of a game. The board uses the text form read by
// model.ParseBoard.
type Record struct {
	ID     string     `json:"id"`
	Board  string     `json:"board"`
	ToMove model.Team `json:"toMove"`
	White  string     `json:"white"`
	Black  string     `json:"black"`
}

// RecordOf snapshots g for storage.
func RecordOf(g *model.Game) Record {
	board := g.Board()
	white, black := g.Seats()
	return Record{
		ID:     g.ID,
		Board:  board.Text(),
		ToMove: board.Team(),
		White:  white,
		Black:  black,
	}
}

// Game rebuilds the game described by r.
func (r Record) Game() (*model.Game, error) {
	board, err := model.ParseBoard(r.Board, r.ToMove)
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", r.ID, err)
	}
	return model.RestoreGame(r.ID, board, r.White, r.Black), nil
}

// Store wraps BadgerDB for game persistence
type Store struct {
	db *badger.DB
}

// Open opens the store in dir. An empty dir keeps everything in memory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id string) []byte {
	return []byte(gamePrefix + id)
}

func (s *Store) SaveGame(r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gameKey(r.ID), data)
	})
}

// LoadGame returns ErrNotFound for an unknown id.
func (s *Store) LoadGame(id string) (Record, error) {
	var r Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &r)
		})
	})
	return r, err
}

func (s *Store) DeleteGame(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(gameKey(id))
	})
}

// LoadAll returns every stored game. Records that fail to decode are skipped
// and reported together in the returned error.
func (s *Store) LoadAll() ([]Record, error) {
	var records []Record
	var errs error

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var r Record
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("%s: %w", item.Key(), err))
				continue
			}
			records = append(records, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, errs
}
