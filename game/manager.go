package game

import (
	"errors"
	"sync"

	"github.com/notnil/chess"
)

// ErrNotFound is returned for unknown game ids.
var ErrNotFound = errors.New("game: not found")

// Record is the AI's running win/loss/draw tally. In-memory only.
type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

// Manager is the registry of live games plus the AI record.
type Manager struct {
	mu     sync.RWMutex
	games  map[string]*Game
	record Record
}

// NewManager returns an empty registry.
func NewManager() *Manager {
	return &Manager{games: make(map[string]*Game)}
}

// Create registers a fresh game and returns it.
func (m *Manager) Create() *Game {
	g := New()
	m.mu.Lock()
	m.games[g.ID()] = g
	m.mu.Unlock()
	return g
}

// CreateFromFEN registers a game starting from the given position.
func (m *Manager) CreateFromFEN(fen string) (*Game, error) {
	g, err := NewFromFEN(fen)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.games[g.ID()] = g
	m.mu.Unlock()
	return g, nil
}

// Get looks up a game by id.
func (m *Manager) Get(id string) (*Game, error) {
	m.mu.RLock()
	g, ok := m.games[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return g, nil
}

// Reset replaces the game's board with a fresh one under the same id.
func (m *Manager) Reset(id string) (*Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	fresh := New()
	fresh.id = old.ID()
	m.games[fresh.id] = fresh
	return fresh, nil
}

// Remove drops a game from the registry.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.games, id)
	m.mu.Unlock()
}

// RecordResult books a finished game against the AI record. aiColor is the
// side the engine played.
func (m *Manager) RecordResult(result string, aiColor chess.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch result {
	case "1/2-1/2":
		m.record.Draws++
	case "1-0":
		if aiColor == chess.White {
			m.record.Wins++
		} else {
			m.record.Losses++
		}
	case "0-1":
		if aiColor == chess.Black {
			m.record.Wins++
		} else {
			m.record.Losses++
		}
	}
}

// AIRecord returns the current tally.
func (m *Manager) AIRecord() Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.record
}
