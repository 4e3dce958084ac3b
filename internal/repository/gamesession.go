// Package repository keeps the game sessions served over HTTP. Sessions live
// in memory for the lifetime of the process.
package repository

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper/internal/mines"
)

var ErrNoSession = errors.New("no such game session")

type GameSession struct {
	GameSessionId uuid.UUID
	StartedAt     time.Time

	mu         sync.Mutex
	endedAt    *time.Time
	lastActive time.Time
	game       *mines.GameState
	now        func() time.Time
}

// Do runs fn with exclusive access to the session's game. The first time the
// game is found over afterwards, the session is stamped as ended.
func (s *GameSession) Do(fn func(g *mines.GameState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := fn(s.game)
	t := s.now()
	s.lastActive = t
	if s.endedAt == nil && s.game.Status().Over() {
		s.endedAt = &t
	}
	return err
}

func (s *GameSession) EndedAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endedAt
}

// LastActive is when the session was created or last used through Do.
func (s *GameSession) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *GameSession) expired(endedBefore, idleBefore time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.endedAt != nil && s.endedAt.Before(endedBefore) {
		return true
	}
	return s.lastActive.Before(idleBefore)
}

type Queries struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*GameSession
	now      func() time.Time
}

func New() *Queries {
	return &Queries{
		sessions: make(map[uuid.UUID]*GameSession),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (q *Queries) CreateGameSession(game *mines.GameState) *GameSession {
	now := q.now()
	session := &GameSession{
		GameSessionId: uuid.New(),
		StartedAt:     now,
		lastActive:    now,
		game:          game,
		now:           q.now,
	}

	q.mu.Lock()
	q.sessions[session.GameSessionId] = session
	q.mu.Unlock()

	return session
}

func (q *Queries) FetchGameSession(id uuid.UUID) (*GameSession, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	session, ok := q.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	return session, nil
}

// Prune drops sessions that ended before endedBefore and sessions, live or
// not, that nobody touched since idleBefore. It reports how many were removed.
func (q *Queries) Prune(endedBefore, idleBefore time.Time) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for id, session := range q.sessions {
		if session.expired(endedBefore, idleBefore) {
			delete(q.sessions, id)
			n++
		}
	}
	return n
}

func (q *Queries) Count() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.sessions)
}
