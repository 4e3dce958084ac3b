package repository

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/mines"
)

func newTestGame(t *testing.T) *mines.GameState {
	t.Helper()
	b, err := mines.BoardFromBombs(3, 1, mines.Point{X: 0, Y: 0})
	require.NoError(t, err)
	return mines.NewGameFromBoard(b, mines.Options{LockOnEnd: true})
}

func TestCreateAndFetch(t *testing.T) {
	q := New()
	session := q.CreateGameSession(newTestGame(t))

	got, err := q.FetchGameSession(session.GameSessionId)
	require.NoError(t, err)
	assert.Same(t, session, got)
	assert.Equal(t, 1, q.Count())

	_, err = q.FetchGameSession(uuid.New())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestDoStampsEnd(t *testing.T) {
	q := New()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return clock }
	session := q.CreateGameSession(newTestGame(t))

	require.NoError(t, session.Do(func(g *mines.GameState) error {
		_, err := g.Reveal(2, 0)
		return err
	}))
	assert.Nil(t, session.EndedAt())

	clock = clock.Add(time.Minute)
	failed := errors.New("boom")
	err := session.Do(func(g *mines.GameState) error {
		g.Forfeit()
		return failed
	})
	assert.ErrorIs(t, err, failed, "fn's error is passed through")
	require.NotNil(t, session.EndedAt())
	assert.Equal(t, clock, *session.EndedAt())

	clock = clock.Add(time.Minute)
	require.NoError(t, session.Do(func(*mines.GameState) error { return nil }))
	assert.Equal(t, clock.Add(-time.Minute), *session.EndedAt(), "the first end is kept")
}

func TestPrune(t *testing.T) {
	q := New()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return clock }

	idle := q.CreateGameSession(newTestGame(t))
	ended := q.CreateGameSession(newTestGame(t))
	require.NoError(t, ended.Do(func(g *mines.GameState) error {
		g.Forfeit()
		return nil
	}))

	clock = clock.Add(30 * time.Minute)
	active := q.CreateGameSession(newTestGame(t))

	clock = clock.Add(30 * time.Minute)
	require.NoError(t, idle.Do(func(*mines.GameState) error { return nil }))
	assert.Equal(t, clock, idle.LastActive(), "Do marks the session as used")

	// ended at 0:00, active last used at 0:30, idle at 1:00
	n := q.Prune(clock.Add(-45*time.Minute), clock.Add(-2*time.Hour))
	assert.Equal(t, 1, n)
	_, err := q.FetchGameSession(ended.GameSessionId)
	assert.ErrorIs(t, err, ErrNoSession)

	n = q.Prune(clock.Add(-45*time.Minute), clock.Add(-15*time.Minute))
	assert.Equal(t, 1, n, "a live session left alone is dropped too")
	_, err = q.FetchGameSession(active.GameSessionId)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = q.FetchGameSession(idle.GameSessionId)
	assert.NoError(t, err)
	assert.Equal(t, 1, q.Count())
}

func TestConcurrentMoves(t *testing.T) {
	b, err := mines.BoardFromBombs(50, 50)
	require.NoError(t, err)
	session := New().CreateGameSession(mines.NewGameFromBoard(b, mines.Options{}))

	var wg sync.WaitGroup
	for x := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = session.Do(func(g *mines.GameState) error {
				_, err := g.ToggleFlag(x, 0)
				return err
			})
		}()
	}
	wg.Wait()

	require.NoError(t, session.Do(func(g *mines.GameState) error {
		assert.Equal(t, 50, g.FlagCount())
		return nil
	}))
}
