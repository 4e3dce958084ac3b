package mines

import (
	"log/slog"
	"math/rand/v2"

	"github.com/gammazero/deque"
)

var Log *slog.Logger = slog.Default()

type Status int

const (
	Setup Status = iota
	Playing
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Setup:
		return "setup"
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

func (s Status) Over() bool {
	return s == Won || s == Lost
}

// Event is a terminal signal raised by a single action.
type Event int

const (
	EventWon Event = iota + 1
	EventLost
)

func (e Event) String() string {
	switch e {
	case EventWon:
		return "won"
	case EventLost:
		return "lost"
	default:
		return "unknown"
	}
}

// MarshalText makes events readable in JSON payloads.
func (e Event) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

type Outcome struct {
	Revealed []Point // in reveal order
	Events   []Event
}

func (o Outcome) Has(e Event) bool {
	for _, ev := range o.Events {
		if ev == e {
			return true
		}
	}
	return false
}

type Options struct {
	// LockOnEnd turns every move into a no-op once the game is won or lost
	// and exposes the board. Without it play continues after the end and
	// further bomb reveals or matching flag sets signal again.
	LockOnEnd bool
}

type GameState struct {
	*Board
	Options
	status   Status
	exposed  bool
	exploded []Point
	flagged  map[Point]struct{}
}

func NewGame(params GameParams, r *rand.Rand, opts Options) (*GameState, error) {
	board, err := NewBoard(params, r)
	if err != nil {
		return nil, err
	}
	return NewGameFromBoard(board, opts), nil
}

func NewGameFromBoard(board *Board, opts Options) *GameState {
	return &GameState{
		Board:   board,
		Options: opts,
		status:  Playing,
		flagged: make(map[Point]struct{}),
	}
}

func (s *GameState) Status() Status {
	return s.status
}

func (s *GameState) Locked() bool {
	return s.LockOnEnd && s.status.Over()
}

// Exposed reports whether the real bomb positions are part of [GameState.Grid].
func (s *GameState) Exposed() bool {
	return s.exposed
}

func (s *GameState) FlagCount() int {
	return len(s.flagged)
}

// Flagged returns the flagged set in row-major order.
func (s *GameState) Flagged() []Point {
	points := make([]Point, 0, len(s.flagged))
	for _, t := range s.tiles {
		if _, ok := s.flagged[t.Location]; ok {
			points = append(points, t.Location)
		}
	}
	return points
}

func (s *GameState) Reveal(x, y int) (out Outcome, err error) {
	t, ok := s.Tile(x, y)
	if !ok {
		return out, ErrOutOfBounds
	}
	if s.Locked() {
		return out, nil
	}
	out.Revealed = s.reveal(t)
	if len(out.Revealed) > 0 && t.Bomb {
		s.explode(t, &out)
	}
	return out, nil
}

// reveal opens t and, from every zero-count tile it reaches, the unrevealed
// and unflagged neighbors. Nonzero tiles are opened but not expanded.
func (s *GameState) reveal(t *Tile) (revealed []Point) {
	if t.Revealed || t.Flagged {
		return nil
	}

	var todo deque.Deque[*Tile]
	t.Revealed = true
	todo.PushBack(t)

	for todo.Len() > 0 {
		cur := todo.PopFront()
		revealed = append(revealed, cur.Location)
		if cur.Bomb || cur.NeighborBombs != 0 {
			continue
		}
		for _, p := range s.Neighbors(cur.Location) {
			n := &s.tiles[s.index(p)]
			if n.Revealed || n.Flagged {
				continue
			}
			n.Revealed = true
			todo.PushBack(n)
		}
	}
	return revealed
}

func (s *GameState) explode(t *Tile, out *Outcome) {
	s.exploded = append(s.exploded, t.Location)
	out.Events = append(out.Events, EventLost)
	s.finish(Lost)
}

func (s *GameState) ToggleFlag(x, y int) (out Outcome, err error) {
	t, ok := s.Tile(x, y)
	if !ok {
		return out, ErrOutOfBounds
	}
	if s.Locked() {
		return out, nil
	}

	// revealed tiles toggle too; the win check runs after every toggle
	t.Flagged = !t.Flagged
	if t.Flagged {
		s.flagged[t.Location] = struct{}{}
	} else {
		delete(s.flagged, t.Location)
	}

	if s.flagsMatchBombs() {
		out.Events = append(out.Events, EventWon)
		s.finish(Won)
	}
	return out, nil
}

func (s *GameState) flagsMatchBombs() bool {
	if len(s.flagged) != s.BombCount {
		return false
	}
	for p := range s.flagged {
		if !s.tiles[s.index(p)].Bomb {
			return false
		}
	}
	return true
}

// Chord reveals every covered neighbor of a revealed numbered tile once the
// number of flags around it equals its count.
func (s *GameState) Chord(x, y int) (out Outcome, err error) {
	t, ok := s.Tile(x, y)
	if !ok {
		return out, ErrOutOfBounds
	}
	if s.Locked() || !t.Revealed || t.Bomb {
		return out, nil
	}

	neighbors := s.Neighbors(t.Location)
	flags := 0
	for _, p := range neighbors {
		if s.tiles[s.index(p)].Flagged {
			flags++
		}
	}
	if flags != t.NeighborBombs {
		return out, nil
	}

	lost := false
	for _, p := range neighbors {
		n := &s.tiles[s.index(p)]
		revealed := s.reveal(n)
		out.Revealed = append(out.Revealed, revealed...)
		if len(revealed) > 0 && n.Bomb {
			s.exploded = append(s.exploded, n.Location)
			lost = true
			if s.LockOnEnd {
				break
			}
		}
	}
	if lost {
		out.Events = append(out.Events, EventLost)
		s.finish(Lost)
	}
	return out, nil
}

// Forfeit ends a live game as lost and exposes the board.
func (s *GameState) Forfeit() {
	s.finish(Lost)
	s.exposed = true
}

func (s *GameState) finish(status Status) {
	if !s.status.Over() {
		s.status = status
		Log.Debug("game over", slog.String("status", status.String()), slog.String("params", s.GameParams.String()))
	}
	if s.LockOnEnd {
		s.exposed = true
	}
}

// Grid is the player's view of the board. Bomb positions only show up once
// the board is exposed or a bomb was revealed.
func (s *GameState) Grid() GridInfo {
	grid := make(GridInfo, len(s.tiles))
	exploded := make(map[Point]struct{}, len(s.exploded))
	for _, p := range s.exploded {
		exploded[p] = struct{}{}
	}

	for i, t := range s.tiles {
		_, boom := exploded[t.Location]
		switch {
		case boom:
			grid[i] = ExplodedMine
		case t.Flagged && s.exposed:
			grid[i] = iif(t.Bomb, CorrectFlag, WrongFlag)
		case t.Flagged:
			grid[i] = Flag
		case t.Bomb && s.exposed:
			grid[i] = UnflaggedMine
		case t.Revealed || s.exposed:
			grid[i] = CellStatus(t.NeighborBombs)
		default:
			grid[i] = Unknown
		}
	}
	return grid
}
