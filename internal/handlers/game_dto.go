package handlers

import (
	"fmt"

	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/repository"
)

type CreateNewGameDTO struct {
	Width     int `schema:"width,required"`
	Height    int `schema:"height,required"`
	BombCount int `schema:"bomb_count,required"`
}

// Limits on boards created over HTTP. Every session stays in memory, so one
// request must not be able to allocate an arbitrary amount of it.
const (
	MaxBoardSide  = 500
	MaxBoardTiles = 100_000
)

func ParseCreateNewGameDTO(src map[string][]string) (mines.GameParams, error) {
	var dto CreateNewGameDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return mines.GameParams{}, err
	}
	params := mines.GameParams(dto)
	if err := params.Validate(); err != nil {
		return params, err
	}
	if params.Width > MaxBoardSide || params.Height > MaxBoardSide || params.TileCount() > MaxBoardTiles {
		return params, fmt.Errorf(
			"%w (%dx%d, limit is %d per side and %d tiles)",
			mines.ErrBoardTooLarge, params.Width, params.Height, MaxBoardSide, MaxBoardTiles,
		)
	}
	return params, nil
}

type PositionDTO struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

func ParsePosition(src map[string][]string) (PositionDTO, error) {
	var pos PositionDTO
	err := decoder.Decode(&pos, src)
	return pos, err
}

type GameMove int

const (
	Reveal GameMove = iota
	Flag
	Chord
)

func ParseGameMove(s string) (GameMove, error) {
	switch s {
	case "reveal", "open":
		return Reveal, nil
	case "flag":
		return Flag, nil
	case "chord":
		return Chord, nil
	}
	return 0, fmt.Errorf("unknown move %q, expected reveal, flag or chord", s)
}

func (m GameMove) apply(g *mines.GameState, x, y int) (mines.Outcome, error) {
	switch m {
	case Flag:
		return g.ToggleFlag(x, y)
	case Chord:
		return g.Chord(x, y)
	default:
		return g.Reveal(x, y)
	}
}

type GameSessionDTO struct {
	GameSessionId string         `json:"game_session_id"`
	Grid          mines.GridInfo `json:"grid"`
	Width         int            `json:"width"`
	Height        int            `json:"height"`
	BombCount     int            `json:"bomb_count"`
	FlagCount     int            `json:"flag_count"`
	Status        string         `json:"status"`
	Dead          bool           `json:"dead"`
	Won           bool           `json:"won"`
	Events        []mines.Event  `json:"events,omitempty"`
	StartedAt     int64          `json:"started_at"`
	EndedAt       *int64         `json:"ended_at,omitempty"`
}

// NewGameSessionDTO must be called while holding the session, from inside
// [repository.GameSession.Do].
func NewGameSessionDTO(
	session *repository.GameSession,
	g *mines.GameState,
	events []mines.Event,
) *GameSessionDTO {
	dto := &GameSessionDTO{
		GameSessionId: session.GameSessionId.String(),
		StartedAt:     session.StartedAt.UnixMilli(),
		Grid:          g.Grid(),
		Width:         g.Width,
		Height:        g.Height,
		BombCount:     g.BombCount,
		FlagCount:     g.FlagCount(),
		Status:        g.Status().String(),
		Dead:          g.Status() == mines.Lost,
		Won:           g.Status() == mines.Won,
		Events:        events,
	}
	return dto
}
