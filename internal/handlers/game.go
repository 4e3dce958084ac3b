package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/render"
	"github.com/vancomm/minesweeper/internal/repository"
)

type GameHandler struct {
	logger   *slog.Logger
	repo     *repository.Queries
	ws       *config.WebSocket
	renderer *render.Renderer
	options  mines.Options

	mu  sync.Mutex // guards rnd
	rnd *rand.Rand
}

func NewGameHandler(
	logger *slog.Logger,
	repo *repository.Queries,
	ws *config.WebSocket,
	renderer *render.Renderer,
	options mines.Options,
	rnd *rand.Rand,
) *GameHandler {
	handler := &GameHandler{
		logger:   logger,
		repo:     repo,
		ws:       ws,
		renderer: renderer,
		options:  options,
		rnd:      rnd,
	}

	return handler
}

func (g *GameHandler) newGame(params mines.GameParams) (*mines.GameState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return mines.NewGame(params, g.rnd, g.options)
}

// session resolves the {id} path value, answering 400 or 404 itself when it
// cannot.
func (g *GameHandler) session(w http.ResponseWriter, r *http.Request) (*repository.GameSession, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, errors.New("invalid game session id"))
		return nil, false
	}

	session, err := g.repo.FetchGameSession(id)
	if errors.Is(err, repository.ErrNoSession) {
		sendErrorOrLog(w, g.logger, http.StatusNotFound, err)
		return nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to fetch session", slog.Any("error", err))
		return nil, false
	}

	return session, true
}

// snapshot runs fn on the session's game and captures the resulting state
// along with the events fn raised.
func snapshot(
	session *repository.GameSession,
	fn func(game *mines.GameState) ([]mines.Event, error),
) (*GameSessionDTO, error) {
	var dto *GameSessionDTO
	err := session.Do(func(game *mines.GameState) error {
		events, err := fn(game)
		if err != nil {
			return err
		}
		dto = NewGameSessionDTO(session, game, events)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if ended := session.EndedAt(); ended != nil {
		e := ended.UnixMilli()
		dto.EndedAt = &e
	}
	return dto, nil
}

func noMove(*mines.GameState) ([]mines.Event, error) {
	return nil, nil
}

func (g *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	params, err := ParseCreateNewGameDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	game, err := g.newGame(params)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to generate a new game", slog.Any("error", err))
		return
	}

	session := g.repo.CreateGameSession(game)
	g.logger.Debug(
		"created game session",
		slog.String("id", session.GameSessionId.String()),
		slog.String("params", params.String()),
	)

	dto, err := snapshot(session, noMove)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to read new session", slog.Any("error", err))
		return
	}
	sendJSONOrLog(w, g.logger, dto)
}

func (g *GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	session, ok := g.session(w, r)
	if !ok {
		return
	}

	dto, err := snapshot(session, noMove)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to read session", slog.Any("error", err))
		return
	}
	sendJSONOrLog(w, g.logger, dto)
}

func (g *GameHandler) MakeAMove(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	move, err := ParseGameMove(query.Get("move"))
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	pos, err := ParsePosition(query)
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	session, ok := g.session(w, r)
	if !ok {
		return
	}

	dto, err := snapshot(session, func(game *mines.GameState) ([]mines.Event, error) {
		out, err := move.apply(game, pos.X, pos.Y)
		return out.Events, err
	})
	if errors.Is(err, mines.ErrOutOfBounds) {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to make a move", slog.Any("error", err))
		return
	}
	sendJSONOrLog(w, g.logger, dto)
}

func (g *GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	session, ok := g.session(w, r)
	if !ok {
		return
	}

	dto, err := snapshot(session, func(game *mines.GameState) ([]mines.Event, error) {
		game.Forfeit()
		return nil, nil
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to forfeit", slog.Any("error", err))
		return
	}
	sendJSONOrLog(w, g.logger, dto)
}

func (g *GameHandler) BoardPNG(w http.ResponseWriter, r *http.Request) {
	session, ok := g.session(w, r)
	if !ok {
		return
	}

	var (
		grid  mines.GridInfo
		width int
	)
	_ = session.Do(func(game *mines.GameState) error {
		grid, width = game.Grid(), game.Width
		return nil
	})

	var buf bytes.Buffer
	if err := g.renderer.WritePNG(&buf, grid, width); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to render board", slog.Any("error", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := buf.WriteTo(w); err != nil {
		g.logger.Warn("unable to send board image", slog.Any("error", err))
	}
}
