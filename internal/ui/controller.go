// Package ui holds the input handling shared by every front-end: pointer
// buttons become game moves and terminal signals become modal dialogs.
package ui

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/vancomm/minesweeper/internal/mines"
)

const (
	Title       = "Minesweeper"
	WonMessage  = "Congratulations, you won!"
	LostMessage = "That was a bomb, you lose!"
)

type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonSecondary
	ButtonMiddle
)

type Dialog struct {
	Title   string
	Message string
}

func dialogFor(e mines.Event) Dialog {
	switch e {
	case mines.EventWon:
		return Dialog{Title: Title, Message: WonMessage}
	default:
		return Dialog{Title: Title, Message: LostMessage}
	}
}

// Controller owns the game a front-end displays. Front-ends feed it pointer
// presses in board coordinates and show the dialogs it queues, oldest first.
type Controller struct {
	logger  *slog.Logger
	params  mines.GameParams
	options mines.Options
	rnd     *rand.Rand
	game    *mines.GameState
	dialogs []Dialog
}

func NewController(
	logger *slog.Logger,
	params mines.GameParams,
	options mines.Options,
	rnd *rand.Rand,
) (*Controller, error) {
	c := &Controller{
		logger:  logger,
		params:  params,
		options: options,
		rnd:     rnd,
	}
	if err := c.NewGame(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewControllerForGame wraps an existing game; NewGame on it still draws a
// random board with the same params.
func NewControllerForGame(logger *slog.Logger, game *mines.GameState, rnd *rand.Rand) *Controller {
	return &Controller{
		logger:  logger,
		params:  game.GameParams,
		options: game.Options,
		rnd:     rnd,
		game:    game,
	}
}

func (c *Controller) NewGame() error {
	game, err := mines.NewGame(c.params, c.rnd, c.options)
	if err != nil {
		return err
	}
	c.game = game
	c.dialogs = nil
	c.logger.Info("new game", slog.String("params", c.params.String()))
	return nil
}

func (c *Controller) Game() *mines.GameState {
	return c.game
}

func (c *Controller) Params() mines.GameParams {
	return c.params
}

// Click applies one pointer press on tile (x, y). Presses outside the board
// and presses while a dialog is open are ignored.
func (c *Controller) Click(x, y int, button Button) {
	if c.Dialog() != nil || !c.params.PointInBounds(x, y) {
		return
	}

	var (
		out mines.Outcome
		err error
	)
	switch button {
	case ButtonPrimary:
		out, err = c.game.Reveal(x, y)
	case ButtonSecondary:
		out, err = c.game.ToggleFlag(x, y)
	case ButtonMiddle:
		out, err = c.game.Chord(x, y)
	default:
		return
	}
	if err != nil {
		c.logger.Error("move failed", slog.Int("x", x), slog.Int("y", y), slog.Any("error", err))
		return
	}

	c.logger.Debug("move",
		slog.Int("x", x), slog.Int("y", y),
		slog.Int("button", int(button)),
		slog.Int("revealed", len(out.Revealed)),
		slog.String("status", c.game.Status().String()),
	)
	for _, e := range out.Events {
		c.dialogs = append(c.dialogs, dialogFor(e))
	}
}

func (c *Controller) Forfeit() {
	if c.Dialog() != nil {
		return
	}
	c.game.Forfeit()
}

// Dialog is the dialog to show, nil when the board takes input.
func (c *Controller) Dialog() *Dialog {
	if len(c.dialogs) == 0 {
		return nil
	}
	return &c.dialogs[0]
}

func (c *Controller) DismissDialog() {
	if len(c.dialogs) > 0 {
		c.dialogs = c.dialogs[1:]
	}
}

func (c *Controller) Grid() mines.GridInfo {
	return c.game.Grid()
}

// StatusLine is a one-line summary for the front-ends' header or footer.
func (c *Controller) StatusLine() string {
	return statusLine(c.game)
}

func statusLine(g *mines.GameState) string {
	return fmt.Sprintf("%dx%d  bombs %d  flags %d  %s",
		g.Width, g.Height, g.BombCount, g.FlagCount(), g.Status())
}
