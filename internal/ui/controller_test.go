package ui

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/mines"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestController(t *testing.T, opts mines.Options, width, height int, bombs ...mines.Point) *Controller {
	t.Helper()
	b, err := mines.BoardFromBombs(width, height, bombs...)
	require.NoError(t, err)
	return NewControllerForGame(discard, mines.NewGameFromBoard(b, opts), rand.New(rand.NewPCG(1, 2)))
}

func TestClickReveal(t *testing.T) {
	c := newTestController(t, mines.Options{}, 2, 1, mines.Point{X: 0, Y: 0})

	c.Click(1, 0, ButtonPrimary)
	assert.Nil(t, c.Dialog())
	assert.Equal(t, mines.CellStatus(1), c.Grid().At(2, 1, 0))

	c.Click(0, 0, ButtonPrimary)
	require.NotNil(t, c.Dialog())
	assert.Equal(t, Dialog{Title: Title, Message: LostMessage}, *c.Dialog())
}

func TestClickFlagWins(t *testing.T) {
	c := newTestController(t, mines.Options{}, 2, 1, mines.Point{X: 0, Y: 0})

	c.Click(0, 0, ButtonSecondary)
	require.NotNil(t, c.Dialog())
	assert.Equal(t, WonMessage, c.Dialog().Message)
	assert.Equal(t, mines.Won, c.Game().Status())
}

func TestDialogIsModal(t *testing.T) {
	c := newTestController(t, mines.Options{}, 3, 1, mines.Point{X: 0, Y: 0})

	c.Click(0, 0, ButtonPrimary)
	require.NotNil(t, c.Dialog())

	c.Click(2, 0, ButtonPrimary)
	assert.Equal(t, mines.Unknown, c.Grid().At(3, 2, 0), "clicks are swallowed by the dialog")

	c.DismissDialog()
	assert.Nil(t, c.Dialog())

	c.Click(2, 0, ButtonPrimary)
	assert.Equal(t, mines.CellStatus(0), c.Grid().At(3, 2, 0))
}

func TestOneDialogPerBombReveal(t *testing.T) {
	c := newTestController(t, mines.Options{}, 3, 1, mines.Point{X: 0, Y: 0}, mines.Point{X: 2, Y: 0})

	c.Click(0, 0, ButtonPrimary)
	c.DismissDialog()
	c.Click(0, 0, ButtonPrimary)
	assert.Nil(t, c.Dialog(), "already revealed")

	c.Click(2, 0, ButtonPrimary)
	require.NotNil(t, c.Dialog())
	c.DismissDialog()
	assert.Nil(t, c.Dialog())
}

func TestClickOutsideBoard(t *testing.T) {
	c := newTestController(t, mines.Options{}, 2, 2)

	c.Click(5, 5, ButtonPrimary)
	c.Click(-1, 0, ButtonSecondary)
	assert.Equal(t, mines.GridInfo{mines.Unknown, mines.Unknown, mines.Unknown, mines.Unknown}, c.Grid())
}

func TestChordButton(t *testing.T) {
	c := newTestController(t, mines.Options{}, 3, 1, mines.Point{X: 0, Y: 0})

	c.Click(1, 0, ButtonPrimary)
	c.Click(0, 0, ButtonSecondary)
	c.DismissDialog()
	c.Click(1, 0, ButtonMiddle)
	assert.Equal(t, mines.CellStatus(0), c.Grid().At(3, 2, 0))
}

func TestNewGameKeepsParams(t *testing.T) {
	params := mines.GameParams{Width: 4, Height: 3, BombCount: 2}
	c, err := NewController(discard, params, mines.Options{LockOnEnd: true}, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	c.Forfeit()
	assert.Equal(t, mines.Lost, c.Game().Status())

	require.NoError(t, c.NewGame())
	assert.Equal(t, mines.Playing, c.Game().Status())
	assert.Equal(t, params, c.Params())
	assert.True(t, c.Game().LockOnEnd)
	assert.Equal(t, "4x3  bombs 2  flags 0  playing", c.StatusLine())

	_, err = NewController(discard, mines.GameParams{Width: 1, Height: 1, BombCount: 3}, mines.Options{}, rand.New(rand.NewPCG(1, 2)))
	assert.ErrorIs(t, err, mines.ErrTooManyBombs)
}
