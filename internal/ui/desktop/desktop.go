// Package desktop shows the board in a window: a canvas of square cells with
// a status header, mouse input and modal dialogs.
package desktop

import (
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/vancomm/minesweeper/internal/render"
	"github.com/vancomm/minesweeper/internal/ui"
)

const (
	headerHeight = 24
	minWidth     = 240
	minHeight    = 140
	glyphWidth   = 6 // ebitenutil debug font
)

var (
	// dark backgrounds: the debug font is drawn white
	headerColor = color.RGBA{0x30, 0x30, 0x30, 0xff}
	shadeColor  = color.RGBA{0x00, 0x00, 0x00, 0x80}
	panelColor  = color.RGBA{0x28, 0x28, 0x28, 0xff}
	borderColor = color.RGBA{0xc0, 0xc0, 0xc0, 0xff}
)

type window struct {
	logger   *slog.Logger
	ctrl     *ui.Controller
	renderer *render.Renderer
	board    *ebiten.Image
	dirty    bool
}

// Run opens the window and blocks until it is closed or the player quits.
func Run(logger *slog.Logger, ctrl *ui.Controller, renderer *render.Renderer) error {
	w := &window{
		logger:   logger,
		ctrl:     ctrl,
		renderer: renderer,
		dirty:    true,
	}
	ebiten.SetWindowSize(w.Layout(0, 0))
	ebiten.SetWindowTitle(ui.Title)
	logger.Info("opening window")
	return ebiten.RunGame(w)
}

func (w *window) boardSize() (int, int) {
	p := w.ctrl.Params()
	return w.renderer.Size(p.Width, p.Height)
}

func dismissPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
		inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyEscape) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

func pressedButton() ui.Button {
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		return ui.ButtonPrimary
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		return ui.ButtonSecondary
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle):
		return ui.ButtonMiddle
	default:
		return ui.ButtonNone
	}
}

func (w *window) Update() error {
	if w.ctrl.Dialog() != nil {
		if dismissPressed() {
			w.ctrl.DismissDialog()
		}
		return nil
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		if err := w.ctrl.NewGame(); err != nil {
			return err
		}
		w.dirty = true
		return nil
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		w.ctrl.Forfeit()
		w.dirty = true
		return nil
	}

	button := pressedButton()
	if button == ui.ButtonNone {
		return nil
	}
	px, py := ebiten.CursorPosition()
	py -= headerHeight
	if px < 0 || py < 0 {
		return nil
	}
	x, y := w.renderer.CellAt(px, py)
	w.ctrl.Click(x, y, button)
	w.dirty = true
	return nil
}

func (w *window) Draw(screen *ebiten.Image) {
	if w.dirty || w.board == nil {
		if w.board != nil {
			w.board.Deallocate()
		}
		img := w.renderer.Draw(w.ctrl.Grid(), w.ctrl.Params().Width)
		w.board = ebiten.NewImageFromImage(img)
		w.dirty = false
	}

	screen.Fill(headerColor)
	ebitenutil.DebugPrintAt(screen, w.ctrl.StatusLine(), 4, 4)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, headerHeight)
	screen.DrawImage(w.board, op)

	if d := w.ctrl.Dialog(); d != nil {
		drawDialog(screen, *d)
	}
}

func drawDialog(screen *ebiten.Image, d ui.Dialog) {
	b := screen.Bounds()
	sw, sh := float32(b.Dx()), float32(b.Dy())
	vector.DrawFilledRect(screen, 0, 0, sw, sh, shadeColor, false)

	text := []string{d.Title, "", d.Message, "", "[ OK ]"}
	longest := 0
	for _, line := range text {
		longest = max(longest, len(line))
	}
	pw := float32(longest*glyphWidth + 32)
	ph := float32(len(text)*16 + 24)
	px, py := (sw-pw)/2, (sh-ph)/2

	vector.DrawFilledRect(screen, px, py, pw, ph, panelColor, false)
	vector.StrokeRect(screen, px, py, pw, ph, 2, borderColor, false)
	for i, line := range text {
		lx := int(px) + (int(pw)-len(line)*glyphWidth)/2
		ebitenutil.DebugPrintAt(screen, line, lx, int(py)+12+i*16)
	}
}

func (w *window) Layout(_, _ int) (int, int) {
	bw, bh := w.boardSize()
	return max(bw, minWidth), max(bh+headerHeight, minHeight)
}
