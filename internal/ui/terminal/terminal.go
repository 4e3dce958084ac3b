// Package terminal plays the game full-screen in a terminal with mouse
// support. Each tile is cellWidth columns wide and one row tall.
package terminal

import (
	"fmt"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/ui"
)

const (
	cellWidth = 3
	boardTop  = 1 // row 0 is the status line
)

var (
	coveredStyle  = tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack)
	flaggedStyle  = tcell.StyleDefault.Background(tcell.ColorOrange).Foreground(tcell.ColorBlack)
	revealedStyle = tcell.StyleDefault.Background(tcell.ColorGray).Foreground(tcell.ColorBlack)
	explodedStyle = tcell.StyleDefault.Background(tcell.ColorRed).Foreground(tcell.ColorBlack)
	textStyle     = tcell.StyleDefault
	dialogStyle   = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
)

type Terminal struct {
	logger  *slog.Logger
	ctrl    *ui.Controller
	screen  tcell.Screen
	buttons tcell.ButtonMask
	copy    func(string) error
	notice  string
}

func New(logger *slog.Logger, ctrl *ui.Controller, screen tcell.Screen) *Terminal {
	return &Terminal{
		logger: logger,
		ctrl:   ctrl,
		screen: screen,
		copy:   clipboard.WriteAll,
	}
}

// Run takes over the terminal until the player quits.
func Run(logger *slog.Logger, ctrl *ui.Controller) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("unable to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("unable to init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	return New(logger, ctrl, screen).Loop()
}

func (t *Terminal) Loop() error {
	t.Draw()
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !t.Handle(ev) {
			return nil
		}
		t.Draw()
	}
}

// Handle applies one event and reports whether the loop should go on.
func (t *Terminal) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
	case *tcell.EventKey:
		return t.handleKey(ev)
	case *tcell.EventMouse:
		t.handleMouse(ev)
	}
	return true
}

func (t *Terminal) handleKey(ev *tcell.EventKey) bool {
	if t.ctrl.Dialog() != nil {
		switch {
		case ev.Key() == tcell.KeyEnter, ev.Key() == tcell.KeyEscape,
			ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
			t.ctrl.DismissDialog()
		case ev.Key() == tcell.KeyCtrlC:
			return false
		}
		return true
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'n':
			if err := t.ctrl.NewGame(); err != nil {
				t.logger.Error("unable to start a new game", slog.Any("error", err))
			}
			t.notice = ""
		case 'r':
			t.ctrl.Forfeit()
		case 'y':
			t.copyBoard()
		}
	}
	return true
}

func (t *Terminal) copyBoard() {
	text := t.ctrl.Grid().ToString(t.ctrl.Params().Width)
	if err := t.copy(text); err != nil {
		t.logger.Warn("unable to copy board", slog.Any("error", err))
		t.notice = "clipboard unavailable"
		return
	}
	t.notice = "board copied"
}

func buttonFor(pressed tcell.ButtonMask) ui.Button {
	switch {
	case pressed&tcell.Button1 != 0:
		return ui.ButtonPrimary
	case pressed&tcell.Button2 != 0:
		return ui.ButtonSecondary
	case pressed&tcell.Button3 != 0:
		return ui.ButtonMiddle
	default:
		return ui.ButtonNone
	}
}

// handleMouse acts on button presses only; tcell also reports releases and
// motion, which show up as changes of the held mask.
func (t *Terminal) handleMouse(ev *tcell.EventMouse) {
	held := ev.Buttons() & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	pressed := held &^ t.buttons
	t.buttons = held
	if pressed == 0 {
		return
	}

	if t.ctrl.Dialog() != nil {
		t.ctrl.DismissDialog()
		return
	}

	mx, my := ev.Position()
	if mx < 0 || my < boardTop {
		return
	}
	t.ctrl.Click(mx/cellWidth, my-boardTop, buttonFor(pressed))
}

func styleFor(s mines.CellStatus) tcell.Style {
	switch s {
	case mines.Unknown:
		return coveredStyle
	case mines.Flag, mines.CorrectFlag, mines.WrongFlag:
		return flaggedStyle
	case mines.ExplodedMine:
		return explodedStyle
	default:
		return revealedStyle
	}
}

func glyphFor(s mines.CellStatus) rune {
	switch s {
	case mines.Flag, mines.CorrectFlag:
		return 'F'
	case mines.WrongFlag:
		return 'x'
	case mines.ExplodedMine, mines.UnflaggedMine:
		return '*'
	}
	if label := s.Label(); label != "" {
		return rune(label[0])
	}
	return ' '
}

func (t *Terminal) puts(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (t *Terminal) Draw() {
	t.screen.Clear()

	status := t.ctrl.StatusLine() + "  [n]ew [r]esign [y]ank [q]uit"
	if t.notice != "" {
		status += "  " + t.notice
	}
	t.puts(0, 0, status, textStyle)

	width := t.ctrl.Params().Width
	for i, s := range t.ctrl.Grid() {
		x, y := (i%width)*cellWidth, boardTop+i/width
		style := styleFor(s)
		t.screen.SetContent(x, y, ' ', nil, style)
		t.screen.SetContent(x+1, y, glyphFor(s), nil, style)
		t.screen.SetContent(x+2, y, ' ', nil, style)
	}

	if d := t.ctrl.Dialog(); d != nil {
		t.drawDialog(*d)
	}
	t.screen.Show()
}

func (t *Terminal) drawDialog(d ui.Dialog) {
	sw, sh := t.screen.Size()
	lines := []string{d.Title, "", d.Message, "", "[ OK ]"}
	w := 0
	for _, l := range lines {
		w = max(w, len(l))
	}
	w += 4
	h := len(lines) + 2
	left, top := max((sw-w)/2, 0), max((sh-h)/2, 0)

	for y := range h {
		t.puts(left, top+y, fmt.Sprintf("%*s", w, ""), dialogStyle)
	}
	for i, l := range lines {
		t.puts(left+(w-len(l))/2, top+1+i, l, dialogStyle)
	}
}
