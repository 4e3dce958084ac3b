// Package prompt asks for the board dimensions on a text terminal before the
// game window opens.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper/internal/mines"
)

const (
	WidthQuestion  = "How many tiles wide is the board? "
	HeightQuestion = "How many tiles tall is the board? "
	BombsQuestion  = "How many bombs are in the board? "
)

// Shown when an answer is refused.
const (
	NotANumberMessage   = "Please enter a whole number."
	NotPositiveMessage  = "Please enter a positive number."
	TooManyBombsMessage = "The number of bombs must be <= the number of tiles in the board."
)

var (
	errNotANumber   = errors.New("not a whole number")
	errNotPositive  = errors.New("not a positive number")
	errTooManyBombs = errors.New("more bombs than tiles")
)

// message is the line printed for a refused answer.
func message(err error) string {
	switch {
	case errors.Is(err, errNotANumber):
		return NotANumberMessage
	case errors.Is(err, errNotPositive):
		return NotPositiveMessage
	case errors.Is(err, errTooManyBombs):
		return TooManyBombsMessage
	}
	return err.Error()
}

type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Int asks question until the answer parses and passes check. The reason an
// answer was refused is printed before asking again.
func (p *Prompter) Int(question string, check func(int) error) (int, error) {
	for {
		if _, err := fmt.Fprint(p.out, question); err != nil {
			return 0, err
		}
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return 0, fmt.Errorf("unable to read answer: %w", err)
			}
			return 0, fmt.Errorf("no answer to %q: %w", strings.TrimSpace(question), io.ErrUnexpectedEOF)
		}

		n, err := strconv.Atoi(strings.TrimSpace(p.in.Text()))
		if err != nil {
			err = errNotANumber
		} else {
			err = check(n)
		}
		if err == nil {
			return n, nil
		}
		if _, err := fmt.Fprintln(p.out, message(err)); err != nil {
			return 0, err
		}
	}
}

func positive(n int) error {
	if n < 1 {
		return errNotPositive
	}
	return nil
}

// GameParams fills in whatever known leaves unset (zero or less). A bomb
// count that does not fit the board is asked for again.
func (p *Prompter) GameParams(known mines.GameParams) (mines.GameParams, error) {
	params := known
	var err error

	if params.Width < 1 {
		if params.Width, err = p.Int(WidthQuestion, positive); err != nil {
			return params, err
		}
	}
	if params.Height < 1 {
		if params.Height, err = p.Int(HeightQuestion, positive); err != nil {
			return params, err
		}
	}

	fits := func(n int) error {
		if err := positive(n); err != nil {
			return err
		}
		if n > params.TileCount() {
			return errTooManyBombs
		}
		return nil
	}

	if params.BombCount < 1 {
		if params.BombCount, err = p.Int(BombsQuestion, fits); err != nil {
			return params, err
		}
	} else if err := fits(params.BombCount); err != nil {
		fmt.Fprintln(p.out, message(err))
		if params.BombCount, err = p.Int(BombsQuestion, fits); err != nil {
			return params, err
		}
	}

	return params, nil
}
