package mines

import (
	"fmt"
	"math"
	"strings"
)

type GameParams struct {
	Width, Height, BombCount int
}

func (p GameParams) Unpack() (w int, h int, bc int) {
	return p.Width, p.Height, p.BombCount
}

func (p GameParams) TileCount() int {
	return p.Width * p.Height
}

// Validate reports why p cannot describe a board. A zero-bomb board is valid.
func (p GameParams) Validate() error {
	if p.Width < 1 || p.Height < 1 {
		return fmt.Errorf("%w (got %dx%d)", ErrInvalidDimensions, p.Width, p.Height)
	}
	if p.Width > math.MaxInt/p.Height {
		return fmt.Errorf("%w (%dx%d overflows)", ErrBoardTooLarge, p.Width, p.Height)
	}
	if p.BombCount < 0 {
		return ErrInvalidBombCount
	}
	if p.BombCount > p.TileCount() {
		return fmt.Errorf("%w (%d > %d)", ErrTooManyBombs, p.BombCount, p.TileCount())
	}
	return nil
}

func (p GameParams) PointInBounds(x, y int) bool {
	return 0 <= x && x < p.Width && 0 <= y && y < p.Height
}

func (p GameParams) String() string {
	return fmt.Sprintf("%d:%d:%d", p.Width, p.Height, p.BombCount)
}

func ParseGameParams(s string) (*GameParams, error) {
	p := &GameParams{}
	n, err := fmt.Sscanf(
		strings.ReplaceAll(s, ":", " "), "%d %d %d", &p.Width, &p.Height, &p.BombCount,
	)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(`invalid game params %q (n = %d, err = %w)`, s, n, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
