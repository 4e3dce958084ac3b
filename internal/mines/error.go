package mines

import "errors"

var (
	ErrInvalidDimensions = errors.New("board dimensions must be positive")
	ErrBoardTooLarge     = errors.New("board has too many tiles")
	ErrInvalidBombCount  = errors.New("bomb count must not be negative")
	ErrTooManyBombs      = errors.New("the number of bombs must be <= the number of tiles in the board")
	ErrOutOfBounds       = errors.New("invalid tile coordinates")
)
