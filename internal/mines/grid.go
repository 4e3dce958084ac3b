package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CellStatus int8

const (
	Unknown       CellStatus = -2
	Flag          CellStatus = -1
	CorrectFlag   CellStatus = 64 // post-game-over
	ExplodedMine  CellStatus = 65
	WrongFlag     CellStatus = 66
	UnflaggedMine CellStatus = 67
	// 0-8 for a revealed tile with the given number of bombed neighbors
)

func (s CellStatus) Revealed() bool {
	return 0 <= s && s <= 8
}

func (s CellStatus) String() string {
	switch s {
	case Unknown:
		return " "
	case Flag:
		return "F"
	case 0:
		return "."
	case 1, 2, 3, 4, 5, 6, 7, 8:
		return strconv.Itoa(int(s))
	case CorrectFlag:
		return "+"
	case ExplodedMine:
		return "X"
	case WrongFlag:
		return "x"
	case UnflaggedMine:
		return "*"
	default:
		return "!"
	}
}

// Label is the text drawn on a tile; zero and covered tiles have none.
func (s CellStatus) Label() string {
	if s.Revealed() && s != 0 {
		return strconv.Itoa(int(s))
	}
	return ""
}

// GridInfo is the player-facing view of a board, row-major like [Board].
type GridInfo []CellStatus

func (g GridInfo) At(width, x, y int) CellStatus {
	return g[y*width+x]
}

func (g GridInfo) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			fmt.Fprint(&b, g[y*width+x].String())
			if x < width-1 {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
