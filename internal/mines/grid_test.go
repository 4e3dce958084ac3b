package mines

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellStatusLabel(t *testing.T) {
	assert.Equal(t, "", Unknown.Label())
	assert.Equal(t, "", Flag.Label())
	assert.Equal(t, "", CellStatus(0).Label(), "zero renders blank")
	assert.Equal(t, "3", CellStatus(3).Label())
	assert.Equal(t, "", ExplodedMine.Label())
}

func TestGridToString(t *testing.T) {
	g := GridInfo{
		Unknown, Flag, 0,
		1, ExplodedMine, WrongFlag,
	}
	assert.Equal(t, "  F .\n1 X x\n", g.ToString(3))
	assert.Equal(t, WrongFlag, g.At(3, 2, 1))
}
