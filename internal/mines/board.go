package mines

import (
	"math/rand/v2"
	"slices"
)

type Point struct {
	X, Y int
}

type Tile struct {
	Location      Point
	Bomb          bool
	Flagged       bool
	Revealed      bool
	NeighborBombs int
}

// Board is a row-major grid of tiles: the tile at (x, y) lives at y*Width+x.
type Board struct {
	GameParams
	tiles []Tile
}

// NewBoard fills the board, places the bombs and computes neighbor counts.
func NewBoard(params GameParams, r *rand.Rand) (*Board, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	b := &Board{GameParams: params}
	b.fill()
	b.placeBombs(r)
	b.countNeighbors()
	return b, nil
}

// BoardFromBombs builds a board with bombs at the given points. The bomb
// count is taken from the number of distinct points.
func BoardFromBombs(width, height int, bombs ...Point) (*Board, error) {
	b := &Board{GameParams: GameParams{Width: width, Height: height}}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	b.fill()
	for _, p := range bombs {
		t, ok := b.Tile(p.X, p.Y)
		if !ok {
			return nil, ErrOutOfBounds
		}
		if !t.Bomb {
			t.Bomb = true
			b.BombCount++
		}
	}
	b.countNeighbors()
	return b, nil
}

func (b *Board) fill() {
	b.tiles = make([]Tile, 0, b.TileCount())
	for y := range b.Height {
		for x := range b.Width {
			b.tiles = append(b.tiles, Tile{Location: Point{x, y}})
		}
	}
}

func (b *Board) placeBombs(r *rand.Rand) {
	candidates := make([]int, len(b.tiles))
	for i := range candidates {
		candidates[i] = i
	}

	/*
	 * Pick BombCount indices off the list without replacement.
	 */
	k := len(candidates)
	for range b.BombCount {
		i := r.IntN(k)
		b.tiles[candidates[i]].Bomb = true
		k--
		candidates[i] = candidates[k]
	}
}

func (b *Board) countNeighbors() {
	for i := range b.tiles {
		t := &b.tiles[i]
		t.NeighborBombs = 0
		for _, p := range b.Neighbors(t.Location) {
			if b.tiles[b.index(p)].Bomb {
				t.NeighborBombs++
			}
		}
	}
}

func (b *Board) index(p Point) int {
	return p.Y*b.Width + p.X
}

func (b *Board) Tile(x, y int) (*Tile, bool) {
	if !b.PointInBounds(x, y) {
		return nil, false
	}
	return &b.tiles[b.index(Point{x, y})], true
}

// Neighbors returns the up to 8 in-bounds points adjacent to p.
func (b *Board) Neighbors(p Point) []Point {
	neighbors := make([]Point, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if b.PointInBounds(p.X+dx, p.Y+dy) {
				neighbors = append(neighbors, Point{p.X + dx, p.Y + dy})
			}
		}
	}
	return neighbors
}

func (b *Board) Tiles() []Tile {
	return slices.Clone(b.tiles)
}

func (b *Board) Bombs() []Point {
	bombs := make([]Point, 0, b.BombCount)
	for _, t := range b.tiles {
		if t.Bomb {
			bombs = append(bombs, t.Location)
		}
	}
	return bombs
}
