// Package render rasterizes a board view: one square cell per tile, filled
// according to its state and labeled with its neighbor count.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/vancomm/minesweeper/internal/mines"
)

const DefaultCellSize = 50

var (
	CoveredColor  color.Color = color.White
	FlaggedColor  color.Color = color.RGBA{0xff, 0xa5, 0x00, 0xff}
	RevealedColor color.Color = color.RGBA{0xbe, 0xbe, 0xbe, 0xff}
	ExplodedColor color.Color = color.RGBA{0xe0, 0x30, 0x30, 0xff}
	MineColor     color.Color = color.RGBA{0x20, 0x20, 0x20, 0xff}
	OutlineColor  color.Color = color.Black
	LabelColor    color.Color = color.Black
)

type Renderer struct {
	CellSize int
	font     *truetype.Font
}

func New(cellSize int) (*Renderer, error) {
	if cellSize < 1 {
		return nil, fmt.Errorf("invalid cell size %d", cellSize)
	}
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &Renderer{CellSize: cellSize, font: f}, nil
}

// CellAt maps a pixel on the drawn board back to a tile.
func (r *Renderer) CellAt(px, py int) (x, y int) {
	return px / r.CellSize, py / r.CellSize
}

func (r *Renderer) Size(width, height int) (int, int) {
	return width * r.CellSize, height * r.CellSize
}

func fillFor(s mines.CellStatus) color.Color {
	switch {
	case s == mines.Unknown:
		return CoveredColor
	case s == mines.Flag, s == mines.CorrectFlag, s == mines.WrongFlag:
		return FlaggedColor
	case s == mines.ExplodedMine:
		return ExplodedColor
	default:
		return RevealedColor
	}
}

// Draw renders grid, a row-major view width tiles wide. Every call gets its
// own context and font face, so one Renderer can serve several goroutines.
func (r *Renderer) Draw(grid mines.GridInfo, width int) image.Image {
	height := len(grid) / width
	cs := float64(r.CellSize)

	dc := gg.NewContext(r.Size(width, height))
	dc.SetColor(CoveredColor)
	dc.Clear()
	dc.SetFontFace(truetype.NewFace(r.font, &truetype.Options{
		Size:    cs / 2,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	for i, s := range grid {
		x := float64(i%width) * cs
		y := float64(i/width) * cs
		cx, cy := x+cs/2, y+cs/2

		dc.DrawRectangle(x, y, cs, cs)
		dc.SetColor(fillFor(s))
		dc.FillPreserve()
		dc.SetColor(OutlineColor)
		dc.SetLineWidth(1)
		dc.Stroke()

		switch s {
		case mines.ExplodedMine, mines.UnflaggedMine, mines.CorrectFlag:
			dc.DrawCircle(cx, cy, cs/5)
			dc.SetColor(MineColor)
			dc.Fill()
		case mines.WrongFlag:
			dc.SetColor(MineColor)
			dc.SetLineWidth(2)
			dc.DrawLine(x+cs/4, y+cs/4, x+3*cs/4, y+3*cs/4)
			dc.DrawLine(x+3*cs/4, y+cs/4, x+cs/4, y+3*cs/4)
			dc.Stroke()
		}

		if label := s.Label(); label != "" {
			dc.SetColor(LabelColor)
			dc.DrawStringAnchored(label, cx, cy, 0.5, 0.35)
		}
	}

	return dc.Image()
}

func (r *Renderer) WritePNG(w io.Writer, grid mines.GridInfo, width int) error {
	return png.Encode(w, r.Draw(grid, width))
}
