package mosaic

import (
	"fmt"
	"math"
)

// Layout is the block grid for one render, derived from the source size, the
// requested block size and the quality preset.
type Layout struct {
	SourceWidth  int     `json:"source_width"`
	SourceHeight int     `json:"source_height"`
	Quality      Quality `json:"-"`
	Scale        float64 `json:"scale_factor"`
	Filter       Filter  `json:"-"`

	// BlockSize is the requested block size in source pixels.
	BlockSize int `json:"block_size"`

	// TileSize is the block size on the output canvas, max(1, round(BlockSize*Scale)).
	TileSize int `json:"tile_size"`

	OutputWidth  int `json:"output_width"`
	OutputHeight int `json:"output_height"`

	// ScaleBack converts canvas coordinates to source coordinates.
	ScaleBack float64 `json:"scale_back"`

	Columns int `json:"columns"`
	Rows    int `json:"rows"`
}

// NewLayout computes the canvas and block grid for a source of srcW x srcH.
func NewLayout(srcW, srcH, blockSize int, q Quality) (Layout, error) {
	if srcW <= 0 || srcH <= 0 {
		return Layout{}, fmt.Errorf("%w: source is %dx%d", ErrInvalidImage, srcW, srcH)
	}
	if blockSize <= 0 {
		return Layout{}, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}
	preset, err := q.Preset()
	if err != nil {
		return Layout{}, err
	}

	outW := int(math.Floor(float64(srcW) * preset.Scale))
	outH := int(math.Floor(float64(srcH) * preset.Scale))
	if outW <= 0 || outH <= 0 {
		return Layout{}, fmt.Errorf("%w: %dx%d source scales to an empty %dx%d canvas at %s quality",
			ErrInvalidImage, srcW, srcH, outW, outH, q)
	}

	tile := max(1, int(math.Round(float64(blockSize)*preset.Scale)))

	return Layout{
		SourceWidth:  srcW,
		SourceHeight: srcH,
		Quality:      q,
		Scale:        preset.Scale,
		Filter:       preset.Filter,
		BlockSize:    blockSize,
		TileSize:     tile,
		OutputWidth:  outW,
		OutputHeight: outH,
		ScaleBack:    float64(srcW) / float64(outW),
		Columns:      ceilDiv(outW, tile),
		Rows:         ceilDiv(outH, tile),
	}, nil
}

// BlockCount is the number of blocks in the grid, edge blocks included.
func (l Layout) BlockCount() int {
	return l.Columns * l.Rows
}

// SourceBlock maps the canvas block at (x, y) back to the source square it
// summarizes.
func (l Layout) SourceBlock(x, y int) (x0, y0, size int) {
	x0 = int(math.Floor(float64(x) * l.ScaleBack))
	y0 = int(math.Floor(float64(y) * l.ScaleBack))
	size = int(math.Round(float64(l.TileSize) * l.ScaleBack))
	return x0, y0, size
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
