package mosaic

import (
	"fmt"
	"image"
)

// Composer stamps recolored thumbnails onto a canvas following a Layout.
//
// A Composer is read-only after construction, so ComposeRows may run from
// several goroutines at once as long as their row ranges do not overlap.
type Composer struct {
	layout   Layout
	src      *image.NRGBA
	thumb    *image.NRGBA
	thumbAvg AverageColor
	cache    *BlockCache
}

// NewComposer resizes src to one tile with r and records the thumbnail's own
// average as the recolor target. cache must wrap src.
func NewComposer(src *image.NRGBA, layout Layout, r Resampler, cache *BlockCache) *Composer {
	thumb := r.Resize(src, layout.TileSize, layout.TileSize, layout.Filter)
	return &Composer{
		layout:   layout,
		src:      src,
		thumb:    thumb,
		thumbAvg: GlobalAverage(thumb),
		cache:    cache,
	}
}

// Layout returns the grid the composer follows.
func (c *Composer) Layout() Layout { return c.layout }

// Thumbnail returns the tile-sized miniature. Callers must not modify it.
func (c *Composer) Thumbnail() *image.NRGBA { return c.thumb }

// ThumbnailAverage returns the recolor target.
func (c *Composer) ThumbnailAverage() AverageColor { return c.thumbAvg }

// ComposeRows writes canvas rows [yStart, yEnd).
//
// Every block whose rows intersect the range is recolored and pasted, clipped
// to the range and to the canvas. Blocks stay on the global grid, so splitting
// the rows differently never changes a pixel.
func (c *Composer) ComposeRows(canvas *image.NRGBA, yStart, yEnd int) error {
	want := image.Rect(0, 0, c.layout.OutputWidth, c.layout.OutputHeight)
	if canvas.Bounds() != want {
		return fmt.Errorf("canvas bounds %v do not match layout %v", canvas.Bounds(), want)
	}
	yStart = max(yStart, 0)
	yEnd = min(yEnd, c.layout.OutputHeight)
	if yStart >= yEnd {
		return nil
	}

	tile := c.layout.TileSize
	for by := yStart / tile * tile; by < yEnd; by += tile {
		// Only the thumbnail rows that land inside [yStart, yEnd) are recolored.
		top := max(by, yStart)
		bottom := min(by+tile, yEnd)
		rows := c.thumb.SubImage(image.Rect(0, top-by, tile, bottom-by)).(*image.NRGBA)

		for bx := 0; bx < c.layout.OutputWidth; bx += tile {
			x0, y0, size := c.layout.SourceBlock(bx, by)
			blockAvg := c.cache.Average(x0, y0, size)
			stamp := Recolor(rows, c.thumbAvg, blockAvg)
			paste(canvas, stamp, bx, top)
		}
	}
	return nil
}

// paste copies the zero-origin stamp into canvas with its top-left corner at
// (x, y), dropping columns past the canvas edge.
func paste(canvas, stamp *image.NRGBA, x, y int) {
	w := min(stamp.Bounds().Dx(), canvas.Bounds().Max.X-x)
	if w <= 0 {
		return
	}
	for row := 0; row < stamp.Bounds().Dy(); row++ {
		dst := canvas.PixOffset(x, y+row)
		src := stamp.PixOffset(0, row)
		copy(canvas.Pix[dst:dst+w*4], stamp.Pix[src:src+w*4])
	}
}
