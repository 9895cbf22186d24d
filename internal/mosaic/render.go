package mosaic

import (
	"image"
	"time"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"
)

// DefaultBlockSize is the fallback for callers that have no configured block
// size. Render itself rejects a zero BlockSize.
const DefaultBlockSize = 16

// Options configures a render.
type Options struct {
	// BlockSize is the tile granularity in source pixels. Must be > 0.
	BlockSize int

	// Quality selects scale factor and filter. Zero means DefaultQuality.
	Quality Quality

	// Parallelism is the number of concurrent sections. <= 0 means DefaultParallelism.
	Parallelism int

	// Progress, if set, receives completion updates.
	Progress ProgressFunc

	// Resampler builds the thumbnail. Nil means DefaultResampler.
	Resampler Resampler

	// CacheSize bounds the block-average cache. <= 0 sizes it to the block count.
	CacheSize int
}

// Result is a finished render.
type Result struct {
	Image            *image.NRGBA
	Layout           Layout
	SourceAverage    AverageColor
	ThumbnailAverage AverageColor
	Sections         []Section
	Cache            CacheStats
	Elapsed          time.Duration
}

// Render composes the recursive mosaic of src.
//
// The canvas is split into row sections that are composed concurrently and
// joined before Render returns. The output is identical for every
// Parallelism value. Alpha in src is ignored.
func Render(src image.Image, opts Options) (*Result, error) {
	if opts.Quality == 0 {
		opts.Quality = DefaultQuality
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = DefaultParallelism
	}
	if opts.Resampler == nil {
		opts.Resampler = DefaultResampler
	}

	var bounds image.Rectangle
	if src != nil {
		bounds = src.Bounds()
	}
	layout, err := NewLayout(bounds.Dx(), bounds.Dy(), opts.BlockSize, opts.Quality)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	source := Opaque(src)

	capacity := opts.CacheSize
	if capacity <= 0 {
		capacity = layout.BlockCount()
	}
	cache := NewBlockCache(source, capacity)
	composer := NewComposer(source, layout, opts.Resampler, cache)

	canvas := image.NewNRGBA(image.Rect(0, 0, layout.OutputWidth, layout.OutputHeight))
	sections := Sections(layout.OutputHeight, opts.Parallelism)

	log.WithFields(log.Fields{
		"source":    [2]int{layout.SourceWidth, layout.SourceHeight},
		"output":    [2]int{layout.OutputWidth, layout.OutputHeight},
		"tile":      layout.TileSize,
		"quality":   layout.Quality.String(),
		"sections":  len(sections),
		"resampler": opts.Resampler.Name(),
	}).Debug("Rendering mosaic")

	err = runSections(sections, func(s Section) error {
		return composer.ComposeRows(canvas, s.YStart, s.YEnd)
	}, opts.Progress)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Image:            canvas,
		Layout:           layout,
		SourceAverage:    GlobalAverage(source),
		ThumbnailAverage: composer.ThumbnailAverage(),
		Sections:         sections,
		Cache:            cache.Stats(),
		Elapsed:          time.Since(start),
	}

	log.WithFields(log.Fields{
		"elapsed":      res.Elapsed,
		"cache_hits":   res.Cache.Hits,
		"cache_misses": res.Cache.Misses,
	}).Debug("Mosaic rendered")

	return res, nil
}

// Compose renders src as a single section and returns the canvas.
func Compose(src image.Image, blockSize int, q Quality) (*image.NRGBA, error) {
	res, err := Render(src, Options{BlockSize: blockSize, Quality: q, Parallelism: 1})
	if err != nil {
		return nil, err
	}
	return res.Image, nil
}

// Opaque converts img to a zero-origin NRGBA copy with every alpha forced to
// 255, the pixel layout the averaging and composing code expects.
func Opaque(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}
