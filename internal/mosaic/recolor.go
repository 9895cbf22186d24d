package mosaic

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// recolorFactors holds the per-channel multipliers that move an image whose
// mean is target toward the mean block.
type recolorFactors struct {
	r, g, b float64
}

func newRecolorFactors(target, block AverageColor) recolorFactors {
	return recolorFactors{
		r: float64(block.R) / float64(max(target.R, 1)),
		g: float64(block.G) / float64(max(target.G, 1)),
		b: float64(block.B) / float64(max(target.B, 1)),
	}
}

func (f recolorFactors) identity() bool {
	return f.r == 1 && f.g == 1 && f.b == 1
}

func (f recolorFactors) apply(c color.NRGBA) color.NRGBA {
	return color.NRGBA{
		R: scaleChannel(c.R, f.r),
		G: scaleChannel(c.G, f.g),
		B: scaleChannel(c.B, f.b),
		A: c.A,
	}
}

func scaleChannel(v uint8, f float64) uint8 {
	x := math.Round(float64(v) * f)
	if x <= 0 {
		return 0
	}
	if x >= 255 {
		return 255
	}
	return uint8(x)
}

// Recolor returns a copy of thumb with every channel multiplied by
// block/target for that channel, rounded and clamped to [0,255].
//
// Target channels are floored at 1 before dividing. thumb is never modified.
func Recolor(thumb *image.NRGBA, target, block AverageColor) *image.NRGBA {
	f := newRecolorFactors(target, block)
	if f.identity() {
		return imaging.Clone(thumb)
	}
	return imaging.AdjustFunc(thumb, f.apply)
}
