package mosaic

import (
	"fmt"
	"image"
)

// AverageColor is the per-channel arithmetic mean of a set of pixels.
// Alpha is ignored.
type AverageColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String formats the color as "(r,g,b)".
func (c AverageColor) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.R, c.G, c.B)
}

// GlobalAverage computes the mean color of the whole image.
func GlobalAverage(img *image.NRGBA) AverageColor {
	return averageRect(img, img.Bounds())
}

// BlockAverage computes the mean color of the square [x0, x0+size) x
// [y0, y0+size), clipped to the image bounds.
//
// A square that does not intersect the image at all yields the zero color.
// This is the defined edge policy, not an error.
func BlockAverage(img *image.NRGBA, x0, y0, size int) AverageColor {
	if size <= 0 {
		return AverageColor{}
	}
	r := image.Rect(x0, y0, x0+size, y0+size).Intersect(img.Bounds())
	return averageRect(img, r)
}

// averageRect sums the channels over r (already inside img) and divides by the
// pixel count with truncation.
func averageRect(img *image.NRGBA, r image.Rectangle) AverageColor {
	if r.Empty() {
		return AverageColor{}
	}

	var sr, sg, sb uint64
	w := r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := img.PixOffset(r.Min.X, y)
		row := img.Pix[off : off+w*4]
		for i := 0; i < len(row); i += 4 {
			sr += uint64(row[i])
			sg += uint64(row[i+1])
			sb += uint64(row[i+2])
		}
	}

	n := uint64(w * r.Dy())
	return AverageColor{
		R: uint8(sr / n),
		G: uint8(sg / n),
		B: uint8(sb / n),
	}
}
