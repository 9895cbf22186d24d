package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/disintegration/imaging"
)

// DefaultGridColor is semi-transparent red.
const DefaultGridColor = "#FF000080"

// GridOverlay returns a copy of img with a line drawn along every block
// boundary, spacing pixels apart starting from the origin. The grid color is
// alpha-blended over the image; an unparsable colorHex falls back to
// DefaultGridColor.
func GridOverlay(img image.Image, spacing int, colorHex string) (*image.NRGBA, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("grid spacing must be positive, got %d", spacing)
	}

	gridColor, err := parseHexColor(colorHex)
	if err != nil {
		gridColor, _ = parseHexColor(DefaultGridColor)
	}

	result := imaging.Clone(img)
	bounds := result.Bounds()
	line := image.NewUniform(gridColor)

	for x := spacing; x < bounds.Dx(); x += spacing {
		draw.Draw(result, image.Rect(x, 0, x+1, bounds.Dy()), line, image.Point{}, draw.Over)
	}
	for y := spacing; y < bounds.Dy(); y += spacing {
		// Horizontal segments stop short of the vertical lines so crossings
		// are blended once.
		for x := 0; x < bounds.Dx(); x += spacing {
			seg := image.Rect(x, y, min(x+spacing, bounds.Dx()), y+1)
			if x > 0 {
				seg.Min.X++
			}
			draw.Draw(result, seg, line, image.Point{}, draw.Over)
		}
	}

	return result, nil
}

// parseHexColor parses "#RRGGBB" or "#RRGGBBAA" (the leading '#' is optional).
func parseHexColor(hex string) (color.NRGBA, error) {
	if len(hex) == 0 {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, err
	}

	switch len(hex) {
	case 6:
		return color.NRGBA{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 255}, nil
	case 8:
		return color.NRGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length")
	}
}
