package mosaic

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// Resampler scales an image to exactly width x height.
//
// Implementations must be deterministic and safe for concurrent use.
type Resampler interface {
	Resize(img image.Image, width, height int, f Filter) *image.NRGBA
	Name() string
}

// ImagingResampler resizes with disintegration/imaging. It is the default.
type ImagingResampler struct{}

// Name returns "imaging".
func (ImagingResampler) Name() string { return "imaging" }

// Resize maps FilterFast to imaging.Linear and FilterHighQuality to imaging.Lanczos.
func (ImagingResampler) Resize(img image.Image, width, height int, f Filter) *image.NRGBA {
	filter := imaging.Lanczos
	if f == FilterFast {
		filter = imaging.Linear
	}
	return imaging.Resize(img, width, height, filter)
}

// NfntResampler resizes with nfnt/resize.
type NfntResampler struct{}

// Name returns "nfnt".
func (NfntResampler) Name() string { return "nfnt" }

// Resize maps FilterFast to resize.Bilinear and FilterHighQuality to resize.Lanczos3.
func (NfntResampler) Resize(img image.Image, width, height int, f Filter) *image.NRGBA {
	interp := resize.Lanczos3
	if f == FilterFast {
		interp = resize.Bilinear
	}
	// nfnt returns whatever concrete type matches the input; normalize it.
	return imaging.Clone(resize.Resize(uint(width), uint(height), img, interp))
}

// DefaultResampler is used when Options.Resampler is nil.
var DefaultResampler Resampler = ImagingResampler{}

// ResamplerNames lists the accepted backend names.
func ResamplerNames() []string {
	return []string{ImagingResampler{}.Name(), NfntResampler{}.Name()}
}

// ResamplerByName returns the backend called name. The empty string selects
// DefaultResampler.
func ResamplerByName(name string) (Resampler, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DefaultResampler, nil
	case "imaging":
		return ImagingResampler{}, nil
	case "nfnt":
		return NfntResampler{}, nil
	default:
		return nil, fmt.Errorf("unknown resampler %q (want %s)", name, strings.Join(ResamplerNames(), " or "))
	}
}
