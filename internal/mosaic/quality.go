package mosaic

import (
	"fmt"
	"strings"
)

// Quality names a resolution/resampling preset. The zero value means "unset"
// and is resolved to DefaultQuality by Render.
type Quality int

const (
	QualityLow Quality = iota + 1
	QualityNormal
	QualityHigh
	QualityUltra
)

// DefaultQuality is used when the caller does not choose a preset.
const DefaultQuality = QualityNormal

// Filter selects how the thumbnail is resampled.
type Filter int

const (
	// FilterFast is bilinear interpolation.
	FilterFast Filter = iota
	// FilterHighQuality is Lanczos interpolation.
	FilterHighQuality
)

func (f Filter) String() string {
	switch f {
	case FilterFast:
		return "fast"
	case FilterHighQuality:
		return "high-quality"
	default:
		return fmt.Sprintf("Filter(%d)", int(f))
	}
}

// Preset is the configuration bundled by a Quality.
type Preset struct {
	Scale  float64 `json:"scale_factor"`
	Filter Filter  `json:"-"`
}

var presets = map[Quality]Preset{
	QualityLow:    {Scale: 0.75, Filter: FilterFast},
	QualityNormal: {Scale: 1.0, Filter: FilterHighQuality},
	QualityHigh:   {Scale: 1.5, Filter: FilterHighQuality},
	QualityUltra:  {Scale: 2.0, Filter: FilterHighQuality},
}

var qualityNames = map[Quality]string{
	QualityLow:    "low",
	QualityNormal: "normal",
	QualityHigh:   "high",
	QualityUltra:  "ultra",
}

// Qualities lists every preset from fastest to finest.
func Qualities() []Quality {
	return []Quality{QualityLow, QualityNormal, QualityHigh, QualityUltra}
}

func (q Quality) String() string {
	if name, ok := qualityNames[q]; ok {
		return name
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}

// Preset resolves the scale factor and filter for q.
func (q Quality) Preset() (Preset, error) {
	p, ok := presets[q]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %s", ErrInvalidQuality, q)
	}
	return p, nil
}

// ParseQuality maps "low", "normal", "high" or "ultra" (case-insensitive) to
// a Quality. The empty string selects DefaultQuality.
func ParseQuality(s string) (Quality, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultQuality, nil
	}
	for q, name := range qualityNames {
		if name == s {
			return q, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (want low, normal, high or ultra)", ErrInvalidQuality, s)
}
