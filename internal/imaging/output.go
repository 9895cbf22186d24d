package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/xfmoulet/qoi"
)

// JPEGQuality is used when saving to .jpg/.jpeg.
const JPEGQuality = 95

// EncodedImage is an image inlined as base64.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as a base64 PNG.
func EncodePNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// Save writes img to path. The encoder is picked from the extension:
// .png (or none), .jpg/.jpeg, .bmp and .qoi are supported. A leading "~"
// is expanded.
func Save(path string, img image.Image) error {
	enc, err := encoderFor(path)
	if err != nil {
		return err
	}
	resolved, err := ResolvePath(path)
	if err != nil {
		return err
	}
	if err := imgio.Save(resolved, img, enc); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

func encoderFor(path string) (imgio.Encoder, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "", ".png":
		return imgio.PNGEncoder(), nil
	case ".jpg", ".jpeg":
		return imgio.JPEGEncoder(JPEGQuality), nil
	case ".bmp":
		return imgio.BMPEncoder(), nil
	case ".qoi":
		return imgio.Encoder(qoi.Encode), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (want .png, .jpg, .bmp or .qoi)", ext)
	}
}

// OutputName returns the default output path for a render of source: a PNG
// named after the block size and quality, next to the source file.
func OutputName(source string, blockSize int, quality string) string {
	return filepath.Join(filepath.Dir(source), fmt.Sprintf("recursive_%dpx_%s.png", blockSize, quality))
}
