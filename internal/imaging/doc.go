// Package imaging holds the image I/O and presentation helpers that sit around
// the mosaic renderer: decoding and caching source files, saving or encoding
// rendered canvases, describing colors, and drawing block-grid overlays.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner. X grows
// rightward and Y grows downward.
//
// # Supported Formats
//
// Sources may be PNG, JPEG, GIF, BMP, TIFF, WebP or QOI. Outputs may be
// written as PNG, JPEG, BMP or QOI, chosen by file extension. Paths may start
// with "~".
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The remaining functions are stateless.
//
// # Color Representation
//
// Colors are reported as:
//   - Hex: 6-character format "#RRGGBB"
//   - RGB: 8-bit components (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
package imaging
