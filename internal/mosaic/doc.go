// Package mosaic renders recursive mosaics: every block of the output canvas is
// replaced by a miniature of the whole source image, recolored so that the
// miniature's average color matches the block it stands in for.
//
// The transform is a single flat pass over a static block grid. "Recursive"
// names the visual self-similarity of the result, not the control flow.
//
// # Pipeline
//
// A render proceeds in four stages:
//
//  1. Layout: the quality preset picks a scale factor and a resampling filter.
//     The output canvas is floor(width*scale) x floor(height*scale) and the
//     block size is max(1, round(blockSize*scale)).
//  2. Thumbnail: the source is resized to one block and its own average color
//     becomes the recolor target.
//  3. Sections: the canvas rows are split into disjoint contiguous ranges, one
//     per worker goroutine.
//  4. Compose: each worker walks the block grid intersecting its rows, looks up
//     the matching source block average, recolors the thumbnail and stamps it.
//
// # Coordinate System
//
// Blocks are aligned to multiples of the adjusted block size measured from the
// canvas origin. Sections never shift the grid; a block that straddles two
// sections is stamped by both, each clipped to its own rows. That is what makes
// the output independent of the parallelism degree.
//
// # Thread Safety
//
// The source image and the thumbnail are read-only once a render starts. The
// BlockCache is safe for concurrent use. The output canvas is written without
// locks because no two sections share a row.
//
// # Error Handling
//
// Render returns ErrInvalidImage for empty sources, ErrInvalidBlockSize for
// non-positive block sizes and ErrInvalidQuality for unknown presets. A panic
// inside a section is reported as a *SectionError wrapping ErrWorkerFailure,
// and only after every other section has finished.
package mosaic
