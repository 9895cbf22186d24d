package mosaic

import (
	"image"
	"image/color"
	"testing"
)

func newTestComposer(t *testing.T, src *image.NRGBA, blockSize int, q Quality) *Composer {
	t.Helper()
	layout, err := NewLayout(src.Bounds().Dx(), src.Bounds().Dy(), blockSize, q)
	if err != nil {
		t.Fatalf("NewLayout failed: %v", err)
	}
	return NewComposer(src, layout, ImagingResampler{}, NewBlockCache(src, layout.BlockCount()))
}

func TestCompose_SolidRed(t *testing.T) {
	red := color.NRGBA{255, 0, 0, 255}
	src := createInMemoryImage(4, 4, red)

	out, err := Compose(src, 2, QualityNormal)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if out.Bounds().Dx() != 4 || out.Bounds().Dy() != 4 {
		t.Fatalf("dimensions: got %v, want 4x4", out.Bounds())
	}
	assertSolid(t, out, red)
}

func TestCompose_SingleBlockSolid(t *testing.T) {
	c := color.NRGBA{10, 200, 30, 255}
	src := createInMemoryImage(6, 4, c)

	out, err := Compose(src, 8, QualityNormal)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if out.Bounds().Dx() != 6 || out.Bounds().Dy() != 4 {
		t.Fatalf("dimensions: got %v, want 6x4", out.Bounds())
	}
	assertSolid(t, out, c)
}

func TestCompose_SingleBlockIsThumbnail(t *testing.T) {
	src := createGradientImage(6, 4)
	comp := newTestComposer(t, src, 8, QualityNormal)

	if n := comp.Layout().BlockCount(); n != 1 {
		t.Fatalf("BlockCount: got %d, want 1", n)
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	if err := comp.ComposeRows(canvas, 0, 4); err != nil {
		t.Fatalf("ComposeRows failed: %v", err)
	}

	// The only block covers the whole source, so the stamp is the thumbnail
	// recolored from its own mean to the source mean, cropped to the canvas.
	want := Recolor(comp.Thumbnail(), comp.ThumbnailAverage(), GlobalAverage(src))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			if got, w := canvas.NRGBAAt(x, y), want.NRGBAAt(x, y); got != w {
				t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, got, w)
			}
		}
	}
}

func TestCompose_RedBlueSplit(t *testing.T) {
	src := createSplitImage(8, 4, color.NRGBA{255, 0, 0, 255}, color.NRGBA{0, 0, 255, 255})
	comp := newTestComposer(t, src, 4, QualityNormal)

	l := comp.Layout()
	if l.Columns != 2 || l.Rows != 1 {
		t.Fatalf("grid: got %dx%d, want 2x1", l.Columns, l.Rows)
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	if err := comp.ComposeRows(canvas, 0, 4); err != nil {
		t.Fatalf("ComposeRows failed: %v", err)
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			p := canvas.NRGBAAt(x, y)
			if p.G != 0 {
				t.Errorf("pixel (%d,%d): green %d, want 0", x, y, p.G)
			}
			if x < 4 && p.B != 0 {
				t.Errorf("left block pixel (%d,%d): blue %d, want 0", x, y, p.B)
			}
			if x >= 4 && p.R != 0 {
				t.Errorf("right block pixel (%d,%d): red %d, want 0", x, y, p.R)
			}
		}
	}

	if p := canvas.NRGBAAt(0, 0); p.R != 255 {
		t.Errorf("left edge: got %v, want saturated red", p)
	}
	if p := canvas.NRGBAAt(7, 0); p.B != 255 {
		t.Errorf("right edge: got %v, want saturated blue", p)
	}
}

func TestComposeRows_OnlyWritesRange(t *testing.T) {
	src := createGradientImage(10, 10)
	comp := newTestComposer(t, src, 4, QualityNormal)

	canvas := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	if err := comp.ComposeRows(canvas, 3, 7); err != nil {
		t.Fatalf("ComposeRows failed: %v", err)
	}

	for y := 0; y < 10; y++ {
		inRange := y >= 3 && y < 7
		for x := 0; x < 10; x++ {
			a := canvas.NRGBAAt(x, y).A
			if inRange && a != 255 {
				t.Fatalf("row %d inside range not written at x=%d", y, x)
			}
			if !inRange && a != 0 {
				t.Fatalf("row %d outside range written at x=%d", y, x)
			}
		}
	}
}

func TestComposeRows_SplitInsideBlocks(t *testing.T) {
	src := createGradientImage(13, 11)
	comp := newTestComposer(t, src, 4, QualityNormal)

	whole := image.NewNRGBA(image.Rect(0, 0, 13, 11))
	if err := comp.ComposeRows(whole, 0, 11); err != nil {
		t.Fatalf("ComposeRows failed: %v", err)
	}

	// Every cut falls inside a 4-row block.
	split := image.NewNRGBA(image.Rect(0, 0, 13, 11))
	for _, r := range [][2]int{{0, 1}, {1, 3}, {3, 6}, {6, 10}, {10, 11}} {
		if err := comp.ComposeRows(split, r[0], r[1]); err != nil {
			t.Fatalf("ComposeRows(%d,%d) failed: %v", r[0], r[1], err)
		}
	}

	for i := range whole.Pix {
		if whole.Pix[i] != split.Pix[i] {
			x, y := (i/4)%13, (i/4)/13
			t.Fatalf("pixel (%d,%d) differs: whole %v, split %v", x, y, whole.NRGBAAt(x, y), split.NRGBAAt(x, y))
		}
	}
}

func TestComposeRows_EmptyRange(t *testing.T) {
	src := createGradientImage(10, 10)
	comp := newTestComposer(t, src, 4, QualityNormal)
	canvas := image.NewNRGBA(image.Rect(0, 0, 10, 10))

	for _, r := range [][2]int{{5, 5}, {8, 2}, {10, 20}, {-5, 0}} {
		if err := comp.ComposeRows(canvas, r[0], r[1]); err != nil {
			t.Fatalf("ComposeRows(%d,%d) failed: %v", r[0], r[1], err)
		}
	}
	for _, v := range canvas.Pix {
		if v != 0 {
			t.Fatal("empty ranges wrote pixels")
		}
	}
}

func TestComposeRows_CanvasMismatch(t *testing.T) {
	src := createGradientImage(10, 10)
	comp := newTestComposer(t, src, 4, QualityNormal)

	canvas := image.NewNRGBA(image.Rect(0, 0, 9, 10))
	if err := comp.ComposeRows(canvas, 0, 10); err == nil {
		t.Error("ComposeRows should reject a canvas of the wrong size")
	}
}
