package ops

import (
	"image"
	"image/color"
	"testing"
)

// solid builds a width x height image filled with one color.
func solid(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// quadrants builds an image with a distinct color per quadrant.
func quadrants(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.NRGBA
			switch {
			case x < width/2 && y < height/2:
				c = color.NRGBA{255, 0, 0, 255}
			case x >= width/2 && y < height/2:
				c = color.NRGBA{0, 255, 0, 255}
			case x < width/2:
				c = color.NRGBA{0, 0, 255, 255}
			default:
				c = color.NRGBA{255, 255, 255, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestScaleFit(t *testing.T) {
	src := solid(40, 20, color.NRGBA{100, 100, 100, 255})

	tests := []struct {
		name   string
		mode   FitMode
		w, h   int
		wantW  int
		wantH  int
	}{
		{"none keeps size", FitNone, 10, 10, 40, 20},
		{"fit resizes exactly", FitExact, 10, 10, 10, 10},
		{"crop keeps target", FitCrop, 10, 10, 10, 10},
		{"aspect scales by larger edge", FitAspect, 80, 10, 80, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ScaleFit(src, tt.w, tt.h, tt.mode)
			if out.Rect.Dx() != tt.wantW || out.Rect.Dy() != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", out.Rect.Dx(), out.Rect.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestScaleFitMatchingSizeIsIdentity(t *testing.T) {
	src := quadrants(8, 8)
	out := ScaleFit(src, 8, 8, FitExact)
	if out.NRGBAAt(1, 1) != src.NRGBAAt(1, 1) {
		t.Error("matching size should leave pixels untouched")
	}
}

func TestTranslate(t *testing.T) {
	src := quadrants(8, 8)

	// Shift right by half: the red top-left quadrant lands top-right.
	out := Translate(src, 0.5, 0)
	if out.Rect.Dx() != 8 || out.Rect.Dy() != 8 {
		t.Fatalf("canvas size changed: %dx%d", out.Rect.Dx(), out.Rect.Dy())
	}
	if got := out.NRGBAAt(5, 1); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("shifted pixel: got %+v, want red", got)
	}
	// Vacated region is black.
	if got := out.NRGBAAt(1, 1); got.R != 0 || got.G != 0 || got.B != 0 {
		t.Errorf("vacated pixel: got %+v, want black", got)
	}
}

func TestRotateKeepsCanvasSize(t *testing.T) {
	src := quadrants(16, 16)
	out := Rotate(src, 45)
	if out.Rect.Dx() != 16 || out.Rect.Dy() != 16 {
		t.Errorf("rotation must clip to the original canvas, got %dx%d", out.Rect.Dx(), out.Rect.Dy())
	}
}

func TestRotateZeroIsIdentity(t *testing.T) {
	src := quadrants(8, 8)
	out := Rotate(src, 0)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if out.NRGBAAt(x, y) != src.NRGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) changed under zero rotation", x, y)
			}
		}
	}
}

func TestEdgeWrap(t *testing.T) {
	src := quadrants(8, 8)

	out := EdgeWrap(src, 1, 1, EdgeWrapA)
	if out.Rect.Dx() != 16 || out.Rect.Dy() != 16 {
		t.Fatalf("pad size: got %dx%d, want 16x16", out.Rect.Dx(), out.Rect.Dy())
	}
	// The original content sits centered at (4,4); the pad left of it is
	// the wrapped right half of the source.
	if got := out.NRGBAAt(4, 4); got != src.NRGBAAt(0, 0) {
		t.Errorf("center content: got %+v, want %+v", got, src.NRGBAAt(0, 0))
	}
	if got := out.NRGBAAt(0, 4); got != src.NRGBAAt(4, 0) {
		t.Errorf("left pad should wrap from the source's right half: got %+v", got)
	}

	if out := EdgeWrap(src, 1, 1, EdgeWrapX); out.Rect.Dy() != 8 {
		t.Errorf("WRAPX must not pad vertically, got height %d", out.Rect.Dy())
	}
	if out := EdgeWrap(src, 0, 0, EdgeWrapA); out.Rect.Dx() != 8 {
		t.Errorf("zero tile factors must not pad, got width %d", out.Rect.Dx())
	}
}

func TestTransformDefaultsAreIdentityShape(t *testing.T) {
	src := quadrants(8, 8)
	out, err := Transform(src, TransformParams{
		SizeX: 1, SizeY: 1,
		Edge:  EdgeClip,
		Width: 8, Height: 8, Mode: FitNone,
	})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if out.NRGBAAt(x, y) != src.NRGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) changed under identity transform", x, y)
			}
		}
	}
}

func TestTransformRejectsNonPositiveScale(t *testing.T) {
	src := solid(4, 4, color.NRGBA{1, 2, 3, 255})
	if _, err := Transform(src, TransformParams{SizeX: 0, SizeY: 1, Edge: EdgeClip, Width: 4, Height: 4, Mode: FitNone}); err == nil {
		t.Error("Transform should reject zero scale")
	}
}

func TestTransformScaleFitsTarget(t *testing.T) {
	src := quadrants(8, 8)
	out, err := Transform(src, TransformParams{
		SizeX: 2, SizeY: 2,
		Edge:  EdgeClip,
		Width: 16, Height: 16, Mode: FitExact,
	})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if out.Rect.Dx() != 16 || out.Rect.Dy() != 16 {
		t.Errorf("target size: got %dx%d, want 16x16", out.Rect.Dx(), out.Rect.Dy())
	}
}

func TestMirrorHalfway(t *testing.T) {
	// Left half red, right half green; mirroring at 0.5 across the
	// vertical line reflects the left half onto the right.
	src := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			if x < 4 {
				src.SetNRGBA(x, y, color.NRGBA{255, 0, 0, 255})
			} else {
				src.SetNRGBA(x, y, color.NRGBA{0, 255, 0, 255})
			}
		}
	}

	out := Mirror(src, 0.5, MirrorHorizontal, false)
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			got := out.NRGBAAt(x, y)
			if got != (color.NRGBA{255, 0, 0, 255}) {
				t.Fatalf("pixel (%d,%d): got %+v, want red everywhere", x, y, got)
			}
		}
	}
}

func TestMirrorVerticalAxis(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 4; x++ {
			if y < 4 {
				src.SetNRGBA(x, y, color.NRGBA{0, 0, 255, 255})
			} else {
				src.SetNRGBA(x, y, color.NRGBA{255, 255, 0, 255})
			}
		}
	}

	out := Mirror(src, 0.5, MirrorVertical, false)
	for y := 0; y < 8; y++ {
		if got := out.NRGBAAt(2, y); got != (color.NRGBA{0, 0, 255, 255}) {
			t.Fatalf("row %d: got %+v, want blue everywhere", y, got)
		}
	}
}

func TestExtend(t *testing.T) {
	a := solid(4, 4, color.NRGBA{255, 0, 0, 255})
	b := solid(4, 4, color.NRGBA{0, 255, 0, 255})

	out := Extend(a, b, ExtendHorizontal, false)
	if out.Rect.Dx() != 8 || out.Rect.Dy() != 4 {
		t.Fatalf("horizontal extend size: got %dx%d, want 8x4", out.Rect.Dx(), out.Rect.Dy())
	}
	if out.NRGBAAt(1, 1).R != 255 || out.NRGBAAt(6, 1).G != 255 {
		t.Error("horizontal extend placed inputs in the wrong order")
	}

	out = Extend(a, b, ExtendHorizontal, true)
	if out.NRGBAAt(1, 1).G != 255 || out.NRGBAAt(6, 1).R != 255 {
		t.Error("flip should swap the inputs")
	}

	out = Extend(a, b, ExtendVertical, false)
	if out.Rect.Dx() != 4 || out.Rect.Dy() != 8 {
		t.Fatalf("vertical extend size: got %dx%d, want 4x8", out.Rect.Dx(), out.Rect.Dy())
	}
	if out.NRGBAAt(1, 1).R != 255 || out.NRGBAAt(1, 6).G != 255 {
		t.Error("vertical extend placed inputs in the wrong order")
	}
}
