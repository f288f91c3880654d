package shader

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"
)

// solidNRGBA builds a width x height image filled with one color.
func solidNRGBA(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestEvaluateEmptyExpressionsCopySource(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 6, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			src.SetNRGBA(x, y, color.NRGBA{uint8(x * 40), uint8(y * 40), uint8((x + y) * 20), 255})
		}
	}

	out, err := Evaluate(src, 6, 6, "", "", "")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			want := src.NRGBAAt(x, y)
			got := out.NRGBAAt(x, y)
			want.A = 255
			if got != want {
				t.Fatalf("pixel (%d,%d): got %+v, want %+v", x, y, got, want)
			}
		}
	}
}

func TestEvaluateConcreteScenario(t *testing.T) {
	// Solid 4x4 source, R=200 G=100 B=50. exprR scales red through the
	// 0..1 range and back, G copies, B is forced to zero.
	src := solidNRGBA(4, 4, color.NRGBA{200, 100, 50, 255})

	out, err := Evaluate(src, 4, 4, "$r/255", "", "0")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got := out.NRGBAAt(x, y)
			if got.R != 200 {
				t.Fatalf("pixel (%d,%d) R: got %d, want 200", x, y, got.R)
			}
			if got.G != 100 {
				t.Fatalf("pixel (%d,%d) G: got %d, want 100 (copied)", x, y, got.G)
			}
			if got.B != 0 {
				t.Fatalf("pixel (%d,%d) B: got %d, want 0", x, y, got.B)
			}
		}
	}
}

func TestEvaluateSqrtGradient(t *testing.T) {
	out, err := Evaluate(nil, 8, 8, "sqrt($u)", "", "")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if got := out.NRGBAAt(0, 0).R; got != 0 {
		t.Errorf("red at x=0: got %d, want 0", got)
	}
	// x=7: int(sqrt(7/8) * 255) = int(238.54...) = 238
	want := uint8(math.Sqrt(7.0/8.0) * 255)
	if got := out.NRGBAAt(7, 3).R; got != want {
		t.Errorf("red at x=7: got %d, want %d", got, want)
	}
}

func TestEvaluateNormalizedCoordinatesBelowOne(t *testing.T) {
	// u = $u*255 truncates to 255 only if u >= 1; edge pixels must stay
	// strictly below 1.0.
	out, err := Evaluate(nil, 16, 16, "$u", "$v", "")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	px := out.NRGBAAt(15, 15)
	wantU := uint8(15 * 255 / 16) // 239
	if px.R != wantU {
		t.Errorf("u at x=15: got %d, want %d", px.R, wantU)
	}
	if px.G != wantU {
		t.Errorf("v at y=15: got %d, want %d", px.G, wantU)
	}
}

func TestEvaluateDivideByZeroFallsBack(t *testing.T) {
	src := solidNRGBA(4, 4, color.NRGBA{200, 100, 50, 255})

	out, err := Evaluate(src, 4, 4, "1/($x-$x)", "1/($x-$x)", "1/($x-$x)")
	if err != nil {
		t.Fatalf("Evaluate must not fail on per-pixel domain errors: %v", err)
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got := out.NRGBAAt(x, y)
			if got.R != 200 || got.G != 100 || got.B != 50 {
				t.Fatalf("pixel (%d,%d): got %+v, want source fallback (200,100,50)", x, y, got)
			}
		}
	}
}

func TestEvaluateMalformedExpressionFallsBack(t *testing.T) {
	src := solidNRGBA(3, 3, color.NRGBA{10, 20, 30, 255})

	out, err := Evaluate(src, 3, 3, "this is not math", "", "")
	if err != nil {
		t.Fatalf("Evaluate must not fail on a malformed expression: %v", err)
	}
	if got := out.NRGBAAt(1, 1); got.R != 10 {
		t.Errorf("malformed red expression: got R=%d, want source 10", got.R)
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	src := solidNRGBA(10, 10, color.NRGBA{90, 60, 30, 255})

	a, err := Evaluate(src, 10, 10, "sqrt($u)*$v", "$r/255", "min($u, $v)")
	if err != nil {
		t.Fatalf("first Evaluate failed: %v", err)
	}
	b, err := Evaluate(src, 10, 10, "sqrt($u)*$v", "$r/255", "min($u, $v)")
	if err != nil {
		t.Fatalf("second Evaluate failed: %v", err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("repeated evaluation with identical inputs produced different buffers")
	}
}

func TestEvaluateSourceSmallerThanOutput(t *testing.T) {
	// The source is indexed at output coordinates clamped to its bounds;
	// pixels past the source edge read the last row/column.
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{10, 0, 0, 255})
	src.SetNRGBA(1, 0, color.NRGBA{20, 0, 0, 255})
	src.SetNRGBA(0, 1, color.NRGBA{30, 0, 0, 255})
	src.SetNRGBA(1, 1, color.NRGBA{40, 0, 0, 255})

	out, err := Evaluate(src, 4, 4, "", "", "")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if got := out.NRGBAAt(3, 3).R; got != 40 {
		t.Errorf("clamped sample at (3,3): got %d, want 40", got)
	}
	if got := out.NRGBAAt(3, 0).R; got != 20 {
		t.Errorf("clamped sample at (3,0): got %d, want 20", got)
	}
}

func TestEvaluateResultClamping(t *testing.T) {
	out, err := Evaluate(nil, 2, 2, "2", "0-1", "0.5")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	px := out.NRGBAAt(0, 0)
	if px.R != 255 {
		t.Errorf("overflow result: got %d, want 255", px.R)
	}
	if px.G != 0 {
		t.Errorf("negative result: got %d, want 0", px.G)
	}
	if px.B != 127 {
		t.Errorf("0.5 result: got %d, want 127", px.B)
	}
}

func TestEvaluateInvalidDimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 10},
		{"zero height", 10, 0},
		{"negative", -1, -1},
		{"too wide", MaxDimension + 1, 10},
		{"too tall", 10, MaxDimension + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Evaluate(nil, tt.w, tt.h, "", "", ""); err == nil {
				t.Error("Evaluate should reject invalid dimensions before dispatch")
			}
		})
	}
}

func TestEvaluateNonTileAlignedSize(t *testing.T) {
	// 10x10 with the default 8x8 tile forces clipped boundary tiles; every
	// pixel must still be written exactly once.
	out, err := Evaluate(nil, 10, 10, "1", "1", "1")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			px := out.NRGBAAt(x, y)
			if px.R != 255 || px.G != 255 || px.B != 255 || px.A != 255 {
				t.Fatalf("pixel (%d,%d) not written: %+v", x, y, px)
			}
		}
	}
}

func TestEvaluateWithCustomOptions(t *testing.T) {
	opts := Options{TileSize: 3, Workers: 2, MaxDim: 64}

	out, err := EvaluateWith(opts, nil, 10, 10, "$u", "", "")
	if err != nil {
		t.Fatalf("EvaluateWith failed: %v", err)
	}
	if out.Rect.Dx() != 10 || out.Rect.Dy() != 10 {
		t.Errorf("output size: got %dx%d, want 10x10", out.Rect.Dx(), out.Rect.Dy())
	}

	if _, err := EvaluateWith(opts, nil, 65, 10, "", "", ""); err == nil {
		t.Error("EvaluateWith should honor the MaxDim override")
	}
}

func BenchmarkEvaluate(b *testing.B) {
	src := solidNRGBA(256, 256, color.NRGBA{128, 64, 32, 255})
	expr := "1 - min(1, sqrt((($u-0.5)^2 + ($v-0.5)^2) * 2))"
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Evaluate(src, 256, 256, expr, "$g/255", ""); err != nil {
			b.Fatal(err)
		}
	}
}
