package shader

import (
	"fmt"
	"image"
	"image/draw"
	"runtime"
	"sync"
	"sync/atomic"
)

const (
	// DefaultTileSize is the edge length of the square tiles dispatched to
	// the worker pool.
	DefaultTileSize = 8

	// MaxDimension bounds the requested output width and height to prevent
	// runaway allocation.
	MaxDimension = 8192
)

// Options tunes an evaluation pass. The zero value selects the defaults.
type Options struct {
	// TileSize is the tile edge length in pixels. Defaults to DefaultTileSize.
	TileSize int

	// Workers is the worker pool size. Defaults to runtime.NumCPU().
	Workers int

	// MaxDim overrides the maximum accepted output dimension.
	// Defaults to MaxDimension.
	MaxDim int
}

// Evaluate computes a width x height output image by evaluating one
// expression per channel at every pixel, with default options.
//
// An empty expression copies the corresponding source channel unchanged.
// A pixel whose expression fails falls back to the source channel value at
// that pixel. The source is indexed at the output coordinate, clamped to
// the source bounds; it is never rescaled. A nil source reads as black.
//
// Evaluate returns an error only for invalid dimensions; expression
// failures are recovered per pixel and never abort the pass.
func Evaluate(src image.Image, width, height int, exprR, exprG, exprB string) (*image.NRGBA, error) {
	return EvaluateWith(Options{}, src, width, height, exprR, exprG, exprB)
}

// EvaluateWith is Evaluate with explicit Options.
func EvaluateWith(opts Options, src image.Image, width, height int, exprR, exprG, exprB string) (*image.NRGBA, error) {
	if opts.TileSize <= 0 {
		opts.TileSize = DefaultTileSize
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.MaxDim <= 0 {
		opts.MaxDim = MaxDimension
	}

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid output size %dx%d: dimensions must be positive", width, height)
	}
	if width > opts.MaxDim || height > opts.MaxDim {
		return nil, fmt.Errorf("invalid output size %dx%d: exceeds maximum %d", width, height, opts.MaxDim)
	}

	source := toNRGBA(src)

	// Compile each channel once per call. A channel that fails to parse
	// degrades to a source copy, logged once rather than per pixel.
	exprs := [3]string{exprR, exprG, exprB}
	var progs [3]*Program
	for ch, text := range exprs {
		if isEmptyExpr(text) {
			continue
		}
		prog, err := Compile(text)
		if err != nil {
			logger().Warn("channel expression failed to parse, copying source channel",
				"channel", ch, "expr", text, "err", err)
			continue
		}
		progs[ch] = prog
	}

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	var fallbacks atomic.Int64

	tiles := make(chan Tile)
	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tiles {
				renderTile(out, source, t, width, height, &progs, &fallbacks)
			}
		}()
	}
	for _, t := range Tiles(width, height, opts.TileSize) {
		tiles <- t
	}
	close(tiles)
	wg.Wait()

	if n := fallbacks.Load(); n > 0 {
		logger().Debug("expression evaluation fell back to source samples", "pixels", n)
	}
	return out, nil
}

// renderTile evaluates every pixel of one tile. Tiles write disjoint
// regions of out.Pix, so no synchronization is needed beyond the final join.
func renderTile(out, source *image.NRGBA, t Tile, width, height int, progs *[3]*Program, fallbacks *atomic.Int64) {
	sw := source.Rect.Dx()
	sh := source.Rect.Dy()
	fw := float64(width)
	fh := float64(height)

	for y := t.Y0; y < t.Y1; y++ {
		sy := y
		if sy >= sh {
			sy = sh - 1
		}
		for x := t.X0; x < t.X1; x++ {
			sx := x
			if sx >= sw {
				sx = sw - 1
			}
			si := sy*source.Stride + sx*4
			sr := source.Pix[si]
			sg := source.Pix[si+1]
			sb := source.Pix[si+2]

			b := Bindings{
				X: float64(x), Y: float64(y),
				U: float64(x) / fw, V: float64(y) / fh,
				W: fw, H: fh,
				R: float64(sr), G: float64(sg), B: float64(sb),
			}

			var sample [3]uint8
			srcSample := [3]uint8{sr, sg, sb}
			// Channels evaluate in B, G, R order, matching the original
			// pass. Each expression reads only source values, so the order
			// has no observable effect on the output.
			for _, ch := range [3]int{2, 1, 0} {
				prog := progs[ch]
				if prog == nil {
					sample[ch] = srcSample[ch]
					continue
				}
				v, err := prog.Eval(&b)
				if err != nil {
					fallbacks.Add(1)
					logger().Debug("pixel expression failed", "x", x, "y", y, "channel", ch, "err", err)
					sample[ch] = srcSample[ch]
					continue
				}
				sample[ch] = clampSample(int(v * 255))
			}

			oi := y*out.Stride + x*4
			out.Pix[oi] = sample[0]
			out.Pix[oi+1] = sample[1]
			out.Pix[oi+2] = sample[2]
			out.Pix[oi+3] = 0xff
		}
	}
}

func clampSample(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func isEmptyExpr(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}

// toNRGBA snapshots the source as an NRGBA buffer anchored at (0, 0).
// A nil source becomes a single black pixel, which the clamped source
// indexing then reads everywhere.
func toNRGBA(src image.Image) *image.NRGBA {
	if src == nil {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && !n.Rect.Empty() {
		return n
	}
	bounds := src.Bounds()
	if bounds.Empty() {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Rect, src, bounds.Min, draw.Src)
	return dst
}
