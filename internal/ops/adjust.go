package ops

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Invert blends an image toward its negative. amount 0 leaves the image
// unchanged, 1 inverts fully.
func Invert(img image.Image, amount float64) *image.NRGBA {
	if amount < 0 {
		amount = 0
	} else if amount > 1 {
		amount = 1
	}
	src := AsNRGBA(img)
	if amount == 0 {
		return src
	}
	return Lerp(src, imaging.Invert(src), nil, amount)
}

// Gamma applies a gamma curve. The value is clamped to (0, 1) as in the
// original adjustment, where 1 is identity and smaller values darken.
func Gamma(img image.Image, value float64) *image.NRGBA {
	value = math.Min(math.Max(value, 0.01), 0.9999999)
	return imaging.AdjustGamma(AsNRGBA(img), value)
}

// Contrast scales samples away from mid-gray: out = (in - 0.5)*value + 0.5.
func Contrast(img image.Image, value float64) *image.NRGBA {
	return mapChannels(img, func(v float64) float64 {
		return (v-0.5)*value + 0.5
	})
}

// Exposure multiplies samples by 2^value stops.
func Exposure(img image.Image, value float64) *image.NRGBA {
	scale := math.Pow(2, value)
	return mapChannels(img, func(v float64) float64 {
		return v * scale
	})
}

// mapChannels applies f to each RGB sample normalized to [0, 1], clamping
// the result.
func mapChannels(img image.Image, f func(float64) float64) *image.NRGBA {
	src := AsNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*src.Stride + x*4
			o := y*out.Stride + x*4
			for c := 0; c < 3; c++ {
				v := f(float64(src.Pix[i+c]) / 255)
				out.Pix[o+c] = uint8(math.Min(math.Max(v, 0), 1)*255 + 0.5)
			}
			out.Pix[o+3] = src.Pix[i+3]
		}
	}
	return out
}

// AdjustHSV shifts hue (0..1 maps to a full revolution) and scales
// saturation and value in HSV space.
func AdjustHSV(img image.Image, hue, saturation, value float64) *image.NRGBA {
	src := AsNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*src.Stride + x*4
			o := y*out.Stride + x*4
			c := colorful.Color{
				R: float64(src.Pix[i]) / 255,
				G: float64(src.Pix[i+1]) / 255,
				B: float64(src.Pix[i+2]) / 255,
			}
			ch, cs, cv := c.Hsv()
			ch = math.Mod(ch+hue*360, 360)
			if ch < 0 {
				ch += 360
			}
			cs = math.Min(math.Max(cs*saturation, 0), 1)
			cv = math.Min(math.Max(cv*value, 0), 1)
			rc := colorful.Hsv(ch, cs, cv).Clamped()
			out.Pix[o] = uint8(rc.R*255 + 0.5)
			out.Pix[o+1] = uint8(rc.G*255 + 0.5)
			out.Pix[o+2] = uint8(rc.B*255 + 0.5)
			out.Pix[o+3] = src.Pix[i+3]
		}
	}
	return out
}

// ThresholdMode selects the thresholding rule.
type ThresholdMode string

const (
	ThresholdBinary ThresholdMode = "BINARY" // above -> 255, otherwise 0
	ThresholdTrunc  ThresholdMode = "TRUNC"  // above -> threshold, otherwise unchanged
	ThresholdToZero ThresholdMode = "TOZERO" // above -> unchanged, otherwise 0
)

// Threshold applies a per-channel threshold. t is normalized to [0, 1].
func Threshold(img image.Image, t float64, mode ThresholdMode) (*image.NRGBA, error) {
	level := uint8(math.Min(math.Max(t, 0), 1) * 255)
	switch mode {
	case ThresholdBinary, ThresholdTrunc, ThresholdToZero:
	default:
		return nil, fmt.Errorf("unknown threshold mode %q", mode)
	}
	src := AsNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*src.Stride + x*4
			o := y*out.Stride + x*4
			for c := 0; c < 3; c++ {
				v := src.Pix[i+c]
				switch mode {
				case ThresholdBinary:
					if v > level {
						v = 255
					} else {
						v = 0
					}
				case ThresholdTrunc:
					if v > level {
						v = level
					}
				case ThresholdToZero:
					if v <= level {
						v = 0
					}
				}
				out.Pix[o+c] = v
			}
			out.Pix[o+3] = src.Pix[i+3]
		}
	}
	return out, nil
}

// FilterKind names a convolution-style filter.
type FilterKind string

const (
	FilterBlur      FilterKind = "BLUR"
	FilterSharpen   FilterKind = "SHARPEN"
	FilterEmboss    FilterKind = "EMBOSS"
	FilterFindEdges FilterKind = "FIND_EDGES"
)

// Filter applies the named filter. radius drives the blur/sharpen strength;
// alpha blends the filtered result back over the source.
func Filter(img image.Image, kind FilterKind, radius int, alpha float64) (*image.NRGBA, error) {
	src := AsNRGBA(img)
	if radius < 0 {
		radius = 0
	}

	var filtered image.Image
	switch kind {
	case FilterBlur:
		filtered = imaging.Blur(src, float64(radius))
	case FilterSharpen:
		filtered = imaging.Sharpen(src, float64(radius))
	case FilterEmboss:
		filtered = effect.Emboss(src)
	case FilterFindEdges:
		filtered = effect.EdgeDetection(src, 1.0)
	default:
		return nil, fmt.Errorf("unknown filter %q", kind)
	}

	if alpha >= 1 {
		return AsNRGBA(filtered), nil
	}
	return Lerp(src, filtered, nil, alpha), nil
}
