package ops

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blend"
)

// BlendOp names a compositing operator.
type BlendOp string

const (
	BlendLerp       BlendOp = "LERP"
	BlendAdd        BlendOp = "ADD"
	BlendMinimum    BlendOp = "MINIMUM"
	BlendMaximum    BlendOp = "MAXIMUM"
	BlendMultiply   BlendOp = "MULTIPLY"
	BlendSoftLight  BlendOp = "SOFT_LIGHT"
	BlendOverlay    BlendOp = "OVERLAY"
	BlendScreen     BlendOp = "SCREEN"
	BlendSubtract   BlendOp = "SUBTRACT"
	BlendDifference BlendOp = "DIFFERENCE"
	BlendAnd        BlendOp = "LOGICAL_AND"
	BlendOr         BlendOp = "LOGICAL_OR"
	BlendXor        BlendOp = "LOGICAL_XOR"
)

// BlendOps lists the supported operators in schema order.
var BlendOps = []BlendOp{
	BlendLerp, BlendAdd, BlendMinimum, BlendMaximum, BlendMultiply,
	BlendSoftLight, BlendOverlay, BlendScreen, BlendSubtract,
	BlendDifference, BlendAnd, BlendOr, BlendXor,
}

// Lerp linearly interpolates from a toward b. The per-pixel weight is the
// mask luminance scaled by alpha; a nil mask applies alpha uniformly.
// b and the mask are conformed to a's size first.
func Lerp(a, b image.Image, mask *image.Gray, alpha float64) *image.NRGBA {
	na := AsNRGBA(a)
	w, h := na.Rect.Dx(), na.Rect.Dy()
	nb := ScaleFit(b, w, h, FitExact)

	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m := alpha
			if mask != nil {
				my := y * mask.Rect.Dy() / h
				mx := x * mask.Rect.Dx() / w
				m = alpha * float64(mask.Pix[my*mask.Stride+mx]) / 255
			}
			i := y*na.Stride + x*4
			j := y*nb.Stride + x*4
			o := y*out.Stride + x*4
			for c := 0; c < 3; c++ {
				va := float64(na.Pix[i+c])
				vb := float64(nb.Pix[j+c])
				out.Pix[o+c] = uint8(va*(1-m) + vb*m + 0.5)
			}
			out.Pix[o+3] = 0xff
		}
	}
	return out
}

// Blend composites b onto a with the named operator, then mixes the result
// back over a through the mask and alpha (see Lerp). Inputs are conformed
// to the target size before compositing.
func Blend(a, b image.Image, op BlendOp, width, height int, mask *image.Gray, alpha float64) (*image.NRGBA, error) {
	na := ScaleFit(a, width, height, FitExact)
	nb := ScaleFit(b, width, height, FitExact)

	var mixed image.Image
	switch op {
	case BlendLerp:
		mixed = nb
	case BlendAdd:
		mixed = blend.Add(na, nb)
	case BlendMinimum:
		mixed = blend.Darken(na, nb)
	case BlendMaximum:
		mixed = blend.Lighten(na, nb)
	case BlendMultiply:
		mixed = blend.Multiply(na, nb)
	case BlendSoftLight:
		mixed = blend.SoftLight(na, nb)
	case BlendOverlay:
		mixed = blend.Overlay(na, nb)
	case BlendScreen:
		mixed = blend.Screen(na, nb)
	case BlendSubtract:
		mixed = blend.Subtract(na, nb)
	case BlendDifference:
		mixed = blend.Difference(na, nb)
	case BlendAnd, BlendOr, BlendXor:
		mixed = bitwise(na, nb, op)
	default:
		return nil, fmt.Errorf("unknown blend operator %q", op)
	}

	return Lerp(na, mixed, mask, alpha), nil
}

// bitwise applies a per-channel logical operator on the 8-bit samples.
func bitwise(a, b *image.NRGBA, op BlendOp) *image.NRGBA {
	w, h := a.Rect.Dx(), a.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*a.Stride + x*4
			j := y*b.Stride + x*4
			o := y*out.Stride + x*4
			for c := 0; c < 3; c++ {
				switch op {
				case BlendAnd:
					out.Pix[o+c] = a.Pix[i+c] & b.Pix[j+c]
				case BlendOr:
					out.Pix[o+c] = a.Pix[i+c] | b.Pix[j+c]
				default:
					out.Pix[o+c] = a.Pix[i+c] ^ b.Pix[j+c]
				}
			}
			out.Pix[o+3] = 0xff
		}
	}
	return out
}
