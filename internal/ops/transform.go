package ops

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// FitMode selects how an image is conformed to a target size.
type FitMode string

const (
	FitNone   FitMode = "NONE"   // leave the image untouched
	FitExact  FitMode = "FIT"    // resize to exactly the target size
	FitCrop   FitMode = "CROP"   // center crop to the target size
	FitAspect FitMode = "ASPECT" // uniform scale by the larger target edge
)

// EdgeMode selects how transforms treat pixels pushed past the canvas.
type EdgeMode string

const (
	EdgeClip  EdgeMode = "CLIP"  // expose black
	EdgeWrapA EdgeMode = "WRAP"  // wrap both axes
	EdgeWrapX EdgeMode = "WRAPX" // wrap horizontally only
	EdgeWrapY EdgeMode = "WRAPY" // wrap vertically only
)

var black = color.NRGBA{0, 0, 0, 255}

// ScaleFit conforms an image to width x height using the given mode.
func ScaleFit(img image.Image, width, height int, mode FitMode) *image.NRGBA {
	src := AsNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if mode == FitNone || (w == width && h == height) {
		return src
	}
	switch mode {
	case FitAspect:
		scalar := float64(max(width, height)) / float64(max(w, h))
		return imaging.Resize(src, int(float64(w)*scalar), int(float64(h)*scalar), imaging.Lanczos)
	case FitCrop:
		return CropCenter(src, width, height)
	default:
		return imaging.Resize(src, width, height, imaging.Lanczos)
	}
}

// CropCenter crops a centered width x height region. A target larger than
// the image on either axis is clamped to the image bounds on that axis.
func CropCenter(img image.Image, width, height int) *image.NRGBA {
	src := AsNRGBA(img)
	if width > src.Rect.Dx() {
		width = src.Rect.Dx()
	}
	if height > src.Rect.Dy() {
		height = src.Rect.Dy()
	}
	return imaging.CropCenter(src, width, height)
}

// Translate shifts an image by a fraction of its own size, exposing black.
// The canvas keeps its size.
func Translate(img image.Image, offsetX, offsetY float64) *image.NRGBA {
	src := AsNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dx := int(offsetX * float64(w))
	dy := int(offsetY * float64(h))
	canvas := imaging.New(w, h, black)
	return imaging.Paste(canvas, src, image.Pt(dx, dy))
}

// Rotate rotates an image clockwise by angle degrees about its center,
// clipping the result back to the original canvas size.
func Rotate(img image.Image, angle float64) *image.NRGBA {
	src := AsNRGBA(img)
	if angle == 0 {
		return src
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	rotated := imaging.Rotate(src, -angle, black)
	return CropCenter(rotated, w, h)
}

// EdgeWrap pads an image with wrapped copies of itself. tileX and tileY are
// fractions of the image size; the pad on each side is tile*size/2 on the
// axes the edge mode wraps.
func EdgeWrap(img image.Image, tileX, tileY float64, edge EdgeMode) *image.NRGBA {
	src := AsNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()

	padX := 0
	if edge == EdgeWrapA || edge == EdgeWrapX {
		padX = int(tileX * float64(w) * 0.5)
	}
	padY := 0
	if edge == EdgeWrapA || edge == EdgeWrapY {
		padY = int(tileY * float64(h) * 0.5)
	}
	if padX == 0 && padY == 0 {
		return src
	}

	outW := w + 2*padX
	outH := h + 2*padY
	out := imaging.New(outW, outH, black)
	// Tile copies of the source at every grid position that intersects the
	// padded canvas, so arbitrary pad widths wrap correctly.
	for ky := -(padY + h - 1) / h; ky*h+padY < outH; ky++ {
		for kx := -(padX + w - 1) / w; kx*w+padX < outW; kx++ {
			out = imaging.Paste(out, src, image.Pt(padX+kx*w, padY+ky*h))
		}
	}
	return out
}

// TransformParams bundles the full transform pipeline's inputs.
type TransformParams struct {
	OffsetX, OffsetY float64 // translation, fraction of size, -1..1
	Angle            float64 // rotation, degrees clockwise
	SizeX, SizeY     float64 // scale factors, 1 = unchanged
	Edge             EdgeMode
	Width, Height    int // target size for the final fit
	Mode             FitMode
}

// Transform applies scale, translation, and rotation in order, honoring the
// edge mode by wrap-padding and re-cropping around each step, then conforms
// the result to the target size.
func Transform(img image.Image, p TransformParams) (*image.NRGBA, error) {
	if p.SizeX <= 0 || p.SizeY <= 0 {
		return nil, fmt.Errorf("invalid scale %gx%g: factors must be positive", p.SizeX, p.SizeY)
	}
	src := AsNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()

	sizeX, sizeY := p.SizeX, p.SizeY
	if (sizeX != 1 || sizeY != 1) && p.Edge != EdgeClip {
		// Shrinking with a wrapping edge pre-tiles the source so the
		// exposed border is wrapped content rather than black.
		tx, ty := 0.0, 0.0
		if (p.Edge == EdgeWrapA || p.Edge == EdgeWrapX) && sizeX < 1 {
			tx = 1/sizeX - 1
			sizeX = 1
		}
		if (p.Edge == EdgeWrapA || p.Edge == EdgeWrapY) && sizeY < 1 {
			ty = 1/sizeY - 1
			sizeY = 1
		}
		src = EdgeWrap(src, tx, ty, EdgeWrapA)
	}

	if sizeX != 1 || sizeY != 1 {
		sw := int(float64(w) * sizeX)
		sh := int(float64(h) * sizeY)
		if sw < 1 {
			sw = 1
		}
		if sh < 1 {
			sh = 1
		}
		src = imaging.Resize(src, sw, sh, imaging.Lanczos)
	}
	if p.Edge != EdgeClip {
		src = CropCenter(src, w, h)
	}

	if p.OffsetX != 0 || p.OffsetY != 0 {
		if p.Edge != EdgeClip {
			src = EdgeWrap(src, 1, 1, p.Edge)
		}
		src = Translate(src, p.OffsetX, p.OffsetY)
		if p.Edge != EdgeClip {
			src = CropCenter(src, w, h)
		}
	}

	if p.Angle != 0 {
		if p.Edge != EdgeClip {
			src = EdgeWrap(src, 1, 1, p.Edge)
			src = Rotate(src, p.Angle)
			src = CropCenter(src, w, h)
		} else {
			src = Rotate(src, p.Angle)
		}
	}

	return ScaleFit(src, p.Width, p.Height, p.Mode), nil
}

// MirrorAxis selects the axis a Mirror reflects across.
type MirrorAxis int

const (
	MirrorVertical   MirrorAxis = 0 // reflect rows (across a horizontal line)
	MirrorHorizontal MirrorAxis = 1 // reflect columns (across a vertical line)
)

// Mirror reflects an image about a fractional split line. Content before
// the line is kept; content after it is the reflection of what came before.
// invert measures the line from the opposite edge and reflects the other
// half instead.
func Mirror(img image.Image, p float64, axis MirrorAxis, invert bool) *image.NRGBA {
	src := AsNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()

	var flip *image.NRGBA
	if axis == MirrorVertical {
		flip = imaging.FlipV(src)
	} else {
		flip = imaging.FlipH(src)
	}

	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	if invert {
		p = 1 - p
		src, flip = flip, src
	}

	scalar := w
	if axis == MirrorVertical {
		scalar = h
	}
	split := int(p * float64(scalar))
	keep := scalar - split
	reflect := min(scalar-keep, keep)

	out := imaging.New(w, h, black)
	if axis == MirrorVertical {
		copyRows(out, src, 0, 0, split)
		copyRows(out, flip, split, keep, reflect)
	} else {
		copyCols(out, src, 0, 0, split)
		copyCols(out, flip, split, keep, reflect)
	}

	if invert {
		if axis == MirrorVertical {
			out = imaging.FlipV(out)
		} else {
			out = imaging.FlipH(out)
		}
	}
	return out
}

// copyRows copies n rows starting at srcY in src to dstY in dst.
func copyRows(dst, src *image.NRGBA, dstY, srcY, n int) {
	for i := 0; i < n; i++ {
		copy(dst.Pix[(dstY+i)*dst.Stride:(dstY+i)*dst.Stride+dst.Stride],
			src.Pix[(srcY+i)*src.Stride:(srcY+i)*src.Stride+src.Stride])
	}
}

// copyCols copies n columns starting at srcX in src to dstX in dst.
func copyCols(dst, src *image.NRGBA, dstX, srcX, n int) {
	if n <= 0 {
		return
	}
	h := dst.Rect.Dy()
	for y := 0; y < h; y++ {
		copy(dst.Pix[y*dst.Stride+dstX*4:y*dst.Stride+(dstX+n)*4],
			src.Pix[y*src.Stride+srcX*4:y*src.Stride+(srcX+n)*4])
	}
}

// ExtendAxis selects the direction two images are joined.
type ExtendAxis string

const (
	ExtendHorizontal ExtendAxis = "HORIZONTAL"
	ExtendVertical   ExtendAxis = "VERTICAL"
)

// Extend concatenates two images along an axis. flip swaps their order.
func Extend(a, b image.Image, axis ExtendAxis, flip bool) *image.NRGBA {
	if flip {
		a, b = b, a
	}
	na, nb := AsNRGBA(a), AsNRGBA(b)
	aw, ah := na.Rect.Dx(), na.Rect.Dy()
	bw, bh := nb.Rect.Dx(), nb.Rect.Dy()

	if axis == ExtendHorizontal {
		out := imaging.New(aw+bw, max(ah, bh), black)
		out = imaging.Paste(out, na, image.Pt(0, 0))
		return imaging.Paste(out, nb, image.Pt(aw, 0))
	}
	out := imaging.New(max(aw, bw), ah+bh, black)
	out = imaging.Paste(out, na, image.Pt(0, 0))
	return imaging.Paste(out, nb, image.Pt(0, ah))
}
