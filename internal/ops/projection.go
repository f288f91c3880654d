package ops

import (
	"fmt"
	"image"
)

// ProjectionKind names a remapping projection.
type ProjectionKind string

const (
	ProjectionSpherical   ProjectionKind = "SPHERICAL"
	ProjectionCylindrical ProjectionKind = "CYLINDRICAL"
)

// Project remaps an image to width x height by nearest-pixel sampling.
// The spherical projection wraps the horizontal source coordinate.
func Project(img image.Image, kind ProjectionKind, width, height int) (*image.NRGBA, error) {
	switch kind {
	case ProjectionSpherical, ProjectionCylindrical:
	default:
		return nil, fmt.Errorf("unknown projection %q", kind)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid projection size %dx%d", width, height)
	}

	src := AsNRGBA(img)
	sw, sh := src.Rect.Dx(), src.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		sy := y * sh / height
		if sy >= sh {
			sy = sh - 1
		}
		for x := 0; x < width; x++ {
			sx := x * sw / width
			if kind == ProjectionSpherical {
				sx %= sw
			}
			if sx >= sw {
				sx = sw - 1
			}
			copy(out.Pix[y*out.Stride+x*4:y*out.Stride+x*4+4],
				src.Pix[sy*src.Stride+sx*4:sy*src.Stride+sx*4+4])
		}
	}
	return out, nil
}
