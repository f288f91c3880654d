package ops

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"
)

// ShapeKind names a procedural shape.
type ShapeKind string

const (
	ShapeCircle    ShapeKind = "CIRCLE"
	ShapeSquare    ShapeKind = "SQUARE"
	ShapeEllipse   ShapeKind = "ELLIPSE"
	ShapeRectangle ShapeKind = "RECTANGLE"
	ShapePolygon   ShapeKind = "POLYGON"
)

// shapeBox computes the centered shape bounds the size factors select.
// A factor of 1 fills the canvas; smaller factors shrink toward the center,
// never below half size.
func shapeBox(width, height int, sizeX, sizeY float64) (x0, y0, x1, y1 float64) {
	sx := math.Max(0.5, sizeX/2+0.5)
	sy := math.Max(0.5, sizeY/2+0.5)
	return float64(width) * (1 - sx), float64(height) * (1 - sy),
		float64(width) * sx, float64(height) * sy
}

// Shape rasterizes a filled shape on a black canvas. sides applies to
// polygons only; angle rotates the shape clockwise about the canvas center.
func Shape(kind ShapeKind, width, height int, sizeX, sizeY float64, sides int, angle float64, fill color.Color) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid shape canvas %dx%d", width, height)
	}

	dc := gg.NewContext(width, height)
	dc.ClearWithColor(gg.RGB(0, 0, 0))
	dc.SetColor(fill)

	cx := float64(width) / 2
	cy := float64(height) / 2
	if angle != 0 {
		dc.RotateAbout(angle*math.Pi/180, cx, cy)
	}

	switch kind {
	case ShapeSquare:
		x0, y0, x1, y1 := shapeBox(width, height, sizeX, sizeX)
		dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
	case ShapeRectangle:
		x0, y0, x1, y1 := shapeBox(width, height, sizeX, sizeY)
		dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
	case ShapeEllipse:
		x0, y0, x1, y1 := shapeBox(width, height, sizeX, sizeY)
		dc.DrawEllipse((x0+x1)/2, (y0+y1)/2, (x1-x0)/2, (y1-y0)/2)
	case ShapeCircle:
		x0, y0, x1, y1 := shapeBox(width, height, sizeX, sizeX)
		dc.DrawEllipse((x0+x1)/2, (y0+y1)/2, (x1-x0)/2, (y1-y0)/2)
	case ShapePolygon:
		if sides < 3 {
			return nil, fmt.Errorf("polygon needs at least 3 sides, got %d", sides)
		}
		size := math.Max(0.00001, sizeX)
		r := float64(min(width, height)) * size * 0.5
		dc.DrawRegularPolygon(sides, cx, cy, r, 0)
	default:
		return nil, fmt.Errorf("unknown shape %q", kind)
	}

	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("failed to rasterize %s: %w", kind, err)
	}
	return AsNRGBA(dc.Image()), nil
}
