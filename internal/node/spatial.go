package node

import (
	"encoding/json"

	"github.com/disintegration/imaging"

	"github.com/hexforge/pixelnode/internal/ops"
)

var edgeModes = []string{
	string(ops.EdgeClip), string(ops.EdgeWrapA), string(ops.EdgeWrapX), string(ops.EdgeWrapY),
}

var fitModes = []string{
	string(ops.FitNone), string(ops.FitExact), string(ops.FitAspect), string(ops.FitCrop),
}

// TransformNode applies scale, translation, and rotation with selectable
// edge behavior, then conforms the result to a target size.
type TransformNode struct{}

func (TransformNode) Describe() Schema {
	props := map[string]interface{}{
		"image":   imageProp("Image to transform"),
		"offsetX": numberProp("Horizontal translation as a fraction of width", 0, -1, 1),
		"offsetY": numberProp("Vertical translation as a fraction of height", 0, -1, 1),
		"angle":   numberProp("Rotation about the center in degrees, clockwise", 0, -180, 180),
		"sizeX":   numberProp("Horizontal scale factor", 1, 0.01, 2),
		"sizeY":   numberProp("Vertical scale factor", 1, 0.01, 2),
		"edge":    enumProp("Edge behavior for content pushed off-canvas", string(ops.EdgeClip), edgeModes),
		"mode":    enumProp("Final size-conform mode", string(ops.FitNone), fitModes),
	}
	for k, v := range dimensionProps() {
		props[k] = v
	}
	return Schema{
		Name:        "transform",
		Description: "Scale, translate, and rotate an image, wrapping or clipping exposed edges.",
		InputSchema: objectSchema([]string{"image"}, props),
	}
}

type transformArgs struct {
	Image   string  `json:"image"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Angle   float64 `json:"angle"`
	SizeX   float64 `json:"sizeX"`
	SizeY   float64 `json:"sizeY"`
	Edge    string  `json:"edge"`
	Mode    string  `json:"mode"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
}

func (TransformNode) Eval(args json.RawMessage) (*Result, error) {
	a := transformArgs{SizeX: 1, SizeY: 1}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	src, err := decodeInput(a.Image)
	if err != nil {
		return nil, err
	}
	if a.Edge == "" {
		a.Edge = string(ops.EdgeClip)
	}
	if a.Mode == "" {
		a.Mode = string(ops.FitNone)
	}
	w, h := a.Width, a.Height
	if w == 0 {
		w = src.Rect.Dx()
	}
	if h == 0 {
		h = src.Rect.Dy()
	}

	out, err := ops.Transform(src, ops.TransformParams{
		OffsetX: clampF(a.OffsetX, -1, 1),
		OffsetY: clampF(a.OffsetY, -1, 1),
		Angle:   clampF(a.Angle, -180, 180),
		SizeX:   clampF(a.SizeX, 0.01, 2),
		SizeY:   clampF(a.SizeY, 0.01, 2),
		Edge:    ops.EdgeMode(a.Edge),
		Width:   w,
		Height:  h,
		Mode:    ops.FitMode(a.Mode),
	})
	if err != nil {
		return nil, err
	}
	return newResult(out)
}

// TileNode repeats an image on a grid and resizes the result back to the
// requested size.
type TileNode struct{}

func (TileNode) Describe() Schema {
	props := map[string]interface{}{
		"image": imageProp("Image to tile"),
		"tileX": integerProp("Horizontal repeat count", 2, 1, 100),
		"tileY": integerProp("Vertical repeat count", 2, 1, 100),
	}
	for k, v := range dimensionProps() {
		props[k] = v
	}
	return Schema{
		Name:        "tile",
		Description: "Repeat an image on a grid, then scale the grid back to the output size.",
		InputSchema: objectSchema([]string{"image"}, props),
	}
}

type tileArgs struct {
	Image  string `json:"image"`
	TileX  int    `json:"tileX"`
	TileY  int    `json:"tileY"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (TileNode) Eval(args json.RawMessage) (*Result, error) {
	a := tileArgs{TileX: 2, TileY: 2}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	src, err := decodeInput(a.Image)
	if err != nil {
		return nil, err
	}
	if a.TileX < 1 {
		a.TileX = 1
	}
	if a.TileY < 1 {
		a.TileY = 1
	}
	w, h := a.Width, a.Height
	if w == 0 {
		w = src.Rect.Dx()
	}
	if h == 0 {
		h = src.Rect.Dy()
	}

	tiled := ops.EdgeWrap(src, float64(a.TileX-1), float64(a.TileY-1), ops.EdgeWrapA)
	out := imaging.Resize(tiled, w, h, imaging.Lanczos)
	return newResult(out)
}

// MirrorNode reflects an image about fractional split lines on either or
// both axes.
type MirrorNode struct{}

func (MirrorNode) Describe() Schema {
	return Schema{
		Name:        "mirror",
		Description: "Reflect an image about a fractional split line on the X axis, Y axis, or both.",
		InputSchema: objectSchema([]string{"image"}, map[string]interface{}{
			"image":  imageProp("Image to mirror"),
			"mode":   enumProp("Axes to mirror across", "X", []string{"X", "Y", "XY"}),
			"x":      numberProp("Split position along the X axis as a fraction of width", 0.5, 0, 1),
			"y":      numberProp("Split position along the Y axis as a fraction of height", 0.5, 0, 1),
			"invert": boolProp("Reflect the far side onto the near side instead", false),
		}),
	}
}

type mirrorArgs struct {
	Image  string  `json:"image"`
	Mode   string  `json:"mode"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Invert bool    `json:"invert"`
}

func (MirrorNode) Eval(args json.RawMessage) (*Result, error) {
	a := mirrorArgs{Mode: "X", X: 0.5, Y: 0.5}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	src, err := decodeInput(a.Image)
	if err != nil {
		return nil, err
	}

	out := src
	switch a.Mode {
	case "X":
		out = ops.Mirror(out, clampF(a.X, 0, 1), ops.MirrorHorizontal, a.Invert)
	case "Y":
		out = ops.Mirror(out, clampF(a.Y, 0, 1), ops.MirrorVertical, a.Invert)
	case "XY":
		out = ops.Mirror(out, clampF(a.X, 0, 1), ops.MirrorHorizontal, a.Invert)
		out = ops.Mirror(out, clampF(a.Y, 0, 1), ops.MirrorVertical, a.Invert)
	default:
		return nil, errUnknownEnum("mode", a.Mode)
	}
	return newResult(out)
}

// ExtendNode concatenates two images along an axis.
type ExtendNode struct{}

func (ExtendNode) Describe() Schema {
	props := map[string]interface{}{
		"imageA": imageProp("First image"),
		"imageB": imageProp("Second image"),
		"axis": enumProp("Concatenation axis", string(ops.ExtendHorizontal), []string{
			string(ops.ExtendHorizontal), string(ops.ExtendVertical),
		}),
		"flip": boolProp("Swap the two images before concatenating", false),
		"mode": enumProp("Final size-conform mode", string(ops.FitNone), fitModes),
	}
	for k, v := range dimensionProps() {
		props[k] = v
	}
	return Schema{
		Name:        "extend",
		Description: "Concatenate two images side by side or stacked.",
		InputSchema: objectSchema([]string{"imageA", "imageB"}, props),
	}
}

type extendArgs struct {
	ImageA string `json:"imageA"`
	ImageB string `json:"imageB"`
	Axis   string `json:"axis"`
	Flip   bool   `json:"flip"`
	Mode   string `json:"mode"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (ExtendNode) Eval(args json.RawMessage) (*Result, error) {
	var a extendArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	imgA, err := decodeInput(a.ImageA)
	if err != nil {
		return nil, err
	}
	imgB, err := decodeInput(a.ImageB)
	if err != nil {
		return nil, err
	}
	if a.Axis == "" {
		a.Axis = string(ops.ExtendHorizontal)
	}

	out := ops.Extend(imgA, imgB, ops.ExtendAxis(a.Axis), a.Flip)
	if a.Mode != "" && a.Mode != string(ops.FitNone) {
		w, h := canvasSize(a.Width), canvasSize(a.Height)
		out = ops.ScaleFit(out, w, h, ops.FitMode(a.Mode))
	}
	return newResult(out)
}
