package node

import (
	"encoding/json"
	"image"
	"image/color"

	"github.com/hexforge/pixelnode/internal/ops"
	"github.com/hexforge/pixelnode/internal/shader"
)

// ConstantNode renders a solid color canvas.
type ConstantNode struct{}

func (ConstantNode) Describe() Schema {
	props := map[string]interface{}{
		"r": integerProp("Red channel of the fill color", 0, 0, 255),
		"g": integerProp("Green channel of the fill color", 0, 0, 255),
		"b": integerProp("Blue channel of the fill color", 0, 0, 255),
	}
	for k, v := range dimensionProps() {
		props[k] = v
	}
	return Schema{
		Name:        "constant",
		Description: "Render a solid color image of the given size.",
		InputSchema: objectSchema(nil, props),
	}
}

type constantArgs struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	R      int `json:"r"`
	G      int `json:"g"`
	B      int `json:"b"`
}

func (ConstantNode) Eval(args json.RawMessage) (*Result, error) {
	var a constantArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	w, h := canvasSize(a.Width), canvasSize(a.Height)
	fill := color.NRGBA{clampChannel(a.R), clampChannel(a.G), clampChannel(a.B), 255}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = fill.R
		out.Pix[i+1] = fill.G
		out.Pix[i+2] = fill.B
		out.Pix[i+3] = fill.A
	}
	return newResult(out)
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ShapeNode rasterizes a filled geometric shape on a black canvas.
type ShapeNode struct{}

func (ShapeNode) Describe() Schema {
	props := map[string]interface{}{
		"shape": enumProp("Shape to draw", string(ops.ShapeCircle), []string{
			string(ops.ShapeCircle), string(ops.ShapeSquare), string(ops.ShapeEllipse),
			string(ops.ShapeRectangle), string(ops.ShapePolygon),
		}),
		"sizeX": numberProp("Horizontal extent as a fraction of the canvas", 1, 0.01, 2),
		"sizeY": numberProp("Vertical extent as a fraction of the canvas", 1, 0.01, 2),
		"sides": integerProp("Polygon side count (POLYGON only)", 3, 3, 100),
		"angle": numberProp("Rotation about the center in degrees", 0, -180, 180),
		"r":     integerProp("Red channel of the fill color", 255, 0, 255),
		"g":     integerProp("Green channel of the fill color", 255, 0, 255),
		"b":     integerProp("Blue channel of the fill color", 255, 0, 255),
	}
	for k, v := range dimensionProps() {
		props[k] = v
	}
	return Schema{
		Name:        "shape",
		Description: "Draw a filled circle, square, ellipse, rectangle, or regular polygon.",
		InputSchema: objectSchema(nil, props),
	}
}

type shapeArgs struct {
	Shape  string  `json:"shape"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	SizeX  float64 `json:"sizeX"`
	SizeY  float64 `json:"sizeY"`
	Sides  int     `json:"sides"`
	Angle  float64 `json:"angle"`
	R      int     `json:"r"`
	G      int     `json:"g"`
	B      int     `json:"b"`
}

func (ShapeNode) Eval(args json.RawMessage) (*Result, error) {
	a := shapeArgs{SizeX: 1, SizeY: 1, Sides: 3, R: 255, G: 255, B: 255}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Shape == "" {
		a.Shape = string(ops.ShapeCircle)
	}
	w, h := canvasSize(a.Width), canvasSize(a.Height)
	fill := color.NRGBA{clampChannel(a.R), clampChannel(a.G), clampChannel(a.B), 255}

	out, err := ops.Shape(ops.ShapeKind(a.Shape), w, h,
		clampF(a.SizeX, 0.01, 2), clampF(a.SizeY, 0.01, 2),
		a.Sides, clampF(a.Angle, -180, 180), fill)
	if err != nil {
		return nil, err
	}
	return newResult(out)
}

// PixelShaderNode evaluates per-channel expressions over a blank canvas.
type PixelShaderNode struct{}

func (PixelShaderNode) Describe() Schema {
	props := shaderExprProps()
	for k, v := range dimensionProps() {
		props[k] = v
	}
	return Schema{
		Name:        "pixel_shader",
		Description: "Generate an image by evaluating per-channel arithmetic expressions at every pixel. Variables: $x $y $u $v $w $h $r $g $b.",
		InputSchema: objectSchema(nil, props),
	}
}

type pixelShaderArgs struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	ExprR  string `json:"exprR"`
	ExprG  string `json:"exprG"`
	ExprB  string `json:"exprB"`
}

func (PixelShaderNode) Eval(args json.RawMessage) (*Result, error) {
	var a pixelShaderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	w, h := canvasSize(a.Width), canvasSize(a.Height)
	out, err := shader.Evaluate(nil, w, h, a.ExprR, a.ExprG, a.ExprB)
	if err != nil {
		return nil, err
	}
	return newResult(out)
}

// PixelShaderImageNode evaluates per-channel expressions over a source
// image, which is resized to the output size first so source reads align
// with output coordinates.
type PixelShaderImageNode struct{}

func (PixelShaderImageNode) Describe() Schema {
	props := shaderExprProps()
	props["image"] = imageProp("Source image the expressions read through $r $g $b")
	for k, v := range dimensionProps() {
		props[k] = v
	}
	return Schema{
		Name:        "pixel_shader_image",
		Description: "Evaluate per-channel arithmetic expressions over a source image. Empty expressions copy the source channel.",
		InputSchema: objectSchema([]string{"image"}, props),
	}
}

type pixelShaderImageArgs struct {
	Image  string `json:"image"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	ExprR  string `json:"exprR"`
	ExprG  string `json:"exprG"`
	ExprB  string `json:"exprB"`
}

func (PixelShaderImageNode) Eval(args json.RawMessage) (*Result, error) {
	var a pixelShaderImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	src, err := decodeInput(a.Image)
	if err != nil {
		return nil, err
	}
	w, h := a.Width, a.Height
	if w == 0 {
		w = src.Rect.Dx()
	}
	if h == 0 {
		h = src.Rect.Dy()
	}
	w, h = canvasSize(w), canvasSize(h)
	fitted := ops.ScaleFit(src, w, h, ops.FitExact)

	out, err := shader.Evaluate(fitted, w, h, a.ExprR, a.ExprG, a.ExprB)
	if err != nil {
		return nil, err
	}
	return newResult(out)
}

func shaderExprProps() map[string]interface{} {
	return map[string]interface{}{
		"exprR": stringProp("Expression for the red channel; empty copies the source", ""),
		"exprG": stringProp("Expression for the green channel; empty copies the source", ""),
		"exprB": stringProp("Expression for the blue channel; empty copies the source", ""),
	}
}
