package node

import (
	"encoding/json"
	"image"

	"github.com/hexforge/pixelnode/internal/ops"
)

var blendOps = func() []string {
	out := make([]string, len(ops.BlendOps))
	for i, op := range ops.BlendOps {
		out[i] = string(op)
	}
	return out
}()

// BlendNode composites two images with a blend operator.
type BlendNode struct{}

func (BlendNode) Describe() Schema {
	props := blendProps()
	return Schema{
		Name:        "blend",
		Description: "Composite two images with a blend operator and a global alpha.",
		InputSchema: objectSchema([]string{"imageA", "imageB"}, props),
	}
}

// BlendMaskNode composites two images with a blend operator, modulated by
// a per-pixel mask.
type BlendMaskNode struct{}

func (BlendMaskNode) Describe() Schema {
	props := blendProps()
	props["mask"] = imageProp("Per-pixel blend mask; luminance scales the operator's effect")
	return Schema{
		Name:        "blend_mask",
		Description: "Composite two images with a blend operator, weighted per pixel by a mask's luminance.",
		InputSchema: objectSchema([]string{"imageA", "imageB", "mask"}, props),
	}
}

func blendProps() map[string]interface{} {
	props := map[string]interface{}{
		"imageA": imageProp("Base image"),
		"imageB": imageProp("Image blended onto the base"),
		"op":     enumProp("Blend operator", string(ops.BlendLerp), blendOps),
		"alpha":  numberProp("Global blend strength", 1, 0, 1),
	}
	for k, v := range dimensionProps() {
		props[k] = v
	}
	return props
}

type blendArgs struct {
	ImageA string   `json:"imageA"`
	ImageB string   `json:"imageB"`
	Mask   string   `json:"mask"`
	Op     string   `json:"op"`
	Alpha  *float64 `json:"alpha"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
}

func (BlendNode) Eval(args json.RawMessage) (*Result, error) {
	return evalBlend(args, false)
}

func (BlendMaskNode) Eval(args json.RawMessage) (*Result, error) {
	return evalBlend(args, true)
}

func evalBlend(args json.RawMessage, masked bool) (*Result, error) {
	var a blendArgs
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
	if a.Op == "" {
		a.Op = string(ops.BlendLerp)
	}
	alpha := 1.0
	if a.Alpha != nil {
		alpha = clampF(*a.Alpha, 0, 1)
	}
	w, h := a.Width, a.Height
	if w == 0 {
		w = imgA.Rect.Dx()
	}
	if h == 0 {
		h = imgA.Rect.Dy()
	}

	var mask *image.Gray
	if masked {
		maskImg, err := decodeInput(a.Mask)
		if err != nil {
			return nil, err
		}
		mask = ops.Mask(maskImg)
	}

	out, err := ops.Blend(imgA, imgB, ops.BlendOp(a.Op), w, h, mask, alpha)
	if err != nil {
		return nil, err
	}
	return newResult(out)
}

// ProjectionNode remaps an image through a simple spherical or cylindrical
// projection.
type ProjectionNode struct{}

func (ProjectionNode) Describe() Schema {
	props := map[string]interface{}{
		"image": imageProp("Image to remap"),
		"kind": enumProp("Projection kind", string(ops.ProjectionSpherical), []string{
			string(ops.ProjectionSpherical), string(ops.ProjectionCylindrical),
		}),
	}
	for k, v := range dimensionProps() {
		props[k] = v
	}
	return Schema{
		Name:        "projection",
		Description: "Remap an image through a spherical or cylindrical projection at a new size.",
		InputSchema: objectSchema([]string{"image"}, props),
	}
}

type projectionArgs struct {
	Image  string `json:"image"`
	Kind   string `json:"kind"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (ProjectionNode) Eval(args json.RawMessage) (*Result, error) {
	var a projectionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	src, err := decodeInput(a.Image)
	if err != nil {
		return nil, err
	}
	if a.Kind == "" {
		a.Kind = string(ops.ProjectionSpherical)
	}
	w, h := a.Width, a.Height
	if w == 0 {
		w = src.Rect.Dx()
	}
	if h == 0 {
		h = src.Rect.Dy()
	}

	out, err := ops.Project(src, ops.ProjectionKind(a.Kind), w, h)
	if err != nil {
		return nil, err
	}
	return newResult(out)
}

// RouteNode passes its input through unchanged, for wiring convenience.
type RouteNode struct{}

func (RouteNode) Describe() Schema {
	return Schema{
		Name:        "route",
		Description: "Pass an image through unchanged.",
		InputSchema: objectSchema([]string{"image"}, map[string]interface{}{
			"image": imageProp("Image to pass through"),
		}),
	}
}

type routeArgs struct {
	Image string `json:"image"`
}

func (RouteNode) Eval(args json.RawMessage) (*Result, error) {
	var a routeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	src, err := decodeInput(a.Image)
	if err != nil {
		return nil, err
	}
	return newResult(src)
}
