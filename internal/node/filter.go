package node

import (
	"encoding/json"
	"image"

	"github.com/hexforge/pixelnode/internal/ops"
)

// HSVNode shifts hue and scales saturation and value.
type HSVNode struct{}

func (HSVNode) Describe() Schema {
	return Schema{
		Name:        "hsv",
		Description: "Adjust an image in HSV space: shift hue, scale saturation and value.",
		InputSchema: objectSchema([]string{"image"}, map[string]interface{}{
			"image":      imageProp("Image to adjust"),
			"hue":        numberProp("Hue shift as a fraction of a full rotation", 0, -1, 1),
			"saturation": numberProp("Saturation scale factor", 1, 0, 2),
			"value":      numberProp("Value (brightness) scale factor", 1, 0, 2),
		}),
	}
}

type hsvArgs struct {
	Image      string  `json:"image"`
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Value      float64 `json:"value"`
}

func (HSVNode) Eval(args json.RawMessage) (*Result, error) {
	a := hsvArgs{Saturation: 1, Value: 1}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	src, err := decodeInput(a.Image)
	if err != nil {
		return nil, err
	}
	out := ops.AdjustHSV(src,
		clampF(a.Hue, -1, 1),
		clampF(a.Saturation, 0, 2),
		clampF(a.Value, 0, 2))
	return newResult(out)
}

// AdjustNode applies one of the filter or tonal adjustment operations.
type AdjustNode struct{}

var adjustOps = []string{
	string(ops.FilterBlur), string(ops.FilterSharpen), string(ops.FilterEmboss),
	string(ops.FilterFindEdges), "INVERT", "CONTRAST", "GAMMA", "EXPOSURE",
}

func (AdjustNode) Describe() Schema {
	return Schema{
		Name:        "adjust",
		Description: "Apply a filter (blur, sharpen, emboss, edge detection) or tonal adjustment (invert, contrast, gamma, exposure).",
		InputSchema: objectSchema([]string{"image"}, map[string]interface{}{
			"image":  imageProp("Image to adjust"),
			"op":     enumProp("Operation to apply", string(ops.FilterBlur), adjustOps),
			"radius": integerProp("Filter radius in pixels (filter ops)", 3, 1, 100),
			"value":  numberProp("Adjustment strength (tonal ops)", 1, -2, 2),
			"alpha":  numberProp("Blend factor between the source and the result", 1, 0, 1),
		}),
	}
}

type adjustArgs struct {
	Image  string  `json:"image"`
	Op     string  `json:"op"`
	Radius int     `json:"radius"`
	Value  float64 `json:"value"`
	Alpha  float64 `json:"alpha"`
}

func (AdjustNode) Eval(args json.RawMessage) (*Result, error) {
	a := adjustArgs{Radius: 3, Value: 1, Alpha: 1}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	src, err := decodeInput(a.Image)
	if err != nil {
		return nil, err
	}
	if a.Op == "" {
		a.Op = string(ops.FilterBlur)
	}
	alpha := clampF(a.Alpha, 0, 1)

	switch a.Op {
	case string(ops.FilterBlur), string(ops.FilterSharpen),
		string(ops.FilterEmboss), string(ops.FilterFindEdges):
		out, err := ops.Filter(src, ops.FilterKind(a.Op), a.Radius, alpha)
		if err != nil {
			return nil, err
		}
		return newResult(out)
	case "INVERT":
		return newResult(ops.Invert(src, alpha))
	case "CONTRAST":
		return newResult(blendBack(src, ops.Contrast(src, a.Value), alpha))
	case "GAMMA":
		return newResult(blendBack(src, ops.Gamma(src, a.Value), alpha))
	case "EXPOSURE":
		return newResult(blendBack(src, ops.Exposure(src, a.Value), alpha))
	default:
		return nil, errUnknownEnum("op", a.Op)
	}
}

// blendBack mixes an adjusted image with its source by alpha.
func blendBack(src, adjusted *image.NRGBA, alpha float64) *image.NRGBA {
	if alpha >= 1 {
		return adjusted
	}
	return ops.Lerp(src, adjusted, nil, alpha)
}

// ThresholdNode quantizes channels against a threshold level.
type ThresholdNode struct{}

var thresholdModes = []string{
	string(ops.ThresholdBinary), string(ops.ThresholdTrunc), string(ops.ThresholdToZero),
}

func (ThresholdNode) Describe() Schema {
	return Schema{
		Name:        "threshold",
		Description: "Threshold each channel: binary quantize, truncate above, or zero below.",
		InputSchema: objectSchema([]string{"image"}, map[string]interface{}{
			"image":     imageProp("Image to threshold"),
			"threshold": numberProp("Threshold level", 0.5, 0, 1),
			"mode":      enumProp("Threshold mode", string(ops.ThresholdBinary), thresholdModes),
		}),
	}
}

type thresholdArgs struct {
	Image     string   `json:"image"`
	Threshold *float64 `json:"threshold"`
	Mode      string   `json:"mode"`
}

func (ThresholdNode) Eval(args json.RawMessage) (*Result, error) {
	var a thresholdArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	src, err := decodeInput(a.Image)
	if err != nil {
		return nil, err
	}
	level := 0.5
	if a.Threshold != nil {
		level = clampF(*a.Threshold, 0, 1)
	}
	if a.Mode == "" {
		a.Mode = string(ops.ThresholdBinary)
	}
	out, err := ops.Threshold(src, level, ops.ThresholdMode(a.Mode))
	if err != nil {
		return nil, err
	}
	return newResult(out)
}
