package node

import (
	"encoding/json"
	"fmt"
	"image"
	"io"

	"github.com/hexforge/pixelnode/internal/ops"
)

// Dimension limits shared by every node that renders to a sized canvas.
const (
	DefaultDimension = 256
	MinDimension     = 32
	MaxDimension     = 8192
)

// Schema describes a node for discovery: its name, what it does, and a
// JSON schema for its arguments.
type Schema struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Result is the fixed output pair of every node evaluation.
type Result struct {
	Image  string `json:"image"`          // base64-encoded PNG
	Mask   string `json:"mask,omitempty"` // base64-encoded PNG, luminance of Image
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Node is one evaluatable image node.
type Node interface {
	Describe() Schema
	Eval(args json.RawMessage) (*Result, error)
}

// Registry maps node names to nodes, preserving registration order for
// discovery listings.
type Registry struct {
	nodes map[string]Node
	order []string
}

// NewRegistry builds a registry over the given nodes.
func NewRegistry(nodes ...Node) *Registry {
	r := &Registry{nodes: make(map[string]Node, len(nodes))}
	for _, n := range nodes {
		name := n.Describe().Name
		if _, exists := r.nodes[name]; !exists {
			r.order = append(r.order, name)
		}
		r.nodes[name] = n
	}
	return r
}

// DefaultRegistry builds the full built-in node set. The webcam node probes
// hardware lazily on first evaluation, so constructing the registry is cheap.
func DefaultRegistry() *Registry {
	return NewRegistry(
		ConstantNode{},
		ShapeNode{},
		PixelShaderNode{},
		PixelShaderImageNode{},
		TransformNode{},
		TileNode{},
		MirrorNode{},
		ExtendNode{},
		HSVNode{},
		AdjustNode{},
		ThresholdNode{},
		BlendNode{},
		BlendMaskNode{},
		ProjectionNode{},
		NewWebcamNode(nil),
		RouteNode{},
	)
}

// Get returns the node registered under a name.
func (r *Registry) Get(name string) (Node, bool) {
	n, ok := r.nodes[name]
	return n, ok
}

// Describe lists every registered node's schema in registration order.
func (r *Registry) Describe() []Schema {
	out := make([]Schema, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.nodes[name].Describe())
	}
	return out
}

// Eval evaluates the named node with the given raw arguments.
func (r *Registry) Eval(name string, args json.RawMessage) (*Result, error) {
	n, ok := r.nodes[name]
	if !ok {
		return nil, fmt.Errorf("unknown node: %s", name)
	}
	return n.Eval(args)
}

// Close releases nodes that hold external resources, such as open camera
// devices. The first error encountered is returned.
func (r *Registry) Close() error {
	var firstErr error
	for _, name := range r.order {
		if c, ok := r.nodes[name].(io.Closer); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// newResult encodes an image and its luminance mask for the wire.
func newResult(img *image.NRGBA) (*Result, error) {
	encoded, err := ops.EncodePNG(img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result image: %w", err)
	}
	mask, err := ops.EncodePNG(ops.Mask(img))
	if err != nil {
		return nil, fmt.Errorf("failed to encode result mask: %w", err)
	}
	return &Result{
		Image:  encoded,
		Mask:   mask,
		Width:  img.Rect.Dx(),
		Height: img.Rect.Dy(),
	}, nil
}

// decodeInput decodes a required base64 image argument.
func decodeInput(data string) (*image.NRGBA, error) {
	if data == "" {
		return nil, fmt.Errorf("missing image input")
	}
	img, err := ops.DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image input: %w", err)
	}
	return ops.AsNRGBA(img), nil
}

// canvasSize applies the default and clamps a requested canvas dimension.
func canvasSize(v int) int {
	if v == 0 {
		return DefaultDimension
	}
	if v < MinDimension {
		return MinDimension
	}
	if v > MaxDimension {
		return MaxDimension
	}
	return v
}

// errUnknownEnum reports an out-of-enum string argument.
func errUnknownEnum(param, value string) error {
	return fmt.Errorf("unknown %s: %q", param, value)
}

// clampF clamps v into [lo, hi].
func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// === schema building helpers ===

func objectSchema(required []string, props map[string]interface{}) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func imageProp(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": desc + " (base64-encoded PNG, JPEG, or GIF)",
	}
}

func numberProp(desc string, def, min, max float64) map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": desc,
		"default":     def,
		"minimum":     min,
		"maximum":     max,
	}
}

func integerProp(desc string, def, min, max int) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": desc,
		"default":     def,
		"minimum":     min,
		"maximum":     max,
	}
}

func stringProp(desc, def string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": desc,
		"default":     def,
	}
}

func enumProp(desc, def string, values []string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": desc,
		"enum":        values,
		"default":     def,
	}
}

func boolProp(desc string, def bool) map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": desc,
		"default":     def,
	}
}

func dimensionProps() map[string]interface{} {
	return map[string]interface{}{
		"width":  integerProp("Output width in pixels", DefaultDimension, MinDimension, MaxDimension),
		"height": integerProp("Output height in pixels", DefaultDimension, MinDimension, MaxDimension),
	}
}
