package node

import (
	"encoding/json"
	"image"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/disintegration/imaging"

	"github.com/hexforge/pixelnode/internal/capture"
	"github.com/hexforge/pixelnode/internal/ops"
)

// WebcamNode captures frames from a V4L2 camera. Devices open lazily on
// first evaluation and stay open between evaluations. The last good frame
// per device is retained, and a device that has never produced one falls
// back to a black frame, so device trouble degrades the output instead of
// erroring to the host.
type WebcamNode struct {
	shared *webcamState
}

type webcamState struct {
	mu      sync.Mutex
	open    func(index, width, height int, fps float64) capture.Source
	sources map[int]capture.Source
	configs map[int]webcamConfig
	last    map[int]*image.NRGBA
	lastAt  map[int]time.Time
}

type webcamConfig struct {
	width  int
	height int
	fps    float64
}

// NewWebcamNode builds a webcam node. A nil open function uses real V4L2
// devices; tests inject a fake Source factory.
func NewWebcamNode(open func(index, width, height int, fps float64) capture.Source) WebcamNode {
	if open == nil {
		open = func(index, width, height int, fps float64) capture.Source {
			return capture.NewDevice(index, width, height, fps)
		}
	}
	return WebcamNode{shared: &webcamState{
		open:    open,
		sources: make(map[int]capture.Source),
		configs: make(map[int]webcamConfig),
		last:    make(map[int]*image.NRGBA),
		lastAt:  make(map[int]time.Time),
	}}
}

var orientModes = []string{"NORMAL", "FLIPX", "FLIPY", "FLIPXY"}

func (WebcamNode) Describe() Schema {
	props := map[string]interface{}{
		"index":  integerProp("Camera device index (/dev/video<index>)", 0, 0, 6),
		"fps":    numberProp("Capture rate ceiling; repeated calls inside one frame window reuse the previous frame", 60, 1, 60),
		"hold":   boolProp("Reuse the previous frame without touching the device", false),
		"orient": enumProp("Flip the frame after capture", "NORMAL", orientModes),
		"invert": numberProp("Invert the frame by this amount", 0, 0, 1),
		"mode":   enumProp("Size-conform mode for the output", string(ops.FitNone), fitModes),
	}
	for k, v := range dimensionProps() {
		props[k] = v
	}
	return Schema{
		Name:        "webcam",
		Description: "Capture a frame from a local camera, with optional flips, inversion, and resizing.",
		InputSchema: objectSchema(nil, props),
	}
}

type webcamArgs struct {
	Index  int     `json:"index"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	FPS    float64 `json:"fps"`
	Hold   bool    `json:"hold"`
	Orient string  `json:"orient"`
	Invert float64 `json:"invert"`
	Mode   string  `json:"mode"`
}

func (n WebcamNode) Eval(args json.RawMessage) (*Result, error) {
	a := webcamArgs{FPS: 60, Orient: "NORMAL"}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.FPS <= 0 {
		a.FPS = 60
	}
	if a.Orient == "" {
		a.Orient = "NORMAL"
	}

	frame := n.shared.grab(a.Index, a.Width, a.Height, a.FPS, a.Hold)

	out := frame
	switch a.Orient {
	case "NORMAL":
	case "FLIPX":
		out = imaging.FlipH(out)
	case "FLIPY":
		out = imaging.FlipV(out)
	case "FLIPXY":
		out = imaging.FlipH(imaging.FlipV(out))
	default:
		return nil, errUnknownEnum("orient", a.Orient)
	}
	if a.Invert > 0 {
		out = ops.Invert(out, clampF(a.Invert, 0, 1))
	}
	if a.Mode != "" && a.Mode != string(ops.FitNone) {
		w, h := canvasSize(a.Width), canvasSize(a.Height)
		out = ops.ScaleFit(out, w, h, ops.FitMode(a.Mode))
	}
	return newResult(out)
}

// grab returns the next frame for a device, reusing the previous frame
// inside the fps window or on hold. A device failure falls back to the
// last good frame, seeded black before any capture, and logs a warning;
// it never surfaces as an error.
func (s *webcamState) grab(index, width, height int, fps float64, hold bool) *image.NRGBA {
	s.mu.Lock()
	defer s.mu.Unlock()

	if last, ok := s.last[index]; ok {
		if hold {
			return last
		}
		if time.Since(s.lastAt[index]) < time.Duration(float64(time.Second)/fps) {
			return last
		}
	}

	cfg := webcamConfig{width: width, height: height, fps: fps}
	src, ok := s.sources[index]
	if ok && s.configs[index] != cfg {
		// The requested capture settings changed; reopen the device.
		_ = src.Close()
		delete(s.sources, index)
		ok = false
	}
	if !ok {
		src = s.open(index, width, height, fps)
		if err := src.Open(); err != nil {
			log.Printf("Warning: camera %d open failed, serving fallback frame: %v", index, err)
			return s.fallback(index, width, height)
		}
		s.sources[index] = src
		s.configs[index] = cfg
	}

	frame, err := src.ReadFrame()
	if err != nil {
		log.Printf("Warning: camera %d read failed, serving fallback frame: %v", index, err)
		return s.fallback(index, width, height)
	}
	s.last[index] = frame
	s.lastAt[index] = time.Now()
	return frame
}

// fallback returns the last good frame for a device. A device with no
// capture history is seeded with a black frame, which then serves as the
// held frame until a capture succeeds.
func (s *webcamState) fallback(index, width, height int) *image.NRGBA {
	if last, ok := s.last[index]; ok {
		return last
	}
	frame := imaging.New(canvasSize(width), canvasSize(height), color.NRGBA{0, 0, 0, 255})
	s.last[index] = frame
	return frame
}

// Close releases every open device. Called on server shutdown.
func (n WebcamNode) Close() error {
	n.shared.mu.Lock()
	defer n.shared.mu.Unlock()
	var firstErr error
	for index, src := range n.shared.sources {
		if err := src.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(n.shared.sources, index)
	}
	return firstErr
}
