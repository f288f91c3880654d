package capture

import (
	"fmt"
	"image"
	"sort"

	"github.com/blackjack/webcam"
)

// fourcc for the V4L2 YUYV 4:2:2 packed format.
const pixelFormatYUYV = webcam.PixelFormat(0x56595559)

// Defaults applied when a Device is constructed with zero values.
const (
	DefaultWidth     = 1920
	DefaultHeight    = 1080
	DefaultFramerate = 30
)

// Source is the frame supplier consumers depend on. *Device implements it;
// tests substitute fakes.
type Source interface {
	Open() error
	ReadFrame() (*image.NRGBA, error)
	Close() error
}

// Device is one V4L2 webcam, addressed by index (/dev/video<index>).
// Not safe for concurrent use.
type Device struct {
	index  int
	width  uint32
	height uint32
	fps    float32

	cam *webcam.Webcam
}

// NewDevice creates an unopened device. Non-positive width, height, or fps
// select the package defaults.
func NewDevice(index, width, height int, fps float64) *Device {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if fps <= 0 {
		fps = DefaultFramerate
	}
	return &Device{
		index:  index,
		width:  uint32(width),
		height: uint32(height),
		fps:    float32(fps),
	}
}

// Index returns the device index.
func (d *Device) Index() int { return d.index }

// Size returns the configured capture size. The driver may have adjusted
// the requested size at Open.
func (d *Device) Size() (width, height int) {
	return int(d.width), int(d.height)
}

// Framerate returns the configured frames per second.
func (d *Device) Framerate() float64 { return float64(d.fps) }

// Open opens the device node, negotiates the YUYV format at the configured
// size and framerate, and starts streaming.
func (d *Device) Open() error {
	if d.cam != nil {
		return nil
	}
	path := fmt.Sprintf("/dev/video%d", d.index)
	cam, err := webcam.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open webcam %d: %w", d.index, err)
	}

	if _, ok := cam.GetSupportedFormats()[pixelFormatYUYV]; !ok {
		cam.Close()
		return fmt.Errorf("webcam %d does not support YUYV capture", d.index)
	}

	_, w, h, err := cam.SetImageFormat(pixelFormatYUYV, d.width, d.height)
	if err != nil {
		cam.Close()
		return fmt.Errorf("failed to set webcam %d format: %w", d.index, err)
	}
	d.width, d.height = w, h

	// Not every driver supports framerate control; a refusal is not fatal.
	_ = cam.SetFramerate(d.fps)

	if err := cam.StartStreaming(); err != nil {
		cam.Close()
		return fmt.Errorf("failed to start webcam %d stream: %w", d.index, err)
	}
	d.cam = cam
	return nil
}

// ReadFrame blocks for the next frame and returns it as NRGBA.
func (d *Device) ReadFrame() (*image.NRGBA, error) {
	if d.cam == nil {
		return nil, fmt.Errorf("webcam %d is not open", d.index)
	}
	if err := d.cam.WaitForFrame(5); err != nil {
		return nil, fmt.Errorf("failed to wait for webcam %d frame: %w", d.index, err)
	}
	frame, err := d.cam.ReadFrame()
	if err != nil {
		return nil, fmt.Errorf("failed to read webcam %d frame: %w", d.index, err)
	}
	img, err := yuyvToNRGBA(frame, int(d.width), int(d.height))
	if err != nil {
		return nil, fmt.Errorf("webcam %d frame: %w", d.index, err)
	}
	return img, nil
}

// Close stops streaming and releases the device node.
func (d *Device) Close() error {
	if d.cam == nil {
		return nil
	}
	err := d.cam.Close()
	d.cam = nil
	if err != nil {
		return fmt.Errorf("failed to close webcam %d: %w", d.index, err)
	}
	return nil
}

// Registry is an owned table of working capture devices. Construct one with
// Probe (or assemble it by hand) and pass it to whoever needs cameras.
type Registry struct {
	devices map[int]*Device
}

// NewRegistry builds a registry over the given devices.
func NewRegistry(devices ...*Device) *Registry {
	r := &Registry{devices: make(map[int]*Device, len(devices))}
	for _, d := range devices {
		r.devices[d.Index()] = d
	}
	return r
}

// detect reports whether /dev/video<index> exists and supports YUYV
// capture. The device node is opened only long enough to query its format
// list; no format is negotiated and no streaming starts.
func detect(index int) bool {
	cam, err := webcam.Open(fmt.Sprintf("/dev/video%d", index))
	if err != nil {
		return false
	}
	defer cam.Close()
	_, ok := cam.GetSupportedFormats()[pixelFormatYUYV]
	return ok
}

// Probe scans device indexes from 0 upward, recording indexes whose device
// node supports YUYV capture. Scanning stops after maxFailures consecutive
// misses. Registered devices are unopened; callers Open them on demand.
func Probe(maxFailures int) *Registry {
	return probeWith(maxFailures, detect)
}

func probeWith(maxFailures int, detect func(index int) bool) *Registry {
	if maxFailures <= 0 {
		maxFailures = 3
	}
	r := NewRegistry()
	failed := 0
	for index := 0; failed < maxFailures; index++ {
		if !detect(index) {
			failed++
			continue
		}
		failed = 0
		r.devices[index] = NewDevice(index, 0, 0, 0)
	}
	return r
}

// Device returns the registered device for an index.
func (r *Registry) Device(index int) (*Device, bool) {
	d, ok := r.devices[index]
	return d, ok
}

// Add registers a device, replacing any previous entry for its index.
func (r *Registry) Add(d *Device) {
	r.devices[d.Index()] = d
}

// Indexes lists the registered device indexes in ascending order.
func (r *Registry) Indexes() []int {
	out := make([]int, 0, len(r.devices))
	for i := range r.devices {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
