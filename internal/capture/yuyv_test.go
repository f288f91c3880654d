package capture

import (
	"testing"
)

func TestYUYVToNRGBAKnownValues(t *testing.T) {
	tests := []struct {
		name    string
		y, u, v byte
		r, g, b uint8
	}{
		{"black", 16, 128, 128, 0, 0, 0},
		{"white", 235, 128, 128, 255, 255, 255},
		{"mid gray", 126, 128, 128, 128, 128, 128},
		{"red-ish", 81, 90, 240, 255, 0, 2},
		{"blue-ish", 41, 240, 110, 0, 0, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Two pixels sharing one chroma pair.
			frame := []byte{tt.y, tt.u, tt.y, tt.v}
			img, err := yuyvToNRGBA(frame, 2, 1)
			if err != nil {
				t.Fatalf("yuyvToNRGBA failed: %v", err)
			}
			for x := 0; x < 2; x++ {
				px := img.NRGBAAt(x, 0)
				if diff(px.R, tt.r) > 2 || diff(px.G, tt.g) > 2 || diff(px.B, tt.b) > 2 {
					t.Errorf("pixel %d: got (%d,%d,%d), want ~(%d,%d,%d)",
						x, px.R, px.G, px.B, tt.r, tt.g, tt.b)
				}
				if px.A != 255 {
					t.Errorf("pixel %d: alpha %d, want 255", x, px.A)
				}
			}
		})
	}
}

func TestYUYVToNRGBAOddWidth(t *testing.T) {
	// 3x1: last pixel of a row comes from a truncated chroma group.
	frame := []byte{235, 128, 235, 128, 16, 128}
	img, err := yuyvToNRGBA(frame, 3, 1)
	if err != nil {
		t.Fatalf("yuyvToNRGBA failed: %v", err)
	}
	if got := img.NRGBAAt(2, 0); got.R > 5 || got.G > 5 || got.B > 5 {
		t.Errorf("last pixel: got %+v, want black", got)
	}
}

func TestYUYVToNRGBAErrors(t *testing.T) {
	if _, err := yuyvToNRGBA([]byte{1, 2, 3}, 2, 2); err == nil {
		t.Error("short frames should be rejected")
	}
	if _, err := yuyvToNRGBA(nil, 0, 4); err == nil {
		t.Error("zero width should be rejected")
	}
}

func TestNewDeviceDefaults(t *testing.T) {
	d := NewDevice(2, 0, 0, 0)
	if d.Index() != 2 {
		t.Errorf("index: got %d, want 2", d.Index())
	}
	w, h := d.Size()
	if w != DefaultWidth || h != DefaultHeight {
		t.Errorf("size: got %dx%d, want %dx%d", w, h, DefaultWidth, DefaultHeight)
	}
	if d.Framerate() != DefaultFramerate {
		t.Errorf("framerate: got %v, want %v", d.Framerate(), DefaultFramerate)
	}
}

func TestNewDeviceExplicitConfig(t *testing.T) {
	d := NewDevice(0, 640, 480, 15)
	w, h := d.Size()
	if w != 640 || h != 480 {
		t.Errorf("size: got %dx%d, want 640x480", w, h)
	}
	if d.Framerate() != 15 {
		t.Errorf("framerate: got %v, want 15", d.Framerate())
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry(NewDevice(0, 0, 0, 0), NewDevice(3, 0, 0, 0))
	if _, ok := r.Device(0); !ok {
		t.Error("device 0 should be registered")
	}
	if _, ok := r.Device(1); ok {
		t.Error("device 1 should not be registered")
	}
	got := r.Indexes()
	if len(got) != 2 || got[0] != 0 || got[1] != 3 {
		t.Errorf("indexes: got %v, want [0 3]", got)
	}
}

func TestProbeStopsAfterConsecutiveMisses(t *testing.T) {
	present := map[int]bool{0: true, 1: true, 5: true}
	var probed []int
	r := probeWith(2, func(index int) bool {
		probed = append(probed, index)
		return present[index]
	})

	got := r.Indexes()
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("indexes: got %v, want [0 1]", got)
	}
	// Indexes 2 and 3 miss; index 5 is never reached.
	if len(probed) != 4 || probed[len(probed)-1] != 3 {
		t.Errorf("probed indexes: got %v, want [0 1 2 3]", probed)
	}
	if d, ok := r.Device(1); !ok || d.cam != nil {
		t.Error("probed devices should be registered unopened")
	}
}

func diff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
