package capture

import (
	"fmt"
	"image"
)

// yuyvToNRGBA converts a packed YUYV 4:2:2 frame to NRGBA using the
// ITU-R BT.601 matrix. Each 4-byte group Y0 U Y1 V yields two pixels that
// share the chroma pair.
func yuyvToNRGBA(frame []byte, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	need := width * height * 2
	if len(frame) < need {
		return nil, fmt.Errorf("short YUYV frame: got %d bytes, need %d", len(frame), need)
	}

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := y * width * 2
		dst := y * out.Stride
		for x := 0; x < width; x += 2 {
			y0 := int(frame[src])
			u := int(frame[src+1])
			// An odd trailing pixel carries no V byte; treat its chroma
			// as neutral.
			y1, v := 0, 128
			if x+1 < width {
				y1 = int(frame[src+2])
				v = int(frame[src+3])
				src += 4
			} else {
				src += 2
			}

			r, g, b := yuvToRGB(y0, u, v)
			out.Pix[dst] = r
			out.Pix[dst+1] = g
			out.Pix[dst+2] = b
			out.Pix[dst+3] = 0xff
			dst += 4

			if x+1 < width {
				r, g, b = yuvToRGB(y1, u, v)
				out.Pix[dst] = r
				out.Pix[dst+1] = g
				out.Pix[dst+2] = b
				out.Pix[dst+3] = 0xff
				dst += 4
			}
		}
	}
	return out, nil
}

// yuvToRGB applies the BT.601 limited-range conversion in fixed point.
func yuvToRGB(y, u, v int) (uint8, uint8, uint8) {
	c := y - 16
	d := u - 128
	e := v - 128
	r := clampByte((298*c + 409*e + 128) >> 8)
	g := clampByte((298*c - 100*d - 208*e + 128) >> 8)
	b := clampByte((298*c + 516*d + 128) >> 8)
	return r, g, b
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
