package ops

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	"image/png"

	"github.com/disintegration/imaging"
)

// AsNRGBA returns img as an *image.NRGBA anchored at (0, 0), cloning only
// when needed.
func AsNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}

// Mask extracts a single-channel luminance mask from an image using the
// ITU-R BT.601 weights.
func Mask(img image.Image) *image.Gray {
	src := AsNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*src.Stride + x*4
			r := float64(src.Pix[i])
			g := float64(src.Pix[i+1])
			b := float64(src.Pix[i+2])
			out.Pix[y*out.Stride+x] = uint8(0.299*r + 0.587*g + 0.114*b)
		}
	}
	return out
}

// EncodePNG encodes an image as a base64 PNG string for the wire.
func EncodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeImage decodes a base64-encoded PNG, JPEG, or GIF image.
func DecodeImage(data string) (image.Image, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 image data: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
