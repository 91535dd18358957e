// Package imaging prepares extracted raster images for vision model
// payloads.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// MaxEdge is the longest image dimension accepted by the vision models in
// use; larger images are scaled down before encoding.
const MaxEdge = 1568

// FitMaxEdge scales img down so neither dimension exceeds maxEdge,
// preserving aspect ratio. Images already within bounds are returned
// unchanged. Catmull-Rom resampling keeps fine detail in diagrams legible.
func FitMaxEdge(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxEdge <= 0 || (w <= maxEdge && h <= maxEdge) {
		return img
	}

	var nw, nh int
	if w > h {
		nw = maxEdge
		nh = int(float64(maxEdge) / float64(w) * float64(h))
	} else {
		nh = maxEdge
		nw = int(float64(maxEdge) / float64(h) * float64(w))
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// EncodePNGBase64 losslessly encodes img as PNG and returns the base64
// payload for an inline image block.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
