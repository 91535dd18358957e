package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"testing"
)

func TestFitMaxEdge_ClampsLongEdge(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3000, 1500))
	out := FitMaxEdge(img, 1568)

	b := out.Bounds()
	if b.Dx() != 1568 || b.Dy() != 784 {
		t.Errorf("expected 1568x784, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestFitMaxEdge_PortraitOrientation(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1500, 3000))
	out := FitMaxEdge(img, 1568)

	b := out.Bounds()
	if b.Dx() != 784 || b.Dy() != 1568 {
		t.Errorf("expected 784x1568, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestFitMaxEdge_SmallImagePassesThrough(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	out := FitMaxEdge(img, 1568)

	if out != image.Image(img) {
		t.Error("expected the same image back for an in-bounds input")
	}
}

func TestFitMaxEdge_ExactlyAtLimit(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1568, 1568))
	out := FitMaxEdge(img, 1568)
	if out != image.Image(img) {
		t.Error("expected pass-through for an image exactly at the limit")
	}
}

func TestEncodePNGBase64_ProducesValidPNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	data, err := EncodePNGBase64(img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("\x89PNG")) {
		t.Error("decoded payload does not start with the PNG signature")
	}
}
