package raster

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
)

func TestFillRect(t *testing.T) {
	c := New(64, 64)
	defer c.Close()

	c.Clear(kernel.White)
	c.Rect(16, 16, 32, 32)
	if err := c.Paint(kernel.Paint{Fill: true, FillColor: kernel.Red, FillAlpha: 1}); err != nil {
		t.Fatalf("Paint: %v", err)
	}

	r, g, b, _ := c.Image().At(32, 32).RGBA()
	if r>>8 < 250 || g>>8 > 5 || b>>8 > 5 {
		t.Errorf("center pixel = (%d,%d,%d), want red", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = c.Image().At(2, 2).RGBA()
	if r>>8 < 250 || g>>8 < 250 || b>>8 < 250 {
		t.Errorf("corner pixel = (%d,%d,%d), want white", r>>8, g>>8, b>>8)
	}
}

func TestTransformedCircle(t *testing.T) {
	c := New(64, 64)
	defer c.Close()

	c.Clear(kernel.White)
	c.Push()
	c.Translate(48, 16)
	c.Circle(0, 0, 6)
	if err := c.Paint(kernel.Paint{Fill: true, FillColor: kernel.Black, FillAlpha: 1}); err != nil {
		t.Fatal(err)
	}
	c.Pop()

	r, _, _, _ := c.Image().At(48, 16).RGBA()
	if r>>8 > 5 {
		t.Errorf("translated circle center not filled: r=%d", r>>8)
	}
	r, _, _, _ = c.Image().At(16, 48).RGBA()
	if r>>8 < 250 {
		t.Errorf("opposite corner unexpectedly painted: r=%d", r>>8)
	}
}

func TestEncodePNG(t *testing.T) {
	c := New(8, 8)
	defer c.Close()
	c.Clear(kernel.Black)

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Errorf("bounds = %v", img.Bounds())
	}
}
