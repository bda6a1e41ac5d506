package render

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestTexelWraps(t *testing.T) {
	tex := NewTexture(4, 1)
	for x := range 4 {
		tex.SetPixel(x, 0, RGB(uint8(x*60), 0, 0))
	}

	tests := []struct {
		name string
		u    float64
		col  int
	}{
		{"start", 0, 0},
		{"inside", 0.3, 1},
		{"last column", 0.99, 3},
		{"one wraps to zero", 1, 0},
		{"wrap", 1.3, 1},
		{"negative folds", -0.3, 1},
		{"negative past one", -1.6, 2},
		{"nan", math.NaN(), 0},
		{"positive infinity", math.Inf(1), 0},
		{"negative infinity", math.Inf(-1), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got, want := tex.Texel(tc.u, 0), tex.GetPixel(tc.col, 0); got != want {
				t.Errorf("Texel(%v) = %v, want column %d (%v)", tc.u, got, tc.col, want)
			}
		})
	}
}

func TestTexelOutOfIntRange(t *testing.T) {
	// Width 3 does not divide the int64 range, so integer wrapping of
	// these coordinates would go negative.
	tex := NewCheckerTexture(3, 3, 1, ColorWhite, ColorBlack)

	for _, c := range []float64{1e19, -1e19, 1e300, math.NaN(), math.Inf(1), math.Inf(-1)} {
		got := tex.Texel(c, c)
		if got != ColorWhite && got != ColorBlack {
			t.Errorf("Texel(%v, %v) = %v, want a texel of the texture", c, c, got)
		}
	}
}

func TestTexelEmpty(t *testing.T) {
	var tex Texture
	if got := tex.Texel(0.5, 0.5); got != (color.RGBA{}) {
		t.Errorf("empty texture Texel = %v, want zero", got)
	}
}

func TestNewCheckerTexture(t *testing.T) {
	tex := NewCheckerTexture(4, 4, 2, ColorWhite, ColorBlack)

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, ColorWhite},
		{1, 1, ColorWhite},
		{2, 0, ColorBlack},
		{0, 2, ColorBlack},
		{3, 3, ColorWhite},
	}
	for _, tc := range tests {
		if got := tex.GetPixel(tc.x, tc.y); got != tc.want {
			t.Errorf("texel (%d,%d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTexture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(0, 0, ColorRed)
	img.SetRGBA(2, 1, ColorYellow)

	tex, err := LoadTexture(writePNG(t, img))
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if tex.Width != 3 || tex.Height != 2 {
		t.Fatalf("size = %dx%d, want 3x2", tex.Width, tex.Height)
	}
	if got := tex.GetPixel(0, 0); got != ColorRed {
		t.Errorf("texel (0,0) = %v, want %v", got, ColorRed)
	}
	if got := tex.GetPixel(2, 1); got != ColorYellow {
		t.Errorf("texel (2,1) = %v, want %v", got, ColorYellow)
	}
}

func TestLoadTextureErrors(t *testing.T) {
	if _, err := LoadTexture(filepath.Join(t.TempDir(), "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v, want os.ErrNotExist", err)
	}

	garbage := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTexture(garbage); err == nil {
		t.Error("expected a decode error")
	}
}

func TestTextureFromImageOffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 20, 12, 22))
	img.SetRGBA(10, 20, ColorRed)

	tex := TextureFromImage(img)
	if tex.Width != 2 || tex.Height != 2 {
		t.Fatalf("size = %dx%d, want 2x2", tex.Width, tex.Height)
	}
	if got := tex.GetPixel(0, 0); got != ColorRed {
		t.Errorf("texel (0,0) = %v, want %v", got, ColorRed)
	}
}

func TestTextureResize(t *testing.T) {
	tex := NewCheckerTexture(8, 8, 4, ColorWhite, ColorWhite)

	small := tex.Resize(2, 3)
	if small.Width != 2 || small.Height != 3 {
		t.Fatalf("size = %dx%d, want 2x3", small.Width, small.Height)
	}
	if got := small.GetPixel(1, 1); got.R < 250 || got.A < 250 {
		t.Errorf("resized uniform texture = %v, want near %v", got, ColorWhite)
	}
}

func TestMultiplyColor(t *testing.T) {
	c := color.RGBA{200, 100, 50, 255}

	if got := MultiplyColor(c, 0.5); got != (color.RGBA{100, 50, 25, 255}) {
		t.Errorf("MultiplyColor(0.5) = %v", got)
	}
	if got := MultiplyColor(c, 2); got != (color.RGBA{255, 200, 100, 255}) {
		t.Errorf("MultiplyColor(2) = %v, want clamped", got)
	}
	if got := MultiplyColor(c, 0); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("MultiplyColor(0) = %v", got)
	}
}
