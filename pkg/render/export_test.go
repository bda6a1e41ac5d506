package render

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"out.png", FormatPNG, false},
		{"frames/OUT.PNG", FormatPNG, false},
		{"out.webp", FormatWebP, false},
		{"out.jpg", "", true},
		{"out", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			got, err := FormatFromPath(tc.path)
			if tc.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("err = %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("format = %q, want %q", got, tc.want)
			}
		})
	}
}

func testFrame() *Framebuffer {
	fb := NewFramebuffer(8, 6)
	fb.Clear(ColorBlack)
	fb.DrawRect(2, 2, 3, 2, ColorRed)
	return fb
}

func TestEncodeWebP(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testFrame().ToImage(), FormatWebP); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	b := buf.Bytes()
	if len(b) < 12 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WEBP" {
		t.Errorf("output is not a WebP container: % x", b[:min(len(b), 12)])
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testFrame().ToImage(), "bmp"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestImagePresenterPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	p := &ImagePresenter{Path: path}

	if err := p.Present(testFrame()); err != nil {
		t.Fatalf("Present: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 8, 6) {
		t.Errorf("bounds = %v, want 8x6", img.Bounds())
	}
	if r, _, _, _ := img.At(3, 3).RGBA(); r>>8 != 255 {
		t.Errorf("pixel (3,3) red = %d, want 255", r>>8)
	}
}

func TestImagePresenterSupersample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.webp")
	p := &ImagePresenter{Path: path, Supersample: 2}

	if err := p.Present(NewFramebuffer(16, 12)); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("expected a non-empty file, stat err = %v", err)
	}
}

func TestImagePresenterBadExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.gif")
	p := &ImagePresenter{Path: path}

	if err := p.Present(testFrame()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("no file should be created for an unsupported format")
	}
}

func TestDownsample(t *testing.T) {
	img := NewFramebuffer(12, 8).ToImage()

	tests := []struct {
		factor int
		w, h   int
	}{
		{0, 12, 8},
		{1, 12, 8},
		{2, 6, 4},
		{4, 3, 2},
	}
	for _, tc := range tests {
		got := Downsample(img, tc.factor).Bounds()
		if got.Dx() != tc.w || got.Dy() != tc.h {
			t.Errorf("Downsample(%d) = %dx%d, want %dx%d", tc.factor, got.Dx(), got.Dy(), tc.w, tc.h)
		}
	}
}
