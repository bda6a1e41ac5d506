package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// ErrUnsupportedFormat is returned for output paths whose extension has no
// encoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Presenter pushes a finished color buffer to an output device.
type Presenter interface {
	Present(fb *Framebuffer) error
}

// Format is an encoded image format.
type Format string

// Supported output formats, named by file extension.
const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// FormatFromPath picks the encoder for a file name by its extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return FormatPNG, nil
	case ".webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatWebP:
		return nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// SaveImage encodes img to path, choosing the format from the extension.
func SaveImage(path string, img image.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// Downsample shrinks img by factor with Catmull-Rom filtering. It turns a
// frame rendered at factor times the output size into a smoothed final
// image. A factor below 2 returns img unchanged.
func Downsample(img image.Image, factor int) image.Image {
	if factor < 2 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()/factor, b.Dy()/factor))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// ImagePresenter writes each presented frame to an image file.
type ImagePresenter struct {
	Path string
	// Supersample is the factor the framebuffer was enlarged by. Frames
	// are scaled back down before encoding.
	Supersample int
}

// Present encodes fb to p.Path.
func (p *ImagePresenter) Present(fb *Framebuffer) error {
	return SaveImage(p.Path, Downsample(fb.ToImage(), p.Supersample))
}
