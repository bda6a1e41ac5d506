package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"

	_ "github.com/ftrvxmtrx/tga" // Register TGA decoder
	"golang.org/x/image/draw"
)

// ErrEmptyTexture is returned when an image has no pixels.
var ErrEmptyTexture = errors.New("texture has no pixels")

// Texture is a decoded image addressed by texel.
type Texture struct {
	Width  int
	Height int
	Pixels []color.RGBA // Row-major, top row first
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// LoadTexture decodes a PNG, JPEG or TGA file into a texture.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}

	tex := TextureFromImage(img)
	if tex.Width == 0 || tex.Height == 0 {
		return nil, fmt.Errorf("load texture %s: %w", path, ErrEmptyTexture)
	}
	return tex, nil
}

// TextureFromImage creates a texture from an image.Image.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := NewTexture(bounds.Dx(), bounds.Dy())

	for y := range tex.Height {
		for x := range tex.Width {
			c := color.RGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.RGBA)
			tex.Pixels[y*tex.Width+x] = c
		}
	}

	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 color.RGBA) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// SetPixel sets a texel.
func (t *Texture) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the texel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return color.RGBA{}
	}
	return t.Pixels[y*t.Width+x]
}

// Texel returns the texel addressed by (u, v), where v is measured from
// the top row. Coordinates outside [0, 1] wrap; the absolute value folds
// negative coordinates left behind by clipping back into range. NaN and
// infinite coordinates address the first row or column.
func (t *Texture) Texel(u, v float64) color.RGBA {
	if t.Width <= 0 || t.Height <= 0 {
		return color.RGBA{}
	}
	x := wrapTexel(u, t.Width)
	y := wrapTexel(v, t.Height)
	return t.Pixels[y*t.Width+x]
}

// wrapTexel maps coordinate c to a texel index in [0, n).
func wrapTexel(c float64, n int) int {
	f := math.Mod(math.Abs(c*float64(n)), float64(n))
	if math.IsNaN(f) {
		return 0
	}
	return min(int(f), n-1)
}

// Resize returns a copy of the texture scaled to width x height with
// Catmull-Rom filtering.
func (t *Texture) Resize(width, height int) *Texture {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), t.image(), image.Rect(0, 0, t.Width, t.Height), draw.Src, nil)
	return TextureFromImage(dst)
}

func (t *Texture) image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.Width, t.Height))
	for i, c := range t.Pixels {
		img.Pix[i*4+0] = c.R
		img.Pix[i*4+1] = c.G
		img.Pix[i*4+2] = c.B
		img.Pix[i*4+3] = c.A
	}
	return img
}

// MultiplyColor scales a color's RGB by intensity (for lighting).
func MultiplyColor(c color.RGBA, intensity float64) color.RGBA {
	return color.RGBA{
		R: uint8(math.Min(255, float64(c.R)*intensity)),
		G: uint8(math.Min(255, float64(c.G)*intensity)),
		B: uint8(math.Min(255, float64(c.B)*intensity)),
		A: c.A,
	}
}
