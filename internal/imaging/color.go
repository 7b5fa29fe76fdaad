package imaging

import (
	"fmt"
	"image"
)

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where 0 is no intensity and 255 is
// full intensity.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Hex returns the color in "#RRGGBB" form.
func (c RGBColor) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// At8 reads the pixel at (x, y) as 8-bit RGB components.
//
// The image's native color is converted to 8 bits per channel; 16-bit images
// are scaled down by right-shifting 8 bits. Alpha is discarded: radiograph
// exports are opaque, and the analysis pipeline only reasons about color.
//
// No bounds checking is performed; the caller must ensure (x, y) lies within
// img.Bounds().
func At8(img image.Image, x, y int) RGBColor {
	r, g, b, _ := img.At(x, y).RGBA()
	return RGBColor{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// RegionMean holds per-channel mean intensities over a set of pixels.
//
// Means are kept as float64 so small regions do not lose precision to integer
// truncation; candidate re-verification compares these means directly against
// tuned intensity thresholds.
type RegionMean struct {
	// R, G, B are the mean channel intensities (0-255).
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`

	// Brightness is the mean of the three channel means (0-255).
	Brightness float64 `json:"brightness"`

	// Pixels is the number of pixels averaged.
	Pixels int `json:"pixels"`
}

// MeanOver computes the per-channel mean color of the given pixels.
//
// Points outside the image bounds are skipped. An empty point set (or one
// entirely out of bounds) yields a zero RegionMean with Pixels == 0; callers
// that would treat a zero mean as "black region" must check Pixels first.
func MeanOver(img image.Image, pts []image.Point) RegionMean {
	bounds := img.Bounds()

	var sumR, sumG, sumB float64
	n := 0
	for _, p := range pts {
		if !p.In(bounds) {
			continue
		}
		c := At8(img, p.X, p.Y)
		sumR += float64(c.R)
		sumG += float64(c.G)
		sumB += float64(c.B)
		n++
	}

	if n == 0 {
		return RegionMean{}
	}

	mean := RegionMean{
		R:      sumR / float64(n),
		G:      sumG / float64(n),
		B:      sumB / float64(n),
		Pixels: n,
	}
	mean.Brightness = (mean.R + mean.G + mean.B) / 3
	return mean
}

// ColorResult contains a sampled color in hex and component form.
type ColorResult struct {
	Hex string   `json:"hex"` // Hex format "#RRGGBB"
	RGB RGBColor `json:"rgb"` // RGB components
}

// SampleColor extracts the color at a specific pixel coordinate.
//
// Returns an error if the coordinates fall outside the image bounds; use this
// for tool-facing sampling where coordinates come from an untrusted caller.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d",
			x, y, bounds.Dx(), bounds.Dy())
	}

	c := At8(img, x, y)
	return &ColorResult{
		Hex: c.Hex(),
		RGB: c,
	}, nil
}
