package mask

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/spineguard/needle-safety-mcp/internal/imaging"
)

// Tuned pixel-classification constants. These encode the behavioral contract
// of the reference-line color model; changing any of them changes which marks
// the localizer accepts.
const (
	// Hue rule. Red wraps around the hue circle, so two ranges qualify.
	hueLowMax     = 20.0         // degrees, low end of the hue circle
	hueHighMin    = 340.0        // degrees, high end of the hue circle
	minSaturation = 50.0 / 255.0 // below this the pixel is too washed out
	minValue      = 50.0 / 255.0 // below this the pixel is too dark

	// Channel-difference rule.
	channelLead   = 30  // red must exceed green and blue by this margin
	minRedLevel   = 80  // red brightness band: neither near-black
	maxRedLevel   = 200 // nor near-white
	grayTolerance = 10  // red within this of both green and blue reads as gray

	// Narrowing rule applied on top of the channel-difference rule.
	diffSumMin = 50 // (R-G) + (R-B) must exceed this
)

// Build classifies every pixel of img as line-colored or not and returns the
// resulting binary mask. An image with no qualifying pixel yields an empty
// mask; Build has no other failure mode.
//
// Two independent detectors are fused:
//
//   - the hue rule, evaluated in HSV space, accepts saturated, sufficiently
//     bright pixels whose hue falls in either wrap-around red range;
//   - the channel-difference rule accepts pixels whose red channel leads both
//     green and blue by channelLead, sits inside the [minRedLevel,
//     maxRedLevel] band, and is not gray, further narrowed by the diffSumMin
//     requirement.
//
// The fusion is hue OR (hue AND narrowed-channel-difference): the
// channel-difference signal can only ever narrow the hue set, never add
// pixels of its own. The asymmetry is part of the tuned contract and must not
// be simplified to a plain union.
//
// Rows are classified in parallel; each pixel decision is independent.
func Build(img image.Image) *Mask {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	m := New(w, h)

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				c := imaging.At8(img, bounds.Min.X+x, bounds.Min.Y+y)
				hue := hueRule(c)
				narrowed := channelRule(c) && diffSumRule(c)
				m.Pix[y][x] = hue || (hue && narrowed)
			}
		}
	})

	return m
}

// hueRule reports whether the pixel's hue lands in a red range with enough
// saturation and value to be a deliberate mark rather than film tint.
func hueRule(c imaging.RGBColor) bool {
	col := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	h, s, v := col.Hsv()
	if s < minSaturation || v < minValue {
		return false
	}
	return h <= hueLowMax || h >= hueHighMin
}

// channelRule reports whether red dominates both other channels inside the
// tuned brightness band, excluding desaturated gray pixels.
func channelRule(c imaging.RGBColor) bool {
	r, g, b := int(c.R), int(c.G), int(c.B)
	if r-g < channelLead || r-b < channelLead {
		return false
	}
	if r < minRedLevel || r > maxRedLevel {
		return false
	}
	if absInt(r-g) <= grayTolerance && absInt(r-b) <= grayTolerance {
		return false
	}
	return true
}

// diffSumRule is the extra narrowing applied to the channel-difference mask
// before fusion.
func diffSumRule(c imaging.RGBColor) bool {
	r, g, b := int(c.R), int(c.G), int(c.B)
	return (r-g)+(r-b) > diffSumMin
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
