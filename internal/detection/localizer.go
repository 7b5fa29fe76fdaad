package detection

import (
	"fmt"
	"image"

	"github.com/spineguard/needle-safety-mcp/internal/mask"
)

// Localize finds the hand-drawn reference line in a radiograph.
//
// It is the composition of the color mask builder, the morphological cleanup,
// and the candidate extractor/selector, with no logic of its own: build the
// mask, clean it, extract and score candidates, pick the best.
//
// The only error is an image with non-positive dimensions. "No line found" is
// not an error; it is reported as Line.Found == false with zero confidence,
// and the caller decides whether to abort or fall back.
func Localize(img image.Image) (*Line, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", w, h)
	}

	m := mask.Cleanup(mask.Build(img))
	candidates := ExtractCandidates(m, img)
	line := SelectBest(candidates, m)
	return &line, nil
}
