package detection

import (
	"image"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/spineguard/needle-safety-mcp/internal/imaging"
	"github.com/spineguard/needle-safety-mcp/internal/mask"
)

// Tuned candidate filtering and scoring constants. Like the mask constants,
// these are the behavioral contract of the localizer, not defaults to adjust.
const (
	// Geometric filters.
	minArea        = 50   // pixels; smaller regions are noise, not marks
	minHeightFrac  = 0.20 // of image height; a line spans a substantial extent
	minAspectRatio = 3.0  // height/width; a line is markedly vertical
	edgeMarginFrac = 0.05 // of image width; excludes border artifacts

	// Mean-color re-verification.
	meanRedLead       = 20.0 // mean R must lead mean G and mean B by this
	minMeanBrightness = 50.0
	maxMeanBrightness = 180.0

	// Scoring.
	heightWeight   = 3.0    // score = area*aspect + height*heightWeight
	confidenceNorm = 2000.0 // confidence = min(1, score/confidenceNorm)
)

// Candidate is a connected mask region that survived filtering, scored on how
// strongly it resembles a drawn reference line.
type Candidate struct {
	// Bounds is the candidate's bounding box in image coordinates.
	Bounds image.Rectangle `json:"bounds"`

	// Area is the candidate's pixel count.
	Area int `json:"area"`

	// AspectRatio is height divided by width of the bounding box.
	AspectRatio float64 `json:"aspect_ratio"`

	// Mean is the mean color of the image pixels under the candidate region,
	// recomputed from the source image rather than trusted from the mask.
	Mean imaging.RegionMean `json:"mean_color"`

	// Score ranks candidates; higher is more line-like.
	Score float64 `json:"score"`

	component *Component
}

// Line is the located reference line for one radiograph.
//
// Found is false when no candidate survived filtering; that is a normal
// outcome the caller branches on, not an error. When Found is false, X is 0
// and Confidence is 0.
type Line struct {
	Found      bool    `json:"found"`
	X          int     `json:"x"`
	Confidence float64 `json:"confidence"`
}

// ExtractCandidates filters the mask's connected components down to plausible
// reference-line candidates and scores each one.
//
// A component is discarded if its area is below minArea, its height is below
// minHeightFrac of the image height, its aspect ratio is below
// minAspectRatio, or its bounding box comes within edgeMarginFrac of the
// image width from either vertical edge. Survivors are re-verified against
// the source image: the mean color under the region must still be
// red-dominant (mean R leading mean G and mean B by meanRedLead) with mean
// brightness inside [minMeanBrightness, maxMeanBrightness], which rejects
// washed-out or near-black regions whose individual pixels passed the mask by
// coincidence.
//
// The returned slice preserves component scan order.
func ExtractCandidates(m *mask.Mask, img image.Image) []Candidate {
	origin := img.Bounds().Min
	edgeMargin := edgeMarginFrac * float64(m.Width)

	var candidates []Candidate
	for _, comp := range FindComponents(m) {
		area := comp.Area()
		if area < minArea {
			continue
		}

		w := comp.Bounds.Dx()
		h := comp.Bounds.Dy()
		if float64(h) < minHeightFrac*float64(m.Height) {
			continue
		}

		aspect := float64(h) / float64(w)
		if aspect < minAspectRatio {
			continue
		}

		if float64(comp.Bounds.Min.X) < edgeMargin ||
			float64(comp.Bounds.Max.X) > float64(m.Width)-edgeMargin {
			continue
		}

		pts := make([]image.Point, len(comp.Points))
		for i, p := range comp.Points {
			pts[i] = p.Add(origin)
		}
		mean := imaging.MeanOver(img, pts)
		if mean.R < mean.G+meanRedLead || mean.R < mean.B+meanRedLead {
			continue
		}
		if mean.Brightness < minMeanBrightness || mean.Brightness > maxMeanBrightness {
			continue
		}

		candidates = append(candidates, Candidate{
			Bounds:      comp.Bounds.Add(origin),
			Area:        area,
			AspectRatio: aspect,
			Mean:        mean,
			Score:       float64(area)*aspect + float64(h)*heightWeight,
			component:   comp,
		})
	}
	return candidates
}

// SelectBest picks the highest-scoring candidate and derives the reference
// line from it.
//
// Ties break toward the earlier candidate, so selection is deterministic for
// a given mask. The representative column is the median x of the candidate's
// contour boundary pixels; the median resists the boundary outliers that
// anti-aliasing produces where a mean would drift. Confidence is the score
// normalized by confidenceNorm and capped at 1.
//
// An empty candidate slice yields Found == false with zero confidence.
func SelectBest(candidates []Candidate, m *mask.Mask) Line {
	if len(candidates) == 0 {
		return Line{}
	}

	best := &candidates[0]
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Score > best.Score {
			best = &candidates[i]
		}
	}

	xs := boundaryXs(best.component, m)
	if len(xs) == 0 {
		// A component with no boundary cannot occur for a finite region;
		// guard anyway rather than index into an empty slice.
		return Line{}
	}
	sort.Float64s(xs)
	median := stat.Quantile(0.5, stat.Empirical, xs, nil)

	return Line{
		Found:      true,
		X:          int(math.Round(median)),
		Confidence: math.Min(1.0, best.Score/confidenceNorm),
	}
}
