// Package pipeline composes line localization, feature extraction, and risk
// classification into single-image and batch entry points.
//
// Each invocation reads only its own image and needle box and writes only its
// own result, so batches of independent radiographs parallelize with no
// coordination beyond collecting the outputs.
package pipeline

import (
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/spineguard/needle-safety-mcp/internal/detection"
	"github.com/spineguard/needle-safety-mcp/internal/geometry"
	"github.com/spineguard/needle-safety-mcp/internal/risk"
)

// Request bundles the inputs for one radiograph analysis.
type Request struct {
	// Image is the decoded radiograph. Never mutated.
	Image image.Image

	// Needle is the externally detected bounding box. Reversed corners are
	// tolerated and normalized downstream.
	Needle geometry.Box

	// Mode selects the verdict rule. Required; there is no implicit default.
	Mode risk.Mode

	// FeatureSet selects the vector layout. Empty means FeatureSetFull.
	FeatureSet geometry.FeatureSet
}

// Result is the outcome of one analysis.
//
// When Line.Found is false the pipeline stops there: Features, Vector, and
// Verdict are nil, and the caller decides whether that radiograph needs
// manual review or a detector retry.
type Result struct {
	Line         *detection.Line    `json:"line"`
	FeatureNames []string           `json:"feature_names,omitempty"`
	Vector       []float64          `json:"vector,omitempty"`
	Features     *geometry.Features `json:"features,omitempty"`
	Verdict      *risk.Verdict      `json:"verdict,omitempty"`
}

// Analyze runs the full pipeline on one radiograph: locate the reference
// line, extract the geometric features against the supplied needle box, and
// classify.
func Analyze(req Request) (*Result, error) {
	line, err := detection.Localize(req.Image)
	if err != nil {
		return nil, err
	}

	res := &Result{Line: line}
	if !line.Found {
		return res, nil
	}

	set := req.FeatureSet
	if set == "" {
		set = geometry.FeatureSetFull
	}

	bounds := req.Image.Bounds()
	features, err := geometry.Extract(req.Needle, float64(line.X), bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	vector, err := features.Vector(set)
	if err != nil {
		return nil, err
	}
	names, err := geometry.Names(set)
	if err != nil {
		return nil, err
	}

	verdict, err := risk.Classify(features, req.Mode)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	res.Features = features
	res.Vector = vector
	res.FeatureNames = names
	res.Verdict = verdict
	return res, nil
}

// BatchItem pairs a Result with the error of its own analysis, preserving the
// input index.
type BatchItem struct {
	Result *Result
	Err    error
}

// AnalyzeBatch runs Analyze over every request using the given number of
// worker goroutines (values < 1 use GOMAXPROCS). Results are returned in
// input order; one failed image never affects the others.
func AnalyzeBatch(reqs []Request, workers int) []BatchItem {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(reqs) {
		workers = len(reqs)
	}

	items := make([]BatchItem, len(reqs))
	if len(reqs) == 0 {
		return items
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				res, err := Analyze(reqs[i])
				items[i] = BatchItem{Result: res, Err: err}
			}
		}()
	}

	for i := range reqs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return items
}
