package pipeline

import (
	"image"
	"image/color"
	"testing"

	"github.com/spineguard/needle-safety-mcp/internal/geometry"
	"github.com/spineguard/needle-safety-mcp/internal/risk"
)

var lineRed = color.RGBA{R: 200, G: 30, B: 30, A: 255}

// radiographWithLine builds a black frame with a red reference stroke.
func radiographWithLine(t *testing.T, width, height, lineX int) *image.RGBA {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{A: 255})
		}
	}
	for y := height / 5; y < height*4/5; y++ {
		for x := lineX; x < lineX+4; x++ {
			img.Set(x, y, lineRed)
		}
	}
	return img
}

func TestAnalyze(t *testing.T) {
	img := radiographWithLine(t, 200, 200, 100)

	res, err := Analyze(Request{
		Image:  img,
		Needle: geometry.Box{X1: 150, Y1: 40, X2: 160, Y2: 160},
		Mode:   risk.ModeComposite,
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if !res.Line.Found {
		t.Fatal("reference line not found")
	}
	if len(res.Vector) != 30 || len(res.FeatureNames) != 30 {
		t.Errorf("got %d features and %d names, want 30 each (default full layout)",
			len(res.Vector), len(res.FeatureNames))
	}
	if res.Verdict == nil {
		t.Fatal("verdict missing")
	}
	// The needle sits well right of the stroke: safe.
	if res.Verdict.Label != risk.LabelSafe {
		t.Errorf("got %s, want safe", res.Verdict.Label)
	}
}

func TestAnalyzeGeometricLayout(t *testing.T) {
	img := radiographWithLine(t, 200, 200, 100)

	res, err := Analyze(Request{
		Image:      img,
		Needle:     geometry.Box{X1: 90, Y1: 40, X2: 110, Y2: 160},
		Mode:       risk.ModeCrossingOnly,
		FeatureSet: geometry.FeatureSetGeometric,
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(res.Vector) != 20 {
		t.Errorf("got %d features, want 20", len(res.Vector))
	}
	if res.Verdict.Label != risk.LabelDangerous {
		t.Errorf("got %s, want dangerous for a crossing needle", res.Verdict.Label)
	}
}

func TestAnalyzeLineNotFound(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))

	res, err := Analyze(Request{
		Image:  img,
		Needle: geometry.Box{X1: 10, Y1: 10, X2: 20, Y2: 90},
		Mode:   risk.ModeComposite,
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if res.Line.Found {
		t.Error("found a line in a blank image")
	}
	if res.Features != nil || res.Verdict != nil || res.Vector != nil {
		t.Error("not-found analysis should stop before features and verdict")
	}
}

func TestAnalyzeUnknownMode(t *testing.T) {
	img := radiographWithLine(t, 200, 200, 100)

	_, err := Analyze(Request{
		Image:  img,
		Needle: geometry.Box{X1: 150, Y1: 40, X2: 160, Y2: 160},
		Mode:   risk.Mode("coin_flip"),
	})
	if err == nil {
		t.Error("expected error for unknown mode, got nil")
	}
}

func TestAnalyzeBatchPreservesOrder(t *testing.T) {
	withLine := radiographWithLine(t, 200, 200, 100)
	blank := image.NewRGBA(image.Rect(0, 0, 100, 100))

	reqs := []Request{
		{Image: withLine, Needle: geometry.Box{X1: 150, Y1: 40, X2: 160, Y2: 160}, Mode: risk.ModeComposite},
		{Image: blank, Needle: geometry.Box{X1: 10, Y1: 10, X2: 20, Y2: 90}, Mode: risk.ModeComposite},
		{Image: withLine, Needle: geometry.Box{X1: 90, Y1: 40, X2: 110, Y2: 160}, Mode: risk.ModeCrossingOnly},
	}

	items := AnalyzeBatch(reqs, 2)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}

	if items[0].Err != nil || !items[0].Result.Line.Found {
		t.Errorf("item 0: want found line, got err=%v", items[0].Err)
	}
	if items[1].Err != nil || items[1].Result.Line.Found {
		t.Errorf("item 1: want not-found line, got err=%v", items[1].Err)
	}
	if items[2].Err != nil || items[2].Result.Verdict == nil ||
		items[2].Result.Verdict.Label != risk.LabelDangerous {
		t.Errorf("item 2: want dangerous verdict, got err=%v", items[2].Err)
	}
}

func TestAnalyzeBatchEmpty(t *testing.T) {
	if got := AnalyzeBatch(nil, 4); len(got) != 0 {
		t.Errorf("got %d items for empty batch, want 0", len(got))
	}
}

func TestAnalyzeBatchDefaultWorkers(t *testing.T) {
	img := radiographWithLine(t, 120, 120, 60)
	reqs := []Request{
		{Image: img, Needle: geometry.Box{X1: 80, Y1: 20, X2: 90, Y2: 100}, Mode: risk.ModeComposite},
	}
	items := AnalyzeBatch(reqs, 0)
	if len(items) != 1 || items[0].Err != nil {
		t.Fatalf("batch with default workers failed: %+v", items)
	}
}
