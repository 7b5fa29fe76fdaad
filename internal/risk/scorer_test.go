package risk

import (
	"testing"

	"github.com/spineguard/needle-safety-mcp/internal/geometry"
)

func extractFeatures(t *testing.T, box geometry.Box, lineX float64) *geometry.Features {
	t.Helper()
	f, err := geometry.Extract(box, lineX, 1000, 800)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	return f
}

func TestClassifyCrossingNeedle(t *testing.T) {
	// Crosses the line with penetration depth 0.5: dangerous in both modes.
	f := extractFeatures(t, geometry.Box{X1: 440, Y1: 100, X2: 460, Y2: 500}, 450)

	for _, mode := range []Mode{ModeComposite, ModeCrossingOnly} {
		v, err := Classify(f, mode)
		if err != nil {
			t.Fatalf("Classify(%s) failed: %v", mode, err)
		}
		if v.Label != LabelDangerous {
			t.Errorf("mode %s: got %s, want dangerous", mode, v.Label)
		}
		if v.Mode != mode {
			t.Errorf("verdict mode %s does not echo requested mode %s", v.Mode, mode)
		}
	}
}

func TestClassifySafeRightwardNeedle(t *testing.T) {
	// Well right of the line: safe in both modes.
	f := extractFeatures(t, geometry.Box{X1: 600, Y1: 100, X2: 650, Y2: 500}, 450)

	for _, mode := range []Mode{ModeComposite, ModeCrossingOnly} {
		v, err := Classify(f, mode)
		if err != nil {
			t.Fatalf("Classify(%s) failed: %v", mode, err)
		}
		if v.Label != LabelSafe {
			t.Errorf("mode %s: got %s, want safe", mode, v.Label)
		}
	}
}

func TestClassifyModesDisagree(t *testing.T) {
	// A needle that barely clips the line but sits safely overall: crossing
	// says dangerous, the composite patterns say safe. Box [448,560]: center
	// distance 0.054, margin 0.002 -> safe score 2+2.5 = 4.5 against
	// dangerous score 0 (depth 2/112 below critical).
	f := extractFeatures(t, geometry.Box{X1: 448, Y1: 100, X2: 560, Y2: 500}, 450)

	crossing, err := Classify(f, ModeCrossingOnly)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if crossing.Label != LabelDangerous {
		t.Errorf("crossing-only: got %s, want dangerous", crossing.Label)
	}

	composite, err := Classify(f, ModeComposite)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if composite.Label != LabelSafe {
		t.Errorf("composite: got %s, want safe", composite.Label)
	}
}

func TestClassifyVerdictCarriesScores(t *testing.T) {
	f := extractFeatures(t, geometry.Box{X1: 440, Y1: 100, X2: 460, Y2: 500}, 450)

	v, err := Classify(f, ModeComposite)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if v.RiskScore != f.TotalRisk {
		t.Errorf("risk score %f does not match total risk %f", v.RiskScore, f.TotalRisk)
	}
	if v.SafetyScore != f.TotalSafety {
		t.Errorf("safety score %f does not match total safety %f", v.SafetyScore, f.TotalSafety)
	}
	if v.DangerousPatternScore != f.DangerousPatternScore {
		t.Error("dangerous pattern score not carried into verdict")
	}
	if !v.Indicators.CrossesLine || !v.Indicators.CriticalPenetration {
		t.Errorf("indicator breakdown %+v missing crossing/critical flags", v.Indicators)
	}
}

func TestClassifyUnknownMode(t *testing.T) {
	f := extractFeatures(t, geometry.Box{X1: 600, Y1: 100, X2: 650, Y2: 500}, 450)
	if _, err := Classify(f, Mode("majority_vote")); err == nil {
		t.Error("expected error for unknown mode, got nil")
	}
	if _, err := Classify(f, Mode("")); err == nil {
		t.Error("expected error for empty mode, got nil")
	}
}
