// Package risk turns a geometric feature set into a safety verdict.
//
// Two decision modes exist because reviewers use both: the composite mode
// compares the weighted dangerous and safe pattern scores, while the
// crossing-only mode flags any needle whose horizontal span contains the
// reference line. Neither mode is a default; callers pick one explicitly.
// Verdicts always carry the scores and indicators that produced them so a
// reviewer can audit the decision.
package risk

import (
	"fmt"

	"github.com/spineguard/needle-safety-mcp/internal/geometry"
)

// Mode selects the decision rule used by Classify.
type Mode string

const (
	// ModeComposite labels dangerous when the dangerous pattern score
	// exceeds the safe pattern score.
	ModeComposite Mode = "composite"

	// ModeCrossingOnly labels dangerous when the needle box crosses the
	// reference line, ignoring all other features.
	ModeCrossingOnly Mode = "crossing_only"
)

// Label is the verdict class.
type Label string

const (
	LabelDangerous Label = "dangerous"
	LabelSafe      Label = "safe"
)

// Indicators is the boolean breakdown backing a verdict.
type Indicators struct {
	CrossesLine         bool `json:"crosses_line"`
	CriticalPenetration bool `json:"critical_penetration"`
	LeftwardViolation   bool `json:"leftward_violation"`
	ProximityViolation  bool `json:"proximity_violation"`
	SufficientDistance  bool `json:"sufficient_distance"`
	RightwardSafe       bool `json:"rightward_safe"`
	GoodMargin          bool `json:"good_margin"`
}

// Verdict is the terminal output of the analysis pipeline: the label plus
// every score and indicator that produced it.
type Verdict struct {
	Label Label `json:"label"`
	Mode  Mode  `json:"mode"`

	// RiskScore and SafetyScore are the composite totals (total_risk and
	// total_safety); they are reported in both modes even though only the
	// composite mode's pattern scores decide the label.
	RiskScore   float64 `json:"risk_score"`
	SafetyScore float64 `json:"safety_score"`

	DangerousPatternScore float64 `json:"dangerous_pattern_score"`
	SafePatternScore      float64 `json:"safe_pattern_score"`

	Indicators Indicators `json:"indicators"`
}

// Classify applies the selected decision mode to a feature set.
//
// The rule is deterministic: composite mode labels dangerous iff
// dangerous_pattern_score > safe_pattern_score; crossing-only mode labels
// dangerous iff the needle crosses the line. An unknown mode is an error, not
// a silent fallback to either rule.
func Classify(f *geometry.Features, mode Mode) (*Verdict, error) {
	var dangerous bool
	switch mode {
	case ModeComposite:
		dangerous = f.DangerousPatternScore > f.SafePatternScore
	case ModeCrossingOnly:
		dangerous = f.CrossesLine != 0
	default:
		return nil, fmt.Errorf("unknown risk mode %q", mode)
	}

	label := LabelSafe
	if dangerous {
		label = LabelDangerous
	}

	return &Verdict{
		Label:                 label,
		Mode:                  mode,
		RiskScore:             f.TotalRisk,
		SafetyScore:           f.TotalSafety,
		DangerousPatternScore: f.DangerousPatternScore,
		SafePatternScore:      f.SafePatternScore,
		Indicators: Indicators{
			CrossesLine:         f.CrossesLine != 0,
			CriticalPenetration: f.CriticalPenetration != 0,
			LeftwardViolation:   f.LeftwardViolation != 0,
			ProximityViolation:  f.ProximityViolation != 0,
			SufficientDistance:  f.SufficientDistance != 0,
			RightwardSafe:       f.RightwardSafe != 0,
			GoodMargin:          f.GoodMargin != 0,
		},
	}, nil
}
