package geometry

import (
	"fmt"
	"math"
)

// Tuned feature thresholds and score weights. All distance thresholds are
// fractions of image width; verdicts stay resolution-independent because
// every screen-coordinate ratio in the schema is normalized the same way.
const (
	nearlyVerticalMaxDev = 30.0  // degrees of deviation from true vertical
	nearLineFrac         = 0.01  // |center distance| below this is "near"
	nearLineTightFrac    = 0.005 // tighter "near" granularity

	penetrationRiskWeight = 2.0
	proximityRiskGain     = 10.0
	leftwardBiasWeight    = 1.5
	distanceSafetyWeight  = 2.0
	rightwardSafetyWeight = 1.5
	marginSafetyWeight    = 3.0

	criticalDepthMin     = 0.3   // penetration depth for critical_penetration
	leftwardViolationMax = -0.02 // center distance below this violates
	proximityViolationFrac = 0.01
	sufficientDistanceMin  = 0.03
	rightwardSafeMin       = 0.02
	goodMarginMin          = 0.02

	criticalPenetrationWeight = 3.0
	leftwardViolationWeight   = 2.0
	proximityViolationWeight  = 1.5
	sufficientDistanceWeight  = 2.0
	rightwardSafeWeight       = 2.5
	goodMarginWeight          = 1.5
)

// FeatureSet selects a versioned feature-vector layout. The feature schema is
// fixed and ordered; downstream classifiers depend on both widths, so the set
// is an explicit parameter rather than a build-time choice.
type FeatureSet string

const (
	// FeatureSetGeometric is the 20-feature purely geometric layout:
	// distances, crossing, intersection, margins, shape, angle, and side
	// flags.
	FeatureSetGeometric FeatureSet = "geometric"

	// FeatureSetFull is the 30-feature layout: the geometric block followed
	// by the composite risk/safety scores and the two pattern scores.
	FeatureSetFull FeatureSet = "full"
)

// Features is the full set of named quantities derived from a needle box, a
// reference-line column, and the image dimensions.
//
// Every boolean quantity is carried as 0.0/1.0 so vectors stay homogeneous.
// All normalized distances are signed: positive means the needle (edge or
// center) sits right of the line.
type Features struct {
	// Distances, normalized by image width.
	LeftDistance   float64 `json:"left_distance"`   // (x1 - lineX) / W
	RightDistance  float64 `json:"right_distance"`  // (x2 - lineX) / W
	CenterDistance float64 `json:"center_distance"` // (cx - lineX) / W

	// CrossesLine is 1 when lineX falls inside [x1, x2].
	CrossesLine float64 `json:"crosses_line"`

	// Intersection geometry of the needle segment (x1,y1)-(x2,y2) with the
	// vertical line x = lineX. A zero-width box has no defined slope; the
	// intersection is then invalid and the depth is 0.
	ValidIntersection float64 `json:"valid_intersection"`
	PenetrationDepth  float64 `json:"penetration_depth"`

	// Safety margin: the smaller absolute horizontal distance from a box
	// edge to the line, raw, width-normalized, and relative to needle width.
	SafetyMarginPx    float64 `json:"safety_margin_px"`
	SafetyMargin      float64 `json:"safety_margin"`
	MarginNeedleRatio float64 `json:"margin_needle_ratio"`

	// Shape of the needle box.
	WidthNorm   float64 `json:"width_norm"`   // w / W
	HeightNorm  float64 `json:"height_norm"`  // h / H
	AspectRatio float64 `json:"aspect_ratio"` // h / w, 0 when w == 0
	AreaRatio   float64 `json:"area_ratio"`   // (w*h) / (W*H)

	// Angle of the box diagonal. A zero-width box is treated as a vertical
	// needle: angle 90, deviation 0.
	NeedleAngleDeg    float64 `json:"needle_angle_deg"`
	VerticalDeviation float64 `json:"vertical_deviation"`
	NearlyVertical    float64 `json:"nearly_vertical"`

	// Side flags relative to the line.
	CenterLeftOfLine  float64 `json:"center_left_of_line"`
	CenterRightOfLine float64 `json:"center_right_of_line"`
	NearLine          float64 `json:"near_line"`
	NearLineTight     float64 `json:"near_line_tight"`

	// Composite risk scores (d = CenterDistance, m = SafetyMargin).
	PenetrationRisk  float64 `json:"penetration_risk"`   // crossing ? 2 : 0
	ProximityRisk    float64 `json:"proximity_risk"`     // 1 / (1 + 10|d|)
	LeftwardBiasRisk float64 `json:"leftward_bias_risk"` // 1.5 * max(0, -d)
	TotalRisk        float64 `json:"total_risk"`

	// Composite safety scores.
	DistanceSafety  float64 `json:"distance_safety"`  // 2|d|
	RightwardSafety float64 `json:"rightward_safety"` // 1.5 * max(0, d)
	MarginSafety    float64 `json:"margin_safety"`    // 3m
	TotalSafety     float64 `json:"total_safety"`

	// Pattern scores, weighted sums of the indicator flags below.
	DangerousPatternScore float64 `json:"dangerous_pattern_score"`
	SafePatternScore      float64 `json:"safe_pattern_score"`

	// Pattern indicators. These feed the pattern scores and the verdict
	// breakdown; they are not part of either vector layout.
	CriticalPenetration float64 `json:"critical_penetration"`
	LeftwardViolation   float64 `json:"leftward_violation"`
	ProximityViolation  float64 `json:"proximity_violation"`
	SufficientDistance  float64 `json:"sufficient_distance"`
	RightwardSafe       float64 `json:"rightward_safe"`
	GoodMargin          float64 `json:"good_margin"`
}

// Extract computes the feature set relating a needle box to the reference
// line at column lineX in an imageWidth x imageHeight radiograph.
//
// Extract is a pure function and total over well-formed input: reversed boxes
// are normalized first, and a zero-width box takes the documented fallbacks
// (vertical angle, zero ratios, invalid intersection) rather than dividing by
// zero. The only error is a non-positive image dimension.
func Extract(needle Box, lineX float64, imageWidth, imageHeight int) (*Features, error) {
	if imageWidth <= 0 || imageHeight <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", imageWidth, imageHeight)
	}

	b := needle.Normalized()
	imgW := float64(imageWidth)
	imgH := float64(imageHeight)
	w := b.Width()
	h := b.Height()

	f := &Features{
		LeftDistance:   (b.X1 - lineX) / imgW,
		RightDistance:  (b.X2 - lineX) / imgW,
		CenterDistance: (b.CenterX() - lineX) / imgW,

		WidthNorm:  w / imgW,
		HeightNorm: h / imgH,
		AreaRatio:  (w * h) / (imgW * imgH),
	}

	crossing := lineX >= b.X1 && lineX <= b.X2
	f.CrossesLine = boolFeature(crossing)

	// Edge-to-line margin, raw pixels first so the needle-relative ratio
	// stays unit-consistent.
	marginPx := math.Min(math.Abs(b.X1-lineX), math.Abs(b.X2-lineX))
	f.SafetyMarginPx = marginPx
	f.SafetyMargin = marginPx / imgW

	if w > 0 {
		f.AspectRatio = h / w
		f.MarginNeedleRatio = marginPx / w
		f.NeedleAngleDeg = math.Atan(h/w) * 180 / math.Pi

		// Segment y at x = lineX by linear interpolation along the diagonal.
		yAtLine := b.Y1 + (lineX-b.X1)*(h/w)
		f.ValidIntersection = boolFeature(yAtLine >= 0 && yAtLine <= imgH)

		if crossing {
			f.PenetrationDepth = marginPx / w
		}
	} else {
		// Zero width: slope undefined, needle treated as vertical.
		f.NeedleAngleDeg = 90
	}

	f.VerticalDeviation = math.Abs(90 - f.NeedleAngleDeg)
	f.NearlyVertical = boolFeature(f.VerticalDeviation <= nearlyVerticalMaxDev)

	d := f.CenterDistance
	f.CenterLeftOfLine = boolFeature(b.CenterX() < lineX)
	f.CenterRightOfLine = boolFeature(b.CenterX() > lineX)
	f.NearLine = boolFeature(math.Abs(d) < nearLineFrac)
	f.NearLineTight = boolFeature(math.Abs(d) < nearLineTightFrac)

	// Composite scores.
	if crossing {
		f.PenetrationRisk = penetrationRiskWeight
	}
	f.ProximityRisk = 1 / (1 + proximityRiskGain*math.Abs(d))
	f.LeftwardBiasRisk = leftwardBiasWeight * math.Max(0, -d)
	f.TotalRisk = f.PenetrationRisk + f.ProximityRisk + f.LeftwardBiasRisk

	f.DistanceSafety = distanceSafetyWeight * math.Abs(d)
	f.RightwardSafety = rightwardSafetyWeight * math.Max(0, d)
	f.MarginSafety = marginSafetyWeight * f.SafetyMargin
	f.TotalSafety = f.DistanceSafety + f.RightwardSafety + f.MarginSafety

	// Pattern indicators and their weighted scores.
	f.CriticalPenetration = boolFeature(crossing && f.PenetrationDepth > criticalDepthMin)
	f.LeftwardViolation = boolFeature(d < leftwardViolationMax)
	f.ProximityViolation = boolFeature(math.Abs(d) < proximityViolationFrac)
	f.DangerousPatternScore = criticalPenetrationWeight*f.CriticalPenetration +
		leftwardViolationWeight*f.LeftwardViolation +
		proximityViolationWeight*f.ProximityViolation

	f.SufficientDistance = boolFeature(math.Abs(d) > sufficientDistanceMin)
	f.RightwardSafe = boolFeature(d > rightwardSafeMin)
	f.GoodMargin = boolFeature(f.SafetyMargin > goodMarginMin)
	f.SafePatternScore = sufficientDistanceWeight*f.SufficientDistance +
		rightwardSafeWeight*f.RightwardSafe +
		goodMarginWeight*f.GoodMargin

	return f, nil
}

// geometricNames is the fixed order of the 20-feature geometric layout.
var geometricNames = []string{
	"left_distance",
	"right_distance",
	"center_distance",
	"crosses_line",
	"valid_intersection",
	"penetration_depth",
	"safety_margin_px",
	"safety_margin",
	"margin_needle_ratio",
	"width_norm",
	"height_norm",
	"aspect_ratio",
	"area_ratio",
	"needle_angle_deg",
	"vertical_deviation",
	"nearly_vertical",
	"center_left_of_line",
	"center_right_of_line",
	"near_line",
	"near_line_tight",
}

// compositeNames extends the geometric layout to the 30-feature full layout.
var compositeNames = []string{
	"penetration_risk",
	"proximity_risk",
	"leftward_bias_risk",
	"total_risk",
	"distance_safety",
	"rightward_safety",
	"margin_safety",
	"total_safety",
	"dangerous_pattern_score",
	"safe_pattern_score",
}

// Names returns the ordered feature names of a layout. The order is part of
// the schema contract and matches Vector element for element.
func Names(set FeatureSet) ([]string, error) {
	switch set {
	case FeatureSetGeometric:
		return append([]string(nil), geometricNames...), nil
	case FeatureSetFull:
		names := append([]string(nil), geometricNames...)
		return append(names, compositeNames...), nil
	default:
		return nil, fmt.Errorf("unknown feature set %q", set)
	}
}

// Vector flattens the features into the fixed-order layout selected by set.
func (f *Features) Vector(set FeatureSet) ([]float64, error) {
	geometric := []float64{
		f.LeftDistance,
		f.RightDistance,
		f.CenterDistance,
		f.CrossesLine,
		f.ValidIntersection,
		f.PenetrationDepth,
		f.SafetyMarginPx,
		f.SafetyMargin,
		f.MarginNeedleRatio,
		f.WidthNorm,
		f.HeightNorm,
		f.AspectRatio,
		f.AreaRatio,
		f.NeedleAngleDeg,
		f.VerticalDeviation,
		f.NearlyVertical,
		f.CenterLeftOfLine,
		f.CenterRightOfLine,
		f.NearLine,
		f.NearLineTight,
	}

	switch set {
	case FeatureSetGeometric:
		return geometric, nil
	case FeatureSetFull:
		return append(geometric,
			f.PenetrationRisk,
			f.ProximityRisk,
			f.LeftwardBiasRisk,
			f.TotalRisk,
			f.DistanceSafety,
			f.RightwardSafety,
			f.MarginSafety,
			f.TotalSafety,
			f.DangerousPatternScore,
			f.SafePatternScore,
		), nil
	default:
		return nil, fmt.Errorf("unknown feature set %q", set)
	}
}

// boolFeature exposes a boolean as 0.0/1.0 so vectors stay homogeneous.
func boolFeature(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
