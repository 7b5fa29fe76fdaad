package geometry

// Box is an axis-aligned needle bounding box in pixel coordinates, as
// supplied by the external needle detector.
//
// Detectors are not trusted to order the corners: Normalized() must be
// applied before any feature math, and Extract does so itself.
type Box struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Normalized returns the box with corners ordered so X1 <= X2 and Y1 <= Y2.
// Already-ordered boxes are returned unchanged, so the operation is
// idempotent.
func (b Box) Normalized() Box {
	if b.X1 > b.X2 {
		b.X1, b.X2 = b.X2, b.X1
	}
	if b.Y1 > b.Y2 {
		b.Y1, b.Y2 = b.Y2, b.Y1
	}
	return b
}

// Width returns X2 - X1 of a normalized box.
func (b Box) Width() float64 { return b.X2 - b.X1 }

// Height returns Y2 - Y1 of a normalized box.
func (b Box) Height() float64 { return b.Y2 - b.Y1 }

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() float64 { return (b.X1 + b.X2) / 2 }

// CenterY returns the vertical center of the box.
func (b Box) CenterY() float64 { return (b.Y1 + b.Y2) / 2 }
