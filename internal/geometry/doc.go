// Package geometry quantifies the spatial relationship between a detected
// needle bounding box and the located reference line.
//
// Extract is the single entry point: given the box, the line column, and the
// image dimensions, it produces a fixed set of named scalar features covering
// distances, crossing, segment intersection, safety margins, box shape,
// angle, side flags, and the composite risk/safety scores built from them.
//
// # Schema Versioning
//
// Two vector layouts are supported and selected explicitly: the 20-feature
// geometric layout and the 30-feature full layout that appends the composite
// scores. Names() and Vector() agree element for element, so a downstream
// classifier can bind to names once and consume vectors thereafter. The
// layouts are append-only: new features extend the full layout rather than
// reordering either one.
//
// # Determinism and Normalization
//
// Extraction is a pure function with no tolerance for hidden state: the same
// inputs always produce the same vector. Every screen-coordinate ratio is
// normalized by image width or height, making the features (and any verdict
// derived from them) invariant under uniform rescaling of image, box, and
// line column.
//
// # Degenerate Input
//
// Reversed boxes are normalized before any math. A zero-width box has no
// defined diagonal slope; it takes the documented fallbacks (angle 90, aspect
// and margin ratios 0, invalid intersection, zero penetration depth) instead
// of failing. The only error Extract returns is a non-positive image
// dimension.
package geometry
