// Package detection locates the clinician-drawn reference line in a
// spinal-needle radiograph.
//
// The pipeline is deterministic and purely heuristic:
//
//  1. Connected Components: 8-connected flood fill over the binary color mask
//     produced by the mask package
//  2. Filtering: area, vertical extent, aspect ratio, and edge-margin checks,
//     then mean-color re-verification against the source image
//  3. Scoring: area x aspect plus weighted height; highest score wins,
//     earlier candidate on ties
//  4. Line Derivation: representative column from the median of boundary
//     pixel x-coordinates, confidence from the normalized score
//
// # Confidence Scores
//
// Confidence is the winning candidate's score divided by a fixed
// normalization constant, capped at 1.0. It is comparable across images of
// similar size but is not a probability.
//
// # Not-Found Semantics
//
// An image with no surviving candidate produces Line{Found: false} with zero
// confidence. Callers branch on Found; nothing in this package converts an
// absent line into an error.
//
// # Limitations
//
// The locator expects a deliberately drawn, markedly vertical red mark. Faint
// or heavily occluded marks, marks hugging the image border, and red overlays
// wider than they are tall are rejected by design.
package detection
