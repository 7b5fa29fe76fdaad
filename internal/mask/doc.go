// Package mask converts a radiograph into a binary mask of pixels colored
// like the hand-drawn reference line.
//
// The mask is produced in two stages: per-pixel color classification (Build)
// and morphological cleanup (Cleanup). Classification fuses a hue/saturation
// rule evaluated in HSV space with a red-channel-difference rule; cleanup
// closes pinholes, bridges vertically broken strokes, and removes speckle.
// Both stages are deterministic, hand-tuned heuristics: the constants in this
// package are the model, and they are intentionally not learned from data so
// that localization stays reproducible and auditable.
//
// Masks are ephemeral: the candidate extractor consumes them and nothing
// retains them across images.
//
// All loops parallelize over rows; pixels are classified independently and
// the morphological passes read only the previous grid, so the package is
// safe to use concurrently on different images.
package mask
