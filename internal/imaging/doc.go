// Package imaging provides image loading and pixel-level support for the
// needle-safety MCP server.
//
// This package implements the non-algorithmic image concerns shared by the
// analysis pipeline: decoding and caching radiograph files, 8-bit color
// sampling and region color statistics, and cropping review regions around a
// located reference line. All operations work with standard Go image.Image
// types and a coordinate system where (0,0) is the top-left corner, X
// increases rightward, and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive
//     (bottom-right)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other operations are
// stateless, read-only over their input image, and may be called concurrently
// on different (or the same, immutable) images.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as coordinates outside
// image bounds, empty crop regions, and file I/O or decode failures. Pixel
// readers used on the hot path (At8, MeanOver) do not validate bounds; their
// callers iterate coordinates derived from the image itself.
package imaging
