package detection

import (
	"image"

	"github.com/spineguard/needle-safety-mcp/internal/mask"
)

// Component is an 8-connected region of set mask pixels.
type Component struct {
	// Points lists every pixel of the region in mask coordinates.
	Points []image.Point

	// Bounds is the tight bounding box of the region.
	Bounds image.Rectangle
}

// Area returns the pixel count of the region.
func (c *Component) Area() int {
	return len(c.Points)
}

// FindComponents extracts the external connected components of a mask.
//
// Components are discovered in row-major scan order, which makes the result
// deterministic: candidate tie-breaking downstream relies on this ordering.
// Connectivity is 8-connected (diagonals included).
func FindComponents(m *mask.Mask) []*Component {
	visited := make([][]bool, m.Height)
	for y := range visited {
		visited[y] = make([]bool, m.Width)
	}

	var components []*Component
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Pix[y][x] && !visited[y][x] {
				components = append(components, floodFill(m, visited, x, y))
			}
		}
	}
	return components
}

// floodFill collects the component containing (startX, startY) using an
// explicit stack to avoid recursion depth limits on large regions.
func floodFill(m *mask.Mask, visited [][]bool, startX, startY int) *Component {
	comp := &Component{
		Bounds: image.Rect(startX, startY, startX+1, startY+1),
	}

	stack := []image.Point{{X: startX, Y: startY}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= m.Width || p.Y < 0 || p.Y >= m.Height {
			continue
		}
		if visited[p.Y][p.X] || !m.Pix[p.Y][p.X] {
			continue
		}

		visited[p.Y][p.X] = true
		comp.Points = append(comp.Points, p)
		comp.Bounds = comp.Bounds.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, image.Pt(p.X+dx, p.Y+dy))
			}
		}
	}

	return comp
}

// boundaryXs returns the x-coordinates of the component's boundary pixels: the
// pixels with at least one unset 8-neighbor in the mask. For a filled region
// this is the contour the representative column is derived from.
func boundaryXs(c *Component, m *mask.Mask) []float64 {
	var xs []float64
	for _, p := range c.Points {
		boundary := false
		for dy := -1; dy <= 1 && !boundary; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				if !m.At(p.X+dx, p.Y+dy) {
					boundary = true
					break
				}
			}
		}
		if boundary {
			xs = append(xs, float64(p.X))
		}
	}
	return xs
}
