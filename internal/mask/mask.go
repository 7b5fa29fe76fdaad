package mask

// Mask is a binary pixel grid with the same dimensions as the image it was
// derived from. Pix is indexed [y][x]; true marks a line-colored pixel.
type Mask struct {
	Width  int
	Height int
	Pix    [][]bool
}

// New creates an all-false mask of the given dimensions.
func New(width, height int) *Mask {
	pix := make([][]bool, height)
	for y := range pix {
		pix[y] = make([]bool, width)
	}
	return &Mask{Width: width, Height: height, Pix: pix}
}

// At reports the mask value at (x, y). Coordinates outside the grid read as
// false, so neighborhood scans need no explicit border handling.
func (m *Mask) At(x, y int) bool {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return false
	}
	return m.Pix[y][x]
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Pix[y][x] {
				n++
			}
		}
	}
	return n
}
