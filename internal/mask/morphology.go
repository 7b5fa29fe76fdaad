package mask

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
)

// Kernel is a morphological structuring element expressed as pixel offsets
// from the anchor.
type Kernel []image.Point

// EllipseKernel returns a structuring element covering the ellipse inscribed
// in a width x height box. At 3x3 this is the 4-connected cross.
func EllipseKernel(width, height int) Kernel {
	a := float64(width-1) / 2
	b := float64(height-1) / 2
	if a == 0 {
		a = 0.5
	}
	if b == 0 {
		b = 0.5
	}

	var k Kernel
	for dy := -(height - 1) / 2; dy <= (height-1)/2; dy++ {
		for dx := -(width - 1) / 2; dx <= (width-1)/2; dx++ {
			fx := float64(dx) / a
			fy := float64(dy) / b
			if fx*fx+fy*fy <= 1.0 {
				k = append(k, image.Pt(dx, dy))
			}
		}
	}
	return k
}

// RectKernel returns a full rectangular structuring element.
func RectKernel(width, height int) Kernel {
	var k Kernel
	for dy := -(height - 1) / 2; dy <= (height-1)/2; dy++ {
		for dx := -(width - 1) / 2; dx <= (width-1)/2; dx++ {
			k = append(k, image.Pt(dx, dy))
		}
	}
	return k
}

// Dilate sets each pixel that has any set pixel under the kernel.
func Dilate(m *Mask, k Kernel) *Mask {
	out := New(m.Width, m.Height)
	parallel.Line(m.Height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < m.Width; x++ {
				for _, off := range k {
					if m.At(x+off.X, y+off.Y) {
						out.Pix[y][x] = true
						break
					}
				}
			}
		}
	})
	return out
}

// Erode clears each pixel that has any unset in-bounds pixel under the
// kernel. Off-grid kernel positions are ignored, so structures touching the
// border are not eaten from outside.
func Erode(m *Mask, k Kernel) *Mask {
	out := New(m.Width, m.Height)
	parallel.Line(m.Height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < m.Width; x++ {
				keep := m.Pix[y][x]
				for _, off := range k {
					nx, ny := x+off.X, y+off.Y
					if nx < 0 || nx >= m.Width || ny < 0 || ny >= m.Height {
						continue
					}
					if !m.Pix[ny][nx] {
						keep = false
						break
					}
				}
				out.Pix[y][x] = keep
			}
		}
	})
	return out
}

// Close performs dilation followed by erosion, filling holes and bridging
// gaps up to the kernel size.
func Close(m *Mask, k Kernel) *Mask {
	return Erode(Dilate(m, k), k)
}

// Open performs erosion followed by dilation, removing structures smaller
// than the kernel.
func Open(m *Mask, k Kernel) *Mask {
	return Dilate(Erode(m, k), k)
}

// Cleanup kernel sizes. The bridge kernel is tall and narrow on purpose: the
// marks being recovered are thin vertical strokes broken by noise.
const (
	speckleKernelSize  = 3
	bridgeKernelWidth  = 3
	bridgeKernelHeight = 15
)

// Cleanup applies the morphological cleanup sequence to a freshly built mask:
// close with a small elliptical kernel (fills pinholes), close with a tall
// narrow rectangular kernel (bridges vertically broken line segments), then
// open with the small elliptical kernel (removes speckle).
//
// The order is load-bearing: closing before opening preserves thin vertical
// structures that opening alone would erase.
func Cleanup(m *Mask) *Mask {
	speckle := EllipseKernel(speckleKernelSize, speckleKernelSize)
	bridge := RectKernel(bridgeKernelWidth, bridgeKernelHeight)

	m = Close(m, speckle)
	m = Close(m, bridge)
	m = Open(m, speckle)
	return m
}
