package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// RegionCrop contains a cropped region encoded for transport to an MCP client.
type RegionCrop struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Crop extracts a rectangular region from an image and returns it as
// base64-encoded PNG, optionally rescaled.
//
// Coordinates follow the package convention: (x1,y1) inclusive top-left,
// (x2,y2) exclusive bottom-right. Returns an error when the region is empty
// or extends outside the image.
func Crop(img image.Image, x1, y1, x2, y2 int, scale float64) (*RegionCrop, error) {
	bounds := img.Bounds()

	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	cropped := imaging.Crop(img, image.Rect(x1, y1, x2, y2))

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &RegionCrop{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// CropAroundLine extracts a full-height vertical strip centered on a reference
// line column, for visual review of a verdict.
//
// Parameters:
//   - lineX: Column of the located reference line, in image coordinates.
//   - marginFrac: Half-width of the strip as a fraction of image width
//     (e.g., 0.1 yields a strip one fifth of the image wide). Values <= 0
//     default to 0.1.
//   - scale: Optional scale factor applied after cropping; 1.0 keeps size.
//
// The strip is clamped to the image, so lines near an edge produce a narrower
// strip rather than an error. Returns an error only when lineX lies entirely
// outside the image.
func CropAroundLine(img image.Image, lineX int, marginFrac, scale float64) (*RegionCrop, error) {
	bounds := img.Bounds()
	if lineX < bounds.Min.X || lineX >= bounds.Max.X {
		return nil, fmt.Errorf("line column %d outside image bounds %dx%d",
			lineX, bounds.Dx(), bounds.Dy())
	}

	if marginFrac <= 0 {
		marginFrac = 0.1
	}
	margin := int(float64(bounds.Dx()) * marginFrac)
	if margin < 1 {
		margin = 1
	}

	x1 := lineX - margin
	if x1 < bounds.Min.X {
		x1 = bounds.Min.X
	}
	x2 := lineX + margin + 1
	if x2 > bounds.Max.X {
		x2 = bounds.Max.X
	}

	return Crop(img, x1, bounds.Min.Y, x2, bounds.Max.Y, scale)
}
