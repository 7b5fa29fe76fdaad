// Package ocr reads burned-in annotation text from radiograph exports.
//
// DICOM-to-image exports commonly carry patient, laterality, and exposure
// annotations burned into the corners of the frame. This package surfaces
// them with Tesseract so a reviewer can see which study a verdict belongs to.
// Nothing in the analysis pipeline consults annotation text: verdicts are
// computed from pixels and geometry alone.
package ocr

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Annotation is one recognized word with its location and OCR confidence.
type Annotation struct {
	// Text is the recognized word.
	Text string `json:"text"`

	// Confidence is the OCR confidence (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds is the word's bounding box in original image coordinates.
	Bounds image.Rectangle `json:"bounds"`
}

// AnnotationResult contains the text read from a radiograph region.
type AnnotationResult struct {
	// FullText is all recognized text with original spacing and newlines.
	FullText string `json:"full_text"`

	// Annotations lists individual words. May be empty when word-level
	// box extraction fails; FullText still carries the text in that case.
	Annotations []Annotation `json:"annotations"`
}

// ReadAnnotations performs OCR over a rectangular region of a radiograph.
//
// The region is cropped, upscaled by the given factor (burned-in annotation
// fonts are small; 2.0-3.0 helps Tesseract considerably, 1.0 disables), and
// written to a temporary PNG because Tesseract consumes file paths. Word
// bounding boxes in the result are translated back into original image
// coordinates.
//
// Returns an error for an empty or out-of-bounds region, or when Tesseract
// fails outright. A Tesseract install with language data for lang (typically
// "eng") must be present on the host.
func ReadAnnotations(img image.Image, region image.Rectangle, upscale float64, lang string) (*AnnotationResult, error) {
	bounds := img.Bounds()
	region = region.Intersect(bounds)
	if region.Empty() {
		return nil, fmt.Errorf("annotation region outside image bounds %dx%d",
			bounds.Dx(), bounds.Dy())
	}

	cropped := imaging.Crop(img, region)
	if upscale > 0 && upscale != 1.0 {
		cropped = imaging.Resize(cropped,
			int(float64(cropped.Bounds().Dx())*upscale),
			int(float64(cropped.Bounds().Dy())*upscale),
			imaging.Lanczos)
	} else {
		upscale = 1.0
	}

	tmpFile, err := os.CreateTemp("", "annotation-*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmpFile, cropped); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("failed to encode temp image: %w", err)
	}
	tmpFile.Close()

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImage(tmpPath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	result := &AnnotationResult{
		FullText:    text,
		Annotations: []Annotation{},
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// Word boxes are best-effort; the text itself already succeeded.
		return result, nil
	}

	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		// Undo the upscale, then translate back to image coordinates.
		r := image.Rect(
			int(float64(box.Box.Min.X)/upscale),
			int(float64(box.Box.Min.Y)/upscale),
			int(float64(box.Box.Max.X)/upscale),
			int(float64(box.Box.Max.Y)/upscale),
		).Add(region.Min)
		result.Annotations = append(result.Annotations, Annotation{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds:     r,
		})
	}

	return result, nil
}

// CornerRegion returns the named corner region of an image, sized as a
// fraction of each dimension. Recognized names are "top-left", "top-right",
// "bottom-left", and "bottom-right"; frac values outside (0, 1] default
// to 0.25.
func CornerRegion(img image.Image, corner string, frac float64) (image.Rectangle, error) {
	if frac <= 0 || frac > 1 {
		frac = 0.25
	}
	bounds := img.Bounds()
	w := int(float64(bounds.Dx()) * frac)
	h := int(float64(bounds.Dy()) * frac)

	switch corner {
	case "top-left":
		return image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+w, bounds.Min.Y+h), nil
	case "top-right":
		return image.Rect(bounds.Max.X-w, bounds.Min.Y, bounds.Max.X, bounds.Min.Y+h), nil
	case "bottom-left":
		return image.Rect(bounds.Min.X, bounds.Max.Y-h, bounds.Min.X+w, bounds.Max.Y), nil
	case "bottom-right":
		return image.Rect(bounds.Max.X-w, bounds.Max.Y-h, bounds.Max.X, bounds.Max.Y), nil
	default:
		return image.Rectangle{}, fmt.Errorf("unknown corner %q", corner)
	}
}
