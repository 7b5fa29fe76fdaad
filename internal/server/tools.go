package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the shared schema fragment for tools operating on an image file.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the radiograph image file",
	}
}

// needleBoxProperties is the shared schema fragment for the externally
// detected needle bounding box. Reversed corners are tolerated.
func needleBoxProperties() map[string]interface{} {
	return map[string]interface{}{
		"x1": map[string]interface{}{"type": "number", "description": "Needle box left edge X"},
		"y1": map[string]interface{}{"type": "number", "description": "Needle box top edge Y"},
		"x2": map[string]interface{}{"type": "number", "description": "Needle box right edge X"},
		"y2": map[string]interface{}{"type": "number", "description": "Needle box bottom edge Y"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load a radiograph file and return its dimensions and format. Caches the decoded image for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Reference Line
		{
			Name:        "line_locate",
			Description: "Locate the hand-drawn reference (danger) line in a radiograph. Returns found flag, line column, and confidence; not finding a line is a normal outcome, not an error.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "line_crop_region",
			Description: "Locate the reference line and return a full-height strip around it as base64 PNG, for visual review of the localization.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"margin_frac": map[string]interface{}{
						"type":        "number",
						"description": "Half-width of the strip as a fraction of image width. Default 0.1",
						"default":     0.1,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor applied to the strip. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path"},
			},
		},

		// Needle Geometry and Verdicts
		{
			Name:        "needle_features",
			Description: "Locate the reference line and compute the geometric feature vector relating the supplied needle bounding box to it. Supports the 20-feature geometric layout and the 30-feature full layout.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(
					map[string]interface{}{
						"path": pathProperty(),
						"feature_set": map[string]interface{}{
							"type":        "string",
							"enum":        []string{"geometric", "full"},
							"description": "Feature vector layout. Default full",
							"default":     "full",
						},
					},
					needleBoxProperties(),
				),
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "needle_classify",
			Description: "Classify a needle/line relationship from raw geometry without loading an image: needle box, line column, and image dimensions in, verdict with backing scores out.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(
					map[string]interface{}{
						"image_width":  map[string]interface{}{"type": "integer", "description": "Image width in pixels"},
						"image_height": map[string]interface{}{"type": "integer", "description": "Image height in pixels"},
						"line_x":       map[string]interface{}{"type": "number", "description": "Reference line column"},
						"mode": map[string]interface{}{
							"type":        "string",
							"enum":        []string{"composite", "crossing_only"},
							"description": "Verdict rule. Default composite",
							"default":     "composite",
						},
					},
					needleBoxProperties(),
				),
				"required": []string{"image_width", "image_height", "line_x", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "needle_analyze",
			Description: "Full pipeline on one radiograph: locate the reference line, extract features against the supplied needle box, and return the safety verdict with its backing scores.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(
					map[string]interface{}{
						"path": pathProperty(),
						"mode": map[string]interface{}{
							"type":        "string",
							"enum":        []string{"composite", "crossing_only"},
							"description": "Verdict rule. Default composite",
							"default":     "composite",
						},
						"feature_set": map[string]interface{}{
							"type":        "string",
							"enum":        []string{"geometric", "full"},
							"description": "Feature vector layout. Default full",
							"default":     "full",
						},
					},
					needleBoxProperties(),
				),
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},

		// Annotations
		{
			Name:        "image_read_annotations",
			Description: "Read burned-in annotation text from a corner of a radiograph export using OCR. Informational only; verdicts never consult annotation text.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"corner": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"top-left", "top-right", "bottom-left", "bottom-right"},
						"description": "Corner region to read. Default top-left",
						"default":     "top-left",
					},
					"frac": map[string]interface{}{
						"type":        "number",
						"description": "Corner size as a fraction of each image dimension. Default 0.25",
						"default":     0.25,
					},
					"upscale": map[string]interface{}{
						"type":        "number",
						"description": "Upscale factor applied before OCR. Default 2.0",
						"default":     2.0,
					},
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code. Default eng",
						"default":     "eng",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// mergeProperties combines schema property maps; later maps win on key clashes.
func mergeProperties(maps ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
