package server

import (
	"encoding/json"
	"fmt"

	"github.com/spineguard/needle-safety-mcp/internal/detection"
	"github.com/spineguard/needle-safety-mcp/internal/geometry"
	"github.com/spineguard/needle-safety-mcp/internal/imaging"
	"github.com/spineguard/needle-safety-mcp/internal/ocr"
	"github.com/spineguard/needle-safety-mcp/internal/pipeline"
	"github.com/spineguard/needle-safety-mcp/internal/risk"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "line_locate", "needle_analyze").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate pipeline/detection/ocr function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Reference Line
	case "line_locate":
		return s.handleLineLocate(args)
	case "line_crop_region":
		return s.handleLineCropRegion(args)

	// Needle Geometry and Verdicts
	case "needle_features":
		return s.handleNeedleFeatures(args)
	case "needle_classify":
		return s.handleNeedleClassify(args)
	case "needle_analyze":
		return s.handleNeedleAnalyze(args)

	// Annotations
	case "image_read_annotations":
		return s.handleReadAnnotations(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Reference Line Handlers ===

func (s *Server) handleLineLocate(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return detection.Localize(img)
}

type lineCropArgs struct {
	Path       string  `json:"path"`
	MarginFrac float64 `json:"margin_frac"`
	Scale      float64 `json:"scale"`
}

// lineCropResult pairs the localization with the review strip so the client
// does not need a second call to learn where the strip came from.
type lineCropResult struct {
	Line *detection.Line     `json:"line"`
	Crop *imaging.RegionCrop `json:"crop,omitempty"`
}

func (s *Server) handleLineCropRegion(args json.RawMessage) (interface{}, error) {
	a := lineCropArgs{MarginFrac: 0.1, Scale: 1.0}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	line, err := detection.Localize(img)
	if err != nil {
		return nil, err
	}
	result := &lineCropResult{Line: line}
	if !line.Found {
		return result, nil
	}

	crop, err := imaging.CropAroundLine(img, line.X, a.MarginFrac, a.Scale)
	if err != nil {
		return nil, err
	}
	result.Crop = crop
	return result, nil
}

// === Needle Geometry and Verdict Handlers ===

type needleFeaturesArgs struct {
	Path       string  `json:"path"`
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
	FeatureSet string  `json:"feature_set"`
}

// needleFeaturesResult reports the line alongside the vector; when the line
// is not found the vector fields stay empty and Line.Found is false.
type needleFeaturesResult struct {
	Line         *detection.Line    `json:"line"`
	FeatureNames []string           `json:"feature_names,omitempty"`
	Vector       []float64          `json:"vector,omitempty"`
	Features     *geometry.Features `json:"features,omitempty"`
}

func (s *Server) handleNeedleFeatures(args json.RawMessage) (interface{}, error) {
	a := needleFeaturesArgs{FeatureSet: string(geometry.FeatureSetFull)}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	line, err := detection.Localize(img)
	if err != nil {
		return nil, err
	}
	result := &needleFeaturesResult{Line: line}
	if !line.Found {
		return result, nil
	}

	set := geometry.FeatureSet(a.FeatureSet)
	bounds := img.Bounds()
	features, err := geometry.Extract(
		geometry.Box{X1: a.X1, Y1: a.Y1, X2: a.X2, Y2: a.Y2},
		float64(line.X), bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	vector, err := features.Vector(set)
	if err != nil {
		return nil, err
	}
	names, err := geometry.Names(set)
	if err != nil {
		return nil, err
	}

	result.Features = features
	result.Vector = vector
	result.FeatureNames = names
	return result, nil
}

type needleClassifyArgs struct {
	ImageWidth  int     `json:"image_width"`
	ImageHeight int     `json:"image_height"`
	LineX       float64 `json:"line_x"`
	X1          float64 `json:"x1"`
	Y1          float64 `json:"y1"`
	X2          float64 `json:"x2"`
	Y2          float64 `json:"y2"`
	Mode        string  `json:"mode"`
}

func (s *Server) handleNeedleClassify(args json.RawMessage) (interface{}, error) {
	a := needleClassifyArgs{Mode: string(risk.ModeComposite)}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	features, err := geometry.Extract(
		geometry.Box{X1: a.X1, Y1: a.Y1, X2: a.X2, Y2: a.Y2},
		a.LineX, a.ImageWidth, a.ImageHeight)
	if err != nil {
		return nil, err
	}
	return risk.Classify(features, risk.Mode(a.Mode))
}

type needleAnalyzeArgs struct {
	Path       string  `json:"path"`
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
	Mode       string  `json:"mode"`
	FeatureSet string  `json:"feature_set"`
}

func (s *Server) handleNeedleAnalyze(args json.RawMessage) (interface{}, error) {
	a := needleAnalyzeArgs{
		Mode:       string(risk.ModeComposite),
		FeatureSet: string(geometry.FeatureSetFull),
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	return pipeline.Analyze(pipeline.Request{
		Image:      img,
		Needle:     geometry.Box{X1: a.X1, Y1: a.Y1, X2: a.X2, Y2: a.Y2},
		Mode:       risk.Mode(a.Mode),
		FeatureSet: geometry.FeatureSet(a.FeatureSet),
	})
}

// === Annotation Handlers ===

type readAnnotationsArgs struct {
	Path     string  `json:"path"`
	Corner   string  `json:"corner"`
	Frac     float64 `json:"frac"`
	Upscale  float64 `json:"upscale"`
	Language string  `json:"language"`
}

func (s *Server) handleReadAnnotations(args json.RawMessage) (interface{}, error) {
	a := readAnnotationsArgs{Corner: "top-left", Frac: 0.25, Upscale: 2.0, Language: "eng"}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	region, err := ocr.CornerRegion(img, a.Corner, a.Frac)
	if err != nil {
		return nil, err
	}
	return ocr.ReadAnnotations(img, region, a.Upscale, a.Language)
}
