package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/spineguard/needle-safety-mcp/internal/detection"
	"github.com/spineguard/needle-safety-mcp/internal/risk"
)

// createRadiographFile writes a black PNG with a red reference stroke at
// lineX and returns its path.
func createRadiographFile(t *testing.T, width, height, lineX int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{A: 255})
		}
	}
	for y := height / 5; y < height*4/5; y++ {
		for x := lineX; x < lineX+4; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}

	tmpFile, err := os.CreateTemp("", "handler-test-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to encode image: %v", err)
	}

	return tmpFile.Name()
}

// callTool runs a tools/call request and returns the JSON text of the first
// content block, failing the test on any protocol error.
func callTool(t *testing.T, s *Server, name string, arguments map[string]interface{}) string {
	t.Helper()

	paramsJSON, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": arguments,
	})
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  paramsJSON,
	})
	if resp.Error != nil {
		t.Fatalf("%s: unexpected error: %+v", name, resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("%s: result should be a map", name)
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) == 0 {
		t.Fatalf("%s: result should contain content blocks", name)
	}
	text, ok := content[0]["text"].(string)
	if !ok {
		t.Fatalf("%s: content block should carry text", name)
	}
	return text
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New()
	imgPath := createRadiographFile(t, 100, 80, 50)
	defer os.Remove(imgPath)

	callTool(t, s, "image_load", map[string]interface{}{"path": imgPath})
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	s := New()
	imgPath := createRadiographFile(t, 200, 150, 100)
	defer os.Remove(imgPath)

	text := callTool(t, s, "image_dimensions", map[string]interface{}{"path": imgPath})

	var dims struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	if err := json.Unmarshal([]byte(text), &dims); err != nil {
		t.Fatalf("failed to decode dimensions: %v", err)
	}
	if dims.Width != 200 || dims.Height != 150 {
		t.Errorf("got %dx%d, want 200x150", dims.Width, dims.Height)
	}
}

func TestHandleToolsCall_LineLocate(t *testing.T) {
	s := New()
	imgPath := createRadiographFile(t, 200, 200, 100)
	defer os.Remove(imgPath)

	text := callTool(t, s, "line_locate", map[string]interface{}{"path": imgPath})

	var line detection.Line
	if err := json.Unmarshal([]byte(text), &line); err != nil {
		t.Fatalf("failed to decode line: %v", err)
	}
	if !line.Found {
		t.Fatal("line not found in radiograph with a drawn stroke")
	}
	if line.X < 99 || line.X > 104 {
		t.Errorf("line X: got %d, want near 101", line.X)
	}
}

func TestHandleToolsCall_NeedleClassify(t *testing.T) {
	s := New()

	// Pure geometry: no image file involved.
	text := callTool(t, s, "needle_classify", map[string]interface{}{
		"image_width":  1000,
		"image_height": 800,
		"line_x":       450,
		"x1":           440, "y1": 100,
		"x2": 460, "y2": 500,
		"mode": "composite",
	})

	var verdict risk.Verdict
	if err := json.Unmarshal([]byte(text), &verdict); err != nil {
		t.Fatalf("failed to decode verdict: %v", err)
	}
	if verdict.Label != risk.LabelDangerous {
		t.Errorf("got %s, want dangerous for a crossing box", verdict.Label)
	}
	if verdict.Mode != risk.ModeComposite {
		t.Errorf("mode: got %s, want composite", verdict.Mode)
	}
}

func TestHandleToolsCall_NeedleAnalyze(t *testing.T) {
	s := New()
	imgPath := createRadiographFile(t, 200, 200, 100)
	defer os.Remove(imgPath)

	text := callTool(t, s, "needle_analyze", map[string]interface{}{
		"path": imgPath,
		"x1":   150, "y1": 40,
		"x2": 160, "y2": 160,
	})

	var res struct {
		Line    detection.Line `json:"line"`
		Vector  []float64      `json:"vector"`
		Verdict *risk.Verdict  `json:"verdict"`
	}
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		t.Fatalf("failed to decode analysis: %v", err)
	}
	if !res.Line.Found {
		t.Fatal("line not found")
	}
	if len(res.Vector) != 30 {
		t.Errorf("got %d features, want 30 (default full layout)", len(res.Vector))
	}
	if res.Verdict == nil || res.Verdict.Label != risk.LabelSafe {
		t.Errorf("got %+v, want safe verdict", res.Verdict)
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := New()

	paramsJSON, _ := json.Marshal(map[string]interface{}{
		"name":      "image_load",
		"arguments": map[string]interface{}{"path": "/nonexistent/image.png"},
	})

	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: paramsJSON})

	if resp.Error == nil {
		t.Fatal("expected error for non-existent file")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	s := New()

	paramsJSON, _ := json.Marshal(map[string]interface{}{
		"name":      "no_such_tool",
		"arguments": map[string]interface{}{},
	})

	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: paramsJSON})

	if resp.Error == nil {
		t.Fatal("expected error for unknown tool")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()

	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`not json`),
	})

	if resp.Error == nil {
		t.Fatal("expected error for malformed params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestExecuteTool_UnknownName(t *testing.T) {
	s := New()

	if _, err := s.executeTool("bogus", json.RawMessage(`{}`)); err == nil {
		t.Error("expected error for unknown tool name")
	}
}
