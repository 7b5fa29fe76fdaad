// Package server implements the MCP (Model Context Protocol) server exposing
// the needle-safety analysis pipeline.
//
// The server speaks JSON-RPC 2.0 over stdin/stdout, one request per line.
// Protocol methods (initialize, tools/list, tools/call, ping) are routed by
// handleRequest; tool calls are dispatched by name to handler functions that
// unmarshal arguments, load radiographs through the shared image cache, and
// delegate to the detection, geometry, risk, pipeline, and ocr packages.
//
// # Tool Surface
//
// Tools cover the pipeline end to end:
//
//   - image_load, image_dimensions: file metadata
//   - line_locate: reference-line localization with confidence
//   - line_crop_region: review strip around the located line
//   - needle_features: feature vector in either versioned layout
//   - needle_classify: verdict from raw geometry, no image required
//   - needle_analyze: full locate + extract + classify pipeline
//   - image_read_annotations: OCR of burned-in corner annotations
//
// # Error Handling
//
// Malformed parameters produce JSON-RPC error -32602, unknown methods -32601,
// and tool execution failures -32000 with the underlying error message in the
// data field. A radiograph without a locatable reference line is NOT an
// error: the affected tools return their result with line.found == false.
//
// # Logging
//
// All logging goes to stderr; stdout carries only protocol frames.
package server
