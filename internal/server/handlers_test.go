package server

import (
	"encoding/json"
	"testing"

	"github.com/hexforge/pixelnode/internal/node"
)

func TestHandleNodesEval(t *testing.T) {
	s := newTestServer()
	req := &Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "nodes/eval",
		Params:  json.RawMessage(`{"name":"constant","arguments":{"width":32,"height":32,"g":128}}`),
	}

	resp := s.handleRequest(req)

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(*node.Result)
	if !ok {
		t.Fatalf("Result should be a *node.Result, got %T", resp.Result)
	}
	if result.Width != 32 || result.Height != 32 {
		t.Errorf("result size: got %dx%d, want 32x32", result.Width, result.Height)
	}
	if result.Image == "" || result.Mask == "" {
		t.Error("result should carry both image and mask")
	}
}

func TestHandleNodesEval_InvalidParams(t *testing.T) {
	s := newTestServer()
	req := &Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "nodes/eval",
		Params:  json.RawMessage(`{bad json`),
	}

	resp := s.handleRequest(req)

	if resp.Error == nil {
		t.Fatal("Expected error for malformed params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestHandleNodesEval_UnknownNode(t *testing.T) {
	s := newTestServer()
	req := &Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "nodes/eval",
		Params:  json.RawMessage(`{"name":"no_such_node","arguments":{}}`),
	}

	resp := s.handleRequest(req)

	if resp.Error == nil {
		t.Fatal("Expected error for unknown node")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleNodesEval_EvaluationFailure(t *testing.T) {
	s := newTestServer()
	// A polygon with 2 sides is rejected by the shape node.
	req := &Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "nodes/eval",
		Params:  json.RawMessage(`{"name":"shape","arguments":{"shape":"POLYGON","sides":2}}`),
	}

	resp := s.handleRequest(req)

	if resp.Error == nil {
		t.Fatal("Expected error for failing evaluation")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
	if resp.Error.Data == nil {
		t.Error("Error data should carry the underlying failure")
	}
}
