package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hexforge/pixelnode/internal/node"
)

// Server handles JSON-RPC 2.0 communication over stdio, exposing a node
// registry to the host.
type Server struct {
	registry *node.Registry
	in       io.Reader
	out      io.Writer
}

// Request represents an incoming JSON-RPC request
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents an outgoing JSON-RPC response
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC error
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server over stdin/stdout for the given registry.
func New(registry *node.Registry) *Server {
	return &Server{
		registry: registry,
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

// NewWithIO creates a server over arbitrary streams, for embedding and tests.
func NewWithIO(registry *node.Registry, in io.Reader, out io.Writer) *Server {
	return &Server{registry: registry, in: in, out: out}
}

// Run reads line-delimited requests until the input closes.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(s.in)
	// Large canvases arrive base64-encoded in a single line.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 64*1024*1024)

	encoder := json.NewEncoder(s.out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				log.Printf("Failed to encode response: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *Request) *Response {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "nodes/list":
		return s.handleNodesList(req)
	case "nodes/eval":
		return s.handleNodesEval(req)
	case "ping":
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &RPCError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *Request) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"nodes": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "pixelnode",
				"version": "0.1.0",
			},
		},
	}
}
