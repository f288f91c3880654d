package server

import (
	"encoding/json"
)

// EvalParams represents the parameters for a nodes/eval request.
type EvalParams struct {
	// Name is the node to evaluate (e.g., "pixel_shader", "blend").
	Name string `json:"name"`

	// Arguments contains the node-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleNodesList returns the schemas of every registered node.
func (s *Server) handleNodesList(req *Request) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"nodes": s.registry.Describe(),
		},
	}
}

// handleNodesEval evaluates one node and returns its image/mask result.
//
// Evaluation failures return a JSON-RPC error response with code -32000;
// malformed params return -32602.
func (s *Server) handleNodesEval(req *Request) *Response {
	var params EvalParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.registry.Eval(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Node evaluation failed", err.Error())
	}

	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &RPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}
