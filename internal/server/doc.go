// Package server exposes a node registry over JSON-RPC 2.0 on stdio.
//
// This is the host adapter: a graph-execution host (or any embedder) talks
// to the node set through it without linking the node packages directly.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported methods:
//   - initialize: Protocol handshake
//   - nodes/list: Enumerate available nodes and their schemas
//   - nodes/eval: Evaluate a node with arguments
//   - ping: Health check
//
// Evaluation results carry the rendered image and its luminance mask as
// base64-encoded PNGs.
//
// # Error Handling
//
// Failures are returned as JSON-RPC error responses with:
//   - code: -32601 (unknown method), -32602 (invalid params),
//     or -32000 (node evaluation failure)
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by the host:
//
//	srv := server.New(node.DefaultRegistry())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
