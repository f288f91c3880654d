// Package node defines the evaluatable image nodes and their registry.
//
// Every node is a stateless (or self-contained) unit with a JSON-schema
// description and an Eval entry point taking raw JSON arguments. Results
// carry the rendered image and its luminance mask as base64-encoded PNGs,
// ready for the wire.
//
// The Registry is constructed explicitly with the node set the caller
// wants to expose; there are no package-level mutable tables.
package node
