// Package shader implements the expression pixel evaluator: a per-pixel,
// per-channel procedural shader driven by a small arithmetic micro-language.
//
// Given a source image and one expression per output channel, Evaluate
// produces an output image by computing each expression at every pixel.
// Expressions may reference the pixel coordinate, the normalized coordinate,
// the output dimensions, and the source sample at the same coordinate:
//
//	$x, $y - integer pixel coordinate of the output pixel
//	$u, $v - normalized coordinate, x/width and y/height, in [0, 1)
//	$w, $h - output width and height
//	$r, $g, $b - source channel values at (x, y), in [0, 255]
//
// The language supports infix + - * /, ^ for exponentiation, unary minus,
// parentheses, decimal literals, and a fixed set of functions (sqrt, min,
// max, abs, sin, cos, tan, floor, ceil, pow, clamp). Expressions are parsed
// once per call into a small AST; there is no dynamic code evaluation of any
// kind. An empty expression copies the corresponding source channel.
//
// The numeric result of an expression is multiplied by 255 and truncated to
// an 8-bit sample. A pixel whose expression fails to evaluate (division by
// zero, square root of a negative, non-finite result) falls back to the
// source channel value at that pixel; failures never abort the pass.
//
// # Concurrency
//
// The output grid is partitioned into fixed-size tiles (8x8 by default,
// clipped at the right and bottom edges) which are dispatched to a worker
// pool. Tiles write disjoint regions of the output buffer, so no locking is
// needed; Evaluate returns only after every tile has completed. Pixel and
// tile ordering is unspecified.
//
// # Logging
//
// The package is silent by default. Call SetLogger with an *slog.Logger to
// receive diagnostics about parse failures and per-pixel fallbacks.
package shader
