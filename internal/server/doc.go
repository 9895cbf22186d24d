// Package server implements the MCP (Model Context Protocol) server that
// exposes the recursive mosaic renderer to MCP clients.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses and notifications on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load a source image and get metadata
//   - image_average_color: Average color of an image or block
//   - mosaic_presets: Quality presets, resamplers and defaults
//   - mosaic_render: Render a recursive mosaic to a file or base64 PNG
//
// # Progress
//
// A tools/call carrying "_meta": {"progressToken": T} receives
// notifications/progress messages with progress in [0,1] and total 1 while
// mosaic_render runs. The final notification precedes the response.
//
// # Image Caching
//
// Decoded sources are cached by absolute path for the lifetime of the
// process, so rendering one image at several settings decodes it once.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
package server
