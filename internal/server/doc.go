// Package server implements the MCP (Model Context Protocol) server for map
// line-art preparation.
//
// The server holds one editing session: a loaded source map, the settings
// history and the last processed result. Clients load a map, adjust
// settings, preview single filters or detected layers, and export a clean
// black-and-white PNG suitable for laser engraving or printing.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Session:
//   - map_load: Load a map from a file or base64 data
//   - map_process: Run the pipeline with the current settings
//
// Settings:
//   - map_get_settings, map_update_settings, map_reset_settings
//   - map_undo, map_redo: Walk the bounded settings history
//   - map_export_settings, map_import_settings: Flat key/value maps
//
// Filters and analysis:
//   - map_list_filters, map_apply_filter: Preview one filter
//   - map_detect_layer: Water, parks, roads, buildings, land or text masks
//   - map_detect_text: OCR word boxes
//   - map_sample_color, map_dominant_colors: Inspect source colors
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses with:
//   - code: -32602 for bad arguments, -32000 for tool failures, -32601 for
//     unknown methods, -32700 for unparsable lines
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, err := config.FromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.New(cfg).Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
