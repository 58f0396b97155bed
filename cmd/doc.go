// Package cmd implements the command-line interface for zbd-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server exposing the ZBD payments API
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
package cmd
