// Package tools defines the MCP tool surface. Each tool is a small struct
// holding its dependencies, exposing a Definition for registration and a
// Handle method bound to it. Tools validate input and shape responses; all
// behavior lives in the packages they call.
package tools

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// jsonResult renders v as indented JSON in a text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("encode result: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errResult reports a failure to the caller as a tool error, not a protocol
// error. The error kind is part of the message.
func errResult(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
