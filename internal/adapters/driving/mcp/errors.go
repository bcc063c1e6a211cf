// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Casefile. It lets AI assistants search a tenant's indexed material and ask
// grounded questions over it.
package mcp

import "errors"

// ErrMissingRetrieveService is returned when the retrieve service is not provided.
var ErrMissingRetrieveService = errors.New("mcp: retrieve service is required")

// ErrMissingAssistantService is returned when the assistant service is not provided.
var ErrMissingAssistantService = errors.New("mcp: assistant service is required")
