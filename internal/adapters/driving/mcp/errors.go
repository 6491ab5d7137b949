// Package mcp provides a Model Context Protocol server adapter. It lets AI
// assistants run research flows and ask grounded questions over the result.
package mcp

import "errors"

// ErrMissingResearchService is returned when the research service is not provided.
var ErrMissingResearchService = errors.New("mcp: research service is required")

// ErrMissingMarketService is returned when the market service is not provided.
var ErrMissingMarketService = errors.New("mcp: market service is required")

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("mcp: chat service is required")
