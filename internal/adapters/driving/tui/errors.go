package tui

import "errors"

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("tui: chat service is required")

// ErrMissingResearchService is returned when the research service is not provided.
var ErrMissingResearchService = errors.New("tui: research service is required")

// ErrMissingMarketService is returned when the market service is not provided.
var ErrMissingMarketService = errors.New("tui: market service is required")
