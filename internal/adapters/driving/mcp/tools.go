package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/casefile-labs/casefile/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Tenant string `json:"tenant" jsonschema:"the tenant (client) whose material to search"`
	Query  string `json:"query" jsonschema:"the search query"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
	Kind   string `json:"kind,omitempty" jsonschema:"restrict results to 'document' or 'email' sources"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	SourceID string  `json:"source_id"`
	Kind     string  `json:"kind"`
	Title    string  `json:"title"`
	Sender   string  `json:"sender,omitempty"`
	Position int     `json:"position"`
	Score    float64 `json:"score"`
	Text     string  `json:"text"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Tenant   string `json:"tenant" jsonschema:"the tenant (client) whose material to answer from"`
	Question string `json:"question" jsonschema:"the question to answer"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Success        bool              `json:"success"`
	Answer         string            `json:"answer"`
	Error          string            `json:"error,omitempty"`
	Sources        []AskSourceOutput `json:"sources"`
	ContextUsed    int               `json:"context_used"`
	TokensUsed     int               `json:"tokens_used"`
	ResponseTimeMS int64             `json:"response_time_ms"`
}

// AskSourceOutput is one source reference an answer was grounded on.
type AskSourceOutput struct {
	Kind    string  `json:"kind"`
	Title   string  `json:"title"`
	Sender  string  `json:"sender,omitempty"`
	Score   float64 `json:"score"`
	Preview string  `json:"preview"`
}

// TenantStatsInput is the input schema for the tenant_stats tool.
type TenantStatsInput struct {
	Tenant string `json:"tenant" jsonschema:"the tenant (client) to report statistics for"`
}

// TenantStatsOutput is the output schema for the tenant_stats tool.
type TenantStatsOutput struct {
	Tenant         string `json:"tenant"`
	TotalChunks    int    `json:"total_chunks"`
	Documents      int    `json:"documents"`
	Emails         int    `json:"emails"`
	DocumentChunks int    `json:"document_chunks"`
	EmailChunks    int    `json:"email_chunks"`
	TotalWords     int    `json:"total_words"`
	TotalChars     int    `json:"total_chars"`
}

// MonitorStatusInput is the input schema for the monitor_status tool.
type MonitorStatusInput struct{}

// MonitorStatusOutput is the output schema for the monitor_status tool.
type MonitorStatusOutput struct {
	Monitors []MonitorOutput `json:"monitors"`
	Count    int             `json:"count"`
}

// MonitorOutput is the state of one active mailbox poller.
type MonitorOutput struct {
	Source          string `json:"source"`
	Tenant          string `json:"tenant"`
	IntervalSeconds int    `json:"interval_seconds"`
	StartedAt       string `json:"started_at"`
	LastCheck       string `json:"last_check,omitempty"`
	MessagesFound   int    `json:"messages_found"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search a tenant's indexed documents and emails by similarity",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question answered from a tenant's indexed material with source attribution",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "tenant_stats",
		Description: "Report what a tenant's partition currently holds",
	}, s.handleTenantStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "monitor_status",
		Description: "List active mailbox monitors and their progress",
	}, s.handleMonitorStatus)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.RetrievalOptions{
		TopK:         input.Limit,
		SourceFilter: domain.SourceKind(input.Kind),
	}

	hits, err := s.ports.Retrieve.Retrieve(ctx, domain.TenantID(input.Tenant), input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(hits)),
		Count:   len(hits),
	}

	for i := range hits {
		chunk := hits[i].Chunk
		title := chunk.Filename()
		if chunk.SourceKind == domain.SourceEmail {
			title = chunk.Subject()
		}
		output.Results[i] = SearchResultOutput{
			SourceID: chunk.SourceID,
			Kind:     string(chunk.SourceKind),
			Title:    title,
			Sender:   chunk.Sender(),
			Position: chunk.Position,
			Score:    hits[i].Score,
			Text:     chunk.Text,
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation. Conversation history is not
// carried across tool calls; each ask stands alone.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	result := s.ports.Assistant.Answer(ctx, domain.TenantID(input.Tenant), input.Question, nil)

	output := AskOutput{
		Success:        result.Success,
		Answer:         result.Answer,
		Error:          result.Error,
		Sources:        make([]AskSourceOutput, len(result.Sources)),
		ContextUsed:    result.ContextUsed,
		TokensUsed:     result.TokensUsed,
		ResponseTimeMS: result.ResponseTime.Milliseconds(),
	}

	for i, src := range result.Sources {
		output.Sources[i] = AskSourceOutput{
			Kind:    string(src.Kind),
			Title:   src.Title,
			Sender:  src.Sender,
			Score:   src.Score,
			Preview: src.Preview,
		}
	}

	return nil, output, nil
}

// handleTenantStats handles the tenant_stats tool invocation.
func (s *Server) handleTenantStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TenantStatsInput,
) (*mcp.CallToolResult, TenantStatsOutput, error) {
	if s.ports.Ingest == nil {
		return nil, TenantStatsOutput{}, errors.New("tenant statistics are not available")
	}

	stats, err := s.ports.Ingest.Stats(ctx, domain.TenantID(input.Tenant))
	if err != nil {
		return nil, TenantStatsOutput{}, err
	}

	return nil, TenantStatsOutput{
		Tenant:         input.Tenant,
		TotalChunks:    stats.TotalChunks,
		Documents:      stats.Documents,
		Emails:         stats.Emails,
		DocumentChunks: stats.DocumentChunks,
		EmailChunks:    stats.EmailChunks,
		TotalWords:     stats.TotalWords,
		TotalChars:     stats.TotalChars,
	}, nil
}

// handleMonitorStatus handles the monitor_status tool invocation.
func (s *Server) handleMonitorStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ MonitorStatusInput,
) (*mcp.CallToolResult, MonitorStatusOutput, error) {
	if s.ports.Monitor == nil {
		return nil, MonitorStatusOutput{}, errors.New("mailbox monitoring is not available")
	}

	states := s.ports.Monitor.Status()

	output := MonitorStatusOutput{
		Monitors: make([]MonitorOutput, len(states)),
		Count:    len(states),
	}

	for i, state := range states {
		m := MonitorOutput{
			Source:          state.Key.Source,
			Tenant:          state.Key.TenantID.String(),
			IntervalSeconds: int(state.Interval / time.Second),
			StartedAt:       state.StartedAt.Format(time.RFC3339),
			MessagesFound:   state.MessagesFound,
		}
		if !state.LastCheck.IsZero() {
			m.LastCheck = state.LastCheck.Format(time.RFC3339)
		}
		output.Monitors[i] = m
	}

	return nil, output, nil
}
