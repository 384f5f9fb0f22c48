package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from stored knowledge"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string          `json:"answer"`
	Sources []domain.Source `json:"sources"`
}

// IngestNoteInput is the input schema for the ingest_note tool.
type IngestNoteInput struct {
	Text   string `json:"text" jsonschema:"the note text to store"`
	Origin string `json:"origin,omitempty" jsonschema:"where the text came from, such as a file path"`
}

// IngestURLInput is the input schema for the ingest_url tool.
type IngestURLInput struct {
	URL string `json:"url" jsonschema:"absolute http or https address of the page to store"`
}

// IngestOutput is the output schema for the ingest tools.
type IngestOutput struct {
	ItemID  string `json:"item_id"`
	Source  string `json:"source"`
	Chunks  int    `json:"chunks"`
	Dropped int    `json:"dropped,omitempty"`
}

// ListItemsInput is the (empty) input schema for the list_items tool.
type ListItemsInput struct{}

// ListItemsOutput is the output schema for the list_items tool.
type ListItemsOutput struct {
	Items []ItemOutput `json:"items"`
	Count int          `json:"count"`
}

// ItemOutput represents a single stored item.
type ItemOutput struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Origin    string `json:"origin,omitempty"`
	Chunks    int    `json:"chunks"`
	CreatedAt string `json:"created_at"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using the stored knowledge base",
	}, s.handleAsk)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest_note",
			Description: "Store a text note in the knowledge base",
		}, s.handleIngestNote)

		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest_url",
			Description: "Fetch a web page and store its readable text in the knowledge base",
		}, s.handleIngestURL)
	}

	if s.ports.Items != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_items",
			Description: "List stored items, newest first",
		}, s.handleListItems)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Query.Query(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	sources := answer.Sources
	if sources == nil {
		sources = []domain.Source{}
	}
	return nil, AskOutput{Answer: answer.Answer, Sources: sources}, nil
}

// handleIngestNote handles the ingest_note tool invocation.
func (s *Server) handleIngestNote(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestNoteInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	return s.ingest(ctx, domain.Note{Text: input.Text, Origin: input.Origin})
}

// handleIngestURL handles the ingest_url tool invocation.
func (s *Server) handleIngestURL(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestURLInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	return s.ingest(ctx, domain.URLRef{URL: input.URL})
}

func (s *Server) ingest(ctx context.Context, content domain.Content) (*mcp.CallToolResult, IngestOutput, error) {
	result, err := s.ports.Ingest.Ingest(ctx, content)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		ItemID:  result.ItemID,
		Source:  result.Source.String(),
		Chunks:  result.Chunks,
		Dropped: result.Dropped,
	}, nil
}

// handleListItems handles the list_items tool invocation.
func (s *Server) handleListItems(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListItemsInput,
) (*mcp.CallToolResult, ListItemsOutput, error) {
	items, err := s.ports.Items.List(ctx)
	if err != nil {
		return nil, ListItemsOutput{}, err
	}

	output := ListItemsOutput{
		Items: make([]ItemOutput, len(items)),
		Count: len(items),
	}
	for i := range items {
		output.Items[i] = itemOutput(&items[i])
	}

	return nil, output, nil
}

func itemOutput(item *domain.ItemSummary) ItemOutput {
	return ItemOutput{
		ID:        item.ID,
		Source:    item.Source.String(),
		Origin:    item.Origin,
		Chunks:    item.Chunks,
		CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339),
	}
}
