package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rcliao/firebase-memory/internal/model"
	"github.com/rcliao/firebase-memory/internal/query"
	"github.com/rcliao/firebase-memory/internal/tools"
)

// Definitions returns the input schemas of the memory tools.
func Definitions() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(tools.StoreMemory,
			mcp.WithDescription("Store a memory with content and optional metadata"),
			mcp.WithString("content",
				mcp.Required(),
				mcp.Description("The memory content to store"),
			),
			mcp.WithObject("metadata",
				mcp.Description("Optional metadata for the memory"),
				mcp.Properties(map[string]any{
					"tags": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Tags for categorizing the memory",
					},
					"importance": map[string]any{
						"type":        "number",
						"description": "Importance level (1-10)",
						"minimum":     model.MinImportance,
						"maximum":     model.MaxImportance,
					},
					"type": map[string]any{
						"type":        "string",
						"description": "Type of memory (fact, conversation, task, etc.)",
					},
				}),
			),
		),
		mcp.NewTool(tools.SearchMemories,
			mcp.WithDescription("Search memories by content or metadata"),
			mcp.WithString("query", mcp.Description("Search query to match against memory content")),
			mcp.WithString("tag", mcp.Description("Filter by specific tag")),
			mcp.WithString("type", mcp.Description("Filter by memory type")),
			limitParam("Maximum number of results to return"),
		),
		mcp.NewTool(tools.GetMemory,
			mcp.WithDescription("Retrieve a specific memory by ID"),
			mcp.WithString("id", mcp.Required(), mcp.Description("The memory ID to retrieve")),
		),
		mcp.NewTool(tools.DeleteMemory,
			mcp.WithDescription("Delete a specific memory by ID"),
			mcp.WithString("id", mcp.Required(), mcp.Description("The memory ID to delete")),
		),
		mcp.NewTool(tools.ListRecentMemories,
			mcp.WithDescription("List recent memories with optional limit"),
			limitParam("Maximum number of recent memories to return"),
		),
	}
}

func limitParam(desc string) mcp.ToolOption {
	return mcp.WithNumber("limit",
		mcp.Description(desc),
		mcp.DefaultNumber(query.DefaultLimit),
		mcp.Min(0),
	)
}
