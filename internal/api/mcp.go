package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/triotech/friday/internal/assistant"
	"github.com/triotech/friday/internal/conversation"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Tools *assistant.Toolset
}

// NewMCPServer registers the assistant's tools and resources. Domain
// failures (no match, invalid lead, disk trouble) come back as ordinary text
// results the agent can speak; IsError is reserved for malformed requests.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"friday",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("friday — sales-assistant decision layer: knowledge base answers, lead-intent detection, and lead capture."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("query_knowledge",
			mcp.WithDescription("Answer a product, FAQ, or differentiator question from the static knowledge catalog."),
			mcp.WithString("query", mcp.Description("The user's question"), mcp.Required()),
		),
		mcpQueryKnowledge(deps),
	)

	s.AddTool(
		mcp.NewTool("classify_intent",
			mcp.WithDescription("Detect whether a user utterance signals a sales opportunity. Returns a verdict with guidance on what to ask next."),
			mcp.WithString("message", mcp.Description("The user's utterance"), mcp.Required()),
		),
		mcpClassifyIntent(deps),
	)

	s.AddTool(
		mcp.NewTool("create_lead",
			mcp.WithDescription("Validate and save a qualified sales lead. Required: name, email, company, interest."),
			mcp.WithString("name", mcp.Description("Contact name"), mcp.Required()),
			mcp.WithString("email", mcp.Description("Contact email"), mcp.Required()),
			mcp.WithString("company", mcp.Description("Company name"), mcp.Required()),
			mcp.WithString("interest", mcp.Description("What the contact is interested in"), mcp.Required()),
			mcp.WithString("phone", mcp.Description("Phone number")),
			mcp.WithString("job_title", mcp.Description("Job title")),
			mcp.WithString("budget", mcp.Description("Budget range")),
			mcp.WithString("timeline", mcp.Description("Purchase timeline")),
		),
		mcpCreateLead(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"catalog://products",
			"Product Catalog",
			mcp.WithResourceDescription("All products in the knowledge catalog as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProducts(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"conversation://current",
			"Current Conversation",
			mcp.WithResourceDescription("The active session's conversation log as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceConversation(deps),
	)

	return s
}

func mcpQueryKnowledge(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcpError("query is required"), nil
		}

		deps.Tools.RecordUser(query, conversation.ChannelVoice)
		answer := deps.Tools.QueryKnowledge(query)
		deps.Tools.RecordAgent(answer, conversation.ChannelVoice)

		return mcpText(answer), nil
	}
}

func mcpClassifyIntent(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}
		return mcpText(deps.Tools.ClassifyIntent(message)), nil
	}
}

func mcpCreateLead(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcpError("name is required"), nil
		}
		email, err := req.RequireString("email")
		if err != nil {
			return mcpError("email is required"), nil
		}
		company, err := req.RequireString("company")
		if err != nil {
			return mcpError("company is required"), nil
		}
		interest, err := req.RequireString("interest")
		if err != nil {
			return mcpError("interest is required"), nil
		}

		msg := deps.Tools.CreateLead(assistant.LeadParams{
			Name:     name,
			Email:    email,
			Company:  company,
			Interest: interest,
			Phone:    req.GetString("phone", ""),
			JobTitle: req.GetString("job_title", ""),
			Budget:   req.GetString("budget", ""),
			Timeline: req.GetString("timeline", ""),
		})
		deps.Tools.RecordAgent(msg, conversation.ChannelVoice)

		return mcpText(msg), nil
	}
}

func mcpResourceProducts(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(deps.Tools.Engine.Catalog().Products)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal products: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpResourceConversation(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		entries, err := deps.Tools.Log.Entries()
		if err != nil {
			return nil, fmt.Errorf("failed to read conversation log: %w", err)
		}
		b, err := json.Marshal(map[string]any{"conversation": entries})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal conversation: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
