package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/helene/internal/assistant"
	"github.com/kalambet/helene/internal/health"
	"github.com/kalambet/helene/internal/pipeline"
)

// NewMCPServer creates an MCP server exposing the assistant, check-in
// logging and insights as tools, plus the profile and recent check-ins as
// resources.
func NewMCPServer(deps Deps, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"helene",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("Hélène: a supportive wellness companion for perimenopause and menopause. Not a medical service."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("ask_helene",
			mcp.WithDescription("Ask Hélène a question. The stored profile and recent check-ins are used as context."),
			mcp.WithString("message", mcp.Description("The user's message"), mcp.Required()),
			mcp.WithString("session_id", mcp.Description("Conversation id; earlier turns of the session are replayed")),
		),
		mcpAsk(deps),
	)

	checkin := []mcp.ToolOption{
		mcp.WithDescription("Record (or replace) the daily check-in for a date."),
		mcp.WithString("date", mcp.Description("YYYY-MM-DD, defaults to today")),
		mcp.WithNumber("mood", mcp.Description("Mood 1-5")),
		mcp.WithNumber("energy_level", mcp.Description("Energy 1-5")),
		mcp.WithNumber("sleep_quality", mcp.Description("Sleep quality 1-5")),
		mcp.WithString("notes", mcp.Description("Free-text note")),
	}
	for _, sym := range health.Symptoms {
		checkin = append(checkin, mcp.WithNumber(string(sym), mcp.Description("Intensity 1-3, omit if absent")))
	}
	s.AddTool(mcp.NewTool("log_checkin", checkin...), mcpLogCheckin(deps))

	s.AddTool(
		mcp.NewTool("get_insights",
			mcp.WithDescription("Summarize trends from recent check-ins."),
			mcp.WithString("period", mcp.Description("week (default) or month"), mcp.Enum("week", "month")),
		),
		mcpGetInsights(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"user://profile",
			"User Profile",
			mcp.WithResourceDescription("Current user profile as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProfile(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"user://recent-logs",
			"Recent Check-ins",
			mcp.WithResourceDescription("The last 7 daily check-ins, newest first"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRecentLogs(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"user://recent-interactions",
			"Recent Conversations",
			mcp.WithResourceDescription("The last 10 assistant exchanges, newest first"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRecentInteractions(deps),
	)

	return s
}

func mcpAsk(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := req.RequireString("message")
		if err != nil || message == "" {
			return mcpError("message is required"), nil
		}

		resp, _, err := converse(ctx, deps, replyRequest{
			Message:   message,
			SessionID: req.GetString("session_id", ""),
		})
		if err != nil {
			var ae *assistant.Error
			if errors.As(err, &ae) {
				return mcpError(ae.Message), nil
			}
			return mcpError(fmt.Sprintf("reply failed: %v", err)), nil
		}
		return mcpText(resp.Text), nil
	}
}

func mcpLogCheckin(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		l := health.DailyLog{
			LogDate:      req.GetString("date", time.Now().Format(time.DateOnly)),
			Mood:         req.GetInt("mood", 0),
			EnergyLevel:  req.GetInt("energy_level", 0),
			SleepQuality: req.GetInt("sleep_quality", 0),
			Notes:        req.GetString("notes", ""),
		}
		for _, sym := range health.Symptoms {
			l.SetIntensity(sym, req.GetInt(string(sym), 0))
		}
		if err := l.Validate(); err != nil {
			return mcpError(err.Error()), nil
		}

		if err := deps.Store.SaveDailyLog(l); err != nil {
			return mcpError(fmt.Sprintf("failed to save check-in: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Check-in saved for %s", l.LogDate)), nil
	}
}

func mcpGetInsights(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		period := req.GetString("period", "week")
		if period != "week" && period != "month" {
			return mcpError("period must be week or month"), nil
		}

		found, err := computeInsights(deps, period)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to compute insights: %v", err)), nil
		}

		b, err := json.Marshal(found)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal insights: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceProfile(deps Deps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		p, err := deps.Profile.GetProfile()
		if err != nil {
			return nil, fmt.Errorf("failed to get profile: %w", err)
		}

		b, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal profile: %w", err)
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

func mcpResourceRecentLogs(deps Deps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		logs, err := deps.Store.ListRecentLogs(pipeline.RecentDays)
		if err != nil {
			return nil, fmt.Errorf("failed to get recent logs: %w", err)
		}
		if logs == nil {
			logs = []health.DailyLog{}
		}

		b, err := json.Marshal(logs)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal logs: %w", err)
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

func mcpResourceRecentInteractions(deps Deps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		interactions, err := deps.Store.GetRecentInteractions(10)
		if err != nil {
			return nil, fmt.Errorf("failed to get recent interactions: %w", err)
		}

		type interactionSummary struct {
			ID        string `json:"id"`
			CreatedAt string `json:"created_at"`
			Mode      string `json:"mode"`
			Status    string `json:"status"`
			Message   string `json:"message"`
		}

		summaries := make([]interactionSummary, len(interactions))
		for i, in := range interactions {
			msg := in.UserMessage
			if utf8.RuneCountInString(msg) > 200 {
				msg = string([]rune(msg)[:200]) + "..."
			}
			summaries[i] = interactionSummary{
				ID:        in.ID,
				CreatedAt: in.CreatedAt.Format(time.RFC3339),
				Mode:      in.Mode,
				Status:    in.Status,
				Message:   msg,
			}
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal interactions: %w", err)
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
