package thread_tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/courtmail/internal/analysis"
	"github.com/teemow/courtmail/internal/server"
	"github.com/teemow/courtmail/internal/thread"
	"github.com/teemow/courtmail/internal/tools/common"
)

// Summary is the listing view of a thread, without message bodies.
type Summary struct {
	ThreadID     string    `json:"threadId"`
	Subject      string    `json:"subject"`
	Participants []string  `json:"participants"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	MessageCount int       `json:"messageCount"`
}

// ListResult is the threads_list response.
type ListResult struct {
	Total   int       `json:"total"`
	Threads []Summary `json:"threads"`
}

func summarize(t thread.Thread) Summary {
	participants := t.Participants
	if participants == nil {
		participants = []string{}
	}
	return Summary{
		ThreadID:     t.ThreadID,
		Subject:      t.Subject,
		Participants: participants,
		StartDate:    t.StartDate,
		EndDate:      t.EndDate,
		MessageCount: t.MessageCount,
	}
}

func withFilterParams(queryKey, queryDescription string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString(queryKey,
			mcp.Description(queryDescription),
		),
		mcp.WithNumber("minMessages",
			mcp.Description("Only threads with at least this many messages"),
		),
		mcp.WithString("from",
			mcp.Description("Only threads still active on or after this date (ISO-8601 or RFC 2822)"),
		),
		mcp.WithString("to",
			mcp.Description("Only threads started on or before this date (ISO-8601 or RFC 2822)"),
		),
		mcp.WithString("participants",
			mcp.Description("Comma-separated participant substrings; a thread matches if any participant contains any of them"),
		),
	}
}

// RegisterThreadTools registers the thread listing, transcript and analysis tools.
func RegisterThreadTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listOpts := append([]mcp.ToolOption{
		mcp.WithDescription("List email threads, most recently active first, optionally filtered"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of threads to return (default: all)"),
		),
	}, withFilterParams("query", "Whitespace-separated terms that must all appear in a single message (subject, from, to, plain body)")...)
	s.AddTool(mcp.NewTool("threads_list", listOpts...),
		common.InstrumentedToolHandler("threads_list", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListThreads(ctx, request, sc)
		}))

	threadTextTool := mcp.NewTool("thread_text",
		mcp.WithDescription("Render a thread as a plain-text transcript"),
		mcp.WithString("threadId",
			mcp.Required(),
			mcp.Description("The ID of the thread"),
		),
	)
	s.AddTool(threadTextTool,
		common.InstrumentedToolHandler("thread_text", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleThreadText(ctx, request, sc)
		}))

	analyzeOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Summarize threads with an LLM and score their relevance to a research query. Results are sorted by relevance."),
		mcp.WithString("query",
			mcp.Description("Research query the relevance score is measured against"),
		),
		mcp.WithString("threadIds",
			mcp.Description("Thread ID or comma-separated thread IDs to analyze; when omitted the filter parameters select the threads"),
		),
		mcp.WithNumber("concurrency",
			mcp.Description(fmt.Sprintf("Maximum concurrent LLM requests (default: %d)", analysis.DefaultConcurrency)),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of threads to analyze (default: all)"),
		),
	}, withFilterParams("search", "Whitespace-separated terms that must all appear in a single message")...)
	s.AddTool(mcp.NewTool("threads_analyze", analyzeOpts...),
		common.InstrumentedToolHandler("threads_analyze", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAnalyzeThreads(ctx, request, sc)
		}))

	return nil
}

func handleListThreads(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	criteria, err := common.CriteriaFromArgs(args, "query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit, err := common.IntArg(args, "limit", 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	threads := thread.Filter(sc.Threads(), criteria)
	result := ListResult{Total: len(threads), Threads: []Summary{}}
	for i, t := range threads {
		if limit > 0 && i >= limit {
			break
		}
		result.Threads = append(result.Threads, summarize(t))
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode threads: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleThreadText(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	threadID := common.StringArg(args, "threadId", "")
	if threadID == "" {
		return mcp.NewToolResultError("threadId is required"), nil
	}

	t, ok := thread.Find(sc.Threads(), threadID)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("Thread not found: %s", threadID)), nil
	}
	return mcp.NewToolResultText(thread.RenderText(t)), nil
}

func handleAnalyzeThreads(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	analyzer := sc.Analyzer()
	if analyzer == nil {
		return mcp.NewToolResultError("Analysis is not configured. Set OPENAI_API_KEY or ANTHROPIC_API_KEY (and LLM_PROVIDER) before starting the server."), nil
	}

	args := request.GetArguments()

	threads, err := common.SelectThreads(sc.Threads(), args, "search")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	concurrency, err := common.IntArg(args, "concurrency", analysis.DefaultConcurrency)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit, err := common.IntArg(args, "limit", 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if limit > 0 && len(threads) > limit {
		threads = threads[:limit]
	}

	results := analyzer.AnalyzeThreads(ctx, threads, common.StringArg(args, "query", ""), concurrency)

	var buf bytes.Buffer
	if err := analysis.WriteResults(&buf, results, analysis.FormatJSON); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode analysis: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}
