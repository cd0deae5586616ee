package document_tools

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/courtmail/internal/analysis"
	"github.com/teemow/courtmail/internal/document"
	"github.com/teemow/courtmail/internal/server"
	"github.com/teemow/courtmail/internal/tools/common"
)

// documentURI names the embedded pdf resource.
const documentURI = "courtmail://document.pdf"

// RegisterDocumentTools registers the document generation tool.
func RegisterDocumentTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	generateTool := mcp.NewTool("document_generate",
		mcp.WithDescription("Assemble selected email threads into a court-ready evidence document (Markdown, HTML or PDF)"),
		mcp.WithString("threadIds",
			mcp.Description("Thread ID or comma-separated thread IDs, in document order; when omitted the filter parameters select the threads"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'md' (default), 'html' or 'pdf'"),
		),
		mcp.WithBoolean("analyze",
			mcp.Description("Include an LLM analysis section per thread (default: false)"),
		),
		mcp.WithString("query",
			mcp.Description("Research query for the analysis sections"),
		),
		mcp.WithNumber("concurrency",
			mcp.Description(fmt.Sprintf("Maximum concurrent LLM requests (default: %d)", analysis.DefaultConcurrency)),
		),
		mcp.WithString("outputPath",
			mcp.Description("Write the document to this file instead of returning its content"),
		),
		mcp.WithString("search",
			mcp.Description("Whitespace-separated terms that must all appear in a single message"),
		),
		mcp.WithNumber("minMessages",
			mcp.Description("Only threads with at least this many messages"),
		),
		mcp.WithString("from",
			mcp.Description("Only threads still active on or after this date"),
		),
		mcp.WithString("to",
			mcp.Description("Only threads started on or before this date"),
		),
		mcp.WithString("participants",
			mcp.Description("Comma-separated participant substrings"),
		),
	)

	s.AddTool(generateTool,
		common.InstrumentedToolHandler("document_generate", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGenerateDocument(ctx, request, sc)
		}))

	return nil
}

func handleGenerateDocument(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	format, err := document.ParseFormat(common.StringArg(args, "format", document.FormatMarkdown))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	threads, err := common.SelectThreads(sc.Threads(), args, "search")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	concurrency, err := common.IntArg(args, "concurrency", analysis.DefaultConcurrency)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	analyze := common.BoolArg(args, "analyze", false)
	if analyze && sc.Analyzer() == nil {
		return mcp.NewToolResultError("Analysis is not configured. Set OPENAI_API_KEY or ANTHROPIC_API_KEY, or generate without analyze."), nil
	}

	out, err := sc.Generator().Generate(ctx, document.Request{
		Threads:     threads,
		Format:      format,
		Analyze:     analyze,
		Query:       common.StringArg(args, "query", ""),
		Concurrency: concurrency,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to generate document: %v", err)), nil
	}

	if path := common.StringArg(args, "outputPath", ""); path != "" {
		if err := os.WriteFile(path, out.Data, 0o600); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to write document: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Wrote %s document with %d threads to %s (%d bytes)",
			out.Format, len(threads), path, len(out.Data))), nil
	}

	if out.Format == document.FormatPDF {
		return mcp.NewToolResultResource(
			fmt.Sprintf("PDF document with %d threads (%d bytes)", len(threads), len(out.Data)),
			mcp.BlobResourceContents{
				URI:      documentURI,
				MIMEType: out.ContentType,
				Blob:     base64.StdEncoding.EncodeToString(out.Data),
			},
		), nil
	}

	return mcp.NewToolResultText(string(out.Data)), nil
}
