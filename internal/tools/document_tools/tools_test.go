package document_tools

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/courtmail/internal/analysis"
	"github.com/teemow/courtmail/internal/mail"
	"github.com/teemow/courtmail/internal/server"
	"github.com/teemow/courtmail/internal/tools/common"
)

type fakePDF struct {
	html string
}

func (f *fakePDF) RenderPDF(_ context.Context, html string) ([]byte, error) {
	f.html = html
	return []byte("%PDF-1.4 fake"), nil
}

type okCompleter struct{}

func (okCompleter) Complete(context.Context, string, string) (string, error) {
	return "SUMMARY: Landlord withheld the deposit.\nTOPICS: deposit\nRELEVANCE_SCORE: 80\nSENTIMENT: negative\nKEY_INSIGHTS:\n- refund requested", nil
}

func records() []mail.Record {
	return []mail.Record{
		{ID: "m1", ThreadID: "t1", Subject: "Lease", From: "tenant@home.com", To: "landlord@rent.com", Date: "2024-01-01T10:00:00Z", Body: mail.Body{Plain: "signed lease"}},
		{ID: "m2", ThreadID: "t2", Subject: "Deposit", From: "tenant@home.com", To: "landlord@rent.com", Date: "2024-03-01T10:00:00Z", Body: mail.Body{Plain: "refund please"}},
	}
}

func newServerContext(t *testing.T, opts ...server.Option) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), records(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func call(t *testing.T, sc *server.ServerContext, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	result, err := handleGenerateDocument(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: "document_generate", Arguments: args},
	}, sc)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestRegisterDocumentTools(t *testing.T) {
	s := mcpserver.NewMCPServer("test-server", "1.0.0", mcpserver.WithToolCapabilities(true))
	assert.NoError(t, RegisterDocumentTools(s, newServerContext(t)))
}

func TestHandleGenerateDocument_MarkdownInSelectionOrder(t *testing.T) {
	sc := newServerContext(t)

	result := call(t, sc, map[string]interface{}{"threadIds": []interface{}{"t1", "t2"}})
	require.False(t, result.IsError, common.ResultText(result))

	md := common.ResultText(result)
	assert.True(t, strings.HasPrefix(md, "# Email Correspondence Evidence"))
	lease := strings.Index(md, "## Thread 1: Lease")
	deposit := strings.Index(md, "## Thread 2: Deposit")
	require.NotEqual(t, -1, lease)
	require.NotEqual(t, -1, deposit)
	assert.Less(t, lease, deposit)
	assert.Contains(t, md, "## Legal Disclaimer")
}

func TestHandleGenerateDocument_HTML(t *testing.T) {
	result := call(t, newServerContext(t), map[string]interface{}{"format": "html", "search": "refund"})
	require.False(t, result.IsError, common.ResultText(result))

	html := common.ResultText(result)
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "Deposit")
	assert.NotContains(t, html, "Thread 2")
}

func TestHandleGenerateDocument_PDF(t *testing.T) {
	pdf := &fakePDF{}
	sc := newServerContext(t, server.WithPDFRenderer(pdf))

	result := call(t, sc, map[string]interface{}{"format": "pdf"})
	require.False(t, result.IsError, common.ResultText(result))
	require.Len(t, result.Content, 2)

	res, ok := result.Content[1].(mcp.EmbeddedResource)
	require.True(t, ok)
	blob, ok := res.Resource.(mcp.BlobResourceContents)
	require.True(t, ok)
	assert.Equal(t, "application/pdf", blob.MIMEType)

	data, err := base64.StdEncoding.DecodeString(blob.Blob)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(data))
	assert.Contains(t, pdf.html, "Email Correspondence Evidence")
}

func TestHandleGenerateDocument_PDFWithoutRenderer(t *testing.T) {
	result := call(t, newServerContext(t), map[string]interface{}{"format": "pdf"})
	assert.True(t, result.IsError)
	assert.Contains(t, common.ResultText(result), "Failed to generate document")
}

func TestHandleGenerateDocument_WithAnalysis(t *testing.T) {
	sc := newServerContext(t, server.WithAnalyzer(analysis.NewAnalyzer(okCompleter{})))

	result := call(t, sc, map[string]interface{}{"analyze": true, "query": "deposit", "threadIds": "t2"})
	require.False(t, result.IsError, common.ResultText(result))

	md := common.ResultText(result)
	assert.Contains(t, md, "### Analysis")
	assert.Contains(t, md, "Landlord withheld the deposit.")
	assert.Contains(t, md, "refund requested")
}

func TestHandleGenerateDocument_Errors(t *testing.T) {
	sc := newServerContext(t)

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{name: "unknown format", args: map[string]interface{}{"format": "docx"}, want: "unsupported"},
		{name: "unknown threads", args: map[string]interface{}{"threadIds": "nope"}, want: "none of the requested threads exist"},
		{name: "analysis not configured", args: map[string]interface{}{"analyze": true}, want: "Analysis is not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := call(t, sc, tt.args)
			assert.True(t, result.IsError)
			assert.Contains(t, common.ResultText(result), tt.want)
		})
	}
}

func TestHandleGenerateDocument_OutputPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evidence.md")

	result := call(t, newServerContext(t), map[string]interface{}{"outputPath": path})
	require.False(t, result.IsError, common.ResultText(result))
	assert.Contains(t, common.ResultText(result), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total Threads: 2")
}
