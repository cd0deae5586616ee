package thread_tools

import (
	"context"
	"encoding/json"
	"errors"
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

// scriptedCompleter scores a thread by the subject it finds in the prompt.
type scriptedCompleter struct {
	fail bool
}

func (c scriptedCompleter) Complete(_ context.Context, _, userPrompt string) (string, error) {
	if c.fail {
		return "", errors.New("provider unavailable")
	}
	score := "10"
	if strings.Contains(userPrompt, "Deposit") {
		score = "90"
	}
	return "SUMMARY: ok\nTOPICS: a, b\nRELEVANCE_SCORE: " + score + "\nSENTIMENT: neutral\nKEY_INSIGHTS:\n- one", nil
}

func records() []mail.Record {
	return []mail.Record{
		{ID: "m1", ThreadID: "t1", Subject: "Lease", From: "Tenant <tenant@home.com>", To: "landlord@rent.com", Date: "2024-01-01T10:00:00Z", Body: mail.Body{Plain: "signed lease attached"}},
		{ID: "m2", ThreadID: "t1", Subject: "Re: Lease", From: "landlord@rent.com", To: "tenant@home.com", Date: "2024-01-02T10:00:00Z", Body: mail.Body{Plain: "received"}},
		{ID: "m3", ThreadID: "t2", Subject: "Deposit", From: "tenant@home.com", To: "landlord@rent.com", Date: "2024-03-01T10:00:00Z", Body: mail.Body{Plain: "please refund my deposit"}},
	}
}

func newServerContext(t *testing.T, opts ...server.Option) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), records(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func request(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestRegisterThreadTools(t *testing.T) {
	sc := newServerContext(t)
	s := mcpserver.NewMCPServer("test-server", "1.0.0", mcpserver.WithToolCapabilities(true))
	assert.NoError(t, RegisterThreadTools(s, sc))
}

func TestHandleListThreads(t *testing.T) {
	sc := newServerContext(t)

	tests := []struct {
		name    string
		args    map[string]interface{}
		wantIDs []string
		total   int
	}{
		{name: "all threads newest first", args: map[string]interface{}{}, wantIDs: []string{"t2", "t1"}, total: 2},
		{name: "query", args: map[string]interface{}{"query": "refund deposit"}, wantIDs: []string{"t2"}, total: 1},
		{name: "min messages", args: map[string]interface{}{"minMessages": float64(2)}, wantIDs: []string{"t1"}, total: 1},
		{name: "limit keeps total", args: map[string]interface{}{"limit": float64(1)}, wantIDs: []string{"t2"}, total: 2},
		{name: "no match", args: map[string]interface{}{"query": "eviction"}, wantIDs: []string{}, total: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleListThreads(context.Background(), request("threads_list", tt.args), sc)
			require.NoError(t, err)
			require.False(t, result.IsError, common.ResultText(result))

			var got ListResult
			require.NoError(t, json.Unmarshal([]byte(common.ResultText(result)), &got))
			assert.Equal(t, tt.total, got.Total)

			ids := []string{}
			for _, s := range got.Threads {
				ids = append(ids, s.ThreadID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestHandleListThreads_BadDate(t *testing.T) {
	sc := newServerContext(t)
	result, err := handleListThreads(context.Background(), request("threads_list", map[string]interface{}{"from": "soon"}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleThreadText(t *testing.T) {
	sc := newServerContext(t)

	result, err := handleThreadText(context.Background(), request("thread_text", map[string]interface{}{"threadId": "t1"}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)
	text := common.ResultText(result)
	assert.Contains(t, text, "Lease")
	assert.Contains(t, text, "signed lease attached")

	missing, err := handleThreadText(context.Background(), request("thread_text", map[string]interface{}{"threadId": "nope"}), sc)
	require.NoError(t, err)
	assert.True(t, missing.IsError)
	assert.Contains(t, common.ResultText(missing), "Thread not found")

	empty, err := handleThreadText(context.Background(), request("thread_text", map[string]interface{}{}), sc)
	require.NoError(t, err)
	assert.True(t, empty.IsError)
}

func TestHandleAnalyzeThreads(t *testing.T) {
	sc := newServerContext(t, server.WithAnalyzer(analysis.NewAnalyzer(scriptedCompleter{})))

	result, err := handleAnalyzeThreads(context.Background(), request("threads_analyze", map[string]interface{}{
		"query":       "deposit dispute",
		"concurrency": float64(2),
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError, common.ResultText(result))

	var got []analysis.Result
	require.NoError(t, json.Unmarshal([]byte(common.ResultText(result)), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "t2", got[0].ThreadID)
	assert.Equal(t, 90, got[0].RelevanceScore)
	assert.Equal(t, []string{"a", "b"}, got[0].Topics)
}

func TestHandleAnalyzeThreads_DegradesPerThread(t *testing.T) {
	sc := newServerContext(t, server.WithAnalyzer(analysis.NewAnalyzer(scriptedCompleter{fail: true})))

	result, err := handleAnalyzeThreads(context.Background(), request("threads_analyze", map[string]interface{}{
		"threadIds": "t1",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var got []analysis.Result
	require.NoError(t, json.Unmarshal([]byte(common.ResultText(result)), &got))
	require.Len(t, got, 1)
	assert.Equal(t, analysis.DegradedSummary, got[0].Summary)
	assert.Equal(t, "Lease", got[0].Subject)
}

func TestHandleAnalyzeThreads_NotConfigured(t *testing.T) {
	sc := newServerContext(t)
	result, err := handleAnalyzeThreads(context.Background(), request("threads_analyze", map[string]interface{}{}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, common.ResultText(result), "Analysis is not configured")
}
