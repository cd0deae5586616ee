package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/courtmail/internal/thread"
)

func TestWriteThreadsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeThreadsJSON(&buf, testThreads()))

	var got []threadSummary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "repair", got[0].ThreadID)
	assert.Equal(t, 2, got[1].MessageCount)
	assert.NotContains(t, buf.String(), "The lease ends in March")
}

func TestWriteThreadsJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeThreadsJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestRenderThreadTable(t *testing.T) {
	var buf bytes.Buffer
	renderThreadTable(&buf, testThreads())

	out := buf.String()
	assert.Contains(t, out, "Found 2 thread(s), 3 message(s)")
	assert.Contains(t, out, "lease")
	assert.Contains(t, out, "Broken heater")
	assert.Contains(t, out, "2024-02-10 08:00")
}

func TestRenderThreadTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderThreadTable(&buf, nil)
	assert.Contains(t, buf.String(), "No threads found")
}

func TestRenderThreadTable_TruncatesSubject(t *testing.T) {
	long := strings.Repeat("x", maxSubjectWidth+10)
	var buf bytes.Buffer
	renderThreadTable(&buf, []thread.Thread{{ThreadID: "t1", Subject: long, MessageCount: 1}})

	out := buf.String()
	assert.Contains(t, out, strings.Repeat("x", maxSubjectWidth-3)+"...")
	assert.NotContains(t, out, long)
	assert.Contains(t, out, "-")
}

func TestShortDate(t *testing.T) {
	assert.Equal(t, "-", shortDate(time.Time{}))
	assert.Equal(t, "2024-03-05 09:30", shortDate(time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)))
}
