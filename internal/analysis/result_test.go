package analysis

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleResults() []Result {
	positive := SentimentPositive
	return []Result{
		{
			ThreadID:       "t1",
			Subject:        "Invoice",
			Summary:        "Payment was confirmed.",
			Topics:         []string{"invoice", "payment"},
			RelevanceScore: 80,
			SentimentScore: &positive,
			KeyInsights:    []string{"Paid on time"},
		},
		DegradedResult("t2", "Broken"),
	}
}

func TestWriteResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, sampleResults(), FormatJSON))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)

	assert.Equal(t, "t1", decoded[0]["threadId"])
	assert.Equal(t, float64(1), decoded[0]["sentimentScore"])
	_, hasSentiment := decoded[1]["sentimentScore"]
	assert.False(t, hasSentiment, "absent sentiment must be omitted")
	assert.Equal(t, []any{}, decoded[1]["topics"])
}

func TestWriteResults_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, sampleResults(), FormatYAML))

	var decoded []Result
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Payment was confirmed.", decoded[0].Summary)
	require.NotNil(t, decoded[0].SentimentScore)
	assert.Equal(t, 1, *decoded[0].SentimentScore)
	assert.Nil(t, decoded[1].SentimentScore)
}

func TestWriteResults_NilIsEmptyList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, nil, FormatJSON))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteResults_UnknownFormat(t *testing.T) {
	err := WriteResults(&bytes.Buffer{}, nil, "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestByThread(t *testing.T) {
	m := ByThread(sampleResults())

	require.Len(t, m, 2)
	assert.Equal(t, 80, m["t1"].RelevanceScore)
	assert.True(t, m["t2"].Degraded())
}
