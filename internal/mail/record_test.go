package mail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{
			name:   "RFC 3339",
			input:  "2024-03-05T10:00:00Z",
			want:   time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "RFC 3339 with fractional seconds",
			input:  "2024-03-05T10:00:00.250Z",
			want:   time.Date(2024, 3, 5, 10, 0, 0, 250000000, time.UTC),
			wantOK: true,
		},
		{
			name:   "RFC 2822 single digit day",
			input:  "Tue, 5 Mar 2024 10:00:00 +0000",
			want:   time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "RFC 2822 with zone comment",
			input:  "Tue, 5 Mar 2024 10:00:00 +0000 (UTC)",
			want:   time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "date only",
			input:  "2024-03-05",
			want:   time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "empty",
			input:  "",
			wantOK: false,
		},
		{
			name:   "garbage",
			input:  "last tuesday-ish",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			} else {
				assert.True(t, got.IsZero())
			}
		})
	}
}

func TestRecord_BodyPredicates(t *testing.T) {
	r := Record{Body: Body{Plain: "  \n", HTML: "<p>hi</p>"}}
	assert.False(t, r.HasPlain())
	assert.True(t, r.HasHTML())

	r = Record{Body: Body{Plain: "hello"}}
	assert.True(t, r.HasPlain())
	assert.False(t, r.HasHTML())
}

func TestRecord_TimeFallsBackToZero(t *testing.T) {
	assert.True(t, Record{Date: "not a date"}.Time().IsZero())
	assert.False(t, Record{Date: "2024-01-01T00:00:00Z"}.Time().IsZero())
}
