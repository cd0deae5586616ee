package thread

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/teemow/courtmail/internal/mail"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time {
	return &t
}

func span(id string, start, end int, count int) Thread {
	return Thread{
		ThreadID:     id,
		StartDate:    day(start),
		EndDate:      day(end),
		MessageCount: count,
		Participants: []string{"alice@example.com", "bob@corp.example.org"},
	}
}

func TestFilter_QueryIsConjunctiveWithinOneMessage(t *testing.T) {
	th := Thread{
		ThreadID:     "t",
		MessageCount: 1,
		Messages: []mail.Record{
			{Subject: "quarterly report", From: "john@x.com"},
		},
	}

	assert.Len(t, Filter([]Thread{th}, Criteria{Query: "report john"}), 1)
	assert.Empty(t, Filter([]Thread{th}, Criteria{Query: "report jane"}))
	assert.Len(t, Filter([]Thread{th}, Criteria{Query: "  REPORT   John  "}), 1, "terms are trimmed and lower-cased")
}

func TestFilter_QueryTermsMustShareAMessage(t *testing.T) {
	th := Thread{
		ThreadID:     "t",
		MessageCount: 2,
		Messages: []mail.Record{
			{Subject: "invoice", Body: mail.Body{Plain: "first"}},
			{Subject: "payment", Body: mail.Body{Plain: "second"}},
		},
	}

	assert.Empty(t, Filter([]Thread{th}, Criteria{Query: "invoice payment"}))
	assert.Len(t, Filter([]Thread{th}, Criteria{Query: "payment second"}), 1)
}

func TestFilter_QueryIgnoresHTMLBody(t *testing.T) {
	th := Thread{
		MessageCount: 1,
		Messages:     []mail.Record{{Body: mail.Body{HTML: "<b>secret</b>"}}},
	}
	assert.Empty(t, Filter([]Thread{th}, Criteria{Query: "secret"}))
}

func TestFilter_BlankQueryMatchesEverything(t *testing.T) {
	threads := []Thread{span("a", 1, 2, 1), span("b", 3, 4, 1)}
	assert.Len(t, Filter(threads, Criteria{Query: "   \t "}), 2)
}

func TestFilter_MinMessagesBoundary(t *testing.T) {
	threads := []Thread{span("exact", 1, 2, 3), span("below", 1, 2, 2)}

	got := Filter(threads, Criteria{MinMessages: 3})
	assert.Equal(t, []string{"exact"}, threadIDs(got))
}

func TestFilter_DateRange(t *testing.T) {
	threads := []Thread{
		span("before", 1, 4, 1),
		span("overlap-start", 3, 6, 1),
		span("inside", 6, 7, 1),
		span("overlap-end", 9, 12, 1),
		span("after", 11, 12, 1),
	}

	tests := []struct {
		name string
		dr   DateRange
		want []string
	}{
		{
			name: "from only",
			dr:   DateRange{From: ptr(day(5))},
			want: []string{"overlap-start", "inside", "overlap-end", "after"},
		},
		{
			name: "to only",
			dr:   DateRange{To: ptr(day(10))},
			want: []string{"before", "overlap-start", "inside", "overlap-end"},
		},
		{
			name: "window",
			dr:   DateRange{From: ptr(day(5)), To: ptr(day(10))},
			want: []string{"overlap-start", "inside", "overlap-end"},
		},
		{
			name: "bounds are inclusive",
			dr:   DateRange{From: ptr(day(4)), To: ptr(day(4))},
			want: []string{"before", "overlap-start"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, threadIDs(Filter(threads, Criteria{DateRange: tt.dr})))
		})
	}
}

func TestFilter_Participants(t *testing.T) {
	threads := []Thread{
		span("a", 1, 1, 1),
		{ThreadID: "b", MessageCount: 1, Participants: []string{"carol@other.net"}},
	}

	assert.Equal(t, []string{"a"}, threadIDs(Filter(threads, Criteria{Participants: []string{"CORP.EXAMPLE"}})))
	assert.Equal(t, []string{"a", "b"}, threadIDs(Filter(threads, Criteria{Participants: []string{"nobody", "carol", "alice"}})))
	assert.Len(t, Filter(threads, Criteria{Participants: []string{"", "  "}}), 2, "blank participants do not filter")
	assert.Empty(t, Filter(threads, Criteria{Participants: []string{"dave"}}))
}

func TestFilter_PreservesInputOrder(t *testing.T) {
	threads := []Thread{span("z", 1, 1, 1), span("a", 5, 5, 1), span("m", 3, 3, 1)}
	assert.Equal(t, []string{"z", "a", "m"}, threadIDs(Filter(threads, Criteria{})))
}

func TestFilter_NoMatchReturnsEmpty(t *testing.T) {
	got := Filter([]Thread{span("a", 1, 1, 1)}, Criteria{MinMessages: 10})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
