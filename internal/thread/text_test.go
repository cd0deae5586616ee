package thread

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/teemow/courtmail/internal/mail"
)

func TestRenderText(t *testing.T) {
	th := Thread{
		ThreadID:     "t1",
		Subject:      "Deposit",
		Participants: []string{"a@x.com", "b@x.com"},
		StartDate:    time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2024, 3, 6, 9, 30, 0, 0, time.UTC),
		MessageCount: 3,
		Messages: []mail.Record{
			{From: "a@x.com", Date: "2024-03-05T10:00:00Z", Subject: "Deposit", Body: mail.Body{Plain: "\n  Where is it?  \n"}},
			{From: "b@x.com", Date: "2024-03-05T11:00:00Z", Subject: "Re: Deposit", Body: mail.Body{HTML: "<p>soon</p>"}},
			{From: "a@x.com", Date: "2024-03-06T09:30:00Z", Subject: "Re: Deposit"},
		},
	}

	want := "Subject: Deposit\n" +
		"Participants: a@x.com, b@x.com\n" +
		"Date Range: Mar 5, 2024 10:00 AM UTC to Mar 6, 2024 9:30 AM UTC\n" +
		"Message Count: 3\n" +
		"\n--- Message 1 ---\n" +
		"From: a@x.com\n" +
		"Date: 2024-03-05T10:00:00Z\n" +
		"Subject: Deposit\n" +
		"Body:\nWhere is it?\n" +
		"\n--- Message 2 ---\n" +
		"From: b@x.com\n" +
		"Date: 2024-03-05T11:00:00Z\n" +
		"Subject: Re: Deposit\n" +
		"Body:\n[HTML Content Available]\n" +
		"\n--- Message 3 ---\n" +
		"From: a@x.com\n" +
		"Date: 2024-03-06T09:30:00Z\n" +
		"Subject: Re: Deposit\n" +
		"Body:\n[No Content]\n"

	assert.Equal(t, want, RenderText(th))
}

func TestRenderText_IsDeterministic(t *testing.T) {
	th := GroupByThread([]mail.Record{
		{ID: "1", ThreadID: "t", From: "a@x.com", To: "b@x.com", Date: "2024-01-01T00:00:00Z"},
	})[0]
	assert.Equal(t, RenderText(th), RenderText(th))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Unknown date", FormatDate(time.Time{}, ""))
	assert.Equal(t, "garbled", FormatDate(time.Time{}, "garbled"))
	assert.Equal(t, "Jan 2, 2024 3:04 PM UTC", FormatDate(time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC), "ignored"))
}
