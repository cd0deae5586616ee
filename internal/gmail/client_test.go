package gmail

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmail "google.golang.org/api/gmail/v1"
)

// fakeMessages serves pages of ids and messages from memory.
type fakeMessages struct {
	ids      []string
	pageSize int
	listErr  error
	getErr   map[string]error
	attach   map[string]*gmail.MessagePartBody

	mu        sync.Mutex
	listCalls []int64
}

func (f *fakeMessages) List(_ context.Context, _ string, pageToken string, pageSize int64) ([]string, string, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, pageSize)
	f.mu.Unlock()

	if f.listErr != nil {
		return nil, "", f.listErr
	}

	start := 0
	if pageToken != "" {
		fmt.Sscanf(pageToken, "%d", &start)
	}
	size := min(int(pageSize), f.pageSize)
	end := min(start+size, len(f.ids))

	next := ""
	if end < len(f.ids) {
		next = fmt.Sprintf("%d", end)
	}
	return f.ids[start:end], next, nil
}

func (f *fakeMessages) Get(_ context.Context, id string) (*gmail.Message, error) {
	if err := f.getErr[id]; err != nil {
		return nil, err
	}
	return &gmail.Message{
		Id:       id,
		ThreadId: "thread-" + id,
		Payload: &gmail.MessagePart{
			MimeType: "multipart/mixed",
			Headers:  []*gmail.MessagePartHeader{{Name: "Subject", Value: "subject " + id}},
			Parts: []*gmail.MessagePart{
				{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: b64url("body " + id)}},
				{MimeType: "image/png", Filename: id + ".png", Body: &gmail.MessagePartBody{AttachmentId: "a-" + id}},
			},
		},
	}, nil
}

func (f *fakeMessages) Attachment(_ context.Context, _ string, attachmentID string) (*gmail.MessagePartBody, error) {
	if body, ok := f.attach[attachmentID]; ok {
		return body, nil
	}
	return &gmail.MessagePartBody{Data: b64url("png"), Size: 3}, nil
}

func idsN(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("m%03d", i)
	}
	return ids
}

func TestListMessageIDs_Pagination(t *testing.T) {
	api := &fakeMessages{ids: idsN(250), pageSize: 100}
	c := newClient(api, "work")

	ids, err := c.ListMessageIDs(context.Background(), "in:inbox", 230)

	require.NoError(t, err)
	assert.Len(t, ids, 230)
	assert.Equal(t, "m000", ids[0])
	assert.Equal(t, "m229", ids[229])
	assert.Equal(t, []int64{100, 100, 30}, api.listCalls)
}

func TestListMessageIDs_FewerThanMax(t *testing.T) {
	api := &fakeMessages{ids: idsN(7), pageSize: 5}
	c := newClient(api, "work")

	ids, err := c.ListMessageIDs(context.Background(), "", 0)

	require.NoError(t, err)
	assert.Len(t, ids, 7)
}

func TestListMessageIDs_Error(t *testing.T) {
	c := newClient(&fakeMessages{listErr: errors.New("401 unauthorized")}, "work")

	_, err := c.ListMessageIDs(context.Background(), "", 10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401 unauthorized")
}

func TestFetchRecords(t *testing.T) {
	api := &fakeMessages{ids: idsN(12), pageSize: 5}
	c := newClient(api, "work")

	records, err := c.FetchRecords(context.Background(), "label:evidence", 10)

	require.NoError(t, err)
	require.Len(t, records, 10)
	for i, r := range records {
		id := fmt.Sprintf("m%03d", i)
		assert.Equal(t, id, r.ID, "records keep listing order")
		assert.Equal(t, "thread-"+id, r.ThreadID)
		assert.Equal(t, "body "+id, r.Body.Plain)
		require.Len(t, r.Attachments, 1)
		assert.Equal(t, id+".png", r.Attachments[0].Filename)
		assert.Equal(t, "cG5n", r.Attachments[0].Data)
	}
}

func TestFetchRecords_OversizedAttachmentKeepsMetadata(t *testing.T) {
	api := &fakeMessages{
		ids:      []string{"big"},
		pageSize: 10,
		attach: map[string]*gmail.MessagePartBody{
			"a-big": {Data: b64url("huge"), Size: MaxAttachmentSize + 1},
		},
	}
	c := newClient(api, "work")

	records, err := c.FetchRecords(context.Background(), "", 1)

	require.NoError(t, err)
	require.Len(t, records[0].Attachments, 1)
	assert.Equal(t, "big.png", records[0].Attachments[0].Filename)
	assert.Empty(t, records[0].Attachments[0].Data)
}

func TestFetchRecords_MessageError(t *testing.T) {
	api := &fakeMessages{
		ids:      idsN(3),
		pageSize: 10,
		getErr:   map[string]error{"m001": errors.New("backend error")},
	}
	c := newClient(api, "work")

	_, err := c.FetchRecords(context.Background(), "", 3)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "m001")
}

func TestClientAccount(t *testing.T) {
	assert.Equal(t, "personal", newClient(&fakeMessages{}, "personal").Account())
}

func TestSenderAddress(t *testing.T) {
	assert.Equal(t, "alice@example.com", senderAddress(`"Alice" <alice@example.com>`))
	assert.Equal(t, "a@x.com", senderAddress("a@x.com, b@x.com"))
	assert.Empty(t, senderAddress("Mailer Daemon"))
}
