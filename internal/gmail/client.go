package gmail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/courtmail/internal/google"
	"github.com/teemow/courtmail/internal/instrumentation"
	"github.com/teemow/courtmail/internal/logging"
	"github.com/teemow/courtmail/internal/mail"
	"github.com/teemow/courtmail/internal/thread"
)

const (
	// DefaultMaxResults caps a fetch when the caller passes no limit.
	DefaultMaxResults = 500

	// maxPageSize is the largest page the Gmail list endpoint returns.
	maxPageSize = 100

	// fetchConcurrency bounds parallel message loads.
	fetchConcurrency = 4
)

// messagesAPI is the subset of the Gmail Users.Messages service the client uses.
type messagesAPI interface {
	List(ctx context.Context, query, pageToken string, pageSize int64) (ids []string, next string, err error)
	Get(ctx context.Context, id string) (*gmail.Message, error)
	Attachment(ctx context.Context, messageID, attachmentID string) (*gmail.MessagePartBody, error)
}

type usersMessages struct {
	svc *gmail.UsersMessagesService
}

func (u usersMessages) List(ctx context.Context, query, pageToken string, pageSize int64) ([]string, string, error) {
	req := u.svc.List("me").Q(query).MaxResults(pageSize).Context(ctx)
	if pageToken != "" {
		req = req.PageToken(pageToken)
	}
	res, err := req.Do()
	if err != nil {
		return nil, "", err
	}
	ids := make([]string, 0, len(res.Messages))
	for _, m := range res.Messages {
		ids = append(ids, m.Id)
	}
	return ids, res.NextPageToken, nil
}

func (u usersMessages) Get(ctx context.Context, id string) (*gmail.Message, error) {
	return u.svc.Get("me", id).Format("full").Context(ctx).Do()
}

func (u usersMessages) Attachment(ctx context.Context, messageID, attachmentID string) (*gmail.MessagePartBody, error) {
	return u.svc.Attachments.Get("me", messageID, attachmentID).Context(ctx).Do()
}

// Client reads messages from one Gmail account.
type Client struct {
	api     messagesAPI
	account string
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics sets the metrics recorder for Gmail API calls.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClientForAccount creates a Gmail client using the stored OAuth token of account.
func NewClientForAccount(ctx context.Context, account string, opts ...Option) (*Client, error) {
	httpClient, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return newClient(usersMessages{svc: svc.Users.Messages}, account, opts...), nil
}

func newClient(api messagesAPI, account string, opts ...Option) *Client {
	c := &Client{
		api:     api,
		account: account,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// ListMessageIDs returns up to maxResults ids of messages matching query, newest first as
// ordered by Gmail.
func (c *Client) ListMessageIDs(ctx context.Context, query string, maxResults int) ([]string, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceGmail, instrumentation.OperationList)
	defer span.End()
	start := time.Now()

	var ids []string
	pageToken := ""
	for len(ids) < maxResults {
		pageSize := int64(min(maxResults-len(ids), maxPageSize))

		page, next, err := c.api.List(ctx, query, pageToken, pageSize)
		if err != nil {
			c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceGmail, instrumentation.OperationList, instrumentation.StatusError, time.Since(start))
			instrumentation.SetSpanError(span, err)
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}
		ids = append(ids, page...)

		if next == "" {
			break
		}
		pageToken = next
	}

	if len(ids) > maxResults {
		ids = ids[:maxResults]
	}

	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceGmail, instrumentation.OperationList, instrumentation.StatusSuccess, time.Since(start))
	instrumentation.SetSpanSuccess(span)
	return ids, nil
}

// GetRecord loads one message and maps it to a mail.Record.
func (c *Client) GetRecord(ctx context.Context, messageID string) (mail.Record, error) {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceGmail, instrumentation.OperationGet)
	defer span.End()
	start := time.Now()

	msg, err := c.api.Get(ctx, messageID)
	if err != nil {
		c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceGmail, instrumentation.OperationGet, instrumentation.StatusError, time.Since(start))
		instrumentation.SetSpanError(span, err)
		return mail.Record{}, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}

	rec, err := MessageToRecord(msg, func(attachmentID string) (string, error) {
		body, err := c.api.Attachment(ctx, messageID, attachmentID)
		if err != nil {
			return "", err
		}
		if body.Size > MaxAttachmentSize {
			c.logger.WarnContext(ctx, "attachment too large, keeping metadata only",
				logging.Operation("gmail.fetch"),
				slog.String("message_id", messageID),
				slog.Int64("size", body.Size))
			return "", nil
		}
		return body.Data, nil
	})
	if err != nil {
		c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceGmail, instrumentation.OperationGet, instrumentation.StatusError, time.Since(start))
		instrumentation.SetSpanError(span, err)
		return mail.Record{}, fmt.Errorf("failed to map message %s: %w", messageID, err)
	}

	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceGmail, instrumentation.OperationGet, instrumentation.StatusSuccess, time.Since(start))
	instrumentation.SetSpanSuccess(span)

	sender := senderAddress(rec.From)
	c.logger.DebugContext(ctx, "loaded gmail message",
		logging.Operation("gmail.fetch"),
		logging.Service(instrumentation.ServiceGmail),
		slog.String("message_id", messageID),
		logging.UserHash(sender),
		logging.Domain(sender),
		slog.Int("attachments", len(rec.Attachments)))

	return rec, nil
}

// FetchRecords lists messages matching query and loads each as a mail.Record.
// Records are returned in listing order. The first failing message aborts the fetch.
func (c *Client) FetchRecords(ctx context.Context, query string, maxResults int) ([]mail.Record, error) {
	ids, err := c.ListMessageIDs(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	records := make([]mail.Record, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			rec, err := c.GetRecord(gctx, id)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "fetched gmail messages",
		logging.Operation("gmail.fetch"),
		logging.Account(c.account),
		slog.Int("messages", len(records)))

	return records, nil
}

// senderAddress returns the first address in a From header, or "" when there is none.
func senderAddress(from string) string {
	if addrs := thread.ExtractAddresses(from); len(addrs) > 0 {
		return addrs[0]
	}
	return ""
}
