package gmail

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/teemow/courtmail/internal/mail"
)

// MaxAttachmentSize is the largest attachment payload kept in a record (25MB).
// Larger attachments keep their filename and type only.
const MaxAttachmentSize = 25 * 1024 * 1024

// AttachmentFetcher loads the base64url payload of an attachment stored out of line.
type AttachmentFetcher func(attachmentID string) (string, error)

// MessageToRecord maps a message fetched in full format to a mail.Record.
//
// The first text/plain and text/html parts without a filename become the body. Parts with a
// filename become attachments in discovery order, with data re-encoded as standard base64.
// fetch may be nil, in which case out-of-line attachments carry no data.
func MessageToRecord(msg *gmail.Message, fetch AttachmentFetcher) (mail.Record, error) {
	rec := mail.Record{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
	}

	if msg.Payload != nil {
		rec.From = header(msg.Payload.Headers, "From")
		rec.To = header(msg.Payload.Headers, "To")
		rec.Subject = header(msg.Payload.Headers, "Subject")
		rec.Date = header(msg.Payload.Headers, "Date")
	}
	if rec.Date == "" && msg.InternalDate > 0 {
		rec.Date = time.UnixMilli(msg.InternalDate).UTC().Format(time.RFC3339)
	}

	var walkErr error
	walkParts(msg.Payload, func(part *gmail.MessagePart) {
		if walkErr != nil {
			return
		}

		if part.Filename != "" {
			att, err := attachment(part, fetch)
			if err != nil {
				walkErr = err
				return
			}
			rec.Attachments = append(rec.Attachments, att)
			return
		}

		if part.Body == nil || part.Body.Data == "" {
			return
		}
		switch {
		case part.MimeType == "text/plain" && rec.Body.Plain == "":
			text, err := decodeBase64(part.Body.Data)
			if err != nil {
				walkErr = fmt.Errorf("failed to decode text/plain body: %w", err)
				return
			}
			rec.Body.Plain = string(text)
		case part.MimeType == "text/html" && rec.Body.HTML == "":
			text, err := decodeBase64(part.Body.Data)
			if err != nil {
				walkErr = fmt.Errorf("failed to decode text/html body: %w", err)
				return
			}
			rec.Body.HTML = string(text)
		}
	})
	if walkErr != nil {
		return mail.Record{}, walkErr
	}

	return rec, nil
}

func attachment(part *gmail.MessagePart, fetch AttachmentFetcher) (mail.Attachment, error) {
	att := mail.Attachment{
		Filename: part.Filename,
		MimeType: part.MimeType,
	}
	if part.Body == nil {
		return att, nil
	}

	raw := part.Body.Data
	if raw == "" && part.Body.AttachmentId != "" && fetch != nil {
		var err error
		raw, err = fetch(part.Body.AttachmentId)
		if err != nil {
			return mail.Attachment{}, fmt.Errorf("failed to get attachment %s: %w", part.Filename, err)
		}
	}
	if raw == "" {
		return att, nil
	}

	data, err := decodeBase64(raw)
	if err != nil {
		return mail.Attachment{}, fmt.Errorf("failed to decode attachment %s: %w", part.Filename, err)
	}
	att.Data = base64.StdEncoding.EncodeToString(data)
	return att, nil
}

// decodeBase64 decodes Gmail's base64url payloads, padded or not, falling back to standard base64.
func decodeBase64(s string) ([]byte, error) {
	for _, enc := range []*base64.Encoding{base64.URLEncoding, base64.RawURLEncoding, base64.StdEncoding} {
		if data, err := enc.DecodeString(s); err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("invalid base64 payload")
}

func header(headers []*gmail.MessagePartHeader, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// walkParts visits part and all nested parts depth first.
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}

	fn(part)

	for _, subpart := range part.Parts {
		walkParts(subpart, fn)
	}
}
