package gmail

import (
	"encoding/base64"
	"strings"
	"time"

	"google.golang.org/api/gmail/v1"

	"github.com/casefile-labs/casefile/internal/core/domain"
)

// parseMessage converts a Gmail API message to a domain mail message.
// The plain text body is preferred; for multipart messages the parts are
// walked depth-first until a text/plain leaf is found.
func parseMessage(msg *gmail.Message) domain.MailMessage {
	out := domain.MailMessage{
		ExternalID: msg.Id,
		ThreadID:   msg.ThreadId,
		Snippet:    msg.Snippet,
		Labels:     msg.LabelIds,
	}

	if msg.InternalDate > 0 {
		out.Date = time.UnixMilli(msg.InternalDate).UTC()
	}

	if msg.Payload == nil {
		return out
	}

	for _, header := range msg.Payload.Headers {
		switch strings.ToLower(header.Name) {
		case "subject":
			out.Subject = header.Value
		case "from":
			out.Sender = header.Value
		case "to":
			out.Recipient = header.Value
		case "date":
			// InternalDate is authoritative; the header is a fallback.
			if out.Date.IsZero() {
				if t, err := time.Parse(time.RFC1123Z, header.Value); err == nil {
					out.Date = t.UTC()
				}
			}
		}
	}

	out.Body = extractBody(msg.Payload)
	if out.Body == "" {
		out.Body = msg.Snippet
	}
	return out
}

// extractBody walks a message part tree for the first text/plain body.
func extractBody(part *gmail.MessagePart) string {
	if part == nil {
		return ""
	}

	if strings.HasPrefix(part.MimeType, "text/plain") && part.Body != nil && part.Body.Data != "" {
		return decodeBody(part.Body.Data)
	}

	for _, child := range part.Parts {
		if body := extractBody(child); body != "" {
			return body
		}
	}

	// A non-multipart message stores the body at the top level whatever
	// its mime type is.
	if len(part.Parts) == 0 && part.Body != nil && part.Body.Data != "" {
		return decodeBody(part.Body.Data)
	}
	return ""
}

// decodeBody decodes the base64url body data the API returns.
func decodeBody(data string) string {
	decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return ""
	}
	return string(decoded)
}
