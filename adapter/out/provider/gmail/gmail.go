// Package gmail fetches messages from the Gmail API for ingestion.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/port/out"
)

// Source implements out.EmailSource for Gmail.
type Source struct {
	service *gmail.Service
	email   string
}

// NewSource creates a Gmail source from an OAuth token.
func NewSource(ctx context.Context, token *oauth2.Token, config *oauth2.Config) (*Source, error) {
	client := config.Client(ctx, token)
	service, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	profile, err := service.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	return &Source{
		service: service,
		email:   profile.EmailAddress,
	}, nil
}

// Email returns the mailbox address this source reads from.
func (s *Source) Email() string {
	return s.email
}

// FetchSince lists messages received after the given time, up to max.
// Message bodies are fetched with bounded concurrency to stay under the
// API rate limits.
func (s *Source) FetchSince(ctx context.Context, since time.Time, max int) ([]*out.IncomingEmail, error) {
	req := s.service.Users.Messages.List("me").
		Q(fmt.Sprintf("after:%d", since.Unix())).
		MaxResults(int64(max))

	resp, err := req.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	if len(resp.Messages) == 0 {
		return nil, nil
	}

	const maxConcurrency = 5
	type result struct {
		index int
		msg   *out.IncomingEmail
		err   error
	}

	results := make(chan result, len(resp.Messages))
	semaphore := make(chan struct{}, maxConcurrency)

	for i, m := range resp.Messages {
		go func(idx int, msgID string) {
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			msg, err := s.fetchMessage(ctx, msgID)
			results <- result{index: idx, msg: msg, err: err}
		}(i, m.Id)
	}

	ordered := make([]*out.IncomingEmail, len(resp.Messages))
	for range resp.Messages {
		r := <-results
		if r.err == nil && r.msg != nil {
			ordered[r.index] = r.msg
		}
	}

	// Failed fetches are dropped; the next sweep retries them.
	emails := make([]*out.IncomingEmail, 0, len(ordered))
	for _, msg := range ordered {
		if msg != nil {
			emails = append(emails, msg)
		}
	}

	return emails, nil
}

func (s *Source) fetchMessage(ctx context.Context, messageID string) (*out.IncomingEmail, error) {
	msg, err := s.service.Users.Messages.Get("me", messageID).
		Format("full").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return parseMessage(msg), nil
}

func parseMessage(msg *gmail.Message) *out.IncomingEmail {
	email := &out.IncomingEmail{
		ProviderID: msg.Id,
		ThreadID:   msg.ThreadId,
		Snippet:    msg.Snippet,
		ReceivedAt: time.UnixMilli(msg.InternalDate).UTC(),
	}

	if msg.Payload == nil {
		return email
	}

	for _, header := range msg.Payload.Headers {
		switch header.Name {
		case "From":
			email.FromName, email.FromEmail = parseAddress(header.Value)
		case "To":
			email.ToEmails = parseAddressList(header.Value)
		case "Subject":
			email.Subject = header.Value
		}
	}

	email.TextBody, email.HTMLBody = parseBody(msg.Payload)
	email.HasAttach, email.PDFCount = scanAttachments(msg.Payload)

	return email
}

// parseAddress splits "Name <addr>" into its parts.
func parseAddress(value string) (name, addr string) {
	value = strings.TrimSpace(value)

	open := strings.LastIndex(value, "<")
	end := strings.LastIndex(value, ">")
	if open >= 0 && end > open {
		name = strings.Trim(strings.TrimSpace(value[:open]), `"`)
		addr = strings.TrimSpace(value[open+1 : end])
		return name, addr
	}

	return "", value
}

func parseAddressList(value string) []string {
	parts := strings.Split(value, ",")
	addrs := make([]string, 0, len(parts))
	for _, part := range parts {
		if _, addr := parseAddress(part); addr != "" {
			addrs = append(addrs, addr)
		}
	}
	return addrs
}

// parseBody walks the MIME tree collecting the first text and html parts.
func parseBody(payload *gmail.MessagePart) (text, html string) {
	if payload == nil {
		return "", ""
	}

	if payload.Body != nil && payload.Body.Data != "" {
		decoded := decodePart(payload.Body.Data)
		switch payload.MimeType {
		case "text/plain":
			return decoded, ""
		case "text/html":
			return "", decoded
		}
	}

	for _, part := range payload.Parts {
		partText, partHTML := parseBody(part)
		if text == "" {
			text = partText
		}
		if html == "" {
			html = partHTML
		}
		if text != "" && html != "" {
			break
		}
	}

	return text, html
}

func scanAttachments(payload *gmail.MessagePart) (hasAttach bool, pdfCount int) {
	if payload == nil {
		return false, 0
	}

	for _, part := range payload.Parts {
		if part.Filename != "" {
			hasAttach = true
			if part.MimeType == "application/pdf" ||
				strings.HasSuffix(strings.ToLower(part.Filename), ".pdf") {
				pdfCount++
			}
		}
		childHas, childPDFs := scanAttachments(part)
		hasAttach = hasAttach || childHas
		pdfCount += childPDFs
	}

	return hasAttach, pdfCount
}

func decodePart(data string) string {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		// Some clients omit padding.
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return string(decoded)
}
