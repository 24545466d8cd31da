package inbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	// Query matches recent mail that commonly carries application updates
	Query      = "subject:(interview OR offer OR rejection OR application) newer_than:30d"
	MaxResults = 15
)

// Email is the metadata the analyzer needs from one message
type Email struct {
	ID      string
	From    string
	Subject string
	Date    string
	Snippet string
}

// Fetcher returns recent candidate emails
type Fetcher interface {
	Fetch(ctx context.Context) ([]Email, error)
}

// GmailFetcher reads message metadata through the Gmail API
type GmailFetcher struct {
	svc     *gmail.Service
	retries int
	backoff time.Duration
	log     *slog.Logger
}

// NewGmailFetcher upgrades an authorized HTTP client to a Gmail service
func NewGmailFetcher(ctx context.Context, client *http.Client, opts ...option.ClientOption) (*GmailFetcher, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return &GmailFetcher{svc: svc, retries: 3, backoff: time.Second, log: slog.Default()}, nil
}

func (g *GmailFetcher) Fetch(ctx context.Context) ([]Email, error) {
	var resp *gmail.ListMessagesResponse
	err := retry(ctx, g.log, g.retries, g.backoff, func() error {
		var e error
		resp, e = g.svc.Users.Messages.List("me").Q(Query).MaxResults(MaxResults).Context(ctx).Do()
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	emails := make([]Email, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		var msg *gmail.Message
		err := retry(ctx, g.log, g.retries, g.backoff, func() error {
			var e error
			msg, e = g.svc.Users.Messages.Get("me", m.Id).
				Format("metadata").
				MetadataHeaders("Subject", "From", "Date").
				Context(ctx).Do()
			return e
		})
		if err != nil {
			return nil, fmt.Errorf("get message %s: %w", m.Id, err)
		}
		emails = append(emails, toEmail(msg))
	}
	return emails, nil
}

func toEmail(msg *gmail.Message) Email {
	e := Email{ID: msg.Id, Snippet: msg.Snippet}
	if msg.Payload == nil {
		return e
	}
	for _, h := range msg.Payload.Headers {
		switch h.Name {
		case "Subject":
			e.Subject = h.Value
		case "From":
			e.From = h.Value
		case "Date":
			e.Date = h.Value
		}
	}
	return e
}

// retry executes f with exponential backoff. Client errors other than rate
// limiting fail immediately.
func retry(ctx context.Context, log *slog.Logger, attempts int, sleep time.Duration, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		if permanent(err) || i == attempts-1 {
			break
		}

		log.Warn("gmail API error, retrying", "error", err, "backoff", sleep)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
		sleep *= 2
	}
	return err
}

func permanent(err error) bool {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code >= 400 && gErr.Code < 500 && gErr.Code != http.StatusTooManyRequests
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
