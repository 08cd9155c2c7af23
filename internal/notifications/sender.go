package notifications

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/angelmondragon/babydeals-backend/pkg/config"
)

// SendResult is the provider's acceptance of a message.
type SendResult struct {
	StatusCode int
	MessageID  string
}

// Sender delivers rendered emails.
type Sender interface {
	Send(ctx context.Context, email *Email) (*SendResult, error)
}

// PermanentError marks provider rejections that will fail on every retry.
type PermanentError struct {
	Err error
}

func (e PermanentError) Error() string { return e.Err.Error() }
func (e PermanentError) Unwrap() error { return e.Err }

// IsPermanent reports whether err should park the event instead of retrying.
func IsPermanent(err error) bool {
	var perm PermanentError
	return errors.As(err, &perm) || errors.Is(err, ErrUnsupportedEvent)
}

type sendgridClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSender sends through the SendGrid v3 mail API.
type SendGridSender struct {
	client   sendgridClient
	fromAddr string
	fromName string
}

func NewSendGridSender(cfg config.SendgridConfig) (*SendGridSender, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("sendgrid api key required")
	}
	if cfg.DefaultFrom == "" {
		return nil, errors.New("sendgrid from address required")
	}
	name := cfg.FromName
	if name == "" {
		name = SenderName
	}
	return &SendGridSender{
		client:   sendgrid.NewSendClient(cfg.APIKey),
		fromAddr: cfg.DefaultFrom,
		fromName: name,
	}, nil
}

func (s *SendGridSender) Send(ctx context.Context, email *Email) (*SendResult, error) {
	if email == nil {
		return nil, PermanentError{Err: errors.New("email is nil")}
	}
	from := mail.NewEmail(s.fromName, s.fromAddr)
	to := mail.NewEmail(email.ToName, email.To)
	msg := mail.NewSingleEmail(from, email.Subject, to, email.Text, email.HTML)
	msg.SetHeader("X-Babydeals-Template", email.Template)

	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("sendgrid send: %w", err)
	}
	result := &SendResult{StatusCode: resp.StatusCode, MessageID: firstHeader(resp.Headers, "X-Message-Id")}
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return result, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return result, fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
	default:
		return result, PermanentError{Err: fmt.Errorf("sendgrid rejected message with status %d: %s", resp.StatusCode, resp.Body)}
	}
}

func firstHeader(headers map[string][]string, key string) string {
	if values := http.Header(headers).Values(key); len(values) > 0 {
		return values[0]
	}
	return ""
}
