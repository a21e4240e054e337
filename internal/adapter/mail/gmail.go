package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"strings"

	"careers/internal/domain"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailMailer sends mail through the Gmail API as the From account.
type GmailMailer struct {
	svc  *gmail.Service
	from string
}

// NewGmailMailer builds a mailer from a service-account key with
// domain-wide delegation. The key impersonates from.
func NewGmailMailer(ctx context.Context, credentialsFile, from string) (*GmailMailer, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read gmail credentials: %w", err)
	}
	cfg, err := google.JWTConfigFromJSON(b, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("parse gmail credentials: %w", err)
	}
	cfg.Subject = from

	return NewGmailMailerWithOptions(ctx, from, option.WithHTTPClient(cfg.Client(ctx)))
}

// NewGmailMailerWithOptions builds a mailer from explicit client options.
func NewGmailMailerWithOptions(ctx context.Context, from string, opts ...option.ClientOption) (*GmailMailer, error) {
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gmail service: %w", err)
	}
	return &GmailMailer{svc: svc, from: from}, nil
}

// Send delivers msg and returns once Gmail has accepted it.
func (m *GmailMailer) Send(ctx context.Context, msg domain.Message) error {
	raw := base64.URLEncoding.EncodeToString(buildMIME(m.from, msg))
	if _, err := m.svc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gmail send: %w", err)
	}
	return nil
}

// buildMIME renders a plain-text RFC 5322 message.
func buildMIME(from string, msg domain.Message) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	body := strings.ReplaceAll(msg.Body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return b.Bytes()
}
