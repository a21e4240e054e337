// Package mail provides the outbound email transports.
package mail

import (
	"context"
	"log"

	"careers/internal/domain"
)

var (
	_ domain.Mailer = (*LogMailer)(nil)
	_ domain.Mailer = (*GmailMailer)(nil)
)

// LogMailer writes messages to the process log instead of sending them.
// It is the development transport.
type LogMailer struct {
	From string
}

// Send logs the message and always succeeds unless ctx is done.
func (m *LogMailer) Send(ctx context.Context, msg domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Printf("mail: from=%s to=%s subject=%q (%d bytes)", m.From, msg.To, msg.Subject, len(msg.Body))
	return nil
}
