package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EmailLog is an append-only record of one successfully sent email.
type EmailLog struct {
	ID             uuid.UUID  `json:"id"`
	ApplicationID  *uuid.UUID `json:"application_id,omitempty"`
	SentBy         uuid.UUID  `json:"sent_by"`
	RecipientEmail string     `json:"recipient_email"`
	Subject        string     `json:"subject"`
	Body           string     `json:"body"`
	TemplateKey    string     `json:"template_key,omitempty"`
	SentAt         time.Time  `json:"sent_at"`
}

// EmailLogRepository stores email logs. Rows are never updated or deleted.
type EmailLogRepository interface {
	CreateEmailLog(ctx context.Context, l *EmailLog) error
	// ListEmailLogs returns logs newest first; uuid.Nil lists every log.
	ListEmailLogs(ctx context.Context, applicationID uuid.UUID) ([]EmailLog, error)
}

// Message is an outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer is the outbound email transport.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// Stats holds the dashboard counters.
type Stats struct {
	TotalApplications   int `json:"total_applications"`
	PendingApplications int `json:"pending_applications"`
	ActiveJobs          int `json:"active_jobs"`
	TotalUsers          int `json:"total_users"`
}

// StatsRepository computes aggregate counts.
type StatsRepository interface {
	Stats(ctx context.Context) (Stats, error)
}
