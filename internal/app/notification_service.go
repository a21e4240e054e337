package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"careers/internal/domain"

	"github.com/google/uuid"
)

// NotificationService sends candidate emails and keeps the send log.
type NotificationService struct {
	apps   domain.ApplicationRepository
	jobs   domain.JobRepository
	logs   domain.EmailLogRepository
	mailer domain.Mailer
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(apps domain.ApplicationRepository, jobs domain.JobRepository, logs domain.EmailLogRepository, mailer domain.Mailer) *NotificationService {
	return &NotificationService{apps: apps, jobs: jobs, logs: logs, mailer: mailer}
}

// Preview renders a template for an application without sending it.
func (s *NotificationService) Preview(ctx context.Context, actor *domain.User, applicationID uuid.UUID, key string) (*Rendered, error) {
	if err := require(actor, domain.PermSendEmails); err != nil {
		return nil, err
	}
	t, ok := LookupTemplate(key)
	if !ok {
		return nil, invalid("template", "unknown template")
	}
	a, jobTitle, err := s.recipient(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	r := Render(t, a.FirstName, jobTitle)
	return &r, nil
}

// SendTemplate renders the template for the application and sends it.
func (s *NotificationService) SendTemplate(ctx context.Context, actor *domain.User, applicationID uuid.UUID, key string) (*domain.EmailLog, error) {
	r, err := s.Preview(ctx, actor, applicationID, key)
	if err != nil {
		return nil, err
	}
	return s.Send(ctx, actor, applicationID, r.Subject, r.Body, r.TemplateKey)
}

// Send emails the applicant and records exactly one log entry once the
// transport accepts the message. Nothing is logged when the send fails.
// When the message went out but the log write failed, Send returns the
// unsaved entry together with ErrEmailNotLogged.
func (s *NotificationService) Send(ctx context.Context, actor *domain.User, applicationID uuid.UUID, subject, body, templateKey string) (*domain.EmailLog, error) {
	if err := require(actor, domain.PermSendEmails); err != nil {
		return nil, err
	}
	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)
	ve := &ValidationError{Fields: map[string]string{}}
	if subject == "" {
		ve.Fields["subject"] = "is required"
	}
	if body == "" {
		ve.Fields["body"] = "is required"
	}
	if templateKey != "" {
		if _, ok := LookupTemplate(templateKey); !ok {
			ve.Fields["template"] = "unknown template"
		}
	}
	if len(ve.Fields) > 0 {
		return nil, ve
	}

	a, _, err := s.recipient(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	msg := domain.Message{To: a.Email, Subject: subject, Body: body}
	if err := s.mailer.Send(ctx, msg); err != nil {
		log.Printf("notify: send to application %s failed: %v", a.ID, err)
		return nil, upstream("send email", err)
	}

	appID := a.ID
	entry := &domain.EmailLog{
		ID:             uuid.New(),
		ApplicationID:  &appID,
		SentBy:         actor.ID,
		RecipientEmail: a.Email,
		Subject:        subject,
		Body:           body,
		TemplateKey:    templateKey,
		SentAt:         time.Now().UTC(),
	}
	if err := s.logs.CreateEmailLog(ctx, entry); err != nil {
		log.Printf("notify: email to application %s sent but not logged: %v", a.ID, err)
		return entry, fmt.Errorf("%w: %w", ErrEmailNotLogged, err)
	}
	return entry, nil
}

// History returns the emails sent for an application, newest first.
func (s *NotificationService) History(ctx context.Context, actor *domain.User, applicationID uuid.UUID) ([]domain.EmailLog, error) {
	if err := require(actor, domain.PermViewApplications); err != nil {
		return nil, err
	}
	if _, _, err := s.recipient(ctx, applicationID); err != nil {
		return nil, err
	}
	logs, err := s.logs.ListEmailLogs(ctx, applicationID)
	if err != nil {
		return nil, upstream("email history", err)
	}
	return logs, nil
}

// recipient loads the application and its job title. The title is empty
// when the job no longer exists.
func (s *NotificationService) recipient(ctx context.Context, applicationID uuid.UUID) (*domain.Application, string, error) {
	a, err := s.apps.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, "", upstream("load application", err)
	}
	if a == nil {
		return nil, "", ErrNotFound
	}
	job, err := s.jobs.GetJob(ctx, a.JobID)
	if err != nil {
		return nil, "", upstream("load job", err)
	}
	if job == nil {
		return a, "", nil
	}
	return a, job.Title, nil
}
