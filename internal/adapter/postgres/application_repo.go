package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"careers/internal/domain"

	"github.com/google/uuid"
)

const applicationColumns = "id, job_id, first_name, last_name, email, phone, linkedin_url, experience, availability, cover_letter, resume_file_name, status, created_at, updated_at"

func scanApplication(row interface{ Scan(...any) error }) (*domain.Application, error) {
	var a domain.Application
	err := row.Scan(&a.ID, &a.JobID, &a.FirstName, &a.LastName, &a.Email, &a.Phone,
		&a.LinkedInURL, &a.Experience, &a.Availability, &a.CoverLetter, &a.ResumeFileName,
		&a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateApplication inserts a new application.
func (d *DB) CreateApplication(ctx context.Context, a *domain.Application) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO applications ("+applicationColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)",
		a.ID, a.JobID, a.FirstName, a.LastName, a.Email, a.Phone,
		a.LinkedInURL, a.Experience, a.Availability, a.CoverLetter, a.ResumeFileName,
		a.Status, a.CreatedAt, a.UpdatedAt,
	)
	return err
}

// GetApplication retrieves an application by ID.
func (d *DB) GetApplication(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	a, err := scanApplication(d.sql.QueryRowContext(ctx,
		"SELECT "+applicationColumns+" FROM applications WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// UpdateApplicationStatus sets one application's status and reports whether
// it exists.
func (d *DB) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus, updatedAt time.Time) (bool, error) {
	res, err := d.sql.ExecContext(ctx,
		"UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1",
		id, status, updatedAt.UTC(),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListApplications lists matching applications newest first.
func (d *DB) ListApplications(ctx context.Context, f domain.ApplicationFilter) ([]domain.Application, error) {
	jobID := uuid.NullUUID{UUID: f.JobID, Valid: f.JobID != uuid.Nil}
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+applicationColumns+" FROM applications WHERE ($1 = '' OR status = $1) AND ($2::uuid IS NULL OR job_id = $2) ORDER BY created_at DESC",
		string(f.Status), jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	apps := make([]domain.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

// CreateEmailLog appends an email log row.
func (d *DB) CreateEmailLog(ctx context.Context, l *domain.EmailLog) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO email_logs (id, application_id, sent_by, recipient_email, subject, body, template_key, sent_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		l.ID, nullUUID(l.ApplicationID), l.SentBy, l.RecipientEmail, l.Subject, l.Body, l.TemplateKey, l.SentAt,
	)
	return err
}

// ListEmailLogs lists email logs newest first. uuid.Nil lists every log.
func (d *DB) ListEmailLogs(ctx context.Context, applicationID uuid.UUID) ([]domain.EmailLog, error) {
	appID := uuid.NullUUID{UUID: applicationID, Valid: applicationID != uuid.Nil}
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, application_id, sent_by, recipient_email, subject, body, template_key, sent_at
		FROM email_logs WHERE ($1::uuid IS NULL OR application_id = $1) ORDER BY sent_at DESC`,
		appID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	logs := make([]domain.EmailLog, 0)
	for rows.Next() {
		var (
			l     domain.EmailLog
			appID uuid.NullUUID
		)
		if err := rows.Scan(&l.ID, &appID, &l.SentBy, &l.RecipientEmail, &l.Subject, &l.Body, &l.TemplateKey, &l.SentAt); err != nil {
			return nil, err
		}
		if appID.Valid {
			l.ApplicationID = &appID.UUID
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
