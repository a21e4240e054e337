// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"careers/internal/domain"

	_ "github.com/lib/pq"
)

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
}

var (
	_ domain.UserRepository        = (*DB)(nil)
	_ domain.JobRepository         = (*DB)(nil)
	_ domain.ApplicationRepository = (*DB)(nil)
	_ domain.EmailLogRepository    = (*DB)(nil)
	_ domain.StatsRepository       = (*DB)(nil)
	_ domain.SessionRepository     = (*SessionRepo)(nil)
)

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

// Applications keep their job_id after the job is deleted, so there is no
// foreign key from applications to jobs.
func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('admin','hr','manager')),
			password_hash TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			last_login_at TIMESTAMPTZ
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);",
		`CREATE TABLE IF NOT EXISTS jobs (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			department TEXT NOT NULL,
			location TEXT NOT NULL,
			type TEXT NOT NULL CHECK(type IN ('full-time','part-time','contract','internship')),
			salary TEXT,
			status TEXT NOT NULL CHECK(status IN ('draft','active','inactive')),
			requirements TEXT[] NOT NULL DEFAULT '{}',
			responsibilities TEXT[] NOT NULL DEFAULT '{}',
			benefits TEXT[] NOT NULL DEFAULT '{}',
			created_by UUID REFERENCES users(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);",
		`CREATE TABLE IF NOT EXISTS applications (
			id UUID PRIMARY KEY,
			job_id UUID NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL,
			linkedin_url TEXT NOT NULL DEFAULT '',
			experience TEXT NOT NULL,
			availability TEXT NOT NULL,
			cover_letter TEXT NOT NULL DEFAULT '',
			resume_file_name TEXT NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('pending','reviewing','accepted','rejected')),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_applications_job_id ON applications(job_id);",
		"CREATE INDEX IF NOT EXISTS idx_applications_status ON applications(status);",
		`CREATE TABLE IF NOT EXISTS email_logs (
			id UUID PRIMARY KEY,
			application_id UUID REFERENCES applications(id),
			sent_by UUID NOT NULL REFERENCES users(id),
			recipient_email TEXT NOT NULL,
			subject TEXT NOT NULL,
			body TEXT NOT NULL,
			template_key TEXT NOT NULL DEFAULT '',
			sent_at TIMESTAMPTZ NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_email_logs_application_id ON email_logs(application_id);",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Stats computes the dashboard counters in a single round trip.
func (d *DB) Stats(ctx context.Context) (domain.Stats, error) {
	var st domain.Stats
	err := d.sql.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM applications),
		(SELECT COUNT(*) FROM applications WHERE status = 'pending'),
		(SELECT COUNT(*) FROM jobs WHERE status = 'active'),
		(SELECT COUNT(*) FROM users)`,
	).Scan(&st.TotalApplications, &st.PendingApplications, &st.ActiveJobs, &st.TotalUsers)
	return st, err
}
