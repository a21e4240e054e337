package postgres

import (
	"context"
	"database/sql"
	"errors"

	"careers/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const jobColumns = "id, title, description, department, location, type, salary, status, requirements, responsibilities, benefits, created_by, created_at, updated_at"

func scanJob(row interface{ Scan(...any) error }) (*domain.Job, error) {
	var (
		j         domain.Job
		salary    sql.NullString
		createdBy uuid.NullUUID
	)
	err := row.Scan(&j.ID, &j.Title, &j.Description, &j.Department, &j.Location, &j.Type,
		&salary, &j.Status,
		pq.Array(&j.Requirements), pq.Array(&j.Responsibilities), pq.Array(&j.Benefits),
		&createdBy, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if salary.Valid {
		j.Salary = &salary.String
	}
	if createdBy.Valid {
		j.CreatedBy = &createdBy.UUID
	}
	return &j, nil
}

// CreateJob inserts a new job.
func (d *DB) CreateJob(ctx context.Context, j *domain.Job) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO jobs ("+jobColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)",
		j.ID, j.Title, j.Description, j.Department, j.Location, j.Type,
		nullString(j.Salary), j.Status,
		pq.Array(j.Requirements), pq.Array(j.Responsibilities), pq.Array(j.Benefits),
		nullUUID(j.CreatedBy), j.CreatedAt, j.UpdatedAt,
	)
	return err
}

// GetJob retrieves a job by ID.
func (d *DB) GetJob(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	j, err := scanJob(d.sql.QueryRowContext(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return j, err
}

// UpdateJob writes every mutable job field and reports whether a row
// matched.
func (d *DB) UpdateJob(ctx context.Context, j *domain.Job) (bool, error) {
	res, err := d.sql.ExecContext(ctx,
		`UPDATE jobs SET title = $2, description = $3, department = $4, location = $5, type = $6,
			salary = $7, status = $8, requirements = $9, responsibilities = $10, benefits = $11, updated_at = $12
		WHERE id = $1`,
		j.ID, j.Title, j.Description, j.Department, j.Location, j.Type,
		nullString(j.Salary), j.Status,
		pq.Array(j.Requirements), pq.Array(j.Responsibilities), pq.Array(j.Benefits),
		j.UpdatedAt,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteJob hard-deletes a job and reports whether a row was removed.
func (d *DB) DeleteJob(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM jobs WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListJobs lists jobs newest first. An empty status lists all.
func (d *DB) ListJobs(ctx context.Context, status domain.JobStatus) ([]domain.Job, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE ($1 = '' OR status = $1) ORDER BY created_at DESC",
		string(status),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	jobs := make([]domain.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
