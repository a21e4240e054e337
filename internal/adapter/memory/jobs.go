package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"careers/internal/domain"

	"github.com/google/uuid"
)

// --- JobRepository ---

// CreateJob stores a new job.
func (db *DB) CreateJob(ctx context.Context, j *domain.Job) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.jobs = append(db.jobs, copyJob(j))
	return nil
}

// GetJob retrieves a job by ID.
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, j := range db.jobs {
		if j.ID == id {
			return copyJob(j), nil
		}
	}
	return nil, nil
}

// UpdateJob overwrites the stored job with the same ID and reports whether
// it existed.
func (db *DB) UpdateJob(ctx context.Context, j *domain.Job) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, existing := range db.jobs {
		if existing.ID == j.ID {
			db.jobs[i] = copyJob(j)
			return true, nil
		}
	}
	return false, nil
}

// DeleteJob removes a job. Applications referencing it are left in place.
func (db *DB) DeleteJob(ctx context.Context, id uuid.UUID) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, j := range db.jobs {
		if j.ID == id {
			db.jobs = append(db.jobs[:i], db.jobs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ListJobs lists jobs newest first, optionally filtered by status.
func (db *DB) ListJobs(ctx context.Context, status domain.JobStatus) ([]domain.Job, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Job, 0, len(db.jobs))
	for i := len(db.jobs) - 1; i >= 0; i-- {
		j := db.jobs[i]
		if status == "" || j.Status == status {
			result = append(result, *copyJob(j))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func copyJob(j *domain.Job) *domain.Job {
	cp := *j
	cp.Requirements = slices.Clone(j.Requirements)
	cp.Responsibilities = slices.Clone(j.Responsibilities)
	cp.Benefits = slices.Clone(j.Benefits)
	if j.Salary != nil {
		s := *j.Salary
		cp.Salary = &s
	}
	return &cp
}

// --- ApplicationRepository ---

// CreateApplication stores a new application.
func (db *DB) CreateApplication(ctx context.Context, a *domain.Application) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	cp := *a
	db.applications = append(db.applications, &cp)
	return nil
}

// GetApplication retrieves an application by ID.
func (db *DB) GetApplication(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, a := range db.applications {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

// UpdateApplicationStatus sets the status of one application.
func (db *DB) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus, updatedAt time.Time) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, a := range db.applications {
		if a.ID == id {
			a.Status = status
			a.UpdatedAt = updatedAt.UTC()
			return true, nil
		}
	}
	return false, nil
}

// ListApplications lists matching applications newest first.
func (db *DB) ListApplications(ctx context.Context, f domain.ApplicationFilter) ([]domain.Application, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Application, 0, len(db.applications))
	for i := len(db.applications) - 1; i >= 0; i-- {
		if a := db.applications[i]; f.Matches(a) {
			result = append(result, *a)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// --- EmailLogRepository ---

// CreateEmailLog appends a log entry.
func (db *DB) CreateEmailLog(ctx context.Context, l *domain.EmailLog) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	cp := *l
	db.emailLogs = append(db.emailLogs, &cp)
	return nil
}

// ListEmailLogs lists logs for an application newest first. uuid.Nil lists
// every log.
func (db *DB) ListEmailLogs(ctx context.Context, applicationID uuid.UUID) ([]domain.EmailLog, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.EmailLog, 0)
	for i := len(db.emailLogs) - 1; i >= 0; i-- {
		l := db.emailLogs[i]
		if applicationID == uuid.Nil || (l.ApplicationID != nil && *l.ApplicationID == applicationID) {
			result = append(result, *l)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SentAt.After(result[j].SentAt)
	})
	return result, nil
}
