package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the review state of an application. Transitions are
// unconstrained.
type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "pending"
	StatusReviewing ApplicationStatus = "reviewing"
	StatusAccepted  ApplicationStatus = "accepted"
	StatusRejected  ApplicationStatus = "rejected"
)

// Valid reports whether s is one of the four application statuses.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusReviewing, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Application is a candidate's submission against a job. JobID may dangle
// once the job is deleted.
type Application struct {
	ID             uuid.UUID         `json:"id"`
	JobID          uuid.UUID         `json:"job_id"`
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	Email          string            `json:"email"`
	Phone          string            `json:"phone"`
	LinkedInURL    string            `json:"linkedin_url,omitempty"`
	Experience     string            `json:"experience"`
	Availability   string            `json:"availability"`
	CoverLetter    string            `json:"cover_letter,omitempty"`
	ResumeFileName string            `json:"resume_file_name"`
	Status         ApplicationStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ApplicationFilter narrows a listing. Zero-valued fields match everything;
// set fields combine with AND.
type ApplicationFilter struct {
	Status ApplicationStatus
	JobID  uuid.UUID
}

// Matches reports whether a satisfies every set field of f.
func (f ApplicationFilter) Matches(a *Application) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.JobID != uuid.Nil && a.JobID != f.JobID {
		return false
	}
	return true
}

// ApplicationRepository is the port for application persistence. There is
// no delete.
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, a *Application) error
	GetApplication(ctx context.Context, id uuid.UUID) (*Application, error)
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status ApplicationStatus, updatedAt time.Time) (bool, error)
	// ListApplications returns matches newest first.
	ListApplications(ctx context.Context, f ApplicationFilter) ([]Application, error)
}
