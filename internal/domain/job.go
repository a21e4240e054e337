package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the publication state of a job posting. Any status may move
// to any other.
type JobStatus string

const (
	JobDraft    JobStatus = "draft"
	JobActive   JobStatus = "active"
	JobInactive JobStatus = "inactive"
)

// Valid reports whether s is one of the known job statuses.
func (s JobStatus) Valid() bool {
	switch s {
	case JobDraft, JobActive, JobInactive:
		return true
	}
	return false
}

// EmploymentType describes the contract a job is offered under.
type EmploymentType string

const (
	FullTime   EmploymentType = "full-time"
	PartTime   EmploymentType = "part-time"
	Contract   EmploymentType = "contract"
	Internship EmploymentType = "internship"
)

// Valid reports whether t is one of the known employment types.
func (t EmploymentType) Valid() bool {
	switch t {
	case FullTime, PartTime, Contract, Internship:
		return true
	}
	return false
}

// Job is a posting on the careers site.
type Job struct {
	ID               uuid.UUID      `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Department       string         `json:"department"`
	Location         string         `json:"location"`
	Type             EmploymentType `json:"type"`
	Salary           *string        `json:"salary"`
	Status           JobStatus      `json:"status"`
	Requirements     []string       `json:"requirements"`
	Responsibilities []string       `json:"responsibilities"`
	Benefits         []string       `json:"benefits"`
	CreatedBy        *uuid.UUID     `json:"created_by,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// JobRepository is the port for job persistence. GetJob returns (nil, nil)
// when the id does not resolve.
type JobRepository interface {
	CreateJob(ctx context.Context, j *Job) error
	GetJob(ctx context.Context, id uuid.UUID) (*Job, error)
	// UpdateJob reports false when no job has j.ID.
	UpdateJob(ctx context.Context, j *Job) (bool, error)
	DeleteJob(ctx context.Context, id uuid.UUID) (bool, error)
	// ListJobs returns jobs newest first; an empty status matches all.
	ListJobs(ctx context.Context, status JobStatus) ([]Job, error)
}
