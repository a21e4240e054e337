package app

import (
	"context"
	"strings"
	"time"

	"careers/internal/domain"

	"github.com/google/uuid"
)

// JobInput holds the fields for a new job posting.
type JobInput struct {
	Title            string                `json:"title" validate:"required,max=200"`
	Description      string                `json:"description" validate:"required"`
	Department       string                `json:"department" validate:"required,max=100"`
	Location         string                `json:"location" validate:"required,max=200"`
	Type             domain.EmploymentType `json:"type" validate:"required,oneof=full-time part-time contract internship"`
	Salary           string                `json:"salary" validate:"max=100"`
	Status           domain.JobStatus      `json:"status" validate:"omitempty,oneof=draft active inactive"`
	Requirements     []string              `json:"requirements"`
	Responsibilities []string              `json:"responsibilities"`
	Benefits         []string              `json:"benefits"`
}

// JobPatch is a partial update. Nil fields are left unchanged.
type JobPatch struct {
	Title            *string                `json:"title"`
	Description      *string                `json:"description"`
	Department       *string                `json:"department"`
	Location         *string                `json:"location"`
	Type             *domain.EmploymentType `json:"type"`
	Salary           *string                `json:"salary"`
	Status           *domain.JobStatus      `json:"status"`
	Requirements     *[]string              `json:"requirements"`
	Responsibilities *[]string              `json:"responsibilities"`
	Benefits         *[]string              `json:"benefits"`
}

// JobService encapsulates job posting use cases.
type JobService struct {
	repo domain.JobRepository
}

// NewJobService creates a JobService backed by the given repository.
func NewJobService(repo domain.JobRepository) *JobService {
	return &JobService{repo: repo}
}

// Create validates and stores a new job. Status defaults to draft.
func (s *JobService) Create(ctx context.Context, actor *domain.User, in JobInput) (*domain.Job, error) {
	if err := require(actor, domain.PermManageJobs); err != nil {
		return nil, err
	}
	in = in.normalized()
	if in.Status == "" {
		in.Status = domain.JobDraft
	}
	if err := checkStruct(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	createdBy := actor.ID
	j := &domain.Job{
		ID:               uuid.New(),
		Title:            in.Title,
		Description:      in.Description,
		Department:       in.Department,
		Location:         in.Location,
		Type:             in.Type,
		Salary:           optional(in.Salary),
		Status:           in.Status,
		Requirements:     in.Requirements,
		Responsibilities: in.Responsibilities,
		Benefits:         in.Benefits,
		CreatedBy:        &createdBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.CreateJob(ctx, j); err != nil {
		return nil, upstream("create job", err)
	}
	return j, nil
}

// Update merges patch onto the stored job and re-validates the result.
func (s *JobService) Update(ctx context.Context, actor *domain.User, id uuid.UUID, patch JobPatch) (*domain.Job, error) {
	if err := require(actor, domain.PermManageJobs); err != nil {
		return nil, err
	}
	j, err := s.repo.GetJob(ctx, id)
	if err != nil {
		return nil, upstream("update job", err)
	}
	if j == nil {
		return nil, ErrNotFound
	}

	if patch.Status != nil && !patch.Status.Valid() {
		return nil, invalid("status", "must be one of: draft active inactive")
	}

	merged := inputFromJob(j)
	patch.applyTo(&merged)
	merged = merged.normalized()
	if err := checkStruct(merged); err != nil {
		return nil, err
	}

	j.Title = merged.Title
	j.Description = merged.Description
	j.Department = merged.Department
	j.Location = merged.Location
	j.Type = merged.Type
	j.Salary = optional(merged.Salary)
	j.Status = merged.Status
	j.Requirements = merged.Requirements
	j.Responsibilities = merged.Responsibilities
	j.Benefits = merged.Benefits
	j.UpdatedAt = time.Now().UTC()

	ok, err := s.repo.UpdateJob(ctx, j)
	if err != nil {
		return nil, upstream("update job", err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	return j, nil
}

// Delete hard-deletes a job. Applications referencing it are kept.
func (s *JobService) Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	if err := require(actor, domain.PermManageJobs); err != nil {
		return err
	}
	deleted, err := s.repo.DeleteJob(ctx, id)
	if err != nil {
		return upstream("delete job", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Get returns a job in any status.
func (s *JobService) Get(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	j, err := s.repo.GetJob(ctx, id)
	if err != nil {
		return nil, upstream("get job", err)
	}
	if j == nil {
		return nil, ErrNotFound
	}
	return j, nil
}

// List returns jobs newest first. An empty status lists every job.
func (s *JobService) List(ctx context.Context, status domain.JobStatus) ([]domain.Job, error) {
	if status != "" && !status.Valid() {
		return nil, invalid("status", "must be one of: draft active inactive")
	}
	jobs, err := s.repo.ListJobs(ctx, status)
	if err != nil {
		return nil, upstream("list jobs", err)
	}
	return jobs, nil
}

// ListPublic returns the jobs shown on the careers site.
func (s *JobService) ListPublic(ctx context.Context) ([]domain.Job, error) {
	return s.List(ctx, domain.JobActive)
}

// GetPublic returns an active job. Drafts and inactive jobs read as missing.
func (s *JobService) GetPublic(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	j, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if j.Status != domain.JobActive {
		return nil, ErrNotFound
	}
	return j, nil
}

func (in JobInput) normalized() JobInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Department = strings.TrimSpace(in.Department)
	in.Location = strings.TrimSpace(in.Location)
	in.Salary = strings.TrimSpace(in.Salary)
	in.Requirements = cleanList(in.Requirements)
	in.Responsibilities = cleanList(in.Responsibilities)
	in.Benefits = cleanList(in.Benefits)
	return in
}

func inputFromJob(j *domain.Job) JobInput {
	in := JobInput{
		Title:            j.Title,
		Description:      j.Description,
		Department:       j.Department,
		Location:         j.Location,
		Type:             j.Type,
		Status:           j.Status,
		Requirements:     j.Requirements,
		Responsibilities: j.Responsibilities,
		Benefits:         j.Benefits,
	}
	if j.Salary != nil {
		in.Salary = *j.Salary
	}
	return in
}

func (p JobPatch) applyTo(in *JobInput) {
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Department != nil {
		in.Department = *p.Department
	}
	if p.Location != nil {
		in.Location = *p.Location
	}
	if p.Type != nil {
		in.Type = *p.Type
	}
	if p.Salary != nil {
		in.Salary = *p.Salary
	}
	if p.Status != nil {
		in.Status = *p.Status
	}
	if p.Requirements != nil {
		in.Requirements = *p.Requirements
	}
	if p.Responsibilities != nil {
		in.Responsibilities = *p.Responsibilities
	}
	if p.Benefits != nil {
		in.Benefits = *p.Benefits
	}
}

// cleanList trims entries and drops blanks. The result is never nil.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
