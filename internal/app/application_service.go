package app

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"careers/internal/domain"

	"github.com/google/uuid"
)

// UnknownPosition is shown in place of the job title when the referenced
// job has been deleted.
const UnknownPosition = "Unknown Position"

// MaxResumeSize is the largest resume upload accepted, in bytes.
const MaxResumeSize = 5 << 20

var resumeExtensions = []string{".pdf", ".doc", ".docx"}

// SubmitInput holds a candidate's application. It has no status field:
// every submission starts as pending.
type SubmitInput struct {
	FirstName      string `json:"first_name" validate:"required,max=100"`
	LastName       string `json:"last_name" validate:"required,max=100"`
	Email          string `json:"email" validate:"required,email,max=254"`
	Phone          string `json:"phone" validate:"required,max=50"`
	LinkedInURL    string `json:"linkedin_url" validate:"omitempty,url,max=500"`
	Experience     string `json:"experience" validate:"required,max=10000"`
	Availability   string `json:"availability" validate:"required,max=200"`
	CoverLetter    string `json:"cover_letter" validate:"max=20000"`
	ResumeFileName string `json:"resume_file_name" validate:"required,max=255"`
}

// ApplicationView is an application together with the title of its job.
type ApplicationView struct {
	domain.Application
	JobTitle string `json:"job_title"`
}

// StatusChangeResult reports a status change and the optional notification
// sent with it. EmailError is set when the notification failed; the status
// change itself is kept.
type StatusChangeResult struct {
	Application *domain.Application `json:"application"`
	Email       *domain.EmailLog    `json:"email,omitempty"`
	EmailError  error               `json:"-"`
}

// ApplicationService encapsulates application intake and review use cases.
type ApplicationService struct {
	apps     domain.ApplicationRepository
	jobs     domain.JobRepository
	notifier *NotificationService
}

// NewApplicationService creates an ApplicationService. notifier may be nil,
// in which case ChangeStatus never sends email.
func NewApplicationService(apps domain.ApplicationRepository, jobs domain.JobRepository, notifier *NotificationService) *ApplicationService {
	return &ApplicationService{apps: apps, jobs: jobs, notifier: notifier}
}

// CheckResume validates an uploaded resume's name and size.
func CheckResume(name string, size int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	valid := false
	for _, e := range resumeExtensions {
		if ext == e {
			valid = true
			break
		}
	}
	if !valid {
		return invalid("resume", "must be a PDF, DOC or DOCX file")
	}
	if size > MaxResumeSize {
		return invalid("resume", "must be 5MB or smaller")
	}
	return nil
}

// Submit records a public application against an existing job.
func (s *ApplicationService) Submit(ctx context.Context, jobID uuid.UUID, in SubmitInput) (*domain.Application, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.LinkedInURL = strings.TrimSpace(in.LinkedInURL)
	in.Experience = strings.TrimSpace(in.Experience)
	in.Availability = strings.TrimSpace(in.Availability)
	in.CoverLetter = strings.TrimSpace(in.CoverLetter)
	in.ResumeFileName = filepath.Base(strings.TrimSpace(in.ResumeFileName))
	if in.ResumeFileName == "." {
		in.ResumeFileName = ""
	}

	if err := checkStruct(in); err != nil {
		return nil, err
	}
	if err := CheckResume(in.ResumeFileName, 0); err != nil {
		return nil, err
	}

	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, upstream("submit application", err)
	}
	if job == nil {
		return nil, ErrNotFound
	}

	now := time.Now().UTC()
	a := &domain.Application{
		ID:             uuid.New(),
		JobID:          job.ID,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Phone:          in.Phone,
		LinkedInURL:    in.LinkedInURL,
		Experience:     in.Experience,
		Availability:   in.Availability,
		CoverLetter:    in.CoverLetter,
		ResumeFileName: in.ResumeFileName,
		Status:         domain.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.apps.CreateApplication(ctx, a); err != nil {
		return nil, upstream("submit application", err)
	}
	return a, nil
}

// UpdateStatus moves an application to any of the four statuses.
func (s *ApplicationService) UpdateStatus(ctx context.Context, actor *domain.User, id uuid.UUID, status domain.ApplicationStatus) (*domain.Application, error) {
	if err := require(actor, domain.PermManageApplications); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, invalid("status", "must be one of: pending reviewing accepted rejected")
	}

	ok, err := s.apps.UpdateApplicationStatus(ctx, id, status, time.Now().UTC())
	if err != nil {
		return nil, upstream("update status", err)
	}
	if !ok {
		return nil, ErrNotFound
	}

	a, err := s.apps.GetApplication(ctx, id)
	if err != nil {
		return nil, upstream("update status", err)
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// ChangeStatus updates the status and, when notify is set, sends the
// template mapped to the new status. A failed send does not undo the
// status change.
func (s *ApplicationService) ChangeStatus(ctx context.Context, actor *domain.User, id uuid.UUID, status domain.ApplicationStatus, notify bool) (*StatusChangeResult, error) {
	a, err := s.UpdateStatus(ctx, actor, id, status)
	if err != nil {
		return nil, err
	}
	res := &StatusChangeResult{Application: a}
	if !notify || s.notifier == nil {
		return res, nil
	}
	key, ok := TemplateForStatus(status)
	if !ok {
		return res, nil
	}
	res.Email, res.EmailError = s.notifier.SendTemplate(ctx, actor, id, key)
	return res, nil
}

// Get returns one application with its job title.
func (s *ApplicationService) Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*ApplicationView, error) {
	if err := require(actor, domain.PermViewApplications); err != nil {
		return nil, err
	}
	a, err := s.apps.GetApplication(ctx, id)
	if err != nil {
		return nil, upstream("get application", err)
	}
	if a == nil {
		return nil, ErrNotFound
	}
	job, err := s.jobs.GetJob(ctx, a.JobID)
	if err != nil {
		return nil, upstream("get application", err)
	}
	return newView(*a, job), nil
}

// List returns applications matching f, newest first.
func (s *ApplicationService) List(ctx context.Context, actor *domain.User, f domain.ApplicationFilter) ([]ApplicationView, error) {
	if err := require(actor, domain.PermViewApplications); err != nil {
		return nil, err
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, invalid("status", "must be one of: pending reviewing accepted rejected")
	}
	apps, err := s.apps.ListApplications(ctx, f)
	if err != nil {
		return nil, upstream("list applications", err)
	}
	jobs, err := s.jobs.ListJobs(ctx, "")
	if err != nil {
		return nil, upstream("list applications", err)
	}
	byID := make(map[uuid.UUID]*domain.Job, len(jobs))
	for i := range jobs {
		byID[jobs[i].ID] = &jobs[i]
	}

	views := make([]ApplicationView, 0, len(apps))
	for _, a := range apps {
		views = append(views, *newView(a, byID[a.JobID]))
	}
	return views, nil
}

// ListForJob returns the applications submitted against one job.
func (s *ApplicationService) ListForJob(ctx context.Context, actor *domain.User, jobID uuid.UUID) ([]ApplicationView, error) {
	return s.List(ctx, actor, domain.ApplicationFilter{JobID: jobID})
}

func newView(a domain.Application, job *domain.Job) *ApplicationView {
	v := &ApplicationView{Application: a, JobTitle: UnknownPosition}
	if job != nil {
		v.JobTitle = job.Title
	}
	return v
}
