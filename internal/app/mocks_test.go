package app

import (
	"context"
	"time"

	"careers/internal/domain"

	"github.com/google/uuid"
)

type mockJobRepo struct {
	createFn func(ctx context.Context, j *domain.Job) error
	getFn    func(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	updateFn func(ctx context.Context, j *domain.Job) (bool, error)
	deleteFn func(ctx context.Context, id uuid.UUID) (bool, error)
	listFn   func(ctx context.Context, status domain.JobStatus) ([]domain.Job, error)
}

func (m *mockJobRepo) CreateJob(ctx context.Context, j *domain.Job) error {
	if m.createFn != nil {
		return m.createFn(ctx, j)
	}
	return nil
}

func (m *mockJobRepo) GetJob(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockJobRepo) UpdateJob(ctx context.Context, j *domain.Job) (bool, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, j)
	}
	return true, nil
}

func (m *mockJobRepo) DeleteJob(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return false, nil
}

func (m *mockJobRepo) ListJobs(ctx context.Context, status domain.JobStatus) ([]domain.Job, error) {
	if m.listFn != nil {
		return m.listFn(ctx, status)
	}
	return nil, nil
}

type mockApplicationRepo struct {
	createFn       func(ctx context.Context, a *domain.Application) error
	getFn          func(ctx context.Context, id uuid.UUID) (*domain.Application, error)
	updateStatusFn func(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus, at time.Time) (bool, error)
	listFn         func(ctx context.Context, f domain.ApplicationFilter) ([]domain.Application, error)
}

func (m *mockApplicationRepo) CreateApplication(ctx context.Context, a *domain.Application) error {
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	return nil
}

func (m *mockApplicationRepo) GetApplication(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockApplicationRepo) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus, at time.Time) (bool, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status, at)
	}
	return false, nil
}

func (m *mockApplicationRepo) ListApplications(ctx context.Context, f domain.ApplicationFilter) ([]domain.Application, error) {
	if m.listFn != nil {
		return m.listFn(ctx, f)
	}
	return nil, nil
}

type mockEmailLogRepo struct {
	created  []*domain.EmailLog
	createFn func(ctx context.Context, l *domain.EmailLog) error
	listFn   func(ctx context.Context, applicationID uuid.UUID) ([]domain.EmailLog, error)
}

func (m *mockEmailLogRepo) CreateEmailLog(ctx context.Context, l *domain.EmailLog) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, l); err != nil {
			return err
		}
	}
	m.created = append(m.created, l)
	return nil
}

func (m *mockEmailLogRepo) ListEmailLogs(ctx context.Context, applicationID uuid.UUID) ([]domain.EmailLog, error) {
	if m.listFn != nil {
		return m.listFn(ctx, applicationID)
	}
	return nil, nil
}

type mockMailer struct {
	sent   []domain.Message
	sendFn func(ctx context.Context, m domain.Message) error
}

func (m *mockMailer) Send(ctx context.Context, msg domain.Message) error {
	if m.sendFn != nil {
		if err := m.sendFn(ctx, msg); err != nil {
			return err
		}
	}
	m.sent = append(m.sent, msg)
	return nil
}

type mockStatsRepo struct {
	statsFn func(ctx context.Context) (domain.Stats, error)
}

func (m *mockStatsRepo) Stats(ctx context.Context) (domain.Stats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return domain.Stats{}, nil
}
