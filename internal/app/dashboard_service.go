package app

import (
	"context"

	"careers/internal/domain"
)

// RecentLimit is how many recent applications the dashboard shows.
const RecentLimit = 10

// Overview is the admin dashboard payload.
type Overview struct {
	Stats              domain.Stats      `json:"stats"`
	RecentApplications []ApplicationView `json:"recent_applications"`
	Jobs               []domain.Job      `json:"jobs"`
}

// DashboardService encapsulates dashboard data retrieval.
type DashboardService struct {
	stats domain.StatsRepository
	apps  *ApplicationService
	jobs  *JobService
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(stats domain.StatsRepository, apps *ApplicationService, jobs *JobService) *DashboardService {
	return &DashboardService{stats: stats, apps: apps, jobs: jobs}
}

// Overview returns the counters, the latest applications and every job.
func (s *DashboardService) Overview(ctx context.Context, actor *domain.User) (*Overview, error) {
	if err := require(actor, domain.PermViewApplications); err != nil {
		return nil, err
	}
	st, err := s.stats.Stats(ctx)
	if err != nil {
		return nil, upstream("stats", err)
	}
	recent, err := s.apps.List(ctx, actor, domain.ApplicationFilter{})
	if err != nil {
		return nil, err
	}
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	jobs, err := s.jobs.List(ctx, "")
	if err != nil {
		return nil, err
	}
	return &Overview{Stats: st, RecentApplications: recent, Jobs: jobs}, nil
}
