package cli

import (
	"context"
	"fmt"
	"log"

	"careers/internal/adapter/mail"
	"careers/internal/adapter/memory"
	"careers/internal/adapter/postgres"
	"careers/internal/app"
	"careers/internal/config"
	"careers/internal/domain"
)

// operator is the actor for commands run from a shell that already has
// direct access to the store.
var operator = &domain.User{Name: "careers-cli", Role: domain.RoleAdmin}

type store struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	jobs     domain.JobRepository
	apps     domain.ApplicationRepository
	logs     domain.EmailLogRepository
	stats    domain.StatsRepository
	close    func() error
}

func openStore(cfg *config.Config) (*store, error) {
	switch cfg.Store {
	case config.StorePostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
		return &store{
			users: db, sessions: postgres.NewSessionRepo(db),
			jobs: db, apps: db, logs: db, stats: db,
			close: db.Close,
		}, nil
	case config.StoreMemory:
		db := memory.New()
		return &store{
			users: db, sessions: db.NewSessionRepo(),
			jobs: db, apps: db, logs: db, stats: db,
			close: func() error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func newMailer(ctx context.Context, cfg *config.Config) (domain.Mailer, error) {
	if cfg.MailTransport == config.MailGmail {
		m, err := mail.NewGmailMailer(ctx, cfg.GmailCredentialsFile, cfg.MailFrom)
		if err != nil {
			return nil, fmt.Errorf("gmail: %w", err)
		}
		return m, nil
	}
	return &mail.LogMailer{From: cfg.MailFrom}, nil
}

// env is the wired application for one command run.
type env struct {
	cfg       *config.Config
	store     *store
	auth      *app.AuthService
	jobs      *app.JobService
	apps      *app.ApplicationService
	notify    *app.NotificationService
	dashboard *app.DashboardService
}

func openEnv(cfg *config.Config, mailer domain.Mailer) (*env, error) {
	if err := cfg.ValidateStore(); err != nil {
		return nil, err
	}
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	if mailer == nil {
		mailer = &mail.LogMailer{From: cfg.MailFrom}
	}

	auth := app.NewAuthService(st.users, st.sessions).WithSessionTTL(cfg.SessionTTL)
	jobs := app.NewJobService(st.jobs)
	notify := app.NewNotificationService(st.apps, st.jobs, st.logs, mailer)
	apps := app.NewApplicationService(st.apps, st.jobs, notify)
	return &env{
		cfg:       cfg,
		store:     st,
		auth:      auth,
		jobs:      jobs,
		apps:      apps,
		notify:    notify,
		dashboard: app.NewDashboardService(st.stats, apps, jobs),
	}, nil
}

func (e *env) close() {
	if err := e.store.close(); err != nil {
		log.Printf("db close: %v", err)
	}
}
