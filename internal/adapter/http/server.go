package adapthttp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"careers/internal/app"
	"careers/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// OIDCConfig holds the single sign-on provider. SSO is off when Enabled is
// false.
type OIDCConfig struct {
	Enabled       bool
	Provider      *oidc.Provider
	OAuth2Config  oauth2.Config
	AutoProvision bool
}

// NewOIDCConfig discovers the issuer and builds the OAuth2 client config.
func NewOIDCConfig(ctx context.Context, issuer, clientID, clientSecret, redirectURL string, autoProvision bool) (OIDCConfig, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return OIDCConfig{}, fmt.Errorf("oidc discovery: %w", err)
	}
	return OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		AutoProvision: autoProvision,
	}, nil
}

// Services groups the application services the server drives.
type Services struct {
	Auth          *app.AuthService
	Jobs          *app.JobService
	Applications  *app.ApplicationService
	Notifications *app.NotificationService
	Dashboard     *app.DashboardService
}

// Config holds the HTTP-level settings.
type Config struct {
	WebDir        string
	SessionSecret string
	CookieSecure  bool
	// AdminBaseURL is where SSO logins land. Defaults to /admin.
	AdminBaseURL string
	OIDC         OIDCConfig
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth      *app.AuthService
	jobs      *app.JobService
	apps      *app.ApplicationService
	notify    *app.NotificationService
	dashboard *app.DashboardService

	webDir     string
	adminURL   string
	cookies    *sessionCookies
	oidcConfig OIDCConfig
}

// New creates a Server wired to the given application services.
func New(svc Services, cfg Config) *Server {
	adminURL := cfg.AdminBaseURL
	if adminURL == "" {
		adminURL = "/admin"
	}
	return &Server{
		auth:      svc.Auth,
		jobs:      svc.Jobs,
		apps:      svc.Applications,
		notify:    svc.Notifications,
		dashboard: svc.Dashboard,
		webDir:    cfg.WebDir,
		adminURL:  adminURL,
		cookies: &sessionCookies{
			secret: []byte(cfg.SessionSecret),
			ttl:    svc.Auth.SessionTTL(),
			secure: cfg.CookieSecure,
		},
		oidcConfig: cfg.OIDC,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "time": time.Now().UTC()})
	})
	api.HandleFunc("GET /config", s.handleConfig)

	// Careers site.
	api.HandleFunc("GET /jobs", s.handlePublicJobs)
	api.HandleFunc("GET /jobs/{id}", s.handlePublicJob)
	api.HandleFunc("POST /jobs/{id}/applications", s.handleSubmitApplication)

	// Sign-in.
	api.HandleFunc("POST /auth/login", s.handleLogin)
	api.HandleFunc("POST /auth/logout", s.handleLogout)
	api.HandleFunc("POST /setup", s.handleSetup)
	api.HandleFunc("GET /auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("GET /auth/sso/callback", s.handleSSOCallback)
	api.Handle("GET /auth/me", s.guard(s.handleMe))

	// Admin.
	api.Handle("GET /admin/profile", s.guard(s.handleMe))
	api.Handle("PATCH /admin/profile", s.guard(s.handleUpdateProfile))
	api.Handle("GET /admin/dashboard", s.guard(s.handleDashboard, domain.PermViewApplications))

	api.Handle("GET /admin/jobs", s.guard(s.handleAdminJobs, domain.PermManageJobs))
	api.Handle("POST /admin/jobs", s.guard(s.handleCreateJob, domain.PermManageJobs))
	api.Handle("GET /admin/jobs/{id}", s.guard(s.handleAdminJob, domain.PermManageJobs))
	api.Handle("PATCH /admin/jobs/{id}", s.guard(s.handleUpdateJob, domain.PermManageJobs))
	api.Handle("DELETE /admin/jobs/{id}", s.guard(s.handleDeleteJob, domain.PermManageJobs))
	api.Handle("GET /admin/jobs/{id}/applications", s.guard(s.handleJobApplications, domain.PermViewApplications))

	api.Handle("GET /admin/applications", s.guard(s.handleListApplications, domain.PermViewApplications))
	api.Handle("GET /admin/applications/{id}", s.guard(s.handleGetApplication, domain.PermViewApplications))
	api.Handle("PATCH /admin/applications/{id}/status", s.guard(s.handleUpdateStatus, domain.PermManageApplications))
	api.Handle("GET /admin/applications/{id}/emails", s.guard(s.handleEmailHistory, domain.PermViewApplications))
	api.Handle("POST /admin/applications/{id}/emails", s.guard(s.handleSendEmail, domain.PermSendEmails))
	api.Handle("GET /admin/applications/{id}/email-preview", s.guard(s.handleEmailPreview, domain.PermSendEmails))
	api.Handle("GET /admin/email-templates", s.guard(s.handleEmailTemplates, domain.PermSendEmails))

	api.Handle("GET /admin/users", s.guard(s.handleListUsers, domain.PermManageUsers))
	api.Handle("POST /admin/users", s.guard(s.handleCreateUser, domain.PermManageUsers))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", s.withUser(api)))
	root.Handle("/", spaFromDisk(s.webDir))

	return s.loggingMiddleware(withNoCache(root))
}
