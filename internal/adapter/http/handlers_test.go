package adapthttp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	adapthttp "careers/internal/adapter/http"
	"careers/internal/adapter/memory"
	"careers/internal/app"
	"careers/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

type recordingMailer struct {
	mu     sync.Mutex
	sent   []domain.Message
	sendFn func(m domain.Message) error
}

func (m *recordingMailer) Send(_ context.Context, msg domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendFn != nil {
		if err := m.sendFn(msg); err != nil {
			return err
		}
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// failingLogs wraps the email log store so tests can fail its writes.
type failingLogs struct {
	domain.EmailLogRepository
	mu       sync.Mutex
	createFn func() error
}

func (l *failingLogs) CreateEmailLog(ctx context.Context, e *domain.EmailLog) error {
	l.mu.Lock()
	fn := l.createFn
	l.mu.Unlock()
	if fn != nil {
		if err := fn(); err != nil {
			return err
		}
	}
	return l.EmailLogRepository.CreateEmailLog(ctx, e)
}

func (l *failingLogs) fail(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.createFn = func() error { return err }
}

// ---------------------------------------------------------------------------
// Test-server helper
// ---------------------------------------------------------------------------

const (
	testSecret   = "test-session-secret"
	testPassword = "correct horse battery"
)

type harness struct {
	ts     *httptest.Server
	db     *memory.DB
	auth   *app.AuthService
	mailer *recordingMailer
	logs   *failingLogs
	admin  *domain.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := memory.New()
	mailer := &recordingMailer{}
	logs := &failingLogs{EmailLogRepository: db}
	auth := app.NewAuthService(db, db.NewSessionRepo())
	jobs := app.NewJobService(db)
	notify := app.NewNotificationService(db, db, logs, mailer)
	apps := app.NewApplicationService(db, db, notify)
	dash := app.NewDashboardService(db, apps, jobs)

	webDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(webDir, "index.html"), []byte("<html></html>"), 0o600); err != nil {
		t.Fatal(err)
	}

	srv := adapthttp.New(adapthttp.Services{
		Auth:          auth,
		Jobs:          jobs,
		Applications:  apps,
		Notifications: notify,
		Dashboard:     dash,
	}, adapthttp.Config{WebDir: webDir, SessionSecret: testSecret})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	admin, err := auth.CreateInitialUser(context.Background(), "admin@example.com", "Ada Admin", testPassword)
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return &harness{ts: ts, db: db, auth: auth, mailer: mailer, logs: logs, admin: admin}
}

// staff creates a user with role and returns a client signed in as them.
func (h *harness) staff(t *testing.T, role domain.Role) *http.Client {
	t.Helper()
	email := string(role) + "@example.com"
	if role != domain.RoleAdmin {
		_, err := h.auth.CreateUser(context.Background(), h.admin, app.NewUser{
			Email: email, Name: "Test " + string(role), Role: role, Password: testPassword,
		})
		if err != nil {
			t.Fatalf("seed %s: %v", role, err)
		}
	}
	c := h.client(t)
	resp := h.do(t, c, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": testPassword})
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d", role, resp.StatusCode)
	}
	return c
}

func (h *harness) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (h *harness) do(t *testing.T, c *http.Client, method, path string, body any) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, h.ts.URL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return m
}

func decodeInto(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected %d, got %d: %s", want, resp.StatusCode, b)
	}
}

func newJob(status string) map[string]any {
	return map[string]any{
		"title":        "Backend Engineer",
		"description":  "Build the hiring pipeline.",
		"department":   "Engineering",
		"location":     "Remote",
		"type":         "full-time",
		"status":       status,
		"requirements": []string{"Go", "SQL"},
	}
}

func candidate() map[string]any {
	return map[string]any{
		"first_name":       "Jane",
		"last_name":        "Doe",
		"email":            "jane@example.com",
		"phone":            "+1 555 0100",
		"experience":       "5 years",
		"availability":     "Immediately",
		"resume_file_name": "jane.pdf",
	}
}

func (h *harness) createJob(t *testing.T, admin *http.Client, status string) domain.Job {
	t.Helper()
	resp := h.do(t, admin, http.MethodPost, "/api/admin/jobs", newJob(status))
	expectStatus(t, resp, http.StatusCreated)
	var j domain.Job
	decodeInto(t, resp, &j)
	return j
}

func (h *harness) submit(t *testing.T, jobID uuid.UUID) domain.Application {
	t.Helper()
	resp := h.do(t, h.client(t), http.MethodPost, "/api/jobs/"+jobID.String()+"/applications", candidate())
	expectStatus(t, resp, http.StatusCreated)
	var a domain.Application
	decodeInto(t, resp, &a)
	return a
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	h := newHarness(t)

	body := decodeBody(t, h.do(t, h.client(t), http.MethodGet, "/api/health", nil))
	if body["ok"] != true {
		t.Fatalf("expected ok=true, got %v", body["ok"])
	}
}

func TestSubmitAgainstDraftThenReview(t *testing.T) {
	h := newHarness(t)
	admin := h.staff(t, domain.RoleAdmin)

	job := h.createJob(t, admin, "")
	if job.Status != domain.JobDraft {
		t.Fatalf("expected default status draft, got %q", job.Status)
	}

	a := h.submit(t, job.ID)
	if a.Status != domain.StatusPending {
		t.Fatalf("expected pending, got %q", a.Status)
	}

	resp := h.do(t, admin, http.MethodPatch, "/api/admin/applications/"+a.ID.String()+"/status", map[string]any{"status": "reviewing"})
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close() //nolint:errcheck

	resp = h.do(t, admin, http.MethodGet, "/api/admin/applications/"+a.ID.String(), nil)
	expectStatus(t, resp, http.StatusOK)
	var view app.ApplicationView
	decodeInto(t, resp, &view)
	if view.Status != domain.StatusReviewing {
		t.Fatalf("expected reviewing, got %q", view.Status)
	}
	if view.JobTitle != "Backend Engineer" {
		t.Fatalf("expected job title, got %q", view.JobTitle)
	}
	if h.mailer.count() != 0 {
		t.Fatalf("expected no email without notify, got %d", h.mailer.count())
	}
}

func TestManagerCannotCreateJob(t *testing.T) {
	h := newHarness(t)
	manager := h.staff(t, domain.RoleManager)

	resp := h.do(t, manager, http.MethodPost, "/api/admin/jobs", newJob("active"))
	expectStatus(t, resp, http.StatusForbidden)
	body := decodeBody(t, resp)
	if body["error"] != "access denied" {
		t.Fatalf("expected access denied, got %v", body["error"])
	}

	jobs, err := h.db.ListJobs(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected no jobs, got %d", len(jobs))
	}
}

func TestSendEmailRecordsOneLog(t *testing.T) {
	h := newHarness(t)
	admin := h.staff(t, domain.RoleAdmin)
	hr := h.staff(t, domain.RoleHR)
	job := h.createJob(t, admin, "active")
	a := h.submit(t, job.ID)

	before := time.Now()
	resp := h.do(t, hr, http.MethodPost, "/api/admin/applications/"+a.ID.String()+"/emails", map[string]any{
		"subject": "Hello",
		"body":    "Thanks for applying.",
	})
	expectStatus(t, resp, http.StatusCreated)
	var entry domain.EmailLog
	decodeInto(t, resp, &entry)

	logs, err := h.db.ListEmailLogs(context.Background(), a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected exactly one log, got %d", len(logs))
	}
	got := logs[0]
	if got.ApplicationID == nil || *got.ApplicationID != a.ID {
		t.Fatalf("expected application reference %s, got %v", a.ID, got.ApplicationID)
	}
	if got.RecipientEmail != "jane@example.com" {
		t.Fatalf("expected recipient jane@example.com, got %q", got.RecipientEmail)
	}
	if got.SentAt.Before(before) {
		t.Fatalf("sent_at %v is before request time %v", got.SentAt, before)
	}
	if entry.ID != got.ID {
		t.Fatalf("response log %s does not match stored log %s", entry.ID, got.ID)
	}
	if h.mailer.count() != 1 {
		t.Fatalf("expected one message, got %d", h.mailer.count())
	}
}

func TestSendEmailNotLogged(t *testing.T) {
	h := newHarness(t)
	h.logs.fail(errors.New("db down"))
	admin := h.staff(t, domain.RoleAdmin)
	a := h.submit(t, h.createJob(t, admin, "active").ID)

	resp := h.do(t, admin, http.MethodPost, "/api/admin/applications/"+a.ID.String()+"/emails", map[string]any{
		"subject": "Hello",
		"body":    "Thanks for applying.",
	})
	expectStatus(t, resp, http.StatusMultiStatus)
	body := decodeBody(t, resp)
	msg, _ := body["log_error"].(string)
	if msg == "" {
		t.Fatalf("expected log_error, got %v", body)
	}
	if strings.Contains(msg, "retry") || !strings.Contains(msg, "do not resend") {
		t.Fatalf("caller must be told not to resend, got %q", msg)
	}
	if _, ok := body["email"]; !ok {
		t.Fatalf("expected the sent email in the response, got %v", body)
	}
	if h.mailer.count() != 1 {
		t.Fatalf("expected one message, got %d", h.mailer.count())
	}
}

func TestSendTemplateEmail(t *testing.T) {
	h := newHarness(t)
	admin := h.staff(t, domain.RoleAdmin)
	job := h.createJob(t, admin, "active")
	a := h.submit(t, job.ID)

	resp := h.do(t, admin, http.MethodGet, "/api/admin/applications/"+a.ID.String()+"/email-preview?template=interview", nil)
	expectStatus(t, resp, http.StatusOK)
	var preview app.Rendered
	decodeInto(t, resp, &preview)
	if !bytes.Contains([]byte(preview.Body), []byte("Jane")) {
		t.Fatalf("expected preview to greet Jane, got %q", preview.Body)
	}

	resp = h.do(t, admin, http.MethodPost, "/api/admin/applications/"+a.ID.String()+"/emails", map[string]any{"template": "interview"})
	expectStatus(t, resp, http.StatusCreated)
	var entry domain.EmailLog
	decodeInto(t, resp, &entry)
	if entry.TemplateKey != app.TemplateInterview {
		t.Fatalf("expected template key %q, got %q", app.TemplateInterview, entry.TemplateKey)
	}
	if entry.Subject != preview.Subject {
		t.Fatalf("expected subject %q, got %q", preview.Subject, entry.Subject)
	}

	resp = h.do(t, admin, http.MethodGet, "/api/admin/applications/"+a.ID.String()+"/emails", nil)
	expectStatus(t, resp, http.StatusOK)
	var history struct {
		Items []domain.EmailLog `json:"items"`
	}
	decodeInto(t, resp, &history)
	if len(history.Items) != 1 {
		t.Fatalf("expected one history entry, got %d", len(history.Items))
	}

	resp = h.do(t, admin, http.MethodPost, "/api/admin/applications/"+a.ID.String()+"/emails", map[string]any{"template": "nope"})
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close() //nolint:errcheck
}

func TestStatusChangeWithNotification(t *testing.T) {
	t.Run("sends mapped template", func(t *testing.T) {
		h := newHarness(t)
		admin := h.staff(t, domain.RoleAdmin)
		a := h.submit(t, h.createJob(t, admin, "active").ID)

		resp := h.do(t, admin, http.MethodPatch, "/api/admin/applications/"+a.ID.String()+"/status", map[string]any{"status": "rejected", "notify": true})
		expectStatus(t, resp, http.StatusOK)
		body := decodeBody(t, resp)
		if _, ok := body["email"]; !ok {
			t.Fatalf("expected email in response, got %v", body)
		}
		if _, ok := body["email_error"]; ok {
			t.Fatalf("unexpected email_error: %v", body["email_error"])
		}
		if h.mailer.count() != 1 {
			t.Fatalf("expected one message, got %d", h.mailer.count())
		}
	})

	t.Run("failed send keeps status", func(t *testing.T) {
		h := newHarness(t)
		h.mailer.sendFn = func(domain.Message) error { return errors.New("smtp down") }
		admin := h.staff(t, domain.RoleAdmin)
		a := h.submit(t, h.createJob(t, admin, "active").ID)

		resp := h.do(t, admin, http.MethodPatch, "/api/admin/applications/"+a.ID.String()+"/status", map[string]any{"status": "accepted", "notify": true})
		expectStatus(t, resp, http.StatusOK)
		body := decodeBody(t, resp)
		if _, ok := body["email_error"]; !ok {
			t.Fatalf("expected email_error, got %v", body)
		}

		stored, err := h.db.GetApplication(context.Background(), a.ID)
		if err != nil {
			t.Fatal(err)
		}
		if stored.Status != domain.StatusAccepted {
			t.Fatalf("expected accepted, got %q", stored.Status)
		}
		logs, err := h.db.ListEmailLogs(context.Background(), a.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(logs) != 0 {
			t.Fatalf("expected no logs after failed send, got %d", len(logs))
		}
	})

	t.Run("sent but not logged", func(t *testing.T) {
		h := newHarness(t)
		h.logs.fail(errors.New("db down"))
		admin := h.staff(t, domain.RoleAdmin)
		a := h.submit(t, h.createJob(t, admin, "active").ID)

		resp := h.do(t, admin, http.MethodPatch, "/api/admin/applications/"+a.ID.String()+"/status", map[string]any{"status": "rejected", "notify": true})
		expectStatus(t, resp, http.StatusOK)
		body := decodeBody(t, resp)
		msg, _ := body["email_error"].(string)
		if strings.Contains(msg, "retry") || !strings.Contains(msg, "do not resend") {
			t.Fatalf("caller must be told not to resend, got %q", msg)
		}
		if _, ok := body["email"]; !ok {
			t.Fatalf("expected the sent email in the response, got %v", body)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		h := newHarness(t)
		admin := h.staff(t, domain.RoleAdmin)
		a := h.submit(t, h.createJob(t, admin, "active").ID)

		resp := h.do(t, admin, http.MethodPatch, "/api/admin/applications/"+a.ID.String()+"/status", map[string]any{"status": "hired"})
		expectStatus(t, resp, http.StatusBadRequest)
		body := decodeBody(t, resp)
		fields, _ := body["fields"].(map[string]any)
		if _, ok := fields["status"]; !ok {
			t.Fatalf("expected status field error, got %v", body)
		}
	})
}

func TestSubmitIgnoresClientStatus(t *testing.T) {
	h := newHarness(t)
	admin := h.staff(t, domain.RoleAdmin)
	job := h.createJob(t, admin, "active")

	in := candidate()
	in["status"] = "accepted"
	resp := h.do(t, h.client(t), http.MethodPost, "/api/jobs/"+job.ID.String()+"/applications", in)
	expectStatus(t, resp, http.StatusCreated)
	var a domain.Application
	decodeInto(t, resp, &a)
	if a.Status != domain.StatusPending {
		t.Fatalf("expected pending, got %q", a.Status)
	}
}

func TestSubmitValidation(t *testing.T) {
	h := newHarness(t)
	admin := h.staff(t, domain.RoleAdmin)
	job := h.createJob(t, admin, "active")

	tests := []struct {
		name   string
		mutate func(m map[string]any)
		field  string
	}{
		{"missing email", func(m map[string]any) { delete(m, "email") }, "email"},
		{"bad email", func(m map[string]any) { m["email"] = "not-an-email" }, "email"},
		{"bad resume type", func(m map[string]any) { m["resume_file_name"] = "cv.exe" }, "resume"},
		{"bad linkedin", func(m map[string]any) { m["linkedin_url"] = "nope" }, "linkedin_url"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := candidate()
			tc.mutate(in)
			resp := h.do(t, h.client(t), http.MethodPost, "/api/jobs/"+job.ID.String()+"/applications", in)
			expectStatus(t, resp, http.StatusBadRequest)
			body := decodeBody(t, resp)
			fields, _ := body["fields"].(map[string]any)
			if _, ok := fields[tc.field]; !ok {
				t.Fatalf("expected field %q in %v", tc.field, body)
			}
		})
	}

	t.Run("unknown job", func(t *testing.T) {
		resp := h.do(t, h.client(t), http.MethodPost, "/api/jobs/"+uuid.NewString()+"/applications", candidate())
		expectStatus(t, resp, http.StatusNotFound)
		resp.Body.Close() //nolint:errcheck
	})
}

func TestSubmitMultipart(t *testing.T) {
	h := newHarness(t)
	admin := h.staff(t, domain.RoleAdmin)
	job := h.createJob(t, admin, "active")

	post := func(t *testing.T, fileName string, size int) *http.Response {
		t.Helper()
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		for k, v := range candidate() {
			if k == "resume_file_name" {
				continue
			}
			_ = mw.WriteField(k, v.(string))
		}
		fw, err := mw.CreateFormFile("resume", fileName)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write(bytes.Repeat([]byte("x"), size))
		_ = mw.Close()

		req, err := http.NewRequest(http.MethodPost, h.ts.URL+"/api/jobs/"+job.ID.String()+"/applications", &buf)
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		return resp
	}

	t.Run("accepts pdf", func(t *testing.T) {
		resp := post(t, "resume.pdf", 1024)
		expectStatus(t, resp, http.StatusCreated)
		var a domain.Application
		decodeInto(t, resp, &a)
		if a.ResumeFileName != "resume.pdf" {
			t.Fatalf("expected resume.pdf, got %q", a.ResumeFileName)
		}
	})

	t.Run("rejects other types", func(t *testing.T) {
		resp := post(t, "resume.png", 1024)
		expectStatus(t, resp, http.StatusBadRequest)
		resp.Body.Close() //nolint:errcheck
	})

	t.Run("rejects oversize", func(t *testing.T) {
		resp := post(t, "resume.pdf", app.MaxResumeSize+1)
		expectStatus(t, resp, http.StatusBadRequest)
		resp.Body.Close() //nolint:errcheck
	})
}

func TestPublicJobVisibility(t *testing.T) {
	h := newHarness(t)
	admin := h.staff(t, domain.RoleAdmin)
	job := h.createJob(t, admin, "draft")
	anon := h.client(t)

	resp := h.do(t, anon, http.MethodGet, "/api/jobs/"+job.ID.String(), nil)
	expectStatus(t, resp, http.StatusNotFound)
	resp.Body.Close() //nolint:errcheck

	resp = h.do(t, admin, http.MethodPatch, "/api/admin/jobs/"+job.ID.String(), map[string]any{"status": "active"})
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close() //nolint:errcheck

	resp = h.do(t, anon, http.MethodGet, "/api/jobs", nil)
	expectStatus(t, resp, http.StatusOK)
	var list struct {
		Items []domain.Job `json:"items"`
	}
	decodeInto(t, resp, &list)
	if len(list.Items) != 1 || list.Items[0].ID != job.ID {
		t.Fatalf("expected the activated job, got %+v", list.Items)
	}
}

func TestDeletedJobShowsUnknownPosition(t *testing.T) {
	h := newHarness(t)
	admin := h.staff(t, domain.RoleAdmin)
	job := h.createJob(t, admin, "active")
	a := h.submit(t, job.ID)

	resp := h.do(t, admin, http.MethodDelete, "/api/admin/jobs/"+job.ID.String(), nil)
	expectStatus(t, resp, http.StatusNoContent)
	resp.Body.Close() //nolint:errcheck

	resp = h.do(t, admin, http.MethodGet, "/api/admin/applications/"+a.ID.String(), nil)
	expectStatus(t, resp, http.StatusOK)
	var view app.ApplicationView
	decodeInto(t, resp, &view)
	if view.JobTitle != app.UnknownPosition {
		t.Fatalf("expected %q, got %q", app.UnknownPosition, view.JobTitle)
	}
}

func TestListApplicationsFilters(t *testing.T) {
	h := newHarness(t)
	admin := h.staff(t, domain.RoleAdmin)
	jobA := h.createJob(t, admin, "active")
	jobB := h.createJob(t, admin, "active")
	first := h.submit(t, jobA.ID)
	h.submit(t, jobA.ID)
	h.submit(t, jobB.ID)

	resp := h.do(t, admin, http.MethodPatch, "/api/admin/applications/"+first.ID.String()+"/status", map[string]any{"status": "reviewing"})
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close() //nolint:errcheck

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"all", "", 3},
		{"by job", "?job_id=" + jobA.ID.String(), 2},
		{"by status", "?status=pending", 2},
		{"both", "?status=reviewing&job_id=" + jobA.ID.String(), 1},
		{"limit", "?limit=1", 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := h.do(t, admin, http.MethodGet, "/api/admin/applications"+tc.query, nil)
			expectStatus(t, resp, http.StatusOK)
			var list struct {
				Items []app.ApplicationView `json:"items"`
			}
			decodeInto(t, resp, &list)
			if len(list.Items) != tc.want {
				t.Fatalf("expected %d items, got %d", tc.want, len(list.Items))
			}
		})
	}

	t.Run("bad job id", func(t *testing.T) {
		resp := h.do(t, admin, http.MethodGet, "/api/admin/applications?job_id=xyz", nil)
		expectStatus(t, resp, http.StatusBadRequest)
		resp.Body.Close() //nolint:errcheck
	})
}

func TestAccessGuard(t *testing.T) {
	h := newHarness(t)
	manager := h.staff(t, domain.RoleManager)
	hr := h.staff(t, domain.RoleHR)
	anon := h.client(t)

	tests := []struct {
		name   string
		client *http.Client
		method string
		path   string
		want   int
	}{
		{"anonymous dashboard", anon, http.MethodGet, "/api/admin/dashboard", http.StatusUnauthorized},
		{"manager dashboard", manager, http.MethodGet, "/api/admin/dashboard", http.StatusOK},
		{"manager users", manager, http.MethodGet, "/api/admin/users", http.StatusForbidden},
		{"hr users", hr, http.MethodGet, "/api/admin/users", http.StatusForbidden},
		{"hr jobs", hr, http.MethodGet, "/api/admin/jobs", http.StatusForbidden},
		{"hr templates", hr, http.MethodGet, "/api/admin/email-templates", http.StatusOK},
		{"manager templates", manager, http.MethodGet, "/api/admin/email-templates", http.StatusForbidden},
		{"manager profile", manager, http.MethodGet, "/api/admin/profile", http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := h.do(t, tc.client, tc.method, tc.path, nil)
			defer resp.Body.Close() //nolint:errcheck
			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}

	t.Run("unauthenticated json", func(t *testing.T) {
		body := decodeBody(t, h.do(t, anon, http.MethodGet, "/api/admin/jobs", nil))
		if body["error"] != "authentication required" || body["login"] != adapthttp.LoginPath {
			t.Fatalf("unexpected body %v", body)
		}
	})

	t.Run("unauthenticated browser redirects", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, h.ts.URL+"/api/admin/jobs", nil)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		resp, err := anon.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close() //nolint:errcheck
		if resp.StatusCode != http.StatusFound {
			t.Fatalf("expected 302, got %d", resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != adapthttp.LoginPath {
			t.Fatalf("expected redirect to %s, got %s", adapthttp.LoginPath, loc)
		}
	})
}

func TestLoginAndLogout(t *testing.T) {
	h := newHarness(t)
	c := h.client(t)

	resp := h.do(t, c, http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@example.com", "password": "wrong password"})
	expectStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close() //nolint:errcheck

	resp = h.do(t, c, http.MethodPost, "/api/auth/login", map[string]string{"email": " ADMIN@example.com ", "password": testPassword})
	expectStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if body["role_name"] != "Administrator" {
		t.Fatalf("expected Administrator, got %v", body["role_name"])
	}
	if perms, _ := body["permissions"].([]any); len(perms) != 5 {
		t.Fatalf("expected 5 permissions, got %v", body["permissions"])
	}

	resp = h.do(t, c, http.MethodGet, "/api/auth/me", nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close() //nolint:errcheck

	resp = h.do(t, c, http.MethodPost, "/api/auth/logout", nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close() //nolint:errcheck

	resp = h.do(t, c, http.MethodGet, "/api/auth/me", nil)
	expectStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close() //nolint:errcheck
}

func TestForgedSessionCookie(t *testing.T) {
	h := newHarness(t)
	token, _, err := h.auth.Login(context.Background(), "admin@example.com", testPassword)
	if err != nil {
		t.Fatal(err)
	}

	claims := jwt.MapClaims{
		"sid": token,
		"sub": h.admin.ID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("some-other-secret"))
	if err != nil {
		t.Fatal(err)
	}

	req, _ := http.NewRequest(http.MethodGet, h.ts.URL+"/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: forged})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged cookie, got %d", resp.StatusCode)
	}
}

func TestSetup(t *testing.T) {
	h := newHarness(t)

	resp := h.do(t, h.client(t), http.MethodPost, "/api/setup", map[string]string{
		"email": "second@example.com", "name": "Second", "password": testPassword,
	})
	expectStatus(t, resp, http.StatusConflict)
	resp.Body.Close() //nolint:errcheck
}

func TestUserManagement(t *testing.T) {
	h := newHarness(t)
	admin := h.staff(t, domain.RoleAdmin)

	in := map[string]string{"email": "new@example.com", "name": "New Person", "role": "hr", "password": testPassword}
	resp := h.do(t, admin, http.MethodPost, "/api/admin/users", in)
	expectStatus(t, resp, http.StatusCreated)
	body := decodeBody(t, resp)
	if _, leaked := body["password_hash"]; leaked {
		t.Fatal("password hash must not be serialized")
	}

	resp = h.do(t, admin, http.MethodPost, "/api/admin/users", in)
	expectStatus(t, resp, http.StatusConflict)
	resp.Body.Close() //nolint:errcheck

	resp = h.do(t, admin, http.MethodGet, "/api/admin/users", nil)
	expectStatus(t, resp, http.StatusOK)
	var users []domain.User
	decodeInto(t, resp, &users)
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	resp = h.do(t, admin, http.MethodPatch, "/api/admin/profile", map[string]string{"name": "Ada Renamed"})
	expectStatus(t, resp, http.StatusOK)
	body = decodeBody(t, resp)
	if body["name"] != "Ada Renamed" {
		t.Fatalf("expected renamed profile, got %v", body["name"])
	}
}

func TestDashboard(t *testing.T) {
	h := newHarness(t)
	admin := h.staff(t, domain.RoleAdmin)
	job := h.createJob(t, admin, "active")
	h.submit(t, job.ID)

	resp := h.do(t, admin, http.MethodGet, "/api/admin/dashboard", nil)
	expectStatus(t, resp, http.StatusOK)
	var overview app.Overview
	decodeInto(t, resp, &overview)
	if overview.Stats.TotalApplications != 1 || overview.Stats.PendingApplications != 1 {
		t.Fatalf("unexpected stats %+v", overview.Stats)
	}
	if overview.Stats.ActiveJobs != 1 || overview.Stats.TotalUsers != 1 {
		t.Fatalf("unexpected stats %+v", overview.Stats)
	}
	if len(overview.RecentApplications) != 1 || len(overview.Jobs) != 1 {
		t.Fatalf("unexpected overview %+v", overview)
	}
}

func TestSSODisabled(t *testing.T) {
	h := newHarness(t)

	body := decodeBody(t, h.do(t, h.client(t), http.MethodGet, "/api/config", nil))
	if body["sso_enabled"] != false {
		t.Fatalf("expected sso disabled, got %v", body["sso_enabled"])
	}
	resp := h.do(t, h.client(t), http.MethodGet, "/api/auth/sso/login", nil)
	expectStatus(t, resp, http.StatusNotFound)
	resp.Body.Close() //nolint:errcheck
}

func TestMethodNotAllowed(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"PUT jobs", http.MethodPut, "/api/jobs"},
		{"DELETE health", http.MethodDelete, "/api/health"},
		{"GET login", http.MethodGet, "/api/auth/login"},
		{"POST dashboard", http.MethodPost, "/api/admin/dashboard"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := h.do(t, h.client(t), tc.method, tc.path, nil)
			defer resp.Body.Close() //nolint:errcheck
			if resp.StatusCode != http.StatusMethodNotAllowed {
				t.Fatalf("expected 405, got %d", resp.StatusCode)
			}
		})
	}
}

func TestSPAFallback(t *testing.T) {
	h := newHarness(t)

	resp := h.do(t, h.client(t), http.MethodGet, "/careers/some-job", nil)
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	b, _ := io.ReadAll(resp.Body)
	if string(b) != "<html></html>" {
		t.Fatalf("expected index.html, got %q", b)
	}
}
