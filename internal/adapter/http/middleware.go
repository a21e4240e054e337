package adapthttp

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"careers/internal/app"
	"careers/internal/domain"
)

type contextKey string

const userContextKey contextKey = "user"

// LoginPath is where unauthenticated browser requests are sent.
const LoginPath = "/admin/login"

// userFrom returns the user resolved for this request, or nil.
func userFrom(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userContextKey).(*domain.User)
	return u
}

// withUser resolves the current user from the session cookie and stores it
// in the request context. A missing or invalid session is not an error:
// the request simply carries no user.
func (s *Server) withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := s.resolveCurrentUser(r); user != nil {
			r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) resolveCurrentUser(r *http.Request) *domain.User {
	token, sub, ok := s.cookies.read(r)
	if !ok {
		return nil
	}
	user, err := s.auth.ValidateSession(r.Context(), token)
	if err != nil {
		if !isSessionMiss(err) {
			log.Printf("session: resolve failed: %v", err)
		}
		return nil
	}
	if user.ID != sub {
		return nil
	}
	return user
}

func isSessionMiss(err error) bool {
	return err == app.ErrSessionNotFound || err == app.ErrSessionExpired || err == app.ErrUserNotFound
}

// guard wraps h with the access check for perms. An empty perms admits any
// signed-in user.
func (s *Server) guard(h http.HandlerFunc, perms ...domain.Permission) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch app.Authorize(userFrom(r.Context()), perms...) {
		case app.AccessUnauthenticated:
			denyUnauthenticated(w, r)
		case app.AccessForbidden:
			writeJSON(w, http.StatusForbidden, map[string]any{"error": app.ErrForbidden.Error()})
		case app.AccessGranted:
			h(w, r)
		}
	})
}

func denyUnauthenticated(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}
	writeJSON(w, http.StatusUnauthorized, map[string]any{
		"error": app.ErrUnauthenticated.Error(),
		"login": LoginPath,
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs one line per request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}
