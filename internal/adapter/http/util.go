package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"

	"careers/internal/app"

	"github.com/google/uuid"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// writeAppError maps service errors onto HTTP responses. Store and
// transport failures are logged and reported with a generic message.
func writeAppError(w http.ResponseWriter, err error) {
	var ve *app.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "validation failed", "fields": ve.Fields})
	case errors.Is(err, app.ErrNotFound):
		writeError(w, http.StatusNotFound, app.ErrNotFound)
	case errors.Is(err, app.ErrForbidden):
		writeError(w, http.StatusForbidden, app.ErrForbidden)
	case errors.Is(err, app.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": app.ErrUnauthenticated.Error(), "login": LoginPath})
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, app.ErrInvalidCredentials)
	case errors.Is(err, app.ErrEmailTaken), errors.Is(err, app.ErrSetupComplete):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, app.ErrEmailNotLogged):
		log.Printf("email not logged: %v", err)
		writeError(w, http.StatusMultiStatus, errors.New(emailNotLoggedMessage))
	case errors.Is(err, app.ErrUpstream):
		log.Printf("upstream failure: %v", err)
		writeError(w, http.StatusServiceUnavailable, app.ErrUpstream)
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// pathID parses the {id} path segment. A malformed id cannot resolve, so
// it is reported as not found.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, app.ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func intQuery(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func withNoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Cache-Control", "no-store")
		}
		next.ServeHTTP(w, r)
	})
}

// spaFromDisk serves the careers site from dir. Paths under /admin fall
// back to admin.html when present, everything else to index.html.
func spaFromDisk(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))
	indexPath := path.Join(dir, "index.html")
	adminPath := path.Join(dir, "admin.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqPath := path.Clean(r.URL.Path)
		if reqPath == "/" {
			http.ServeFile(w, r, indexPath)
			return
		}

		staticPath := path.Join(dir, reqPath)
		if info, err := os.Stat(staticPath); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}

		if reqPath == "/admin" || strings.HasPrefix(reqPath, "/admin/") {
			if _, err := os.Stat(adminPath); err == nil {
				http.ServeFile(w, r, adminPath)
				return
			}
		}
		http.ServeFile(w, r, indexPath)
	})
}
