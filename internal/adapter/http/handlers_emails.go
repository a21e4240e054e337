package adapthttp

import (
	"errors"
	"net/http"

	"careers/internal/app"
	"careers/internal/domain"
)

const emailNotLoggedMessage = "email sent but not recorded in the history; do not resend"

func (s *Server) handleEmailHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	logs, err := s.notify.History(r.Context(), userFrom(r.Context()), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": logs})
}

// handleSendEmail sends either a named template or a custom subject and
// body. A template key sent alongside custom text tags the log entry.
func (s *Server) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Template string `json:"template"`
		Subject  string `json:"subject"`
		Body     string `json:"body"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	actor := userFrom(r.Context())
	var (
		entry *domain.EmailLog
		err   error
	)
	if req.Template != "" && req.Subject == "" && req.Body == "" {
		entry, err = s.notify.SendTemplate(r.Context(), actor, id, req.Template)
	} else {
		entry, err = s.notify.Send(r.Context(), actor, id, req.Subject, req.Body, req.Template)
	}
	if errors.Is(err, app.ErrEmailNotLogged) {
		writeJSON(w, http.StatusMultiStatus, map[string]any{"email": entry, "log_error": emailNotLoggedMessage})
		return
	}
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleEmailPreview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rendered, err := s.notify.Preview(r.Context(), userFrom(r.Context()), id, r.URL.Query().Get("template"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rendered)
}

func (s *Server) handleEmailTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": app.Templates()})
}
