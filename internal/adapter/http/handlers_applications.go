package adapthttp

import (
	"errors"
	"mime"
	"net/http"

	"careers/internal/app"
	"careers/internal/domain"

	"github.com/google/uuid"
)

// maxFormOverhead bounds the non-file part of a multipart submission.
const maxFormOverhead = 1 << 20

func (s *Server) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxResumeSize+maxFormOverhead)

	var in app.SubmitInput
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		form, err := readSubmitForm(r)
		if err != nil {
			writeSubmitError(w, err)
			return
		}
		in = form
	} else {
		var req struct {
			app.SubmitInput
			Status string `json:"status"` // ignored: submissions always start pending
		}
		if err := parseJSON(r, &req); err != nil {
			writeSubmitError(w, err)
			return
		}
		in = req.SubmitInput
	}

	a, err := s.apps.Submit(r.Context(), jobID, in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// readSubmitForm reads a multipart submission. The resume's content is
// checked for type and size but not kept.
func readSubmitForm(r *http.Request) (app.SubmitInput, error) {
	if err := r.ParseMultipartForm(maxFormOverhead); err != nil {
		return app.SubmitInput{}, err
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	in := app.SubmitInput{
		FirstName:    r.FormValue("first_name"),
		LastName:     r.FormValue("last_name"),
		Email:        r.FormValue("email"),
		Phone:        r.FormValue("phone"),
		LinkedInURL:  r.FormValue("linkedin_url"),
		Experience:   r.FormValue("experience"),
		Availability: r.FormValue("availability"),
		CoverLetter:  r.FormValue("cover_letter"),
	}

	file, hdr, err := r.FormFile("resume")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return in, nil
	case err != nil:
		return in, err
	}
	_ = file.Close()
	if err := app.CheckResume(hdr.Filename, hdr.Size); err != nil {
		return in, err
	}
	in.ResumeFileName = hdr.Filename
	return in, nil
}

func writeSubmitError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	var ve *app.ValidationError
	switch {
	case errors.As(err, &tooLarge):
		writeAppError(w, &app.ValidationError{Fields: map[string]string{"resume": "must be 5MB or smaller"}})
	case errors.As(err, &ve):
		writeAppError(w, ve)
	default:
		writeError(w, http.StatusBadRequest, err)
	}
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.ApplicationFilter{Status: domain.ApplicationStatus(q.Get("status"))}
	if raw := q.Get("job_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeAppError(w, &app.ValidationError{Fields: map[string]string{"job_id": "must be a valid id"}})
			return
		}
		f.JobID = id
	}

	apps, err := s.apps.List(r.Context(), userFrom(r.Context()), f)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if limit := intQuery(r, "limit", 0); limit > 0 && len(apps) > limit {
		apps = apps[:limit]
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": apps})
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	view, err := s.apps.Get(r.Context(), userFrom(r.Context()), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status domain.ApplicationStatus `json:"status"`
		Notify bool                     `json:"notify"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.apps.ChangeStatus(r.Context(), userFrom(r.Context()), id, req.Status, req.Notify)
	if err != nil {
		writeAppError(w, err)
		return
	}
	resp := map[string]any{"application": res.Application}
	if res.Email != nil {
		resp["email"] = res.Email
	}
	if res.EmailError != nil {
		resp["email_error"] = emailErrorMessage(res.EmailError)
	}
	writeJSON(w, http.StatusOK, resp)
}

// emailErrorMessage describes a failed notification without leaking
// transport details.
func emailErrorMessage(err error) string {
	var ve *app.ValidationError
	switch {
	case errors.Is(err, app.ErrForbidden):
		return "status saved; you are not allowed to send email"
	case errors.As(err, &ve):
		return "status saved; " + ve.Error()
	case errors.Is(err, app.ErrEmailNotLogged):
		return "status saved; " + emailNotLoggedMessage
	default:
		return "status saved; the email could not be sent, please retry"
	}
}
