// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	apperrors "studio-site/internal/common/errors"
	"studio-site/internal/inbox"
	"studio-site/internal/intake"
	"studio-site/internal/models"
	"studio-site/internal/review"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxBodyBytes = 64 << 10

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.repo.Ping(ctx); err != nil {
		s.errors.HandleHTTPError(w, r, apperrors.NewStoreUnavailableError("ping"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// ==========================
// Public forms
// ==========================

type submitResponse struct {
	Submission *models.Submission `json:"submission"`
	Delivered  bool               `json:"delivered"`
	Error      string             `json:"error,omitempty"`
}

func (s *Server) submitForm(formType models.SubmissionType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			s.errors.HandleHTTPError(w, r, apperrors.NewInvalidRequestError("unreadable body"))
			return
		}

		output, err := s.intake.Execute(r.Context(), &intake.Input{Type: formType, Body: body})
		if err != nil {
			s.errors.HandleHTTPError(w, r, intakeError(formType, err))
			return
		}

		if output.Delivered {
			writeJSON(w, http.StatusCreated, submitResponse{Submission: output.Submission, Delivered: true})
			return
		}

		sendErr := apperrors.NewWebhookSendFailedError(string(formType), output.NotifyError)
		writeJSON(w, http.StatusAccepted, submitResponse{
			Submission: output.Submission,
			Delivered:  false,
			Error:      sendErr.Message,
		})
	}
}

func intakeError(formType models.SubmissionType, err error) error {
	var verr *intake.ValidationError
	switch {
	case errors.As(err, &verr):
		return apperrors.NewValidationFailedError(verr.Result.GetErrorMessages()).
			WithMetadata("errors", verr.Result.Errors)
	case errors.Is(err, intake.ErrUnknownForm):
		return apperrors.NewInvalidRequestError(err.Error())
	case errors.Is(err, intake.ErrStoreUnavailable):
		return apperrors.NewStoreUnavailableError("save " + string(formType))
	default:
		return err
	}
}

// ==========================
// Admin session
// ==========================

type loginRequest struct {
	Password string `json:"password"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		s.errors.HandleHTTPError(w, r, apperrors.NewInvalidRequestError("invalid request body"))
		return
	}

	if !s.gate.Authenticate(r.Context(), req.Password) {
		s.errors.HandleHTTPError(w, r, apperrors.NewInvalidCredentialsError())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": true})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.gate.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// ==========================
// Admin submissions
// ==========================

type listResponse struct {
	Submissions []models.Submission `json:"submissions"`
	Stats       inbox.Stats         `json:"stats"`
}

func (s *Server) listSubmissions(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}

	all := s.repo.List(r.Context())
	visible := inbox.Filter(all, q)
	writeJSON(w, http.StatusOK, listResponse{
		Submissions: visible,
		Stats:       inbox.Summarize(all, visible),
	})
}

func parseQuery(r *http.Request) (inbox.Query, error) {
	params := r.URL.Query()

	q := inbox.Query{
		Tab:        models.TypeStaffApplication,
		ReadFilter: inbox.ReadFilterAll,
		Search:     params.Get("q"),
	}

	switch tab := params.Get("tab"); tab {
	case "":
	case "staff":
		q.Tab = models.TypeStaffApplication
	default:
		q.Tab = models.SubmissionType(tab)
		if !q.Tab.Valid() {
			return q, apperrors.NewInvalidRequestError("unknown tab " + tab)
		}
	}

	switch filter := inbox.ReadFilter(params.Get("filter")); filter {
	case "":
	case inbox.ReadFilterAll, inbox.ReadFilterUnread:
		q.ReadFilter = filter
	default:
		return q, apperrors.NewInvalidRequestError("unknown filter " + string(filter))
	}

	return q, nil
}

func (s *Server) unreadCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"unread": s.repo.UnreadCount(r.Context())})
}

// knownID reports whether id can name a stored row. Ids are store-generated
// UUIDs; anything else is treated as a missing row without touching the store.
func knownID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *Server) setRead(value bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if knownID(id) && !s.repo.SetRead(r.Context(), id, value) {
			s.errors.HandleHTTPError(w, r, apperrors.NewStoreUnavailableError("set read"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "read": value})
	}
}

func (s *Server) deleteSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if knownID(id) && !s.repo.Delete(r.Context(), id) {
		s.errors.HandleHTTPError(w, r, apperrors.NewStoreUnavailableError("delete"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteAll(w http.ResponseWriter, r *http.Request) {
	if !s.repo.DeleteAll(r.Context()) {
		s.errors.HandleHTTPError(w, r, apperrors.NewStoreUnavailableError("delete all"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reviewSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !knownID(id) {
		s.errors.HandleHTTPError(w, r, apperrors.NewSubmissionNotFoundError(id))
		return
	}

	output, err := s.review.Execute(r.Context(), &review.Input{SubmissionID: id})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, output)
	case errors.Is(err, review.ErrSubmissionNotFound):
		s.errors.HandleHTTPError(w, r, apperrors.NewSubmissionNotFoundError(id))
	case errors.Is(err, review.ErrReviewNotAllowed):
		s.errors.HandleHTTPError(w, r, apperrors.NewReviewNotAllowedError(id))
	case errors.Is(err, review.ErrReviewPersistFailed):
		s.errors.HandleHTTPError(w, r, apperrors.NewStoreUnavailableError("attach review"))
	default:
		s.errors.HandleHTTPError(w, r, err)
	}
}
