package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"colorizer/internal/colorize"
	"colorizer/internal/domain"
	"colorizer/internal/metrics"
	"colorizer/internal/middleware"
)

// acceptedMIMETypes mirrors the file-picker accept list. The workflow core
// trusts its input; this boundary is the only place upload types are
// constrained.
var acceptedMIMETypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
}

func (a *App) CreateSession(w http.ResponseWriter, r *http.Request) {
	session := a.Sessions.Create()
	a.json(w, http.StatusCreated, session.Snapshot())
}

func (a *App) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, session.Snapshot())
}

func (a *App) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Sessions.Remove(r.Context(), id); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) UploadImage(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, a.Config.MaxUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read upload")
		return
	}
	mime := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if mime == "" || mime == "application/octet-stream" {
		mime = strings.ToLower(http.DetectContentType(data))
	}
	if _, accepted := acceptedMIMETypes[mime]; !accepted {
		a.error(w, http.StatusUnsupportedMediaType, "unsupported_type", "only PNG, JPEG and WebP images are accepted")
		return
	}

	if _, err := session.SelectImage(r.Context(), colorize.SourceFile{
		Name: header.Filename,
		MIME: mime,
		Data: data,
	}); err != nil {
		if errors.Is(err, domain.ErrSessionClosed) {
			a.error(w, http.StatusNotFound, "not_found", "session not found")
			return
		}
		a.Logger.Error().Err(err).Msg("failed to stage upload")
		a.error(w, http.StatusInternalServerError, "internal", "failed to stage upload")
		return
	}
	a.json(w, http.StatusOK, session.Snapshot())
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

func (a *App) SetPrompt(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	var req promptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := session.SetPrompt(req.Prompt); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "session not found")
		return
	}
	a.json(w, http.StatusOK, session.Snapshot())
}

func (a *App) Colorize(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	started := time.Now()
	state, err := session.Submit(r.Context())
	if err != nil {
		locale := middleware.LocaleFromContext(r.Context())
		if code, message, known := noticeFor(err, locale); known {
			status := http.StatusUnprocessableEntity
			if errors.Is(err, domain.ErrBusy) {
				status = http.StatusConflict
			}
			a.notice(w, status, code, message, session.Snapshot())
			return
		}
		if errors.Is(err, domain.ErrSessionClosed) {
			a.error(w, http.StatusNotFound, "not_found", "session not found")
			return
		}
		a.Logger.Error().Err(err).Msg("colorization submit failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to submit colorization")
		return
	}

	a.recordOutcome(r, session, state, time.Since(started))
	if state.Phase == colorize.PhaseFailed {
		a.json(w, http.StatusBadGateway, session.Snapshot())
		return
	}
	a.json(w, http.StatusOK, session.Snapshot())
}

// recordOutcome feeds metrics and the optional history repository. Only
// terminal outcomes are recorded; superseded attempts leave the state in a
// non-terminal phase and are skipped.
func (a *App) recordOutcome(r *http.Request, session *colorize.Session, state colorize.RequestState, elapsed time.Duration) {
	var outcome string
	switch state.Phase {
	case colorize.PhaseSucceeded:
		outcome = domain.OutcomeSucceeded
	case colorize.PhaseFailed:
		outcome = domain.OutcomeFailed
	default:
		return
	}
	metrics.Colorization(outcome, a.Provider, elapsed)
	if a.History == nil {
		return
	}
	view := session.Snapshot()
	attempt := &domain.Colorization{
		SessionID: view.ID,
		Provider:  a.Provider,
		Prompt:    view.Prompt,
		Outcome:   outcome,
		Error:     state.ErrorMessage,
		ElapsedMS: elapsed.Milliseconds(),
	}
	if err := a.History.Record(r.Context(), attempt); err != nil {
		a.Logger.Warn().Err(err).Msg("failed to record colorization history")
	}
}

func (a *App) session(w http.ResponseWriter, r *http.Request) (*colorize.Session, bool) {
	id := chi.URLParam(r, "id")
	session, err := a.Sessions.Get(id)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "session not found")
		return nil, false
	}
	return session, true
}
