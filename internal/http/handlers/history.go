package handlers

import (
	"net/http"
	"strconv"
	"time"
)

type historyItem struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Provider  string    `json:"provider"`
	Prompt    string    `json:"prompt"`
	Outcome   string    `json:"outcome"`
	Error     string    `json:"error,omitempty"`
	ElapsedMS int64     `json:"elapsed_ms"`
	CreatedAt time.Time `json:"created_at"`
}

// ListHistory returns recent colorization attempts when a database is
// configured.
func (a *App) ListHistory(w http.ResponseWriter, r *http.Request) {
	if a.History == nil {
		a.error(w, http.StatusNotFound, "history_disabled", "history is not configured")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	attempts, err := a.History.Recent(r.Context(), limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("failed to load history")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load history")
		return
	}
	items := make([]historyItem, 0, len(attempts))
	for _, attempt := range attempts {
		items = append(items, historyItem{
			ID:        attempt.ID,
			SessionID: attempt.SessionID,
			Provider:  attempt.Provider,
			Prompt:    attempt.Prompt,
			Outcome:   attempt.Outcome,
			Error:     attempt.Error,
			ElapsedMS: attempt.ElapsedMS,
			CreatedAt: attempt.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
