package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"colorizer/internal/colorize"
	"colorizer/internal/domain"
	"colorizer/internal/infra"
)

// App bundles the dependencies shared by all HTTP handlers.
type App struct {
	Config   *infra.Config
	Logger   zerolog.Logger
	Sessions *colorize.Registry
	History  domain.HistoryRepository
	Provider string
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

// notice reports a one-shot precondition message alongside, but not
// replacing, the current request state.
func (a *App) notice(w http.ResponseWriter, status int, code, message string, view colorize.View) {
	a.json(w, status, map[string]any{
		"error":   map[string]string{"code": code, "message": message},
		"session": view,
	})
}
