package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"photostudio/internal/catalog"
	"photostudio/internal/domain"
	"photostudio/internal/infra"
	"photostudio/internal/orchestrator"
	"photostudio/internal/storage"
)

// App bundles the handler dependencies: the orchestration engine, the style
// catalog, and the export store.
type App struct {
	Engine  *orchestrator.Engine
	Styles  *catalog.Catalog
	Exports *storage.FileStore
	Logger  infra.Logger
}

func NewApp(engine *orchestrator.Engine, styles *catalog.Catalog, exports *storage.FileStore, logger infra.Logger) *App {
	return &App{Engine: engine, Styles: styles, Exports: exports, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownStyle), errors.Is(err, domain.ErrTooManySources):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrNoSourceImage):
		code = http.StatusConflict
	}
	if code == http.StatusInternalServerError {
		a.Logger.Error().Err(err).Msg("handlers: internal error")
	}
	a.json(w, code, map[string]string{"error": err.Error()})
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.json(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}
