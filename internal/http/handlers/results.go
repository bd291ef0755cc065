package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"photostudio/internal/domain"
	"photostudio/internal/storage"
	"photostudio/pkg/zip"
)

type improveRequest struct {
	Prompt string `json:"prompt"`
}

// ImproveResult re-runs the chosen completed result through generation with
// a free-text instruction, chaining the edit off its current image.
func (a *App) ImproveResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req improveRequest
	if !a.decode(w, r, &req) {
		return
	}

	imp, err := a.Engine.Improve(r.Context(), id, req.Prompt)
	if err != nil {
		a.error(w, err)
		return
	}
	a.json(w, http.StatusAccepted, map[string]string{"result_id": imp.ResultID})
}

// SelectResult makes a completed result the active, displayed one. Selecting
// a pending or failed item is rejected without side effect.
func (a *App) SelectResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Engine.Store().SelectResult(id); err != nil {
		a.error(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"active_result_id": id})
}

// ResultImage serves a result's image bytes for display or download.
func (a *App) ResultImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, ok := a.Engine.Store().Result(id)
	if !ok {
		a.error(w, fmt.Errorf("%w: result %s", domain.ErrNotFound, id))
		return
	}
	if !item.HasImage() {
		a.error(w, fmt.Errorf("%w: result %s has no image yet", domain.ErrInvalidState, id))
		return
	}
	w.Header().Set("Content-Type", item.MIMEType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(item.Data)
}

// ExportResult persists a result's image into the export store and returns
// the storage key.
func (a *App) ExportResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, ok := a.Engine.Store().Result(id)
	if !ok {
		a.error(w, fmt.Errorf("%w: result %s", domain.ErrNotFound, id))
		return
	}
	if !item.HasImage() {
		a.error(w, fmt.Errorf("%w: result %s has no image yet", domain.ErrInvalidState, id))
		return
	}

	key, err := a.Exports.Write(r.Context(), storage.ExportKey(item.ID, item.MIMEType), item.Data)
	if err != nil {
		a.error(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]string{"storage_key": key})
}

// ArchiveResults streams all viewable results as one zip download.
func (a *App) ArchiveResults(w http.ResponseWriter, r *http.Request) {
	sess := a.Engine.Store().Snapshot()
	var assets []zip.Asset
	for _, item := range sess.Results {
		if !item.HasImage() {
			continue
		}
		assets = append(assets, zip.Asset{
			Filename: storage.ExportKey(item.ID, item.MIMEType),
			MIME:     item.MIMEType,
			Data:     item.Data,
		})
	}
	if len(assets) == 0 {
		a.error(w, fmt.Errorf("%w: no viewable results", domain.ErrInvalidState))
		return
	}

	archive := zip.ArchiveAssets(assets)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="results.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}
