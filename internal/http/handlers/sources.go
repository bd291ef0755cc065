package handlers

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

type uploadSourceRequest struct {
	DataBase64 string `json:"data_base64"`
	MIMEType   string `json:"mime_type"`
}

// UploadSource registers a new product photo and kicks off its analysis. The
// analysis runs in the background; its outcome shows up in the session view
// as product_description or advisory.
func (a *App) UploadSource(w http.ResponseWriter, r *http.Request) {
	var req uploadSourceRequest
	if !a.decode(w, r, &req) {
		return
	}
	if !strings.HasPrefix(req.MIMEType, "image/") {
		a.json(w, http.StatusBadRequest, map[string]string{"error": "mime_type must be an image type"})
		return
	}
	data, err := base64.StdEncoding.DecodeString(req.DataBase64)
	if err != nil || len(data) == 0 {
		a.json(w, http.StatusBadRequest, map[string]string{"error": "data_base64 must be non-empty base64"})
		return
	}

	src, _, err := a.Engine.AddSource(r.Context(), data, req.MIMEType)
	if err != nil {
		a.error(w, err)
		return
	}

	sess := a.Engine.Store().Snapshot()
	a.json(w, http.StatusCreated, map[string]any{
		"source_id":    src.ID,
		"source_index": sess.ActiveSourceIndex,
	})
}

// SelectSource switches the active product photo and triggers re-analysis.
func (a *App) SelectSource(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		a.json(w, http.StatusBadRequest, map[string]string{"error": "invalid source index"})
		return
	}
	src, _, err := a.Engine.SelectSource(r.Context(), index)
	if err != nil {
		a.error(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"source_id":    src.ID,
		"source_index": index,
	})
}
