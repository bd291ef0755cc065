package handlers

import "net/http"

type startGenerationRequest struct {
	StyleID string `json:"style_id"`
}

// StartGeneration confirms a style selection. The four placeholders are in
// the collection by the time this responds; generation settles in the
// background and is observed through the session view.
func (a *App) StartGeneration(w http.ResponseWriter, r *http.Request) {
	var req startGenerationRequest
	if !a.decode(w, r, &req) {
		return
	}

	batch, err := a.Engine.StartBatch(r.Context(), req.StyleID)
	if err != nil {
		a.error(w, err)
		return
	}

	a.json(w, http.StatusAccepted, map[string]any{
		"style_id":   batch.StyleID,
		"result_ids": batch.IDs,
	})
}
