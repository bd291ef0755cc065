package handlers

import "net/http"

// Suggestions returns up to five improvement ideas for the current product.
// The list may be empty; suggestion failures never block manual prompts.
func (a *App) Suggestions(w http.ResponseWriter, r *http.Request) {
	items := a.Engine.Suggestions(r.Context())
	if items == nil {
		items = []string{}
	}
	a.json(w, http.StatusOK, map[string]any{"suggestions": items})
}
