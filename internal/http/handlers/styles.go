package handlers

import "net/http"

type styleView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PreviewURL  string `json:"preview_url"`
}

func (a *App) ListStyles(w http.ResponseWriter, r *http.Request) {
	styles := a.Styles.List()
	out := make([]styleView, 0, len(styles))
	for _, s := range styles {
		out = append(out, styleView{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			PreviewURL:  s.PreviewURL,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"styles": out})
}
