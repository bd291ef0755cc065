package handlers

import (
	"net/http"

	"photostudio/internal/domain"
)

type sourceView struct {
	ID       string `json:"id"`
	MIMEType string `json:"mime_type"`
	Active   bool   `json:"active"`
}

type resultView struct {
	ID        string `json:"id"`
	StyleID   string `json:"style_id"`
	StyleName string `json:"style_name"`
	Status    string `json:"status"`
	HasImage  bool   `json:"has_image"`
	Active    bool   `json:"active"`
}

type sessionView struct {
	Sources            []sourceView `json:"sources"`
	ActiveSourceIndex  int          `json:"active_source_index"`
	ProductDescription string       `json:"product_description"`
	Advisory           string       `json:"advisory,omitempty"`
	Results            []resultView `json:"results"`
	ActiveResultID     string       `json:"active_result_id,omitempty"`
	ActiveResultIndex  int          `json:"active_result_index"`
}

// Session returns the UI-facing view of the current session state.
func (a *App) Session(w http.ResponseWriter, r *http.Request) {
	sess := a.Engine.Store().Snapshot()
	a.json(w, http.StatusOK, buildSessionView(sess))
}

func buildSessionView(sess domain.Session) sessionView {
	view := sessionView{
		Sources:            make([]sourceView, 0, len(sess.Sources)),
		ActiveSourceIndex:  sess.ActiveSourceIndex,
		ProductDescription: sess.ProductDescription,
		Advisory:           sess.Advisory,
		Results:            make([]resultView, 0, len(sess.Results)),
		ActiveResultID:     sess.ActiveResultID,
		ActiveResultIndex:  sess.ActiveResultIndex(),
	}
	for i, src := range sess.Sources {
		view.Sources = append(view.Sources, sourceView{
			ID:       src.ID,
			MIMEType: src.MIMEType,
			Active:   i == sess.ActiveSourceIndex,
		})
	}
	for _, item := range sess.Results {
		view.Results = append(view.Results, resultView{
			ID:        item.ID,
			StyleID:   item.StyleID,
			StyleName: item.StyleName,
			Status:    string(item.Status),
			HasImage:  item.HasImage(),
			Active:    item.ID == sess.ActiveResultID,
		})
	}
	return view
}
