package domain

import "time"

// ResultStatus enumerates the lifecycle states of a generated image.
type ResultStatus string

const (
	ResultStatusPending   ResultStatus = "pending"
	ResultStatusCompleted ResultStatus = "completed"
	ResultStatusFailed    ResultStatus = "failed"
)

// ResultItem is one generated or in-progress marketing image. Items are
// created as pending placeholders in batches of four and settle independently
// as their generation calls resolve. The only permitted transition out of
// Completed is back to Pending when the item is resubmitted for improvement,
// in which case the previous payload is retained as a fallback.
type ResultItem struct {
	ID        string
	Data      []byte
	MIMEType  string
	StyleID   string
	StyleName string
	Status    ResultStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasImage reports whether the item currently carries a viewable payload.
// Failed improve attempts keep the last-known-good payload, so a Failed item
// may still have an image.
func (r ResultItem) HasImage() bool {
	return len(r.Data) > 0
}

// SourceImage is one uploaded product photo. The ID gives each upload a
// stable identity so late-arriving analysis responses for an image that is no
// longer active can be discarded.
type SourceImage struct {
	ID       string
	Data     []byte
	MIMEType string
}

// MaxSourceImages caps how many product photos one session may hold.
const MaxSourceImages = 6

// Session is the in-memory state of one editing session. All fields are
// mutated exclusively through the session store; orchestrators never touch a
// Session directly.
type Session struct {
	Sources           []SourceImage
	ActiveSourceIndex int
	Results           []ResultItem
	ActiveResultID    string

	// ProductDescription is the last successful analysis text for the active
	// source image, or empty when analysis has not run or failed.
	ProductDescription string

	// Advisory carries a session-level notice when analysis fails, since that
	// degrades prompt quality for all subsequent generations.
	Advisory string
}

// ActiveSource returns the currently selected source image.
func (s Session) ActiveSource() (SourceImage, bool) {
	if s.ActiveSourceIndex < 0 || s.ActiveSourceIndex >= len(s.Sources) {
		return SourceImage{}, false
	}
	return s.Sources[s.ActiveSourceIndex], true
}

// ActiveResultIndex resolves the active result id to its current position in
// the collection, or -1 when no result is active. The index is computed from
// the id so it survives newer batches being prepended.
func (s Session) ActiveResultIndex() int {
	if s.ActiveResultID == "" {
		return -1
	}
	for i, item := range s.Results {
		if item.ID == s.ActiveResultID {
			return i
		}
	}
	return -1
}

// ActiveResult returns the currently promoted result item.
func (s Session) ActiveResult() (ResultItem, bool) {
	idx := s.ActiveResultIndex()
	if idx < 0 {
		return ResultItem{}, false
	}
	return s.Results[idx], true
}

// Result finds an item by id.
func (s Session) Result(id string) (ResultItem, bool) {
	for _, item := range s.Results {
		if item.ID == id {
			return item, true
		}
	}
	return ResultItem{}, false
}
