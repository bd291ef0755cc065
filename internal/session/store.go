package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"photostudio/internal/domain"
)

// Store is the single owner of all mutable session state. Orchestrators
// mutate the session exclusively through its methods; each method applies one
// read-modify-write patch atomically under the lock. Result patches locate
// items by id and mutate them in place, so completion updates from
// concurrently settling generation calls commute and never lose each other.
type Store struct {
	mu   sync.Mutex
	sess domain.Session
}

// NewStore returns an empty session.
func NewStore() *Store {
	return &Store{sess: domain.Session{ActiveSourceIndex: -1}}
}

// Snapshot returns a copy of the session. Slices are copied so callers can
// iterate without racing concurrent patches; payload bytes are shared and
// treated as immutable once attached.
func (s *Store) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() domain.Session {
	out := s.sess
	out.Sources = append([]domain.SourceImage(nil), s.sess.Sources...)
	out.Results = append([]domain.ResultItem(nil), s.sess.Results...)
	return out
}

// AddSource registers a new uploaded product photo, makes it the active
// source, and invalidates the product description and advisory. The returned
// image carries the freshly assigned id.
func (s *Store) AddSource(data []byte, mimeType string) (domain.SourceImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sess.Sources) >= domain.MaxSourceImages {
		return domain.SourceImage{}, fmt.Errorf("%w: limit is %d", domain.ErrTooManySources, domain.MaxSourceImages)
	}
	img := domain.SourceImage{
		ID:       uuid.NewString(),
		Data:     data,
		MIMEType: mimeType,
	}
	s.sess.Sources = append(s.sess.Sources, img)
	s.sess.ActiveSourceIndex = len(s.sess.Sources) - 1
	s.sess.ProductDescription = ""
	s.sess.Advisory = ""
	return img, nil
}

// SelectSource switches the active source image and invalidates the product
// description and advisory.
func (s *Store) SelectSource(index int) (domain.SourceImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.sess.Sources) {
		return domain.SourceImage{}, fmt.Errorf("%w: source index %d", domain.ErrNotFound, index)
	}
	s.sess.ActiveSourceIndex = index
	s.sess.ProductDescription = ""
	s.sess.Advisory = ""
	return s.sess.Sources[index], nil
}

// ActiveSource returns the currently selected source image.
func (s *Store) ActiveSource() (domain.SourceImage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.ActiveSource()
}

// SetDescriptionIf records an analysis result only when the source image it
// was computed for is still the active one. Late responses for an image the
// user has already switched away from are discarded.
func (s *Store) SetDescriptionIf(sourceID, description string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, ok := s.sess.ActiveSource()
	if !ok || active.ID != sourceID {
		return false
	}
	s.sess.ProductDescription = description
	s.sess.Advisory = ""
	return true
}

// SetAdvisoryIf records a session-level analysis failure notice, guarded by
// the same source identity check as SetDescriptionIf.
func (s *Store) SetAdvisoryIf(sourceID, advisory string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, ok := s.sess.ActiveSource()
	if !ok || active.ID != sourceID {
		return false
	}
	s.sess.Advisory = advisory
	return true
}

// ProductDescription returns the current analysis text, or empty.
func (s *Store) ProductDescription() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.ProductDescription
}

// NewPending builds a batch of pending placeholder items for a style. Ids are
// assigned here; nothing is stored until PrependResults.
func NewPending(style domain.StyleDescriptor, n int) []domain.ResultItem {
	now := time.Now()
	items := make([]domain.ResultItem, n)
	for i := range items {
		items[i] = domain.ResultItem{
			ID:        uuid.NewString(),
			StyleID:   style.ID,
			StyleName: style.Name,
			Status:    domain.ResultStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	return items
}

// PrependResults inserts a new batch at the head of the collection as one
// atomic update, so the placeholders become visible together and before any
// of the batch's generation calls can settle. Existing items keep their
// relative order.
func (s *Store) PrependResults(items []domain.ResultItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make([]domain.ResultItem, 0, len(items)+len(s.sess.Results))
	merged = append(merged, items...)
	merged = append(merged, s.sess.Results...)
	s.sess.Results = merged
}

// Result finds an item by id.
func (s *Store) Result(id string) (domain.ResultItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.Result(id)
}

// CompleteResult attaches a payload to the item and marks it Completed. The
// patch is idempotent: re-applying the same completion leaves the item in the
// same state. The second return value reports whether this call performed the
// Pending→Completed transition, which callers use to gate promotion.
func (s *Store) CompleteResult(id string, data []byte, mimeType string) (domain.ResultItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.ResultItem{}, false
	}
	item := &s.sess.Results[idx]
	first := item.Status == domain.ResultStatusPending
	item.Data = data
	item.MIMEType = mimeType
	item.Status = domain.ResultStatusCompleted
	item.UpdatedAt = time.Now()
	return *item, first
}

// FailResult marks the item Failed without touching its payload. Idempotent
// in the same sense as CompleteResult.
func (s *Store) FailResult(id string) (domain.ResultItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.ResultItem{}, false
	}
	item := &s.sess.Results[idx]
	first := item.Status == domain.ResultStatusPending
	item.Status = domain.ResultStatusFailed
	item.UpdatedAt = time.Now()
	return *item, first
}

// PromoteResult makes the item the session's active, displayed result. Only
// completed items can be promoted.
func (s *Store) PromoteResult(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 || s.sess.Results[idx].Status != domain.ResultStatusCompleted {
		return false
	}
	s.sess.ActiveResultID = id
	return true
}

// SelectResult is the user-facing variant of PromoteResult: selecting an item
// that is not completed is rejected without side effect.
func (s *Store) SelectResult(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return fmt.Errorf("%w: result %s", domain.ErrNotFound, id)
	}
	if s.sess.Results[idx].Status != domain.ResultStatusCompleted {
		return fmt.Errorf("%w: result %s is %s", domain.ErrInvalidState, id, s.sess.Results[idx].Status)
	}
	s.sess.ActiveResultID = id
	return nil
}

// MarkImproving performs the one permitted Completed→Pending transition,
// keeping the current payload in place as the fallback. The returned item
// carries that payload so the caller can chain the next edit off it.
func (s *Store) MarkImproving(id string) (domain.ResultItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.ResultItem{}, fmt.Errorf("%w: result %s", domain.ErrNotFound, id)
	}
	item := &s.sess.Results[idx]
	if item.Status != domain.ResultStatusCompleted {
		return domain.ResultItem{}, fmt.Errorf("%w: cannot improve result in status %s", domain.ErrInvalidState, item.Status)
	}
	item.Status = domain.ResultStatusPending
	item.UpdatedAt = time.Now()
	return *item, nil
}

// RestoreResult settles a failed improve attempt: the item is marked Failed
// but the last-known-good payload is put back so the user never loses a
// previously viewable image.
func (s *Store) RestoreResult(id string, fallback []byte, mimeType string) (domain.ResultItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.ResultItem{}, false
	}
	item := &s.sess.Results[idx]
	item.Status = domain.ResultStatusFailed
	item.Data = fallback
	item.MIMEType = mimeType
	item.UpdatedAt = time.Now()
	return *item, true
}

func (s *Store) indexLocked(id string) int {
	for i := range s.sess.Results {
		if s.sess.Results[i].ID == id {
			return i
		}
	}
	return -1
}
