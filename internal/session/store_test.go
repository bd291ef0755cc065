package session

import (
	"errors"
	"testing"

	"photostudio/internal/domain"
)

func testStyle() domain.StyleDescriptor {
	return domain.StyleDescriptor{ID: "hero", Name: "Hero Shot"}
}

func TestAddSourceBecomesActiveAndClearsAnalysis(t *testing.T) {
	store := NewStore()

	first, err := store.AddSource([]byte("one"), "image/png")
	if err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	if first.ID == "" {
		t.Fatal("AddSource returned empty id")
	}
	store.SetDescriptionIf(first.ID, "a red mug")
	if store.ProductDescription() != "a red mug" {
		t.Fatal("description not recorded")
	}

	second, err := store.AddSource([]byte("two"), "image/jpeg")
	if err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	sess := store.Snapshot()
	if sess.ActiveSourceIndex != 1 {
		t.Fatalf("ActiveSourceIndex = %d, want 1", sess.ActiveSourceIndex)
	}
	if sess.ProductDescription != "" {
		t.Fatalf("description = %q, want cleared after upload", sess.ProductDescription)
	}
	active, ok := store.ActiveSource()
	if !ok || active.ID != second.ID {
		t.Fatalf("active source = %+v, want %s", active, second.ID)
	}
}

func TestAddSourceEnforcesLimit(t *testing.T) {
	store := NewStore()
	for i := 0; i < domain.MaxSourceImages; i++ {
		if _, err := store.AddSource([]byte{byte(i)}, "image/png"); err != nil {
			t.Fatalf("AddSource %d: %v", i, err)
		}
	}
	if _, err := store.AddSource([]byte("extra"), "image/png"); !errors.Is(err, domain.ErrTooManySources) {
		t.Fatalf("err = %v, want ErrTooManySources", err)
	}
}

func TestSelectSourceOutOfRange(t *testing.T) {
	store := NewStore()
	if _, err := store.SelectSource(0); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := store.AddSource([]byte("one"), "image/png"); err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	if _, err := store.SelectSource(3); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStaleAnalysisIsDiscarded(t *testing.T) {
	store := NewStore()
	first, _ := store.AddSource([]byte("one"), "image/png")
	if _, err := store.AddSource([]byte("two"), "image/png"); err != nil {
		t.Fatalf("AddSource: %v", err)
	}

	if store.SetDescriptionIf(first.ID, "stale") {
		t.Fatal("stale description was applied")
	}
	if store.ProductDescription() != "" {
		t.Fatalf("description = %q, want empty", store.ProductDescription())
	}
	if store.SetAdvisoryIf(first.ID, "stale advisory") {
		t.Fatal("stale advisory was applied")
	}
}

func TestSuccessfulAnalysisClearsAdvisory(t *testing.T) {
	store := NewStore()
	src, _ := store.AddSource([]byte("one"), "image/png")

	if !store.SetAdvisoryIf(src.ID, "analysis failed") {
		t.Fatal("advisory not applied")
	}
	if !store.SetDescriptionIf(src.ID, "a red mug") {
		t.Fatal("description not applied")
	}
	sess := store.Snapshot()
	if sess.Advisory != "" {
		t.Fatalf("advisory = %q, want cleared by successful analysis", sess.Advisory)
	}
	if sess.ProductDescription != "a red mug" {
		t.Fatalf("description = %q", sess.ProductDescription)
	}
}

func TestPrependResultsKeepsExistingOrder(t *testing.T) {
	store := NewStore()
	old := NewPending(testStyle(), 2)
	store.PrependResults(old)
	fresh := NewPending(testStyle(), 4)
	store.PrependResults(fresh)

	sess := store.Snapshot()
	if len(sess.Results) != 6 {
		t.Fatalf("len(Results) = %d, want 6", len(sess.Results))
	}
	for i, item := range fresh {
		if sess.Results[i].ID != item.ID {
			t.Fatalf("Results[%d] = %s, want fresh batch first", i, sess.Results[i].ID)
		}
	}
	for i, item := range old {
		if sess.Results[4+i].ID != item.ID {
			t.Fatalf("Results[%d] = %s, want old batch in original order", 4+i, sess.Results[4+i].ID)
		}
	}
}

func TestActiveResultSurvivesPrepend(t *testing.T) {
	store := NewStore()
	old := NewPending(testStyle(), 4)
	store.PrependResults(old)
	store.CompleteResult(old[2].ID, []byte("img"), "image/png")
	if !store.PromoteResult(old[2].ID) {
		t.Fatal("PromoteResult failed")
	}

	store.PrependResults(NewPending(testStyle(), 4))

	sess := store.Snapshot()
	if sess.ActiveResultID != old[2].ID {
		t.Fatalf("ActiveResultID = %s, want %s", sess.ActiveResultID, old[2].ID)
	}
	if got := sess.ActiveResultIndex(); got != 6 {
		t.Fatalf("ActiveResultIndex = %d, want 6", got)
	}
	active, ok := sess.ActiveResult()
	if !ok || active.ID != old[2].ID {
		t.Fatalf("ActiveResult = %+v, want %s", active, old[2].ID)
	}
}

func TestCompleteResultReportsFirstTransitionOnce(t *testing.T) {
	store := NewStore()
	items := NewPending(testStyle(), 1)
	store.PrependResults(items)
	id := items[0].ID

	item, first := store.CompleteResult(id, []byte("img"), "image/png")
	if !first {
		t.Fatal("first completion not reported")
	}
	if item.Status != domain.ResultStatusCompleted || !item.HasImage() {
		t.Fatalf("item = %+v, want completed with payload", item)
	}

	item, first = store.CompleteResult(id, []byte("img"), "image/png")
	if first {
		t.Fatal("repeated completion reported as first")
	}
	if item.Status != domain.ResultStatusCompleted {
		t.Fatalf("status = %s after repeat, want completed", item.Status)
	}
}

func TestFailResultKeepsPayload(t *testing.T) {
	store := NewStore()
	items := NewPending(testStyle(), 1)
	store.PrependResults(items)
	id := items[0].ID

	store.CompleteResult(id, []byte("img"), "image/png")
	item, _ := store.FailResult(id)
	if item.Status != domain.ResultStatusFailed {
		t.Fatalf("status = %s, want failed", item.Status)
	}
	if !item.HasImage() {
		t.Fatal("payload lost on failure")
	}
}

func TestPatchesOnUnknownIDAreNoOps(t *testing.T) {
	store := NewStore()
	if _, ok := store.CompleteResult("missing", []byte("x"), "image/png"); ok {
		t.Fatal("CompleteResult on unknown id reported a transition")
	}
	if _, ok := store.FailResult("missing"); ok {
		t.Fatal("FailResult on unknown id reported a transition")
	}
	if store.PromoteResult("missing") {
		t.Fatal("PromoteResult on unknown id succeeded")
	}
	if len(store.Snapshot().Results) != 0 {
		t.Fatal("no-op patch mutated the collection")
	}
}

func TestSelectResultRejectsNonCompleted(t *testing.T) {
	store := NewStore()
	items := NewPending(testStyle(), 2)
	store.PrependResults(items)
	store.CompleteResult(items[0].ID, []byte("img"), "image/png")
	if err := store.SelectResult(items[0].ID); err != nil {
		t.Fatalf("SelectResult completed: %v", err)
	}

	if err := store.SelectResult(items[1].ID); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
	if got := store.Snapshot().ActiveResultID; got != items[0].ID {
		t.Fatalf("ActiveResultID = %s, want unchanged %s", got, items[0].ID)
	}

	if err := store.SelectResult("missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPromoteResultRequiresCompletion(t *testing.T) {
	store := NewStore()
	items := NewPending(testStyle(), 1)
	store.PrependResults(items)

	if store.PromoteResult(items[0].ID) {
		t.Fatal("promoted a pending item")
	}
	store.FailResult(items[0].ID)
	if store.PromoteResult(items[0].ID) {
		t.Fatal("promoted a failed item")
	}
	if store.Snapshot().ActiveResultID != "" {
		t.Fatal("ActiveResultID set by rejected promotion")
	}
}

func TestMarkImprovingRetainsFallbackPayload(t *testing.T) {
	store := NewStore()
	items := NewPending(testStyle(), 1)
	store.PrependResults(items)
	id := items[0].ID

	if _, err := store.MarkImproving(id); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState for pending item", err)
	}

	store.CompleteResult(id, []byte("good"), "image/png")
	item, err := store.MarkImproving(id)
	if err != nil {
		t.Fatalf("MarkImproving: %v", err)
	}
	if item.Status != domain.ResultStatusPending {
		t.Fatalf("status = %s, want pending", item.Status)
	}
	if string(item.Data) != "good" {
		t.Fatalf("payload = %q, want fallback retained", item.Data)
	}

	if _, err := store.MarkImproving(id); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState while already pending", err)
	}
	if _, err := store.MarkImproving("missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRestoreResultPutsFallbackBack(t *testing.T) {
	store := NewStore()
	items := NewPending(testStyle(), 1)
	store.PrependResults(items)
	id := items[0].ID

	store.CompleteResult(id, []byte("good"), "image/png")
	fallback, _ := store.MarkImproving(id)

	item, ok := store.RestoreResult(id, fallback.Data, fallback.MIMEType)
	if !ok {
		t.Fatal("RestoreResult reported missing item")
	}
	if item.Status != domain.ResultStatusFailed {
		t.Fatalf("status = %s, want failed", item.Status)
	}
	if string(item.Data) != "good" || !item.HasImage() {
		t.Fatalf("payload = %q, want last-known-good restored", item.Data)
	}
}
