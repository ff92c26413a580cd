package suggest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/edvall/newsdesk/internal/api"
	"github.com/edvall/newsdesk/internal/session"
)

type fakeRewriter struct {
	calls      int
	gotTitle   string
	gotBody    string
	suggestion *api.Suggestion
	err        error
}

func (f *fakeRewriter) RequestSuggestion(ctx context.Context, articleID, mode, title, body string) (*api.Suggestion, error) {
	f.calls++
	f.gotTitle = title
	f.gotBody = body
	if f.err != nil {
		return nil, f.err
	}
	s := *f.suggestion
	s.Mode = mode
	return &s, nil
}

type memGuides struct {
	seen map[string]bool
}

func (g *memGuides) Acknowledged(key string) bool { return g.seen[key] }
func (g *memGuides) Acknowledge(key string) error {
	if g.seen == nil {
		g.seen = map[string]bool{}
	}
	g.seen[key] = true
	return nil
}

type recordingSaver struct {
	requests []session.SaveRequest
	err      error
}

func (r *recordingSaver) Save(ctx context.Context, req session.SaveRequest) (int, error) {
	r.requests = append(r.requests, req)
	if r.err != nil {
		return 0, r.err
	}
	return req.BaseVersion + 1, nil
}

func newWorkflow(t *testing.T, saver session.Saver, rw Backend) (*Workflow, *session.Session) {
	t.Helper()
	sess := session.Open("a1", "Live title", "live body", 5, saver, time.Hour, nil)
	t.Cleanup(sess.Close)
	return New("a1", rw, sess, &memGuides{}), sess
}

func TestRequestHoldsPendingWithoutMutatingDraft(t *testing.T) {
	rw := &fakeRewriter{suggestion: &api.Suggestion{
		Title:     "Punchier title",
		Body:      "punchier body",
		DiffText:  "-live body\n+punchier body",
		DiffStats: api.DiffStats{Added: 1, Removed: 1},
	}}
	saver := &recordingSaver{}
	w, sess := newWorkflow(t, saver, rw)

	got, err := w.Request(context.Background(), ModeTighten)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if rw.gotTitle != "Live title" || rw.gotBody != "live body" {
		t.Errorf("rewrite service did not receive the live draft: %q / %q", rw.gotTitle, rw.gotBody)
	}
	if got.Title != "Punchier title" {
		t.Errorf("unexpected suggestion: %+v", got)
	}
	if p := w.Pending(); p == nil || p.Mode != ModeTighten {
		t.Errorf("pending suggestion not held: %+v", p)
	}

	snap := sess.Snapshot()
	if snap.Title != "Live title" || snap.Body != "live body" {
		t.Errorf("live draft mutated by request: %q / %q", snap.Title, snap.Body)
	}
	if len(saver.requests) != 0 {
		t.Errorf("request issued %d saves", len(saver.requests))
	}
}

func TestAcceptCreatesOneVersionAndAdoptsContent(t *testing.T) {
	rw := &fakeRewriter{suggestion: &api.Suggestion{Title: "New", Body: "new body"}}
	saver := &recordingSaver{}
	w, sess := newWorkflow(t, saver, rw)

	if _, err := w.Request(context.Background(), ModeClarify); err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if err := w.Accept(); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	if len(saver.requests) != 1 {
		t.Fatalf("accept produced %d versions, want exactly 1", len(saver.requests))
	}
	req := saver.requests[0]
	if req.Origin != api.OriginAISuggestion {
		t.Errorf("accept origin = %q", req.Origin)
	}
	if req.BaseVersion != 5 {
		t.Errorf("accept base version = %d, want session's current 5", req.BaseVersion)
	}

	snap := sess.Snapshot()
	if snap.Title != "New" || snap.Body != "new body" {
		t.Errorf("live document does not equal the suggestion: %q / %q", snap.Title, snap.Body)
	}
	if snap.BaseVersion != 6 {
		t.Errorf("base version = %d after accept, want 6", snap.BaseVersion)
	}
	if w.Pending() != nil {
		t.Error("pending suggestion not cleared after accept")
	}
}

func TestAcceptConflictKeepsSuggestionAndDraft(t *testing.T) {
	rw := &fakeRewriter{suggestion: &api.Suggestion{Title: "New", Body: "new body"}}
	saver := &recordingSaver{err: api.ErrVersionConflict}
	w, sess := newWorkflow(t, saver, rw)

	if _, err := w.Request(context.Background(), ModeClarify); err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	err := w.Accept()
	if !errors.Is(err, api.ErrVersionConflict) {
		t.Fatalf("expected conflict to propagate, got %v", err)
	}

	snap := sess.Snapshot()
	if snap.Title != "Live title" || snap.Body != "live body" {
		t.Errorf("draft overwritten despite conflict: %q / %q", snap.Title, snap.Body)
	}
	if w.Pending() == nil {
		t.Error("suggestion dropped on failed accept; operator cannot retry")
	}
}

func TestRejectDiscardsWithoutNetworkOrMutation(t *testing.T) {
	rw := &fakeRewriter{suggestion: &api.Suggestion{Title: "New", Body: "new body"}}
	saver := &recordingSaver{}
	w, sess := newWorkflow(t, saver, rw)

	if _, err := w.Request(context.Background(), ModeHeadline); err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if err := w.Reject(); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if w.Pending() != nil {
		t.Error("pending suggestion not cleared")
	}
	if len(saver.requests) != 0 {
		t.Errorf("reject issued %d saves", len(saver.requests))
	}
	if snap := sess.Snapshot(); snap.Body != "live body" {
		t.Errorf("reject mutated the draft: %q", snap.Body)
	}

	if err := w.Accept(); !errors.Is(err, ErrNoPending) {
		t.Errorf("expected ErrNoPending after reject, got %v", err)
	}
}

func TestGuideGate(t *testing.T) {
	rw := &fakeRewriter{suggestion: &api.Suggestion{Title: "t", Body: "b"}}
	w, _ := newWorkflow(t, &recordingSaver{}, rw)

	if !w.NeedsGuide(ModeExpand) {
		t.Error("fresh mode should need its guide")
	}
	if err := w.AcknowledgeGuide(ModeExpand); err != nil {
		t.Fatalf("AcknowledgeGuide failed: %v", err)
	}
	if w.NeedsGuide(ModeExpand) {
		t.Error("guide still needed after acknowledgement")
	}
	if !w.NeedsGuide(ModeTighten) {
		t.Error("acknowledgement must be per mode")
	}
}
