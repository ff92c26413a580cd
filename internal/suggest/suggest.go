// Package suggest drives the AI rewrite workflow: request a revision of the
// live draft, hold it as a pending change set, and on a human decision commit
// it as a new version or discard it.
package suggest

import (
	"context"
	"errors"
	"sync"

	"github.com/edvall/newsdesk/internal/api"
	"github.com/edvall/newsdesk/internal/session"
)

// Rewrite modes offered by the backend.
const (
	ModeTighten  = "tighten"
	ModeClarify  = "clarify"
	ModeHeadline = "headline"
	ModeExpand   = "expand"
)

// Modes lists the rewrite modes in display order.
var Modes = []string{ModeTighten, ModeClarify, ModeHeadline, ModeExpand}

// ErrNoPending means accept/reject was called with no suggestion held.
var ErrNoPending = errors.New("no pending suggestion")

// Backend is the rewrite service the workflow calls.
type Backend interface {
	RequestSuggestion(ctx context.Context, articleID, mode, title, body string) (*api.Suggestion, error)
}

// GuideStore answers whether the operator has acknowledged the first-use
// guide for an action, and records the acknowledgement. Injected rather than
// read from globals so the workflow stays testable.
type GuideStore interface {
	Acknowledged(key string) bool
	Acknowledge(key string) error
}

// Workflow holds at most one pending suggestion for an editing session. The
// suggestion never gets a version number until accepted; acceptance routes
// through the session's normal save path, so a stale base version is caught
// by the backend exactly like any other conflicting save.
type Workflow struct {
	mu        sync.Mutex
	articleID string
	backend   Backend
	sess      *session.Session
	guides    GuideStore
	pending   *api.Suggestion
}

// New creates a workflow bound to an editing session. guides may be nil, in
// which case no guide gating applies.
func New(articleID string, backend Backend, sess *session.Session, guides GuideStore) *Workflow {
	return &Workflow{
		articleID: articleID,
		backend:   backend,
		sess:      sess,
		guides:    guides,
	}
}

// NeedsGuide reports whether the first-use guide for a rewrite mode is still
// unacknowledged.
func (w *Workflow) NeedsGuide(mode string) bool {
	return w.guides != nil && !w.guides.Acknowledged(guideKey(mode))
}

// AcknowledgeGuide records that the operator has seen the guide for mode.
func (w *Workflow) AcknowledgeGuide(mode string) error {
	if w.guides == nil {
		return nil
	}
	return w.guides.Acknowledge(guideKey(mode))
}

func guideKey(mode string) string {
	return "guide:suggest:" + mode
}

// Request asks the rewrite service for a revision of the live draft and
// holds it as the pending suggestion. The live document is not mutated.
func (w *Workflow) Request(ctx context.Context, mode string) (*api.Suggestion, error) {
	snap := w.sess.Snapshot()
	s, err := w.backend.RequestSuggestion(ctx, w.articleID, mode, snap.Title, snap.Body)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.pending = s
	w.mu.Unlock()

	dup := *s
	return &dup, nil
}

// Pending returns a copy of the held suggestion, or nil.
func (w *Workflow) Pending() *api.Suggestion {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return nil
	}
	dup := *w.pending
	return &dup
}

// Accept commits the pending suggestion as a new version through the
// session's save path and, on success, clears it. If the draft was autosaved
// since the suggestion was generated, the session's base version has already
// advanced and the commit simply uses it; a genuine conflict surfaces as
// api.ErrVersionConflict with the suggestion left pending for retry.
func (w *Workflow) Accept() error {
	w.mu.Lock()
	p := w.pending
	w.mu.Unlock()
	if p == nil {
		return ErrNoPending
	}

	err := w.sess.CommitContent(p.Title, p.Body, api.OriginAISuggestion, "accepted "+p.Mode+" rewrite")
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.pending = nil
	w.mu.Unlock()
	return nil
}

// Reject discards the pending suggestion. No network call, no document
// mutation.
func (w *Workflow) Reject() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return ErrNoPending
	}
	w.pending = nil
	return nil
}
