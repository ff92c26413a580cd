// Package session holds the client-side editing session for a single draft:
// the live title/body, the last server version this editor observed, and the
// save state machine that keeps them reconciled with the backend.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/edvall/newsdesk/internal/api"
	"github.com/edvall/newsdesk/internal/debounce"
)

// SaveState is the editing session's persistence status. Exactly one state
// holds at a time.
type SaveState string

const (
	StateSaved   SaveState = "saved"
	StateUnsaved SaveState = "unsaved"
	StateSaving  SaveState = "saving"
	StateError   SaveState = "error"
)

var (
	// ErrSaveInFlight means a persistence request is already running.
	ErrSaveInFlight = errors.New("a save is already in flight")

	// ErrClosed means the session was torn down.
	ErrClosed = errors.New("editing session is closed")
)

// SaveRequest is one persistence attempt. BaseVersion is always a version
// this session received from the backend, never invented locally.
type SaveRequest struct {
	ArticleID   string
	Title       string
	Body        string
	BaseVersion int
	Origin      string
	Note        string
}

// Saver persists a draft and returns the new server version.
type Saver interface {
	Save(ctx context.Context, req SaveRequest) (int, error)
}

// SaverFunc adapts a function to the Saver interface.
type SaverFunc func(ctx context.Context, req SaveRequest) (int, error)

func (f SaverFunc) Save(ctx context.Context, req SaveRequest) (int, error) {
	return f(ctx, req)
}

// Snapshot is a copy of the session state for rendering.
type Snapshot struct {
	ArticleID   string
	Title       string
	Body        string
	BaseVersion int
	State       SaveState
	Err         error
}

// Session is the client-held mutable document plus its version ledger. All
// writers of BaseVersion (autosave, suggestion accept, restore) go through
// the same transitions, so it always reflects the last version this session
// actually observed from the backend.
type Session struct {
	mu          sync.Mutex
	articleID   string
	title       string
	body        string
	baseVersion int
	state       SaveState
	lastErr     error

	// dirty records a local mutation that arrived while a save was in
	// flight. The session re-enters unsaved and re-arms the debouncer only
	// once the in-flight request resolves, so saves never run concurrently.
	dirty bool

	saver  Saver
	deb    *debounce.Scheduler
	notify func()
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// Open creates a session for a draft fetched from the backend. notify, if
// non-nil, is called after every state change; it may be invoked from timer
// or save goroutines.
func Open(articleID, title, body string, baseVersion int, saver Saver, autosaveDelay time.Duration, notify func()) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		articleID:   articleID,
		title:       title,
		body:        body,
		baseVersion: baseVersion,
		state:       StateSaved,
		saver:       saver,
		deb:         debounce.New(autosaveDelay),
		notify:      notify,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetTitle records a local title edit.
func (s *Session) SetTitle(title string) {
	s.mutate(func() { s.title = title })
}

// SetBody records a local body edit.
func (s *Session) SetBody(body string) {
	s.mutate(func() { s.body = body })
}

func (s *Session) mutate(apply func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	apply()
	if s.state == StateSaving {
		s.dirty = true
		s.mu.Unlock()
		s.emit()
		return
	}
	s.state = StateUnsaved
	s.deb.Schedule(s.autosaveFired)
	s.mu.Unlock()
	s.emit()
}

func (s *Session) autosaveFired() {
	s.flush(api.OriginAutosave, "")
}

// SaveNow bypasses the debounce timer and persists immediately. No-op if a
// save is already in flight.
func (s *Session) SaveNow(note string) {
	s.mu.Lock()
	if s.closed || s.state == StateSaving {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.deb.Cancel()
	go s.flush(api.OriginManual, note)
}

// flush issues one persistence request for the current content. Autosave
// firings only proceed from the unsaved state; manual saves proceed from any
// state except saving.
func (s *Session) flush(origin, note string) {
	s.mu.Lock()
	if s.closed || s.state == StateSaving {
		s.mu.Unlock()
		return
	}
	if origin == api.OriginAutosave && s.state != StateUnsaved {
		s.mu.Unlock()
		return
	}
	req := SaveRequest{
		ArticleID:   s.articleID,
		Title:       s.title,
		Body:        s.body,
		BaseVersion: s.baseVersion,
		Origin:      origin,
		Note:        note,
	}
	s.state = StateSaving
	s.dirty = false
	s.mu.Unlock()
	s.emit()

	version, err := s.saver.Save(s.ctx, req)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if err != nil {
		// Content stays exactly as typed; baseVersion untouched. The error
		// is sticky until the next successful save or a fresh edit.
		s.state = StateError
		s.lastErr = err
	} else {
		s.baseVersion = version
		if s.dirty {
			s.dirty = false
			s.state = StateUnsaved
			s.deb.Schedule(s.autosaveFired)
		} else {
			s.state = StateSaved
			s.lastErr = nil
		}
	}
	s.mu.Unlock()
	s.emit()
}

// CommitContent persists replacement content (an accepted AI rewrite) as a
// new version and, on success, adopts it as the live document. On failure
// the live document is untouched and the error is returned and recorded.
func (s *Session) CommitContent(title, body, origin, note string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state == StateSaving {
		s.mu.Unlock()
		return ErrSaveInFlight
	}
	s.deb.Cancel()
	req := SaveRequest{
		ArticleID:   s.articleID,
		Title:       title,
		Body:        body,
		BaseVersion: s.baseVersion,
		Origin:      origin,
		Note:        note,
	}
	s.state = StateSaving
	s.dirty = false
	s.mu.Unlock()
	s.emit()

	version, err := s.saver.Save(s.ctx, req)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		s.state = StateError
		s.lastErr = err
		s.mu.Unlock()
		s.emit()
		return err
	}
	s.title = title
	s.body = body
	s.baseVersion = version
	s.state = StateSaved
	s.lastErr = nil
	s.mu.Unlock()
	s.emit()
	return nil
}

// AdoptServerVersion replaces the live document with content the backend
// already persisted (a reloaded draft after a restore). Fails if a save is
// in flight.
func (s *Session) AdoptServerVersion(title, body string, version int) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state == StateSaving {
		s.mu.Unlock()
		return ErrSaveInFlight
	}
	s.deb.Cancel()
	s.title = title
	s.body = body
	s.baseVersion = version
	s.state = StateSaved
	s.lastErr = nil
	s.dirty = false
	s.mu.Unlock()
	s.emit()
	return nil
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ArticleID:   s.articleID,
		Title:       s.title,
		Body:        s.body,
		BaseVersion: s.baseVersion,
		State:       s.state,
		Err:         s.lastErr,
	}
}

// Close tears down the session: pending debounce timers are cancelled, the
// in-flight request context is cancelled, and no further state changes or
// notifications occur.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.deb.Stop()
	s.cancel()
	s.mu.Unlock()
}

func (s *Session) emit() {
	if s.notify != nil {
		s.notify()
	}
}
