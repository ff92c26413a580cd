// Package history reads an article's append-only version history and
// restores past versions. Restore is forward-only: the backend creates a new
// version with the old content, never rewriting history in place.
package history

import (
	"context"
	"sort"

	"github.com/edvall/newsdesk/internal/api"
	"github.com/edvall/newsdesk/internal/session"
)

// Backend is the slice of the editorial API the history service needs.
type Backend interface {
	ListVersions(ctx context.Context, articleID string) ([]api.VersionRecord, error)
	DiffVersions(ctx context.Context, articleID string, from, to int) (*api.Diff, error)
	RestoreVersion(ctx context.Context, articleID string, version int) (int, error)
	GetDraft(ctx context.Context, articleID string) (*api.Draft, error)
}

// Service exposes version history for one article. sess may be nil for
// headless use; when present, a restore feeds the reloaded draft back into
// the session's version ledger.
type Service struct {
	articleID string
	backend   Backend
	sess      *session.Session
}

// New creates a history service for an article.
func New(articleID string, backend Backend, sess *session.Session) *Service {
	return &Service{articleID: articleID, backend: backend, sess: sess}
}

// List returns the version history, most recent first.
func (s *Service) List(ctx context.Context) ([]api.VersionRecord, error) {
	records, err := s.backend.ListVersions(ctx, s.articleID)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Version > records[j].Version
	})
	return records, nil
}

// Diff fetches a rendered diff between two versions, in either order.
// Returns api.ErrNotFound if either version does not exist.
func (s *Service) Diff(ctx context.Context, from, to int) (*api.Diff, error) {
	return s.backend.DiffVersions(ctx, s.articleID, from, to)
}

// Restore creates a new current version whose content equals the given
// historical version, then reloads the draft so the ledger and live content
// reflect what the backend now holds.
func (s *Service) Restore(ctx context.Context, version int) (*api.Draft, error) {
	if _, err := s.backend.RestoreVersion(ctx, s.articleID, version); err != nil {
		return nil, err
	}
	draft, err := s.backend.GetDraft(ctx, s.articleID)
	if err != nil {
		return nil, err
	}
	if s.sess != nil {
		if err := s.sess.AdoptServerVersion(draft.Title, draft.Body, draft.Version); err != nil {
			return nil, err
		}
	}
	return draft, nil
}
