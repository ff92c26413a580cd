// Package api is the typed HTTP client for the editorial backend. It is the
// only place that talks to the network; every failure is translated into the
// error taxonomy in errors.go before it reaches a caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultClientTimeout is the default timeout for backend requests.
const DefaultClientTimeout = 15 * time.Second

// Client wraps HTTP calls to the editorial backend.
type Client struct {
	baseURL    string
	token      string
	editorID   string
	httpClient *http.Client
}

// NewClient creates a backend client. editorID identifies this editor
// instance in autosave payloads so the backend can attribute sessions.
func NewClient(baseURL, token, editorID string) *Client {
	return &Client{
		baseURL:  baseURL,
		token:    token,
		editorID: editorID,
		httpClient: &http.Client{
			Timeout: DefaultClientTimeout,
		},
	}
}

// ListArticles fetches the dashboard listing, optionally filtered by status.
func (c *Client) ListArticles(ctx context.Context, status string) ([]Article, error) {
	path := "/articles"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var articles []Article
	if err := c.do(ctx, http.MethodGet, path, nil, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// GetDraft fetches the current editable state of an article.
func (c *Client) GetDraft(ctx context.Context, articleID string) (*Draft, error) {
	var d Draft
	if err := c.do(ctx, http.MethodGet, "/articles/"+articleID+"/draft", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// AutosaveRequest is the payload for persisting local edits. BaseVersion is
// the optimistic-concurrency token: the last version this session observed
// from the backend.
type AutosaveRequest struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	BaseVersion int    `json:"base_version"`
	Origin      string `json:"origin"`
	Note        string `json:"note,omitempty"`
	EditorID    string `json:"editor_id"`
}

// Validate implements validation.Validatable.
func (r AutosaveRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.BaseVersion, validation.Min(1)),
		validation.Field(&r.Origin, validation.Required, validation.In(
			OriginManual, OriginAutosave, OriginAISuggestion, OriginRestore)),
	)
}

// SaveDraft persists a draft against its base version. Returns
// ErrVersionConflict if the base version is stale.
func (c *Client) SaveDraft(ctx context.Context, articleID string, req AutosaveRequest) (*SaveResult, error) {
	req.EditorID = c.editorID
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid save request: %w", err)
	}
	var result SaveResult
	if err := c.do(ctx, http.MethodPost, "/articles/"+articleID+"/autosave", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListVersions fetches the append-only version history, most recent first.
func (c *Client) ListVersions(ctx context.Context, articleID string) ([]VersionRecord, error) {
	var records []VersionRecord
	if err := c.do(ctx, http.MethodGet, "/articles/"+articleID+"/versions", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// DiffVersions fetches a rendered diff between any two existing versions.
func (c *Client) DiffVersions(ctx context.Context, articleID string, from, to int) (*Diff, error) {
	path := fmt.Sprintf("/articles/%s/diff?from=%d&to=%d", articleID, from, to)
	var d Diff
	if err := c.do(ctx, http.MethodGet, path, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// RestoreVersion asks the backend to create a new version whose content
// equals the given historical version. History is never rewritten in place.
func (c *Client) RestoreVersion(ctx context.Context, articleID string, version int) (int, error) {
	body := map[string]int{"version": version}
	var result struct {
		NewVersion int `json:"new_version"`
	}
	if err := c.do(ctx, http.MethodPost, "/articles/"+articleID+"/restore", body, &result); err != nil {
		return 0, err
	}
	return result.NewVersion, nil
}

// RequestSuggestion asks the rewrite service for an AI-generated revision of
// the live title/body. The live draft is not mutated.
func (c *Client) RequestSuggestion(ctx context.Context, articleID, mode, title, body string) (*Suggestion, error) {
	req := map[string]string{
		"mode":  mode,
		"title": title,
		"body":  body,
	}
	var s Suggestion
	if err := c.do(ctx, http.MethodPost, "/articles/"+articleID+"/suggest", req, &s); err != nil {
		return nil, err
	}
	if s.Mode == "" {
		s.Mode = mode
	}
	return &s, nil
}

// SubmitSimulation starts an audience-impact simulation job and returns its
// task ID. clientRef is a caller-generated reference echoed back by the
// backend so a resubmitted job can be correlated.
func (c *Client) SubmitSimulation(ctx context.Context, articleID, audience, title, body, clientRef string) (string, error) {
	req := map[string]string{
		"article_id": articleID,
		"audience":   audience,
		"title":      title,
		"body":       body,
		"client_ref": clientRef,
	}
	var result struct {
		TaskID string `json:"task_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/simulations", req, &result); err != nil {
		return "", err
	}
	return result.TaskID, nil
}

// PollTask fetches the current state of an asynchronous job.
func (c *Client) PollTask(ctx context.Context, taskID string) (*TaskState, error) {
	var st TaskState
	if err := c.do(ctx, http.MethodGet, "/tasks/"+taskID, nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// FetchTaskResult decodes a completed job's result payload into out.
func (c *Client) FetchTaskResult(ctx context.Context, taskID string, out any) error {
	return c.do(ctx, http.MethodGet, "/tasks/"+taskID+"/result", nil, out)
}

// do performs a JSON request and decodes the response into result (if
// non-nil). Non-2xx responses are translated into the error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return c.statusError(resp.StatusCode, respBody)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) statusError(code int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)
	msg := payload.Error
	if msg == "" {
		msg = string(body)
	}

	switch code {
	case http.StatusConflict:
		if msg != "" {
			return fmt.Errorf("%w: %s", ErrVersionConflict, msg)
		}
		return ErrVersionConflict
	case http.StatusNotFound:
		if msg != "" {
			return fmt.Errorf("%w: %s", ErrNotFound, msg)
		}
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	}
	return &BackendError{StatusCode: code, Message: msg}
}
