package api

import "time"

// Article is a row in the editorial dashboard listing.
type Article struct {
	ID        string    `json:"id"`
	Headline  string    `json:"headline"`
	Status    string    `json:"status"`
	Author    string    `json:"author"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Draft is the editable state of an article as last persisted by the backend.
type Draft struct {
	ArticleID string `json:"article_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Version   int    `json:"version"`
}

// Version origins. The backend tags every version record with the workflow
// that produced it.
const (
	OriginManual       = "manual"
	OriginAutosave     = "autosave"
	OriginAISuggestion = "ai_suggestion"
	OriginRestore      = "restore"
)

// VersionRecord is one entry in an article's append-only version history.
type VersionRecord struct {
	Version   int       `json:"version"`
	Origin    string    `json:"origin"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveResult is the backend's acknowledgement of a persisted draft.
type SaveResult struct {
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Diff is a rendered before/after comparison between two versions.
type Diff struct {
	DiffText string `json:"diff_text"`
}

// DiffStats counts the lines a change set adds and removes.
type DiffStats struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// Suggestion is an AI-generated rewrite held client-side until a human
// accepts or rejects it. It never carries a version number; acceptance goes
// through the normal save path and the backend assigns the next version.
type Suggestion struct {
	Mode      string    `json:"mode"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	DiffText  string    `json:"diff_text"`
	DiffStats DiffStats `json:"diff_stats"`
}

// TaskStatus is the lifecycle state of an asynchronous backend job.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// TaskState is one poll observation of an asynchronous job.
type TaskState struct {
	TaskID string     `json:"task_id"`
	Status TaskStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}
