// Package sim runs audience-impact simulations: a long-running backend job
// submitted for a draft and driven to completion by the generic poller.
package sim

import (
	"context"
	"time"

	"github.com/edvall/newsdesk/internal/api"
	"github.com/edvall/newsdesk/internal/poll"
	"github.com/google/uuid"
)

// Audience presets offered in the dashboard.
var Audiences = []string{"general", "subscribers", "first-time readers", "industry"}

// Request describes one simulation run over a draft's current content.
type Request struct {
	ArticleID string
	Audience  string
	Title     string
	Body      string
}

// SegmentScore is one audience segment's predicted reaction.
type SegmentScore struct {
	Segment    string  `json:"segment"`
	Engagement float64 `json:"engagement"`
	Sentiment  string  `json:"sentiment"`
	Notes      string  `json:"notes"`
}

// Report is the simulation result payload.
type Report struct {
	TaskID   string         `json:"-"`
	Summary  string         `json:"summary"`
	Segments []SegmentScore `json:"segments"`
}

// Backend is the slice of the editorial API a simulation needs.
type Backend interface {
	SubmitSimulation(ctx context.Context, articleID, audience, title, body, clientRef string) (string, error)
	PollTask(ctx context.Context, taskID string) (*api.TaskState, error)
	FetchTaskResult(ctx context.Context, taskID string, out any) error
}

// Runner drives simulations against one backend with fixed pacing.
type Runner struct {
	backend     Backend
	interval    time.Duration
	maxAttempts int
}

// NewRunner creates a simulation runner.
func NewRunner(backend Backend, interval time.Duration, maxAttempts int) *Runner {
	return &Runner{backend: backend, interval: interval, maxAttempts: maxAttempts}
}

// Run submits the simulation and polls until a report is available. Returns
// poll.ErrTimeout if the job never reaches a terminal state within the
// budget, or a *poll.TaskError carrying the backend's message if it failed.
// Cancelling ctx stops the loop; no further polls are issued.
func (r *Runner) Run(ctx context.Context, req Request) (*Report, error) {
	clientRef := uuid.NewString()

	p := poll.Poller[*Report]{
		Submit: func(ctx context.Context) (string, error) {
			return r.backend.SubmitSimulation(ctx, req.ArticleID, req.Audience, req.Title, req.Body, clientRef)
		},
		Poll: func(ctx context.Context, taskID string) (poll.Status, string, error) {
			st, err := r.backend.PollTask(ctx, taskID)
			if err != nil {
				return "", "", err
			}
			return poll.Status(st.Status), st.Error, nil
		},
		Fetch: func(ctx context.Context, taskID string) (*Report, error) {
			var report Report
			if err := r.backend.FetchTaskResult(ctx, taskID, &report); err != nil {
				return nil, err
			}
			report.TaskID = taskID
			return &report, nil
		},
		Interval:    r.interval,
		MaxAttempts: r.maxAttempts,
	}

	return p.Run(ctx)
}
