// Package poll runs a bounded submit/poll/fetch loop for long-running
// backend jobs. Any job shape plugs in through the three functions; the loop
// owns the pacing, the attempt budget, and cancellation.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Status is a job lifecycle state as reported by the backend.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transition can occur from st.
func (st Status) Terminal() bool {
	return st == StatusCompleted || st == StatusFailed
}

// ErrTimeout means the attempt budget ran out before the job reached a
// terminal state. Deliberately distinct from TaskError so operators can tell
// a stuck job from a failed one.
var ErrTimeout = errors.New("task did not finish within the polling budget")

// TaskError is a failure the backend reported for the job itself.
type TaskError struct {
	TaskID  string
	Message string
}

func (e *TaskError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("task %s failed", e.TaskID)
	}
	return fmt.Sprintf("task %s failed: %s", e.TaskID, e.Message)
}

// Poller runs one job to completion. R is the decoded result type.
type Poller[R any] struct {
	// Submit starts the job and returns its task ID.
	Submit func(ctx context.Context) (string, error)
	// Poll reports the job's status and, for failed jobs, the server's
	// error message.
	Poll func(ctx context.Context, taskID string) (Status, string, error)
	// Fetch retrieves the result of a completed job.
	Fetch func(ctx context.Context, taskID string) (R, error)

	Interval    time.Duration
	MaxAttempts int
}

// Run submits the job and polls at the configured interval until it reaches
// a terminal state, the attempt budget is exhausted, or ctx is cancelled.
// The interval elapses before each poll, including the first.
func (p Poller[R]) Run(ctx context.Context) (R, error) {
	var zero R
	if p.Interval <= 0 || p.MaxAttempts <= 0 {
		return zero, errors.New("poller needs a positive interval and attempt budget")
	}

	taskID, err := p.Submit(ctx)
	if err != nil {
		return zero, fmt.Errorf("submit task: %w", err)
	}

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(p.Interval):
		}

		status, msg, err := p.Poll(ctx, taskID)
		if err != nil {
			return zero, fmt.Errorf("poll task %s: %w", taskID, err)
		}
		switch status {
		case StatusCompleted:
			return p.Fetch(ctx, taskID)
		case StatusFailed:
			return zero, &TaskError{TaskID: taskID, Message: msg}
		}
	}

	return zero, fmt.Errorf("task %s: %w (%d attempts)", taskID, ErrTimeout, p.MaxAttempts)
}
