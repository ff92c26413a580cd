package sim

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/edvall/newsdesk/internal/api"
	"github.com/edvall/newsdesk/internal/poll"
)

type fakeSimBackend struct {
	polls      int
	completeAt int
	failAt     int
	failMsg    string
	clientRef  string
	audience   string
}

func (f *fakeSimBackend) SubmitSimulation(ctx context.Context, articleID, audience, title, body, clientRef string) (string, error) {
	f.clientRef = clientRef
	f.audience = audience
	return "task-9", nil
}

func (f *fakeSimBackend) PollTask(ctx context.Context, taskID string) (*api.TaskState, error) {
	f.polls++
	if f.failAt > 0 && f.polls >= f.failAt {
		return &api.TaskState{TaskID: taskID, Status: api.TaskFailed, Error: f.failMsg}, nil
	}
	if f.completeAt > 0 && f.polls >= f.completeAt {
		return &api.TaskState{TaskID: taskID, Status: api.TaskCompleted}, nil
	}
	return &api.TaskState{TaskID: taskID, Status: api.TaskRunning}, nil
}

func (f *fakeSimBackend) FetchTaskResult(ctx context.Context, taskID string, out any) error {
	raw := `{"summary": "resonates with subscribers", "segments": [{"segment": "subscribers", "engagement": 0.82, "sentiment": "positive", "notes": "strong lede"}]}`
	return json.Unmarshal([]byte(raw), out)
}

func TestRunDeliversReport(t *testing.T) {
	backend := &fakeSimBackend{completeAt: 3}
	r := NewRunner(backend, time.Millisecond, 10)

	report, err := r.Run(context.Background(), Request{
		ArticleID: "a1", Audience: "subscribers", Title: "T", Body: "B",
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.TaskID != "task-9" {
		t.Errorf("report task id = %q", report.TaskID)
	}
	if len(report.Segments) != 1 || report.Segments[0].Engagement != 0.82 {
		t.Errorf("unexpected report: %+v", report)
	}
	if backend.polls != 3 {
		t.Errorf("polls = %d, want 3", backend.polls)
	}
	if backend.clientRef == "" {
		t.Error("no client reference attached to the submission")
	}
	if backend.audience != "subscribers" {
		t.Errorf("audience = %q", backend.audience)
	}
}

func TestRunSurfacesServerFailure(t *testing.T) {
	backend := &fakeSimBackend{failAt: 1, failMsg: "no capacity"}
	r := NewRunner(backend, time.Millisecond, 10)

	_, err := r.Run(context.Background(), Request{ArticleID: "a1"})
	var taskErr *poll.TaskError
	if !errors.As(err, &taskErr) {
		t.Fatalf("expected TaskError, got %v", err)
	}
	if taskErr.Message != "no capacity" {
		t.Errorf("server message = %q", taskErr.Message)
	}
}

func TestRunTimesOutDistinctly(t *testing.T) {
	backend := &fakeSimBackend{} // never terminal
	r := NewRunner(backend, time.Millisecond, 4)

	_, err := r.Run(context.Background(), Request{ArticleID: "a1"})
	if !errors.Is(err, poll.ErrTimeout) {
		t.Fatalf("expected poll.ErrTimeout, got %v", err)
	}
	if backend.polls != 4 {
		t.Errorf("polls = %d, want the full budget", backend.polls)
	}
}
