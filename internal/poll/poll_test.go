package poll

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeJob struct {
	polls        int
	completeAt   int // poll number at which the job completes; 0 = never
	failAt       int // poll number at which the job fails; 0 = never
	failMessage  string
	fetchCalls   int
	submitCalls  int
	submitErr    error
	fetchPayload string
}

func (j *fakeJob) poller(interval time.Duration, maxAttempts int) Poller[string] {
	return Poller[string]{
		Submit: func(ctx context.Context) (string, error) {
			j.submitCalls++
			return "t1", j.submitErr
		},
		Poll: func(ctx context.Context, taskID string) (Status, string, error) {
			j.polls++
			if j.failAt > 0 && j.polls >= j.failAt {
				return StatusFailed, j.failMessage, nil
			}
			if j.completeAt > 0 && j.polls >= j.completeAt {
				return StatusCompleted, "", nil
			}
			return StatusPending, "", nil
		},
		Fetch: func(ctx context.Context, taskID string) (string, error) {
			j.fetchCalls++
			return j.fetchPayload, nil
		},
		Interval:    interval,
		MaxAttempts: maxAttempts,
	}
}

func TestCompletesAfterExactPollCount(t *testing.T) {
	job := &fakeJob{completeAt: 3, fetchPayload: "report"}
	p := job.poller(time.Millisecond, 10)

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result != "report" {
		t.Errorf("result = %q", result)
	}
	if job.polls != 3 {
		t.Errorf("polls = %d, want exactly 3", job.polls)
	}
	if job.fetchCalls != 1 {
		t.Errorf("fetch calls = %d, want 1", job.fetchCalls)
	}
}

func TestTimeoutAfterBudgetExhausted(t *testing.T) {
	job := &fakeJob{} // never terminal
	p := job.poller(time.Millisecond, 5)

	_, err := p.Run(context.Background())
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if job.polls != 5 {
		t.Errorf("polls = %d, want exactly the configured budget", job.polls)
	}
	if job.fetchCalls != 0 {
		t.Errorf("fetch called on a timed-out job")
	}
}

func TestServerFailureStopsImmediately(t *testing.T) {
	job := &fakeJob{failAt: 2, failMessage: "simulation engine crashed"}
	p := job.poller(time.Millisecond, 10)

	_, err := p.Run(context.Background())
	var taskErr *TaskError
	if !errors.As(err, &taskErr) {
		t.Fatalf("expected TaskError, got %v", err)
	}
	if taskErr.Message != "simulation engine crashed" {
		t.Errorf("server message not surfaced verbatim: %q", taskErr.Message)
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("server failure must be distinct from client timeout")
	}
	if job.polls != 2 {
		t.Errorf("polls = %d, want loop exit at first failed poll", job.polls)
	}
}

func TestCancellationStopsLoop(t *testing.T) {
	job := &fakeJob{}
	p := job.poller(20*time.Millisecond, 1000)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.Run(ctx)
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("poller kept running after cancellation")
	}

	polls := job.polls
	time.Sleep(60 * time.Millisecond)
	if job.polls != polls {
		t.Error("poller issued polls after cancellation")
	}
}

func TestSubmitFailureShortCircuits(t *testing.T) {
	job := &fakeJob{submitErr: errors.New("quota exceeded")}
	p := job.poller(time.Millisecond, 10)

	_, err := p.Run(context.Background())
	if err == nil {
		t.Fatal("expected submit error")
	}
	if job.polls != 0 {
		t.Errorf("polled despite failed submission (%d polls)", job.polls)
	}
}

func TestRejectsZeroBudget(t *testing.T) {
	job := &fakeJob{completeAt: 1}
	p := job.poller(time.Millisecond, 0)
	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("expected configuration error")
	}
}
