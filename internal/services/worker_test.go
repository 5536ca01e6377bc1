package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type stubEvaluator struct {
	fn func(ctx context.Context, evalID uuid.UUID) error
}

func (s *stubEvaluator) EvaluateCandidate(ctx context.Context, evalID uuid.UUID) error {
	return s.fn(ctx, evalID)
}

func TestWorkerProcessesEnqueuedJob(t *testing.T) {
	processed := make(chan uuid.UUID, 1)
	evaluator := &stubEvaluator{fn: func(_ context.Context, evalID uuid.UUID) error {
		processed <- evalID
		return nil
	}}

	w := NewWorker(&stubEvalRepo{}, evaluator, 1, 6000, time.Second)
	w.Start(context.Background())
	defer w.Stop()

	evalID := uuid.New()
	w.EnqueueJob(evalID)

	select {
	case got := <-processed:
		if got != evalID {
			t.Fatalf("expected job %s, got %s", evalID, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed in time")
	}
}

func TestWorkerAppliesJobTimeout(t *testing.T) {
	results := make(chan error, 1)
	evaluator := &stubEvaluator{fn: func(ctx context.Context, _ uuid.UUID) error {
		<-ctx.Done()
		results <- ctx.Err()
		return ctx.Err()
	}}

	w := NewWorker(&stubEvalRepo{}, evaluator, 1, 6000, 20*time.Millisecond)
	w.Start(context.Background())
	defer w.Stop()

	w.EnqueueJob(uuid.New())

	select {
	case err := <-results:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("invocation was not cancelled by the timeout")
	}
}

func TestWorkerPacesJobStarts(t *testing.T) {
	starts := make(chan time.Time, 2)
	evaluator := &stubEvaluator{fn: func(_ context.Context, _ uuid.UUID) error {
		starts <- time.Now()
		return nil
	}}

	// 600 starts/minute: one start every 100ms.
	w := NewWorker(&stubEvalRepo{}, evaluator, 2, 600, time.Second)
	w.Start(context.Background())
	defer w.Stop()

	w.EnqueueJob(uuid.New())
	w.EnqueueJob(uuid.New())

	var times []time.Time
	for len(times) < 2 {
		select {
		case ts := <-starts:
			times = append(times, ts)
		case <-time.After(2 * time.Second):
			t.Fatal("jobs were not processed in time")
		}
	}

	gap := times[1].Sub(times[0])
	if gap < 0 {
		gap = -gap
	}
	if gap < 80*time.Millisecond {
		t.Fatalf("expected starts at least ~100ms apart, gap was %v", gap)
	}
}

func TestWorkerStops(t *testing.T) {
	evaluator := &stubEvaluator{fn: func(context.Context, uuid.UUID) error { return nil }}

	w := NewWorker(&stubEvalRepo{}, evaluator, 2, 6000, time.Second)
	w.Start(context.Background())

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop in time")
	}
}
