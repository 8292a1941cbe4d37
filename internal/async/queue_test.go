package async

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/joseph-ayodele/signloop/internal/common"
	"github.com/joseph-ayodele/signloop/internal/llm"
	"github.com/joseph-ayodele/signloop/internal/pipeline"
)

type fakeProcessor struct {
	mu     sync.Mutex
	paths  []string
	reqIDs []string
}

func (f *fakeProcessor) ProcessFile(ctx context.Context, path string, _ *llm.Metadata) (pipeline.Outcome, error) {
	f.mu.Lock()
	f.paths = append(f.paths, path)
	f.reqIDs = append(f.reqIDs, common.RequestIDFromContext(ctx))
	f.mu.Unlock()
	if path == "bad.pdf" {
		return pipeline.Outcome{Source: path}, common.ErrNoUsableText
	}
	return pipeline.Outcome{Source: path}, nil
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestQueueProcessesAllJobs(t *testing.T) {
	proc := &fakeProcessor{}
	var (
		mu      sync.Mutex
		results []Result
	)
	q := NewQueue(proc, quiet(),
		WithWorkers(3),
		WithQueueSize(2),
		WithProcessTimeout(time.Second),
		WithResultHandler(func(r Result) {
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
		}),
	)

	paths := []string{"a.pdf", "b.txt", "bad.pdf", "c.png", "d.pdf"}
	for _, p := range paths {
		if err := q.Enqueue(context.Background(), Job{Path: p}); err != nil {
			t.Fatalf("Enqueue(%s): %v", p, err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := q.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(results) != len(paths) {
		t.Fatalf("got %d results, want %d", len(results), len(paths))
	}
	failed := 0
	for _, r := range results {
		if r.Job.ID.String() == "" || r.Job.SubmittedAt.IsZero() {
			t.Errorf("job not stamped: %+v", r.Job)
		}
		if r.Err != nil {
			failed++
			if !errors.Is(r.Err, common.ErrNoUsableText) || r.Job.Path != "bad.pdf" {
				t.Errorf("unexpected failure %v for %s", r.Err, r.Job.Path)
			}
		}
	}
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	for i, rid := range proc.reqIDs {
		if rid == "" {
			t.Errorf("job %s ran without a request id", proc.paths[i])
		}
	}
}

func TestQueueRejectsAfterShutdown(t *testing.T) {
	q := NewQueue(&fakeProcessor{}, quiet(), WithWorkers(1))
	if err := q.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := q.Enqueue(context.Background(), Job{Path: "late.pdf"}); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("want ErrQueueClosed, got %v", err)
	}
	// second shutdown is a no-op
	if err := q.Shutdown(context.Background()); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
}

// gatedProcessor holds every job until gate is closed.
type gatedProcessor struct {
	gate    chan struct{}
	started chan string
}

func (g *gatedProcessor) ProcessFile(_ context.Context, path string, _ *llm.Metadata) (pipeline.Outcome, error) {
	g.started <- path
	<-g.gate
	return pipeline.Outcome{Source: path}, nil
}

func TestQueueShutdownReportsInterruption(t *testing.T) {
	proc := &gatedProcessor{gate: make(chan struct{}), started: make(chan string, 4)}
	var (
		mu      sync.Mutex
		results []Result
	)
	q := NewQueue(proc, quiet(), WithWorkers(2), WithResultHandler(func(r Result) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}))
	for _, p := range []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf"} {
		if err := q.Enqueue(context.Background(), Job{Path: p}); err != nil {
			t.Fatalf("Enqueue(%s): %v", p, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := q.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Shutdown = %v, want DeadlineExceeded", err)
	}

	close(proc.gate)
	if err := q.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown after release: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(results) != 4 {
		t.Errorf("got %d results, want 4", len(results))
	}
}

func TestShutdownReleasesBlockedEnqueue(t *testing.T) {
	proc := &gatedProcessor{gate: make(chan struct{}), started: make(chan string, 4)}
	q := NewQueue(proc, quiet(), WithWorkers(1), WithQueueSize(1))

	if err := q.Enqueue(context.Background(), Job{Path: "a.pdf"}); err != nil {
		t.Fatalf("Enqueue(a.pdf): %v", err)
	}
	<-proc.started
	if err := q.Enqueue(context.Background(), Job{Path: "b.pdf"}); err != nil {
		t.Fatalf("Enqueue(b.pdf): %v", err)
	}

	blocked := make(chan error, 1)
	go func() { blocked <- q.Enqueue(context.Background(), Job{Path: "c.pdf"}) }()

	shut := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		shut <- q.Shutdown(ctx)
	}()

	select {
	case err := <-shut:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Shutdown = %v, want DeadlineExceeded", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not honor its context")
	}
	select {
	case err := <-blocked:
		if !errors.Is(err, ErrQueueClosed) {
			t.Errorf("blocked Enqueue = %v, want ErrQueueClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("blocked Enqueue was not released")
	}

	close(proc.gate)
	if err := q.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown after release: %v", err)
	}
}
