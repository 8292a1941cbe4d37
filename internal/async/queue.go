package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/signloop/internal/common"
	"github.com/joseph-ayodele/signloop/internal/llm"
	"github.com/joseph-ayodele/signloop/internal/pipeline"
)

// ErrQueueClosed is returned by Enqueue once Shutdown has started.
var ErrQueueClosed = errors.New("queue is shutting down")

// Job asks for one file to be extracted and analyzed.
type Job struct {
	ID          uuid.UUID
	Path        string
	Meta        *llm.Metadata
	SubmittedAt time.Time
}

// Result is handed to the ResultHandler once per processed job.
type Result struct {
	Job     Job
	Outcome pipeline.Outcome
	Err     error
}

// FileProcessor is the part of *pipeline.Processor the queue drives.
type FileProcessor interface {
	ProcessFile(ctx context.Context, path string, meta *llm.Metadata) (pipeline.Outcome, error)
}

type ResultHandler func(Result)

type Queue struct {
	proc    FileProcessor
	logger  *slog.Logger
	workers int
	timeout time.Duration
	handler ResultHandler

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	// done is closed when Shutdown starts; drained once every worker has exited.
	done    chan struct{}
	drained chan struct{}
	senders sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

type Option func(*Queue)

func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

// WithProcessTimeout bounds each job. 0 keeps the default.
func WithProcessTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func WithResultHandler(h ResultHandler) Option {
	return func(q *Queue) {
		q.handler = h
	}
}

func NewQueue(proc FileProcessor, logger *slog.Logger, opts ...Option) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 256),
		done:    make(chan struct{}),
		drained: make(chan struct{}),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("queue.worker.started", "worker_id", workerID)
				for job := range q.ch {
					q.run(workerID, job)
				}
				q.logger.Debug("queue.worker.stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *Queue) run(workerID int, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	ctx = common.WithRequestID(ctx, job.ID.String())
	out, err := q.proc.ProcessFile(ctx, job.Path, job.Meta)
	cancel()

	if err != nil {
		q.logger.Error("queue.job.failed",
			"worker_id", workerID, "job_id", job.ID, "path", job.Path,
			"code", common.Code(err), "error", err,
		)
	} else {
		q.logger.Info("queue.job.ok",
			"worker_id", workerID, "job_id", job.ID, "path", job.Path,
			"elapsed_ms", out.Duration.Milliseconds(),
		)
	}
	if q.handler != nil {
		q.handler(Result{Job: job, Outcome: out, Err: err})
	}
}

// Enqueue blocks while the buffer is full, until ctx is done.
func (q *Queue) Enqueue(ctx context.Context, job Job) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Warn("queue.enqueue.closed", "path", job.Path)
		return ErrQueueClosed
	}
	q.senders.Add(1)
	q.mu.Unlock()
	defer q.senders.Done()

	select {
	case q.ch <- job:
		q.logger.Debug("queue.enqueue.ok", "job_id", job.ID, "path", job.Path)
		return nil
	default:
	}
	q.logger.Warn("queue.enqueue.backpressure", "job_id", job.ID, "path", job.Path)
	select {
	case q.ch <- job:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops intake and waits for in-flight jobs. It returns ctx.Err() when ctx
// ends first; workers keep running and results may still arrive after that.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.done)
		go func() {
			q.senders.Wait()
			close(q.ch)
			q.wg.Wait()
			close(q.drained)
		}()
	}
	q.mu.Unlock()

	select {
	case <-ctx.Done():
		q.logger.Warn("queue.shutdown.interrupted", "error", ctx.Err())
		return ctx.Err()
	case <-q.drained:
		q.logger.Info("queue.shutdown.drained")
		return nil
	}
}
