package ebay

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gradyserv/marketsync/internal/metrics"
	domain "github.com/gradyserv/marketsync/pkg/types"
)

// ErrQueueClosed is returned by Submit after the queue has been stopped.
var ErrQueueClosed = errors.New("revision queue is closed")

const defaultQueueCapacity = 64

// Queue serializes all revision operations process-wide. A single
// worker drains a FIFO channel, so at most one revision is in flight
// against the remote system at any instant and requests execute in
// strict arrival order. One request's failure never poisons the queue
// for later submissions.
type Queue struct {
	reviser  Reviser
	jobs     chan queueJob
	closing  chan struct{}
	log      *slog.Logger
	wg       sync.WaitGroup
	mu       sync.Mutex
	stopped  bool
	capacity int
}

type queueJob struct {
	ctx  context.Context
	req  domain.RevisionRequest
	done chan outcome
}

type outcome struct {
	strategy domain.RevisionStrategy
	err      error
}

// QueueOption configures the Queue.
type QueueOption func(*Queue)

// WithQueueLogger sets a custom logger.
func WithQueueLogger(l *slog.Logger) QueueOption {
	return func(q *Queue) {
		q.log = l
	}
}

// WithQueueCapacity sets the number of requests that may wait before
// Submit blocks.
func WithQueueCapacity(n int) QueueOption {
	return func(q *Queue) {
		q.capacity = n
	}
}

// NewQueue creates a Queue that executes revisions through the given
// Reviser. Call Start before submitting.
func NewQueue(reviser Reviser, opts ...QueueOption) *Queue {
	q := &Queue{
		reviser:  reviser,
		closing:  make(chan struct{}),
		log:      slog.Default(),
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan queueJob, q.capacity)
	return q
}

// Start launches the single worker goroutine.
func (q *Queue) Start() {
	q.wg.Add(1)
	go q.run()
}

// Stop rejects new submissions, drains already-queued work, and waits
// for the worker to exit.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.stopped {
		q.stopped = true
		close(q.closing)
	}
	q.mu.Unlock()
	q.wg.Wait()
}

func (q *Queue) run() {
	defer q.wg.Done()

	for {
		select {
		case j := <-q.jobs:
			q.process(j)
		case <-q.closing:
			// Drain whatever was accepted before the close.
			for {
				select {
				case j := <-q.jobs:
					q.process(j)
				default:
					return
				}
			}
		}
	}
}

func (q *Queue) process(j queueJob) {
	metrics.QueueDepth.Dec()

	strategy, err := q.reviser.Revise(j.ctx, j.req)
	if err != nil {
		q.log.Error("revision failed",
			"listing_id", j.req.ParentListingID,
			"strategy", string(strategy),
			"error", err,
		)
	}

	j.done <- outcome{strategy: strategy, err: err}
}

// Ticket is the handle for one submitted revision.
type Ticket struct {
	done chan outcome
}

// Wait blocks until the submitted revision settles and returns its
// outcome, or returns early when ctx is canceled. The revision itself
// still runs to completion in that case.
func (t *Ticket) Wait(ctx context.Context) (domain.RevisionStrategy, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case out := <-t.done:
		return out.strategy, out.err
	}
}

// Submit appends a revision request to the queue and returns a ticket
// for its outcome. Work begins only after all previously submitted
// requests have settled.
func (q *Queue) Submit(ctx context.Context, req domain.RevisionRequest) (*Ticket, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return nil, ErrQueueClosed
	}

	j := queueJob{ctx: ctx, req: req, done: make(chan outcome, 1)}

	// The send happens under the same lock that Stop takes before
	// closing the queue, so a job enqueued here is in the buffer before
	// stopped can flip and the worker's drain loop always sees it.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case q.jobs <- j:
		metrics.QueueDepth.Inc()
		return &Ticket{done: j.done}, nil
	}
}

// Do submits a request and waits for its outcome.
func (q *Queue) Do(ctx context.Context, req domain.RevisionRequest) (domain.RevisionStrategy, error) {
	t, err := q.Submit(ctx, req)
	if err != nil {
		return "", err
	}
	return t.Wait(ctx)
}

// Depth returns the number of requests currently waiting in the queue.
func (q *Queue) Depth() int {
	return len(q.jobs)
}
