// Package notify delivers push notifications asynchronously.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/hotelops/reklamacije/internal/domain"
)

// ErrQueueFull is logged when a notification is dropped because the queue is full.
var ErrQueueFull = errors.New("notification queue full")

// Options tunes the worker.
type Options struct {
	QueueSize   int
	RatePerSec  int
	RetryMax    int
	RetryBase   time.Duration
	SendTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.QueueSize <= 0 {
		o.QueueSize = domain.DefaultQueueSize
	}
	if o.RatePerSec <= 0 {
		o.RatePerSec = domain.DefaultRatePerSec
	}
	if o.RetryMax < 0 {
		o.RetryMax = 0
	}
	if o.RetryBase <= 0 {
		o.RetryBase = 500 * time.Millisecond
	}
	if o.SendTimeout <= 0 {
		o.SendTimeout = 10 * time.Second
	}
	return o
}

// Worker implements domain.Notifier: Publish enqueues and returns, a single
// goroutine delivers through the gateway with rate limiting and bounded retry.
// Delivery failures are logged and never reach the publisher.
type Worker struct {
	gateway domain.NotificationGateway
	logger  domain.Logger
	limiter *rate.Limiter
	queue   chan domain.Notification
	done    chan struct{}
	opts    Options

	sent   atomic.Int64
	failed atomic.Int64

	mu      sync.Mutex
	started bool
	stopped bool
}

var _ domain.Notifier = (*Worker)(nil)

// NewWorker creates a worker. Call Start to begin delivery.
func NewWorker(gateway domain.NotificationGateway, logger domain.Logger, opts Options) *Worker {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	opts = opts.withDefaults()
	return &Worker{
		gateway: gateway,
		logger:  logger,
		// Burst equals the per-second rate so short spikes don't stall.
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.RatePerSec),
		queue:   make(chan domain.Notification, opts.QueueSize),
		done:    make(chan struct{}),
		opts:    opts,
	}
}

// Publish enqueues n without blocking. Notifications without recipients are ignored.
func (w *Worker) Publish(_ context.Context, n domain.Notification) {
	n.Recipients = domain.NormalizeRecipients(n.Recipients)
	if len(n.Recipients) == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		w.logger.Warn(n.TaskID, "notify", "worker stopped, dropping notification")
		return
	}
	select {
	case w.queue <- n:
	default:
		w.failed.Add(int64(len(n.Recipients)))
		w.logger.Warn(n.TaskID, "notify", ErrQueueFull.Error())
	}
}

// Start launches the delivery loop. It is idempotent.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	go w.loop(ctx)
}

// Stop closes intake and waits for queued notifications to drain,
// or for ctx to end.
func (w *Worker) Stop(ctx context.Context) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.queue)
	started := w.started
	w.mu.Unlock()

	if !started {
		return
	}
	select {
	case <-w.done:
	case <-ctx.Done():
		w.logger.Warn("", "notify", fmt.Sprintf("stop: %d notifications not delivered", len(w.queue)))
	}
}

// Stats returns the recipients delivered and failed so far.
func (w *Worker) Stats() domain.DeliveryResult {
	return domain.DeliveryResult{Sent: int(w.sent.Load()), Failed: int(w.failed.Load())}
}

func (w *Worker) loop(ctx context.Context) {
	defer close(w.done)
	for n := range w.queue {
		if ctx.Err() != nil {
			return
		}
		w.deliver(ctx, n)
	}
}

func (w *Worker) deliver(ctx context.Context, n domain.Notification) {
	attempts := 1 + w.opts.RetryMax
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := w.limiter.Wait(ctx); err != nil {
			return
		}

		callCtx, cancel := context.WithTimeout(ctx, w.opts.SendTimeout)
		res, err := w.gateway.Notify(callCtx, n)
		cancel()
		if err == nil {
			w.sent.Add(int64(res.Sent))
			w.failed.Add(int64(res.Failed))
			w.logger.Debug(n.TaskID, "notify", fmt.Sprintf("delivered %q: sent=%d failed=%d", n.Title, res.Sent, res.Failed))
			return
		}
		lastErr = err
		w.logger.Debug(n.TaskID, "notify", fmt.Sprintf("attempt %d/%d failed: %v", attempt, attempts, err))

		if attempt == attempts {
			break
		}
		t := time.NewTimer(w.opts.RetryBase << (attempt - 1))
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return
		}
	}

	w.failed.Add(int64(len(n.Recipients)))
	w.logger.Error(n.TaskID, "notify", fmt.Sprintf("giving up after %d attempts: %v", attempts, lastErr))
}
