package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/rest-template/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ErrQueueFull is returned by AsyncEmitter.EmitEvent when the buffer is full.
	ErrQueueFull = errors.New("event queue is full")

	// ErrEmitterStopped is returned when emitting after Stop.
	ErrEmitterStopped = errors.New("event emitter stopped")
)

// AsyncConfig sizes the worker pool of an AsyncEmitter.
type AsyncConfig struct {
	WorkerCount int
	QueueSize   int
}

// AsyncEmitter queues events and delivers them to a dispatcher from a fixed
// pool of workers, so publishers never wait on handlers.
type AsyncEmitter struct {
	dispatcher EventEmitter
	queue      chan *Event
	config     AsyncConfig
	logger     *slog.Logger

	mu      sync.RWMutex
	started bool
	stopped bool
	wg      sync.WaitGroup

	emitted *prometheus.CounterVec
	dropped *prometheus.CounterVec
	failed  *prometheus.CounterVec
}

// NewAsyncEmitter creates an emitter that hands events to dispatcher.
// A nil registerer disables metrics.
func NewAsyncEmitter(
	dispatcher EventEmitter,
	config AsyncConfig,
	logger *slog.Logger,
	registerer prometheus.Registerer,
) (*AsyncEmitter, error) {
	if config.WorkerCount < 1 {
		config.WorkerCount = 1
	}
	if config.QueueSize < 1 {
		config.QueueSize = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &AsyncEmitter{
		dispatcher: dispatcher,
		queue:      make(chan *Event, config.QueueSize),
		config:     config,
		logger:     logger.With("component", "async_event_emitter"),
		emitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "events_emitted_total",
			Help: "Events accepted into the queue.",
		}, []string{"type"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "events_dropped_total",
			Help: "Events rejected because the queue was full or stopped.",
		}, []string{"type"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "events_failed_total",
			Help: "Events whose handlers returned an error or panicked.",
		}, []string{"type"}),
	}

	if registerer != nil {
		for _, c := range []prometheus.Collector{e.emitted, e.dropped, e.failed} {
			if err := registerer.Register(c); err != nil {
				return nil, fmt.Errorf("failed to register event metrics: %w", err)
			}
		}
	}

	return e, nil
}

// Start launches the workers. Calling it more than once has no effect.
func (e *AsyncEmitter) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.stopped {
		return
	}
	e.started = true

	for i := 0; i < e.config.WorkerCount; i++ {
		e.wg.Add(1)
		go e.worker(i)
	}
	e.logger.Info("event workers started",
		"worker_count", e.config.WorkerCount,
		"queue_size", e.config.QueueSize)
}

// EmitEvent enqueues event without blocking.
func (e *AsyncEmitter) EmitEvent(ctx context.Context, event *Event) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.stopped {
		e.dropped.WithLabelValues(event.Type).Inc()
		return ErrEmitterStopped
	}

	select {
	case e.queue <- event:
		e.emitted.WithLabelValues(event.Type).Inc()
		return nil
	default:
		e.dropped.WithLabelValues(event.Type).Inc()
		return ErrQueueFull
	}
}

// Stop rejects new events and waits for queued ones to be delivered.
// It returns ctx.Err() if ctx ends before the queue is drained.
func (e *AsyncEmitter) Stop(ctx context.Context) error {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return nil
	}
	e.stopped = true
	close(e.queue)
	started := e.started
	e.mu.Unlock()

	if !started {
		return nil
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("event workers stopped")
		return nil
	case <-ctx.Done():
		e.logger.Warn("timed out waiting for event workers", "pending", len(e.queue))
		return ctx.Err()
	}
}

// Pending returns the number of queued events.
func (e *AsyncEmitter) Pending() int {
	return len(e.queue)
}

func (e *AsyncEmitter) worker(id int) {
	defer e.wg.Done()
	e.logger.Debug("starting worker", "worker_id", id)

	for event := range e.queue {
		e.deliver(event)
	}

	e.logger.Debug("stopping worker", "worker_id", id)
}

func (e *AsyncEmitter) deliver(event *Event) {
	ctx := logger.Restore(context.Background(), e.logger, event.TraceID)
	log := logger.FromContextOrDefault(ctx, e.logger)

	defer func() {
		if p := recover(); p != nil {
			e.failed.WithLabelValues(event.Type).Inc()
			log.Error("event handler panicked",
				"panic", fmt.Sprint(p),
				"event_id", event.ID,
				"event_type", event.Type)
		}
	}()

	if err := e.dispatcher.EmitEvent(ctx, event); err != nil {
		e.failed.WithLabelValues(event.Type).Inc()
		log.Error("failed to deliver event",
			"error", err,
			"event_id", event.ID,
			"event_type", event.Type)
	}
}
