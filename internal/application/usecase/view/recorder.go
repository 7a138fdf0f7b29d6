// Package view records profile views off the request path.
package view

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/domain/view"
	"github.com/khoahotran/folio/pkg/logger"
)

var tracer = otel.Tracer("view_usecase")

// Sink persists or forwards a view. view.Repository and the Kafka publisher
// both satisfy it.
type Sink interface {
	Record(ctx context.Context, v view.View) error
}

// Dedup reports whether a (profile, visitor) pair is seen for the first
// time. It is an optimization; the store still enforces uniqueness.
// Forget releases a pair whose view never reached the sink.
type Dedup interface {
	FirstSeen(ctx context.Context, v view.View) (bool, error)
	Forget(ctx context.Context, v view.View) error
}

type RecorderConfig struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// Recorder accepts views without blocking and hands them to a fixed pool of
// workers. A full queue drops the view. Errors are logged and never reach
// the caller.
type Recorder struct {
	sink    Sink
	dedup   Dedup
	logger  logger.Logger
	timeout time.Duration
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
	queue  chan view.View
	wg     sync.WaitGroup
}

// NewRecorder starts the worker pool. dedup may be nil.
func NewRecorder(sink Sink, dedup Dedup, cfg RecorderConfig, log logger.Logger) *Recorder {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	r := &Recorder{
		sink:    sink,
		dedup:   dedup,
		logger:  log.With(zap.String("component", "view_recorder")),
		timeout: cfg.Timeout,
		now:     func() time.Time { return time.Now().UTC() },
		queue:   make(chan view.View, cfg.QueueSize),
	}
	r.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go r.work()
	}
	return r
}

// Record enqueues a view and returns immediately.
func (r *Recorder) Record(profileID uuid.UUID, visitorKey string) {
	if profileID == uuid.Nil || visitorKey == "" {
		r.logger.Debug("Skipping view without profile or visitor", zap.String("profile_id", profileID.String()))
		return
	}
	v := view.View{ProfileID: profileID, VisitorID: visitorKey, ViewedAt: r.now()}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.logger.Warn("View recorder closed, dropping view", zap.String("profile_id", profileID.String()))
		return
	}
	select {
	case r.queue <- v:
	default:
		r.logger.Warn("View queue full, dropping view", zap.String("profile_id", profileID.String()))
	}
}

// Close stops accepting views and waits for queued ones to drain, or for
// ctx to end.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Recorder) work() {
	defer r.wg.Done()
	for v := range r.queue {
		r.process(v)
	}
}

func (r *Recorder) process(v view.View) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "RecordView")
	defer span.End()
	span.SetAttributes(attribute.String("profile_id", v.ProfileID.String()))

	fields := []zap.Field{zap.String("profile_id", v.ProfileID.String())}

	marked := false
	if r.dedup != nil {
		first, err := r.dedup.FirstSeen(ctx, v)
		switch {
		case err != nil:
			r.logger.Warn("View dedup check failed, recording anyway", append(fields, zap.Error(err))...)
		case !first:
			span.SetAttributes(attribute.Bool("duplicate", true))
			return
		default:
			marked = true
		}
	}

	if err := r.sink.Record(ctx, v); err != nil {
		span.RecordError(err)
		r.logger.Error("Failed to record view", err, fields...)
		if marked {
			r.forget(ctx, v, fields)
		}
	}
}

// forget clears the dedup marker so the visitor's next view is retried
// instead of being suppressed for the whole TTL.
func (r *Recorder) forget(ctx context.Context, v view.View, fields []zap.Field) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()
	if err := r.dedup.Forget(ctx, v); err != nil {
		r.logger.Warn("Failed to release view dedup marker", append(fields, zap.Error(err))...)
	}
}
