// Package pipeline maps a render function over an ordered list of snapshots
// on a fixed pool of workers and returns the results in input order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"bimile/internal/core"
)

// DefaultWorkers is the pool size used when none is configured.
const DefaultWorkers = 3

var tracer = otel.Tracer("bimile.pipeline")

// ErrRenderWorker is matched by every WorkerError.
var ErrRenderWorker = errors.New("render worker failed")

// WorkerError reports the snapshot a worker failed on. It aborts the whole
// RenderAll call and is not retried.
type WorkerError struct {
	Index int
	Err   error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("render snapshot %d: %v", e.Index, e.Err)
}

func (e *WorkerError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrRenderWorker) match.
func (e *WorkerError) Is(target error) bool { return target == ErrRenderWorker }

type options struct {
	logger *slog.Logger
}

// Option configures RenderAll.
type Option func(*options)

// WithLogger sets the logger used for pipeline progress.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// RenderAll applies fn to every item on a pool of workers goroutines and
// returns the results in input order. Every index is queued up front; each
// worker pulls indices and writes into the slot reserved for that index. The
// call returns only after all slots are filled. The first failure cancels the
// remaining work and is returned as a *WorkerError with no partial output.
func RenderAll[T, F any](ctx context.Context, items []T, workers int, fn func(T) (F, error), opts ...Option) ([]F, error) {
	if workers < 1 {
		return nil, core.NewConfigError("workers", workers, "must be at least 1")
	}
	if fn == nil {
		return nil, core.NewConfigError("render function", nil, "must not be nil")
	}
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	total := len(items)
	if workers > total {
		workers = max(total, 1)
	}

	ctx, span := tracer.Start(ctx, "pipeline.RenderAll",
		trace.WithAttributes(
			attribute.Int("pipeline.items", total),
			attribute.Int("pipeline.workers", workers),
		),
	)
	defer span.End()

	out := make([]F, total)
	if total == 0 {
		return out, nil
	}

	queue := make(chan int, total)
	for i := range items {
		queue <- i
	}
	close(queue)

	start := time.Now()
	activeWorkers.Set(float64(workers))
	defer activeWorkers.Set(0)
	o.logger.Debug("render dispatch",
		slog.Int("items", total),
		slog.Int("workers", workers),
	)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range queue {
				if err := gctx.Err(); err != nil {
					return err
				}
				frameStart := time.Now()
				frame, err := fn(items[i])
				if err != nil {
					renderFailures.Inc()
					return &WorkerError{Index: i, Err: err}
				}
				out[i] = frame
				recordFrame(time.Since(frameStart))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		o.logger.Error("render aborted", slog.String("error", err.Error()))
		return nil, err
	}

	o.logger.Debug("render complete",
		slog.Int("frames", total),
		slog.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}
