// Package batch fans pipeline calls out over many buffers with a bounded
// worker pool.
package batch

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/nvr-ai/go-imgshift/pipeline"
	"github.com/nvr-ai/go-imgshift/profiler"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Mode names the operation a batch run applies to every item.
type Mode string

const (
	ModeConvert Mode = "convert"
	ModeEvade   Mode = "evade"
	ModeProcess Mode = "process"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, bool) {
	m := Mode(s)
	return m, lo.Contains([]Mode{ModeConvert, ModeEvade, ModeProcess}, m)
}

// Request carries the per-item parameters for a run.
type Request struct {
	Target         string
	Quality        int
	Evasion        bool
	NoiseIntensity float64
}

// Result is the outcome of one item. Index matches the input position.
type Result struct {
	Index    int
	Data     []byte
	Err      error
	Duration time.Duration
}

// OK reports whether the item succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Runner executes batch runs against one pipeline.
type Runner struct {
	pipeline    *pipeline.Pipeline
	concurrency int
	logger      *zap.Logger
	tracker     *profiler.Tracker
}

// Option configures a Runner.
type Option func(*Runner)

// WithConcurrency bounds the number of items processed at once. Values below
// 1 select runtime.NumCPU().
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLogger sets the run logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTracker shares a profiler tracker across runs.
func WithTracker(t *profiler.Tracker) Option {
	return func(r *Runner) {
		if t != nil {
			r.tracker = t
		}
	}
}

// NewRunner creates a runner over p.
func NewRunner(p *pipeline.Pipeline, opts ...Option) *Runner {
	r := &Runner{
		pipeline:    p,
		concurrency: runtime.NumCPU(),
		logger:      zap.NewNop(),
		tracker:     profiler.NewTracker(0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tracker returns the tracker the runner reports into.
func (r *Runner) Tracker() *profiler.Tracker { return r.tracker }

// ConvertAll converts every buffer to target.
func (r *Runner) ConvertAll(ctx context.Context, bufs [][]byte, target string, quality int) ([]Result, error) {
	return r.run(ctx, ModeConvert, bufs, func(b []byte) ([]byte, error) {
		return r.pipeline.ConvertToFormat(b, target, quality)
	})
}

// EvadeAll applies the evasion transform to every buffer.
func (r *Runner) EvadeAll(ctx context.Context, bufs [][]byte, noiseIntensity float64) ([]Result, error) {
	return r.run(ctx, ModeEvade, bufs, func(b []byte) ([]byte, error) {
		return r.pipeline.ApplyEvasion(b, noiseIntensity)
	})
}

// ProcessAll runs Process on every buffer.
func (r *Runner) ProcessAll(ctx context.Context, bufs [][]byte, req Request) ([]Result, error) {
	return r.run(ctx, ModeProcess, bufs, func(b []byte) ([]byte, error) {
		return r.pipeline.Process(b, req.Target, req.Quality, req.Evasion, req.NoiseIntensity)
	})
}

// Run dispatches on mode.
func (r *Runner) Run(ctx context.Context, mode Mode, bufs [][]byte, req Request) ([]Result, error) {
	switch mode {
	case ModeEvade:
		return r.EvadeAll(ctx, bufs, req.NoiseIntensity)
	case ModeProcess:
		return r.ProcessAll(ctx, bufs, req)
	default:
		return r.ConvertAll(ctx, bufs, req.Target, req.Quality)
	}
}

// run processes every buffer with fn. A failing item never stops its
// siblings. Items not started before ctx is done carry ctx.Err(), which is
// also returned.
//
// Arguments:
// - ctx: Cancels items that have not started yet.
// - mode: The operation name used for logs and timings.
// - bufs: The input buffers.
// - fn: The per-item operation.
//
// Returns:
// - One Result per input, in input order.
// - ctx.Err() when the run was cut short.
func (r *Runner) run(ctx context.Context, mode Mode, bufs [][]byte, fn func([]byte) ([]byte, error)) ([]Result, error) {
	runID := uuid.NewString()
	logger := r.logger.With(zap.String("run_id", runID), zap.String("mode", string(mode)))
	logger.Debug("batch started", zap.Int("items", len(bufs)), zap.Int("concurrency", r.concurrency))

	results := make([]Result, len(bufs))
	started := time.Now()

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, buf := range bufs {
		results[i].Index = i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			done := r.tracker.StartOperation(string(mode))
			start := time.Now()
			out, err := fn(buf)
			results[i].Duration = time.Since(start)

			if err != nil {
				r.tracker.RecordFailure(string(mode))
				results[i].Err = err
				logger.Warn("item failed", zap.Int("index", i), zap.Error(err))
				return nil
			}
			done()
			r.tracker.AddBytes(string(mode), len(buf), len(out))
			results[i].Data = out
			return nil
		})
	}
	_ = g.Wait()

	failed := lo.CountBy(results, func(res Result) bool { return !res.OK() })
	logger.Info("batch finished",
		zap.Int("items", len(bufs)),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(started)),
	)
	return results, ctx.Err()
}

// Succeeded returns the results that carry data.
func Succeeded(results []Result) []Result {
	return lo.Filter(results, func(res Result, _ int) bool { return res.OK() })
}
