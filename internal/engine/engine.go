// Package engine is the in-process implementation of backend.Backend. It owns
// the pomodoro phase machine, persists it through the store and publishes
// tick, phase-completed and insights events to subscribers.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sadopc/pomotrend/internal/backend"
	"github.com/sadopc/pomotrend/internal/calendar"
	"github.com/sadopc/pomotrend/internal/countdown"
	"github.com/sadopc/pomotrend/internal/store"
	"github.com/sadopc/pomotrend/internal/trends"
)

const (
	DefaultTickInterval  = time.Second
	DefaultHeatmapDays   = 53 * 7
	DefaultRetentionDays = 400
)

var _ backend.Backend = (*Engine)(nil)

type Options struct {
	Clock         Clock
	Logger        zerolog.Logger
	TickInterval  time.Duration
	HeatmapDays   int
	RetentionDays int
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = RealClock{}
	}
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
	if o.HeatmapDays <= 0 {
		o.HeatmapDays = DefaultHeatmapDays
	}
	if o.RetentionDays <= 0 {
		o.RetentionDays = DefaultRetentionDays
	}
	return o
}

type Engine struct {
	store *store.Store
	opts  Options
	log   zerolog.Logger

	// emitMu is held from taking a snapshot until its tick has been
	// published, so subscribers see snapshots in state order. Tick handlers
	// must not call back into the engine's commands.
	emitMu sync.Mutex

	mu     sync.Mutex
	state  timerState
	closed bool

	ticks     registry[countdown.Snapshot]
	completed registry[backend.PhaseCompleted]
	insights  registry[backend.Insights]

	runOnce sync.Once
	cancel  context.CancelFunc
	done    chan struct{}
}

// New loads settings and the last runtime state from st. A phase that ran
// out while the process was down is completed and credited immediately.
func New(st *store.Store, opts Options) (*Engine, error) {
	opts = opts.withDefaults()
	e := &Engine{
		store: st,
		opts:  opts,
		log:   opts.Logger.With().Str("component", "engine").Logger(),
	}

	settings, err := st.LoadTimerSettings()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	settings = countdown.SanitizeSettings(settings)

	rt, err := st.LoadRuntime()
	if err != nil {
		return nil, fmt.Errorf("load runtime: %w", err)
	}

	now := e.opts.Clock.Now()
	state, done := restoreState(settings, rt, now.UnixMilli())
	e.state = state
	if done != nil {
		e.log.Info().
			Str("finished", string(done.finished)).
			Str("next", string(done.next)).
			Msg("completed phase that expired while closed")
		if err := e.credit(*done, now); err != nil {
			return nil, err
		}
	}
	if err := st.SaveRuntime(e.state.runtime(now.UnixMilli())); err != nil {
		return nil, err
	}
	return e, nil
}

// Run starts the tick worker. It returns immediately; calling it again has
// no effect. The worker stops when ctx is cancelled or Close is called.
func (e *Engine) Run(ctx context.Context) {
	e.runOnce.Do(func() {
		ctx, e.cancel = context.WithCancel(ctx)
		e.done = make(chan struct{})
		go e.loop(ctx)
	})
}

func (e *Engine) loop(ctx context.Context) {
	defer close(e.done)
	ticker := time.NewTicker(e.opts.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.handleTick()
		}
	}
}

// Close stops the worker and persists the current position. Further
// commands fail with backend.ErrClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	rt := e.state.runtime(e.nowMs())
	e.mu.Unlock()

	if e.cancel != nil {
		e.cancel()
		<-e.done
	}
	return e.store.SaveRuntime(rt)
}

func (e *Engine) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

func (e *Engine) nowMs() int64 {
	return e.opts.Clock.Now().UnixMilli()
}

// handleTick advances a running phase whose end time has passed. Every tick
// of a running timer is published.
func (e *Engine) handleTick() {
	e.emitMu.Lock()
	e.mu.Lock()
	if e.closed || !e.state.isRunning {
		e.mu.Unlock()
		e.emitMu.Unlock()
		return
	}
	now := e.opts.Clock.Now()
	nowMs := now.UnixMilli()

	var done *completion
	if remaining := e.state.currentRemaining(nowMs); remaining > 0 {
		e.state.remainingMs = remaining
	} else {
		c := e.state.completePhase()
		done = &c
		if err := e.store.SaveRuntime(e.state.runtime(nowMs)); err != nil {
			e.log.Error().Err(err).Msg("persist runtime after completion")
		}
	}
	snap := e.state.snapshot(nowMs)
	e.mu.Unlock()

	e.ticks.emit(snap)
	e.emitMu.Unlock()
	if done == nil {
		return
	}

	e.log.Info().
		Str("finished", string(done.finished)).
		Str("next", string(done.next)).
		Int("cycle", snap.CycleCount).
		Msg("phase completed")
	if err := e.credit(*done, now); err != nil {
		e.log.Error().Err(err).Msg("record completion")
	}
	e.completed.emit(backend.PhaseCompleted{
		FinishedPhase: done.finished,
		NextPhase:     done.next,
		SoundEnabled:  done.settings.SoundEnabled,
	})
	if done.finished == countdown.Focus {
		e.publishInsights()
	}
}

// credit records a finished focus phase in the daily history and prunes days
// older than the retention window.
func (e *Engine) credit(c completion, now time.Time) error {
	if c.finished != countdown.Focus {
		return nil
	}
	today := calendar.FromTime(now)
	if err := e.store.RecordFocusCompletion(today, c.longCycle); err != nil {
		return err
	}
	cutoff, err := calendar.AddDays(today, -(e.opts.RetentionDays - 1))
	if err != nil {
		return err
	}
	n, err := e.store.PruneDailyMetrics(cutoff)
	if err != nil {
		return err
	}
	if n > 0 {
		e.log.Debug().Int64("rows", n).Str("cutoff", cutoff).Msg("pruned history")
	}
	return nil
}

func (e *Engine) publishInsights() {
	ins, err := e.GetInsights(context.Background())
	if err != nil {
		e.log.Error().Err(err).Msg("build insights")
		return
	}
	e.insights.emit(ins)
}

// mutate applies fn to the timer state under the lock, persists the result
// and publishes the new snapshot.
func (e *Engine) mutate(ctx context.Context, op string, fn func(t *timerState, now int64)) (countdown.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return countdown.Snapshot{}, err
	}
	e.emitMu.Lock()
	defer e.emitMu.Unlock()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return countdown.Snapshot{}, backend.ErrClosed
	}
	now := e.nowMs()
	prev := e.state
	fn(&e.state, now)
	if err := e.store.SaveRuntime(e.state.runtime(now)); err != nil {
		e.state = prev
		e.mu.Unlock()
		return countdown.Snapshot{}, fmt.Errorf("%s: %w", op, err)
	}
	snap := e.state.snapshot(now)
	e.mu.Unlock()

	e.log.Debug().
		Str("op", op).
		Str("phase", string(snap.Phase)).
		Bool("running", snap.IsRunning).
		Int64("remaining_ms", snap.RemainingMs).
		Msg("timer updated")
	e.ticks.emit(snap)
	return snap, nil
}

func (e *Engine) GetState(ctx context.Context) (countdown.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return countdown.Snapshot{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return countdown.Snapshot{}, backend.ErrClosed
	}
	return e.state.snapshot(e.nowMs()), nil
}

func (e *Engine) Start(ctx context.Context) (countdown.Snapshot, error) {
	return e.mutate(ctx, "start", func(t *timerState, now int64) { t.run(now) })
}

// Resume is Start under another name; both continue from the remaining time.
func (e *Engine) Resume(ctx context.Context) (countdown.Snapshot, error) {
	return e.mutate(ctx, "resume", func(t *timerState, now int64) { t.run(now) })
}

func (e *Engine) Pause(ctx context.Context) (countdown.Snapshot, error) {
	return e.mutate(ctx, "pause", func(t *timerState, now int64) { t.pause(now) })
}

func (e *Engine) Abandon(ctx context.Context) (countdown.Snapshot, error) {
	return e.mutate(ctx, "abandon", func(t *timerState, _ int64) { t.abandon() })
}

// Skip moves to the next phase without crediting the current one.
func (e *Engine) Skip(ctx context.Context) (countdown.Snapshot, error) {
	return e.mutate(ctx, "skip", func(t *timerState, _ int64) { t.completePhase() })
}

func (e *Engine) Reset(ctx context.Context) (countdown.Snapshot, error) {
	return e.mutate(ctx, "reset", func(t *timerState, _ int64) { t.reset() })
}

// UpdateSettings sanitizes and stores s. A running phase keeps its end time;
// a stopped one restarts from the new duration.
func (e *Engine) UpdateSettings(ctx context.Context, s countdown.Settings) (countdown.Snapshot, error) {
	s = countdown.SanitizeSettings(s)
	if err := e.store.SaveTimerSettings(s); err != nil {
		return countdown.Snapshot{}, fmt.Errorf("update settings: %w", err)
	}
	snap, err := e.mutate(ctx, "update settings", func(t *timerState, now int64) { t.applySettings(s, now) })
	if err != nil {
		return snap, err
	}
	// The locale decides the week boundary of the weekly summary.
	e.publishInsights()
	return snap, nil
}

func (e *Engine) UpdateGoals(ctx context.Context, g trends.GoalSettings) (backend.Insights, error) {
	if err := ctx.Err(); err != nil {
		return backend.Insights{}, err
	}
	if e.isClosed() {
		return backend.Insights{}, backend.ErrClosed
	}
	if err := e.store.SaveGoals(trends.SanitizeGoals(g)); err != nil {
		return backend.Insights{}, fmt.Errorf("update goals: %w", err)
	}
	ins, err := e.GetInsights(ctx)
	if err != nil {
		return ins, err
	}
	e.insights.emit(ins)
	return ins, nil
}

func (e *Engine) OnTick(handler func(countdown.Snapshot)) func() {
	return e.ticks.add(handler)
}

func (e *Engine) OnPhaseCompleted(handler func(backend.PhaseCompleted)) func() {
	return e.completed.add(handler)
}

func (e *Engine) OnInsightsUpdated(handler func(backend.Insights)) func() {
	return e.insights.add(handler)
}
