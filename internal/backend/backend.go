// Package backend defines the request/response and subscription contract
// between the timer client and the component that owns timer state.
package backend

import (
	"context"
	"errors"

	"github.com/sadopc/pomotrend/internal/countdown"
	"github.com/sadopc/pomotrend/internal/trends"
)

var ErrClosed = errors.New("backend closed")

// Insights is the productivity data shown on the insights view.
type Insights struct {
	Heatmap   []trends.HeatmapDay    `json:"heatmap"`
	Summaries trends.PeriodSummaries `json:"summaries"`
	Goals     trends.GoalSettings    `json:"goals"`
}

// PhaseCompleted is published once per phase transition.
type PhaseCompleted struct {
	FinishedPhase countdown.Phase `json:"finishedPhase"`
	NextPhase     countdown.Phase `json:"nextPhase"`
	SoundEnabled  bool            `json:"soundEnabled"`
}

// Backend owns the timer state machine and productivity history.
// Subscription methods return a function that removes the handler; calling
// it more than once is a no-op.
type Backend interface {
	GetState(ctx context.Context) (countdown.Snapshot, error)
	GetInsights(ctx context.Context) (Insights, error)

	Start(ctx context.Context) (countdown.Snapshot, error)
	Resume(ctx context.Context) (countdown.Snapshot, error)
	Pause(ctx context.Context) (countdown.Snapshot, error)
	Abandon(ctx context.Context) (countdown.Snapshot, error)
	Skip(ctx context.Context) (countdown.Snapshot, error)
	Reset(ctx context.Context) (countdown.Snapshot, error)

	UpdateSettings(ctx context.Context, s countdown.Settings) (countdown.Snapshot, error)
	UpdateGoals(ctx context.Context, g trends.GoalSettings) (Insights, error)

	// OnTick delivers snapshots in the order the state produced them. The
	// handler runs on the publishing goroutine and must not issue commands.
	OnTick(handler func(countdown.Snapshot)) (unsubscribe func())
	OnPhaseCompleted(handler func(PhaseCompleted)) (unsubscribe func())
	OnInsightsUpdated(handler func(Insights)) (unsubscribe func())
}
