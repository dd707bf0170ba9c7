package trends

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRate(t *testing.T) {
	assert.Equal(t, 0.5, Rate(4, 8))
	assert.Equal(t, 1.0, Rate(12, 8))
	assert.Equal(t, 0.0, Rate(0, 8))
	assert.Equal(t, 1.0, Rate(1, 0), "zero target is treated as one")
	assert.Equal(t, 1.0, Rate(3, -5))
	assert.Equal(t, 0.0, Rate(-2, 4))
}

func TestSummarize(t *testing.T) {
	s := Summarize(8, 1, GoalPair{FocusTarget: 8, LongCycleTarget: 2})
	assert.Equal(t, 1.0, s.FocusRate)
	assert.Equal(t, 0.5, s.LongCycleRate)
	assert.False(t, s.Completed)

	s = Summarize(8, 2, GoalPair{FocusTarget: 8, LongCycleTarget: 2})
	assert.True(t, s.Completed)

	s = Summarize(0, 0, GoalPair{})
	assert.Equal(t, 1, s.FocusTarget)
	assert.Equal(t, 1, s.LongCycleTarget)
	assert.False(t, s.Completed)
}

func TestSanitizeGoals(t *testing.T) {
	in := GoalSettings{
		Daily:   GoalPair{FocusTarget: 0, LongCycleTarget: 3},
		Weekly:  GoalPair{FocusTarget: -1, LongCycleTarget: -1},
		Monthly: GoalPair{FocusTarget: 100, LongCycleTarget: 20},
	}
	got := SanitizeGoals(in)
	def := DefaultGoals()
	assert.Equal(t, GoalPair{FocusTarget: def.Daily.FocusTarget, LongCycleTarget: 3}, got.Daily)
	assert.Equal(t, def.Weekly, got.Weekly)
	assert.Equal(t, in.Monthly, got.Monthly)
}
