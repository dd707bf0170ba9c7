package trends

// GoalPair holds completion targets for one period.
type GoalPair struct {
	FocusTarget     int `json:"focusTarget"`
	LongCycleTarget int `json:"longCycleTarget"`
}

// GoalSettings holds targets for every period.
type GoalSettings struct {
	Daily   GoalPair `json:"daily"`
	Weekly  GoalPair `json:"weekly"`
	Monthly GoalPair `json:"monthly"`
}

// DefaultGoals returns the targets used until the user changes them.
func DefaultGoals() GoalSettings {
	return GoalSettings{
		Daily:   GoalPair{FocusTarget: 8, LongCycleTarget: 2},
		Weekly:  GoalPair{FocusTarget: 40, LongCycleTarget: 10},
		Monthly: GoalPair{FocusTarget: 160, LongCycleTarget: 40},
	}
}

// SanitizeGoals replaces every non-positive target with its default.
func SanitizeGoals(g GoalSettings) GoalSettings {
	def := DefaultGoals()
	return GoalSettings{
		Daily:   sanitizePair(g.Daily, def.Daily),
		Weekly:  sanitizePair(g.Weekly, def.Weekly),
		Monthly: sanitizePair(g.Monthly, def.Monthly),
	}
}

func sanitizePair(p, fallback GoalPair) GoalPair {
	if p.FocusTarget <= 0 {
		p.FocusTarget = fallback.FocusTarget
	}
	if p.LongCycleTarget <= 0 {
		p.LongCycleTarget = fallback.LongCycleTarget
	}
	return p
}

// PeriodSummary is progress toward the goals of one period.
type PeriodSummary struct {
	FocusCompleted     int     `json:"focusCompleted"`
	LongCycleCompleted int     `json:"longCycleCompleted"`
	FocusTarget        int     `json:"focusTarget"`
	LongCycleTarget    int     `json:"longCycleTarget"`
	FocusRate          float64 `json:"focusRate"`
	LongCycleRate      float64 `json:"longCycleRate"`
	Completed          bool    `json:"completed"`
}

// PeriodSummaries groups the summaries for today, this week and this month.
type PeriodSummaries struct {
	Daily   PeriodSummary `json:"daily"`
	Weekly  PeriodSummary `json:"weekly"`
	Monthly PeriodSummary `json:"monthly"`
}

// Rate returns completed/target capped at 1. Targets below 1 count as 1.
func Rate(completed, target int) float64 {
	target = max(target, 1)
	r := float64(completed) / float64(target)
	if r > 1 {
		return 1
	}
	if r < 0 {
		return 0
	}
	return r
}

// Summarize builds the summary of a period from its completion counts.
func Summarize(focusCompleted, longCycleCompleted int, goal GoalPair) PeriodSummary {
	focusTarget := max(goal.FocusTarget, 1)
	longTarget := max(goal.LongCycleTarget, 1)
	return PeriodSummary{
		FocusCompleted:     focusCompleted,
		LongCycleCompleted: longCycleCompleted,
		FocusTarget:        focusTarget,
		LongCycleTarget:    longTarget,
		FocusRate:          Rate(focusCompleted, focusTarget),
		LongCycleRate:      Rate(longCycleCompleted, longTarget),
		Completed:          focusCompleted >= focusTarget && longCycleCompleted >= longTarget,
	}
}
