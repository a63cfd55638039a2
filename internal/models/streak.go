package models

// StreakRecord is the per-habit streak aggregate. It is mutated only through
// the streak engine's transition function; UI code treats it as read-only.
type StreakRecord struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
	// LastCompletedDate is a calendar day (YYYY-MM-DD) in the user's
	// reference timezone, empty before the first completion.
	LastCompletedDate string `json:"last_completed_date,omitempty"`
}

// Milestone is a fixed streak threshold with a display name.
type Milestone struct {
	Days int    `json:"days"`
	Name string `json:"name"`
}

// StreakUpdate is the result of applying one completion to a StreakRecord.
type StreakUpdate struct {
	Record      StreakRecord `json:"record"`
	WasReset    bool         `json:"was_reset"`
	IsMilestone bool         `json:"is_milestone"`
	Milestone   *Milestone   `json:"milestone,omitempty"`
	// Encouragement is set only when the streak was reset.
	Encouragement string `json:"encouragement,omitempty"`
}

// StreakInfo is the read-only status derivation used for display.
type StreakInfo struct {
	CurrentStreak  int  `json:"current_streak"`
	LongestStreak  int  `json:"longest_streak"`
	CompletedToday bool `json:"completed_today"`
	// AtRisk means the streak lapses if today ends without a completion.
	AtRisk        bool       `json:"at_risk"`
	NextMilestone *Milestone `json:"next_milestone,omitempty"`
	// MilestoneProgress is the 0-1 fraction of the way from the previous
	// milestone to the next one.
	MilestoneProgress float64 `json:"milestone_progress"`
}
