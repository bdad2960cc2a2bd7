package achievement

// CheckInput is a snapshot of the progress state an unlock decision needs.
// All fields reflect state AFTER the triggering event (e.g. the completion
// count includes the completion that triggered the check).
type CheckInput struct {
	// CompletionCount is the user's counted completions (auto-approved or
	// validated).
	CompletionCount int

	// Streak is the current consecutive-day streak.
	Streak int

	// CurrentLevel is the user's level after the triggering XP change.
	CurrentLevel int

	// JustLeveledUp is true when the triggering event raised the level.
	JustLeveledUp bool

	// Held are the achievement types the user already holds.
	Held []Type
}

// Milestone thresholds.
const (
	tenTrainings     = 10
	fiftyTrainings   = 50
	hundredTrainings = 100
	weekStreak       = 7
	monthStreak      = 30
	expertLevel      = 5
	mythicLevel      = 10
)

// Check returns the types newly unlocked by this state, excluding anything
// already held. Pure function; calling it twice with the same input (the
// second time with the first call's awards included in Held) returns nothing.
func Check(in CheckInput) []Type {
	held := make(map[Type]struct{}, len(in.Held))
	for _, t := range in.Held {
		held[t] = struct{}{}
	}

	var unlocked []Type
	award := func(t Type, condition bool) {
		if !condition {
			return
		}
		if _, ok := held[t]; ok {
			return
		}
		unlocked = append(unlocked, t)
	}

	// First training fires only on the exact first counted completion.
	award(TypeFirstTraining, in.CompletionCount == 1)

	// Completion milestones.
	award(TypeTenTrainings, in.CompletionCount >= tenTrainings)
	award(TypeFiftyTrainings, in.CompletionCount >= fiftyTrainings)
	award(TypeHundredTrainings, in.CompletionCount >= hundredTrainings)

	// Streak badges.
	award(TypeSevenDayStreak, in.Streak >= weekStreak)
	award(TypeThirtyDayStreak, in.Streak >= monthStreak)

	// Level badges. LevelUp is one-time regardless of which level was reached.
	award(TypeLevelUp, in.JustLeveledUp)
	award(TypeLevel5, in.CurrentLevel >= expertLevel)
	award(TypeLevel10, in.CurrentLevel >= mythicLevel)

	return unlocked
}
