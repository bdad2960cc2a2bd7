// Package achievement contains the badge catalog and the pure unlock checker.
// This is a pure domain layer with zero external dependencies beyond shared.
package achievement

import (
	"time"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
)

// Type identifies an achievement in the static catalog.
type Type string

// The full badge catalog. A user holds at most one badge per type.
const (
	TypeFirstTraining    Type = "first_training"
	TypeSevenDayStreak   Type = "7_day_streak"
	TypeThirtyDayStreak  Type = "30_day_streak"
	TypeTenTrainings     Type = "10_trainings"
	TypeFiftyTrainings   Type = "50_trainings"
	TypeHundredTrainings Type = "100_trainings"
	TypeLevelUp          Type = "level_up"
	TypeLevel5           Type = "level_5"
	TypeLevel10          Type = "level_10"
)

// String returns the string representation.
func (t Type) String() string {
	return string(t)
}

// Definition is the display metadata for one achievement type.
type Definition struct {
	Type        Type
	Name        string
	Description string
}

// Catalog is the ordered, compiled-in achievement catalog.
// Order is the display order for the full-status listing.
var Catalog = []Definition{
	{TypeFirstTraining, "First Steps", "Complete your first training"},
	{TypeTenTrainings, "Getting Started", "Complete 10 trainings"},
	{TypeFiftyTrainings, "Dedicated", "Complete 50 trainings"},
	{TypeHundredTrainings, "Centurion", "Complete 100 trainings"},
	{TypeSevenDayStreak, "Week Warrior", "Complete trainings 7 days in a row"},
	{TypeThirtyDayStreak, "Monthly Master", "Complete trainings 30 days in a row"},
	{TypeLevelUp, "Level Up!", "Reach a new level"},
	{TypeLevel5, "Expert Tier", "Reach level 5"},
	{TypeLevel10, "Mythic Status", "Reach level 10"},
}

// Lookup returns the definition for a type.
func Lookup(t Type) (Definition, error) {
	for _, def := range Catalog {
		if def.Type == t {
			return def, nil
		}
	}
	return Definition{}, shared.ErrUnknownAchievement
}

// Achievement is a badge awarded to a user. Immutable once awarded.
type Achievement struct {
	ID              int64
	UserID          shared.UserID
	AchievementType Type
	Name            string
	Description     string
	AwardedAt       time.Time
}

// New builds an unsaved achievement from the catalog.
func New(userID shared.UserID, t Type, now time.Time) (*Achievement, error) {
	def, err := Lookup(t)
	if err != nil {
		return nil, err
	}
	return &Achievement{
		UserID:          userID,
		AchievementType: t,
		Name:            def.Name,
		Description:     def.Description,
		AwardedAt:       now,
	}, nil
}

// Status pairs a catalog entry with a user's earned state.
type Status struct {
	Definition
	Earned    bool
	AwardedAt *time.Time
}
