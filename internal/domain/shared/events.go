// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the event-driven parts of the engine.
// Each event represents something significant that happened in the domain.
const (
	// Progression events
	EventXPChanged EventType = "progression.xp_changed"
	EventLevelUp   EventType = "progression.level_up"

	// Training events
	EventTrainingCompleted   EventType = "training.completed"
	EventCompletionValidated EventType = "training.completion_validated"
	EventCompletionRejected  EventType = "training.completion_rejected"
	EventExerciseLogged      EventType = "training.exercise_logged"

	// Achievement events
	EventAchievementUnlocked EventType = "achievement.unlocked"

	// Leaderboard events
	EventLeaderboardRebuilt EventType = "leaderboard.rebuilt"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// EventHandler processes a single domain event.
type EventHandler interface {
	Handle(event Event) error
}

// EventHandlerFunc adapts a plain function to the EventHandler interface.
type EventHandlerFunc func(event Event) error

// Handle implements EventHandler.
func (f EventHandlerFunc) Handle(event Event) error {
	return f(event)
}

// EventPublisher publishes domain events to interested subscribers.
type EventPublisher interface {
	Publish(event Event) error
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// ═══════════════════════════════════════════════════════════════════════════
// Concrete events
// ═══════════════════════════════════════════════════════════════════════════

// XPChangedEvent is published on every XP mutation (award, bonus, adjustment, reset).
type XPChangedEvent struct {
	BaseEvent
	UserID    string
	Delta     int
	XPBefore  int
	XPAfter   int
	NewLevel  int
	LeveledUp bool
	Reason    string
}

// NewXPChangedEvent creates an XPChangedEvent for a user.
func NewXPChangedEvent(userID string, delta, before, after, newLevel int, leveledUp bool, reason string) XPChangedEvent {
	return XPChangedEvent{
		BaseEvent: BaseEvent{Type: EventXPChanged, Timestamp: time.Now().UTC(), AggregateId: userID},
		UserID:    userID,
		Delta:     delta,
		XPBefore:  before,
		XPAfter:   after,
		NewLevel:  newLevel,
		LeveledUp: leveledUp,
		Reason:    reason,
	}
}

// Payload implements Event interface.
func (e XPChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":    e.UserID,
		"delta":      e.Delta,
		"xp_before":  e.XPBefore,
		"xp_after":   e.XPAfter,
		"new_level":  e.NewLevel,
		"leveled_up": e.LeveledUp,
		"reason":     e.Reason,
	}
}

// LevelUpEvent is published when a user's level increases.
type LevelUpEvent struct {
	BaseEvent
	UserID   string
	OldLevel int
	NewLevel int
	TotalXP  int
}

// NewLevelUpEvent creates a LevelUpEvent for a user.
func NewLevelUpEvent(userID string, oldLevel, newLevel, totalXP int) LevelUpEvent {
	return LevelUpEvent{
		BaseEvent: BaseEvent{Type: EventLevelUp, Timestamp: time.Now().UTC(), AggregateId: userID},
		UserID:    userID,
		OldLevel:  oldLevel,
		NewLevel:  newLevel,
		TotalXP:   totalXP,
	}
}

// Payload implements Event interface.
func (e LevelUpEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":   e.UserID,
		"old_level": e.OldLevel,
		"new_level": e.NewLevel,
		"total_xp":  e.TotalXP,
	}
}

// TrainingCompletedEvent is published when a user records a training completion.
type TrainingCompletedEvent struct {
	BaseEvent
	UserID       string
	TrainingID   string
	CompletionID string
	Status       string
	XPGranted    int
}

// NewTrainingCompletedEvent creates a TrainingCompletedEvent.
func NewTrainingCompletedEvent(userID, trainingID, completionID, status string, xpGranted int) TrainingCompletedEvent {
	return TrainingCompletedEvent{
		BaseEvent:    BaseEvent{Type: EventTrainingCompleted, Timestamp: time.Now().UTC(), AggregateId: completionID},
		UserID:       userID,
		TrainingID:   trainingID,
		CompletionID: completionID,
		Status:       status,
		XPGranted:    xpGranted,
	}
}

// Payload implements Event interface.
func (e TrainingCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":       e.UserID,
		"training_id":   e.TrainingID,
		"completion_id": e.CompletionID,
		"status":        e.Status,
		"xp_granted":    e.XPGranted,
	}
}

// CompletionValidatedEvent is published when a trainer resolves a pending completion.
type CompletionValidatedEvent struct {
	BaseEvent
	CompletionID string
	UserID       string
	TrainerID    string
	Approved     bool
	XPGranted    int
}

// NewCompletionValidatedEvent creates a CompletionValidatedEvent.
func NewCompletionValidatedEvent(completionID, userID, trainerID string, approved bool, xpGranted int) CompletionValidatedEvent {
	eventType := EventCompletionValidated
	if !approved {
		eventType = EventCompletionRejected
	}
	return CompletionValidatedEvent{
		BaseEvent:    BaseEvent{Type: eventType, Timestamp: time.Now().UTC(), AggregateId: completionID},
		CompletionID: completionID,
		UserID:       userID,
		TrainerID:    trainerID,
		Approved:     approved,
		XPGranted:    xpGranted,
	}
}

// Payload implements Event interface.
func (e CompletionValidatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"completion_id": e.CompletionID,
		"user_id":       e.UserID,
		"trainer_id":    e.TrainerID,
		"approved":      e.Approved,
		"xp_granted":    e.XPGranted,
	}
}

// ExerciseLoggedEvent is published when an athlete logs a standalone exercise.
type ExerciseLoggedEvent struct {
	BaseEvent
	UserID     string
	ExerciseID string
	LogID      string
	Points     int
}

// NewExerciseLoggedEvent creates an ExerciseLoggedEvent.
func NewExerciseLoggedEvent(userID, exerciseID, logID string, points int) ExerciseLoggedEvent {
	return ExerciseLoggedEvent{
		BaseEvent:  BaseEvent{Type: EventExerciseLogged, Timestamp: time.Now().UTC(), AggregateId: logID},
		UserID:     userID,
		ExerciseID: exerciseID,
		LogID:      logID,
		Points:     points,
	}
}

// Payload implements Event interface.
func (e ExerciseLoggedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":     e.UserID,
		"exercise_id": e.ExerciseID,
		"log_id":      e.LogID,
		"points":      e.Points,
	}
}

// LeaderboardRebuiltEvent is published after a full ranking rebuild.
type LeaderboardRebuiltEvent struct {
	BaseEvent
	UserCount int
}

// NewLeaderboardRebuiltEvent creates a LeaderboardRebuiltEvent.
func NewLeaderboardRebuiltEvent(userCount int) LeaderboardRebuiltEvent {
	return LeaderboardRebuiltEvent{
		BaseEvent: BaseEvent{Type: EventLeaderboardRebuilt, Timestamp: time.Now().UTC(), AggregateId: "leaderboard"},
		UserCount: userCount,
	}
}

// Payload implements Event interface.
func (e LeaderboardRebuiltEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_count": e.UserCount,
	}
}

// AchievementUnlockedEvent is published for each newly awarded badge.
type AchievementUnlockedEvent struct {
	BaseEvent
	UserID          string
	AchievementType string
	Name            string
}

// NewAchievementUnlockedEvent creates an AchievementUnlockedEvent.
func NewAchievementUnlockedEvent(userID, achievementType, name string) AchievementUnlockedEvent {
	return AchievementUnlockedEvent{
		BaseEvent:       BaseEvent{Type: EventAchievementUnlocked, Timestamp: time.Now().UTC(), AggregateId: userID},
		UserID:          userID,
		AchievementType: achievementType,
		Name:            name,
	}
}

// Payload implements Event interface.
func (e AchievementUnlockedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":          e.UserID,
		"achievement_type": e.AchievementType,
		"name":             e.Name,
	}
}
