package query

import (
	"context"
	"fmt"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/achievement"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
)

// GetAchievementsQuery identifies the athlete.
type GetAchievementsQuery struct {
	UserID string
}

// Validate validates the query.
func (q GetAchievementsQuery) Validate() error {
	_, err := shared.NewUserID(q.UserID)
	return err
}

// GetAchievementsHandler handles achievement reads.
type GetAchievementsHandler struct {
	achievementRepo achievement.Repository
}

// NewGetAchievementsHandler creates the handler with its dependencies.
func NewGetAchievementsHandler(achievementRepo achievement.Repository) *GetAchievementsHandler {
	return &GetAchievementsHandler{achievementRepo: achievementRepo}
}

// Handle returns the user's earned achievements, newest first.
func (h *GetAchievementsHandler) Handle(ctx context.Context, q GetAchievementsQuery) ([]*achievement.Achievement, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	earned, err := h.achievementRepo.ListByUser(ctx, shared.UserID(q.UserID))
	if err != nil {
		return nil, fmt.Errorf("get achievements: %w", err)
	}
	return earned, nil
}

// HandleAllStatuses joins the full catalog against the user's earned badges,
// in catalog order, so locked badges show up with Earned=false.
func (h *GetAchievementsHandler) HandleAllStatuses(ctx context.Context, q GetAchievementsQuery) ([]achievement.Status, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	earned, err := h.achievementRepo.ListByUser(ctx, shared.UserID(q.UserID))
	if err != nil {
		return nil, fmt.Errorf("get achievement statuses: %w", err)
	}

	byType := make(map[achievement.Type]*achievement.Achievement, len(earned))
	for _, a := range earned {
		byType[a.AchievementType] = a
	}

	statuses := make([]achievement.Status, 0, len(achievement.Catalog))
	for _, def := range achievement.Catalog {
		status := achievement.Status{Definition: def}
		if a, ok := byType[def.Type]; ok {
			status.Earned = true
			awardedAt := a.AwardedAt
			status.AwardedAt = &awardedAt
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
