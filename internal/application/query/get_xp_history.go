package query

import (
	"context"
	"fmt"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/progression"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
)

// Default and maximum page size for the XP ledger read.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

// GetXpHistoryQuery identifies the athlete and an optional limit.
type GetXpHistoryQuery struct {
	UserID string

	// Limit caps the number of entries; 0 means DefaultHistoryLimit.
	Limit int
}

// Validate validates the query.
func (q GetXpHistoryQuery) Validate() error {
	if _, err := shared.NewUserID(q.UserID); err != nil {
		return err
	}
	if q.Limit < 0 {
		return shared.NewDomainError("progression", "History", shared.ErrNegativeValue, "limit cannot be negative")
	}
	return nil
}

// GetXpHistoryHandler handles the GetXpHistoryQuery.
type GetXpHistoryHandler struct {
	progressRepo progression.Repository
}

// NewGetXpHistoryHandler creates the handler with its dependencies.
func NewGetXpHistoryHandler(progressRepo progression.Repository) *GetXpHistoryHandler {
	return &GetXpHistoryHandler{progressRepo: progressRepo}
}

// Handle executes the query. Entries come back newest first.
func (h *GetXpHistoryHandler) Handle(ctx context.Context, q GetXpHistoryQuery) ([]*progression.XpTransaction, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	history, err := h.progressRepo.GetXpHistory(ctx, shared.UserID(q.UserID), limit)
	if err != nil {
		return nil, fmt.Errorf("get XP history: %w", err)
	}
	return history, nil
}
