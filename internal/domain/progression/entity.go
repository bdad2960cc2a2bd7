package progression

import (
	"time"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// USER LEVEL AGGREGATE
// ═══════════════════════════════════════════════════════════════════════════

// UserLevel tracks a user's total XP and derived level. Exactly one row
// exists per user (unique constraint at the storage layer).
//
// CurrentLevel is always LevelFromXP(TotalXp) - it is recomputed on every
// mutation and never set directly by callers.
type UserLevel struct {
	UserID       shared.UserID
	CurrentLevel int
	TotalXp      int
	LastUpdated  time.Time
}

// NewUserLevel returns the default level record for a user who has no XP yet.
func NewUserLevel(userID shared.UserID) *UserLevel {
	return &UserLevel{
		UserID:       userID,
		CurrentLevel: 1,
		TotalXp:      0,
		LastUpdated:  time.Now().UTC(),
	}
}

// ApplyDelta mutates the aggregate: clamps the new total at zero, recomputes
// the level, and stamps LastUpdated. Returns the ledger deltas.
func (ul *UserLevel) ApplyDelta(delta int, now time.Time) (xpBefore, xpAfter int, leveledUp bool) {
	xpBefore = ul.TotalXp
	oldLevel := ul.CurrentLevel

	xpAfter = ul.TotalXp + delta
	if xpAfter < 0 {
		xpAfter = 0
	}

	ul.TotalXp = xpAfter
	ul.CurrentLevel = LevelFromXP(xpAfter)
	ul.LastUpdated = now

	return xpBefore, xpAfter, ul.CurrentLevel > oldLevel
}

// SetTotal overwrites the total (reset semantics: absolute, not additive),
// recomputes the level, and returns the implied delta for the ledger.
func (ul *UserLevel) SetTotal(target int, now time.Time) (delta int) {
	if target < 0 {
		target = 0
	}
	delta = target - ul.TotalXp
	ul.TotalXp = target
	ul.CurrentLevel = LevelFromXP(target)
	ul.LastUpdated = now
	return delta
}

// ═══════════════════════════════════════════════════════════════════════════
// XP TRANSACTION LEDGER
// ═══════════════════════════════════════════════════════════════════════════

// TransactionType classifies an XP ledger entry.
type TransactionType string

const (
	TransactionTrainingCompletion TransactionType = "training_completion"
	TransactionBonusFromTrainer   TransactionType = "bonus_from_trainer"
	TransactionReset              TransactionType = "reset"
	TransactionAdjustment         TransactionType = "adjustment"
)

// ParseTransactionType parses a stored string into a TransactionType.
// Unknown input is an error, never a silent default.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TransactionTrainingCompletion, TransactionBonusFromTrainer, TransactionReset, TransactionAdjustment:
		return TransactionType(s), nil
	default:
		return "", shared.ErrUnknownTransaction
	}
}

// String returns the string representation.
func (t TransactionType) String() string {
	return string(t)
}

// XpTransaction is one append-only entry in the XP audit ledger.
// Entries are never mutated or deleted after creation. XpAfter of one entry
// need not equal XpBefore of the chronologically next one when concurrent
// writers interleave; each entry is only consistent with its own before/after.
type XpTransaction struct {
	ID                  int64
	UserID              shared.UserID
	TransactionType     TransactionType
	SourceID            string // completion ID for training awards, empty otherwise
	XpDelta             int
	XpBefore            int
	XpAfter             int
	Reason              string
	AwardedByTrainerID  shared.TrainerID // empty when system-generated
	AwardedByTrainerName string          // resolved on read, not stored
	CreatedAt           time.Time
}
