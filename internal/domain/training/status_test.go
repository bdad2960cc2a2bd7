package training

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
)

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusPending, InitialStatus(true))
	assert.Equal(t, StatusAutoApproved, InitialStatus(false))
}

func TestParseValidationStatus(t *testing.T) {
	for _, s := range []string{"auto_approved", "pending", "validated", "rejected"} {
		parsed, err := ParseValidationStatus(s)
		assert.NoError(t, err)
		assert.Equal(t, s, parsed.String())
	}

	_, err := ParseValidationStatus("approved")
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)

	_, err = ParseValidationStatus("")
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestValidationStatus_IsCounted(t *testing.T) {
	assert.True(t, StatusAutoApproved.IsCounted())
	assert.True(t, StatusValidated.IsCounted())
	assert.False(t, StatusPending.IsCounted())
	assert.False(t, StatusRejected.IsCounted())
}

func TestValidationStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusAutoApproved.IsTerminal())
	assert.True(t, StatusValidated.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
}

func TestResolve_PendingTransitions(t *testing.T) {
	approved, err := StatusPending.Resolve(true)
	assert.NoError(t, err)
	assert.Equal(t, StatusValidated, approved)

	rejected, err := StatusPending.Resolve(false)
	assert.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected)
}

func TestResolve_TerminalStatesRefuse(t *testing.T) {
	// Auto-approved never required validation.
	_, err := StatusAutoApproved.Resolve(true)
	assert.ErrorIs(t, err, shared.ErrNotPending)

	// Already-resolved completions stay resolved.
	_, err = StatusValidated.Resolve(true)
	assert.ErrorIs(t, err, shared.ErrAlreadyResolved)

	_, err = StatusRejected.Resolve(false)
	assert.ErrorIs(t, err, shared.ErrAlreadyResolved)
}
