package upgrades

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusApproved))
	assert.True(t, StatusPending.CanTransitionTo(StatusRejected))
	assert.False(t, StatusPending.CanTransitionTo(StatusPending))

	for _, from := range []Status{StatusApproved, StatusRejected} {
		for _, to := range []Status{StatusPending, StatusApproved, StatusRejected} {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
		assert.True(t, from.IsTerminal())
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(fmt.Errorf("approve 7: %w", ErrContention)))
	assert.False(t, IsRetryable(ErrDuplicateRequest))
	assert.False(t, IsRetryable(nil))
}

func TestInputNormalize(t *testing.T) {
	in := CreateRequestInput{RequestedPlanID: 2, Notes: "  need room for a new class \n"}
	in.Normalize()
	assert.Equal(t, "need room for a new class", in.Notes)

	d := DecisionInput{AdminNotes: strings.Repeat("é", maxNotesLen+10)}
	d.Normalize()
	assert.Len(t, []rune(d.AdminNotes), maxNotesLen)
}
