package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanTier(t *testing.T) {
	tests := []struct {
		name string
		plan *Plan
		want string
	}{
		{"nil plan", nil, TierNone},
		{"explicit tier wins", &Plan{Tier: " Pro ", MaxStudents: 10}, TierPro},
		{"unknown tier falls back to capacity", &Plan{Tier: "gold", MaxStudents: 600}, TierPremium},
		{"trial flag", &Plan{IsTrial: true, MaxStudents: 20}, TierTrial},
		{"pro by capacity", &Plan{MaxStudents: 200}, TierPro},
		{"basic by capacity", &Plan{MaxStudents: 50}, TierBasic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlanTier(tt.plan))
		})
	}
}
